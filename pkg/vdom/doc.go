// Package vdom implements the virtual-DOM reconciler: VNode
// construction, the keyed/unkeyed children diff (two-ended shrink plus
// a longest-increasing-subsequence minimal-move pass), the block fast
// path over dynamicChildren, component instance lifecycle, and a
// KeepAlive LRU cache for deactivated component subtrees.
//
// vdom knows nothing about template source text — it consumes render
// functions (however produced, whether hand-written or emitted by
// package codegen) and drives a Renderer, the host's opaque mutation
// primitives. Reactive scheduling of component re-renders is provided
// by package reactive; vdom wires a component's render function into
// an Effect and lets the scheduler decide when it runs.
package vdom
