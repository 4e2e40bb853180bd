// Package reactive implements the dependency-tracking reactivity kernel:
// typed reactive containers (Signal, Collection), derived computations
// (Computed), side effects (Effect), component-scoped ownership (Owner),
// and the microtask-draining job scheduler that ties signal writes to
// component re-renders.
//
// The kernel is stateless toward the UI: it knows nothing about VNodes,
// templates, or hosts. It only tracks reads, queues effects, and
// schedules work. See package vdom for the consumer of this package.
//
// Go has no transparent object proxies, so this package follows the
// substitution the framework's own design notes call for: instead of
// wrapping arbitrary objects, callers use Signal[T] for a single
// reactive value and Collection[K, V] for a reactive dictionary or
// sequence, each with explicit Get/Set-style methods. Track-on-read and
// trigger-on-write semantics are identical to a proxy-based system.
package reactive
