package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // <!-- ... -->, skipped by the host but diffed
	KindFragment               // Grouping without a wrapper element
	KindComponent              // Nested component instance
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Props holds attributes and event handlers keyed by name. A key
// prefixed "on" (case-insensitive) is treated as an event handler and
// never mirrored onto the host element as an attribute.
type Props map[string]any

// VNode is the virtual DOM node produced by a render function. It
// plays the role the original's reactive proxy object plays: every
// field the reconciler reads during a diff is plain data, fixed at
// creation time, never mutated in place except by the reconciler
// itself (the instance and el back-references).
type VNode struct {
	Kind VKind
	Tag  string // element tag name, or component display name
	Key  any    // reconciliation key; nil means unkeyed

	Props    Props
	Children []*VNode
	Text     string // KindText/KindComment content, or an element's single text child

	// PatchFlag and ShapeFlag are assigned by the code generator (or,
	// for hand-written trees, by NewElement, NewElementText and the
	// shapeFlag argument of NewComponentNode) and consumed by
	// patch/diff to skip static facets.
	PatchFlag PatchFlag
	ShapeFlag ShapeFlag

	// DynamicProps names the subset of Props the generator proved are
	// the only ones that can change between renders of this VNode;
	// populated only when PatchFlag has FlagProps set.
	DynamicProps []string

	// DynamicChildren is the flattened list of descendant VNodes the
	// generator proved are the only ones that can change inside this
	// subtree — the block fast path walks this list directly instead
	// of re-diffing every child. nil outside of block scope.
	DynamicChildren []*VNode

	Comp Component // set when Kind == KindComponent

	// instance is the live component instance backing this VNode once
	// mounted; nil before mount and for non-component kinds.
	instance *Instance

	// el is the host-renderer handle for the node actually inserted
	// into the host tree. For fragments and components it is the
	// handle of their first host descendant, used as an anchor.
	el any
}

// Component is anything that can render to a VNode given its current
// props. The usual implementation is *FuncComponent, built with Func;
// other types may implement it directly.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a component's setup function: called once per
// instance with a reactive accessor for its current props, it returns
// the render closure the instance re-invokes on every update. Reading
// props() inside the render closure (directly, or through a Computed
// built from it) makes the component re-render when a parent passes
// new props, the same track-on-read path a Signal read uses.
type FuncComponent struct {
	Name  string
	Setup func(props func() Props) func() *VNode
}

// Render is a convenience for trees built without an Instance — tests
// and hand-written trees that only need the static shape, with a
// fixed, non-reactive props value.
func (f *FuncComponent) Render() *VNode {
	if f.Setup == nil {
		return nil
	}
	render := f.Setup(func() Props { return nil })
	if render == nil {
		return nil
	}
	return render()
}

// Func creates a component from a setup function.
func Func(name string, setup func(props func() Props) func() *VNode) *FuncComponent {
	return &FuncComponent{Name: name, Setup: setup}
}

// IsInteractive reports whether this element node has at least one
// event handler prop and therefore needs hydration wiring.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if isEventHandler(key) {
			return true
		}
	}
	return false
}

// isEventHandler reports whether key names an event handler prop
// rather than a plain attribute.
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// HostNode returns the host-renderer handle backing v, or nil if v is
// not yet mounted.
func (v *VNode) HostNode() any {
	if v == nil {
		return nil
	}
	return v.el
}

// Instance returns the live component instance backing v, or nil for
// non-component VNodes and unmounted ones.
func (v *VNode) Instance() *Instance {
	if v == nil {
		return nil
	}
	return v.instance
}

// NewElement builds an element VNode, inferring ShapeElement and the
// text/array children shape flags from the arguments given.
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	n := &VNode{
		Kind:      KindElement,
		Tag:       tag,
		Props:     props,
		Children:  children,
		ShapeFlag: ShapeElement,
	}
	if len(children) > 0 {
		n.ShapeFlag |= ShapeArrayChildren
	}
	return n
}

// NewElementText builds an element whose only child is a single
// dynamic text run, the fast path that skips per-child VNodes and
// patches via SetElementText/SetText directly.
func NewElementText(tag string, props Props, text string) *VNode {
	return &VNode{
		Kind:      KindElement,
		Tag:       tag,
		Props:     props,
		Text:      text,
		PatchFlag: FlagText,
		ShapeFlag: ShapeElement | ShapeTextChildren,
	}
}

// NewText builds a text VNode.
func NewText(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// NewComment builds a comment VNode, used as a stable placeholder for
// an empty conditional branch so the position survives future diffs.
func NewComment(text string) *VNode {
	return &VNode{Kind: KindComment, Text: text}
}

// NewFragment builds a fragment VNode grouping children without a
// wrapper host element.
func NewFragment(key any, children ...*VNode) *VNode {
	return &VNode{Kind: KindFragment, Key: key, Children: children}
}

// NewComponentNode builds a component VNode. shapeFlag should carry
// ShapeStatefulComponent or ShapeFunctionalComponent as appropriate.
func NewComponentNode(comp Component, shapeFlag ShapeFlag, props Props, key any) *VNode {
	return &VNode{
		Kind:      KindComponent,
		Comp:      comp,
		Props:     props,
		Key:       key,
		ShapeFlag: shapeFlag,
	}
}

// sameVNodeType reports whether two VNodes occupy the same reconciler
// slot (same kind, same tag/component identity, same key) and can
// therefore be patched in place rather than replaced.
func sameVNodeType(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return sameComponentIdentity(a.Comp, b.Comp)
	default:
		return true
	}
}
