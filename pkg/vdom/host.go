package vdom

// Renderer is the host's platform binding: the small set of opaque
// mutation primitives the reconciler drives. A browser DOM renderer,
// a server-side string renderer, and a terminal renderer can all
// implement it without the reconciler knowing which one it is talking
// to.
//
// Every method receives and returns the renderer's own host-node
// handle type as `any`; the reconciler never inspects it, only stores
// it back on the owning VNode and passes it back unchanged on the next
// call.
type Renderer interface {
	// CreateElement creates a new host element for tag, unattached to
	// any parent.
	CreateElement(tag string) any
	// CreateText creates a new host text node.
	CreateText(text string) any
	// CreateComment creates a new host comment node, used for comment
	// VNodes such as the placeholder of an empty conditional branch.
	CreateComment(text string) any

	// Insert attaches child into parent, immediately before anchor. A
	// nil anchor means append as the last child.
	Insert(child, parent, anchor any)
	// Remove detaches child from its current parent.
	Remove(child any)

	// SetText overwrites a text or comment node's content.
	SetText(node any, text string)
	// SetElementText replaces all of an element's children with a
	// single text node, the fast path for FlagText blocks.
	SetElementText(el any, text string)

	// PatchProp reconciles a single prop: oldValue/newValue are the
	// previous/next values (newValue nil means the prop was removed).
	PatchProp(el any, key string, oldValue, newValue any)

	// ParentNode returns node's current host parent, or nil if
	// detached.
	ParentNode(node any) any
	// NextSibling returns node's next host sibling, or nil if it is
	// the last child.
	NextSibling(node any) any
}

// MountedEl returns the element VNode's own host node, used as a
// lookup anchor by callers outside this package (hydration, test
// harnesses).
func MountedEl(n *VNode) any {
	return n.HostNode()
}
