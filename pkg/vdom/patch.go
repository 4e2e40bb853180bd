package vdom

// Mount renders n for the first time into container, before anchor
// (nil appends at the end), with no parent Instance — the
// reconciler's public entry point for an application's initial mount.
func Mount(n *VNode, r Renderer, container any, anchor any) {
	patch(nil, n, r, container, anchor, nil)
}

// Patch reconciles prev into next in place and returns next, the
// entry point a render Effect calls on every re-render.
func Patch(prev, next *VNode, r Renderer, container any) *VNode {
	patch(prev, next, r, container, nil, nil)
	return next
}

// Unmount removes n's host subtree and disposes every component scope
// beneath it.
func Unmount(n *VNode, r Renderer) {
	unmount(n, r)
}

// patch is the single dispatch point every mount/update path funnels
// through. n1 == nil means n2 is being mounted for the first time;
// n1 != nil and sameVNodeType(n1, n2) means an in-place patch;
// otherwise n1's subtree is unmounted and n2 is mounted fresh in its
// place.
func patch(n1, n2 *VNode, r Renderer, container, anchor any, parentInst *Instance) {
	if n2 == nil {
		if n1 != nil {
			unmount(n1, r)
		}
		return
	}

	if n1 != nil && !sameVNodeType(n1, n2) {
		anchor = nextHostSibling(n1, r)
		unmount(n1, r)
		n1 = nil
	}

	if n2.PatchFlag.Has(FlagBail) {
		n2.PatchFlag = 0
		n2.DynamicChildren = nil
	}

	switch n2.Kind {
	case KindText:
		processText(n1, n2, r, container, anchor)
	case KindComment:
		processComment(n1, n2, r, container, anchor)
	case KindElement:
		processElement(n1, n2, r, container, anchor, parentInst)
	case KindFragment:
		processFragment(n1, n2, r, container, anchor, parentInst)
	case KindComponent:
		processComponent(n1, n2, r, container, anchor, parentInst)
	}
}

func nextHostSibling(n *VNode, r Renderer) any {
	el := lastHostNode(n)
	if el == nil {
		return nil
	}
	return r.NextSibling(el)
}

func processText(n1, n2 *VNode, r Renderer, container, anchor any) {
	if n1 == nil {
		n2.el = r.CreateText(n2.Text)
		r.Insert(n2.el, container, anchor)
		return
	}
	n2.el = n1.el
	if n1.Text != n2.Text {
		r.SetText(n2.el, n2.Text)
	}
}

func processComment(n1, n2 *VNode, r Renderer, container, anchor any) {
	if n1 == nil {
		n2.el = r.CreateComment(n2.Text)
		r.Insert(n2.el, container, anchor)
		return
	}
	n2.el = n1.el
}

func processElement(n1, n2 *VNode, r Renderer, container, anchor any, parentInst *Instance) {
	if n1 == nil {
		mountElement(n2, r, container, anchor, parentInst)
		return
	}
	patchElement(n1, n2, r, parentInst)
}

func mountElement(n *VNode, r Renderer, container, anchor any, parentInst *Instance) {
	el := r.CreateElement(n.Tag)
	n.el = el

	if n.ShapeFlag.Has(ShapeTextChildren) {
		r.SetElementText(el, n.Text)
	} else if n.ShapeFlag.Has(ShapeArrayChildren) {
		mountChildren(n.Children, r, el, nil, parentInst)
	}

	patchFullProps(el, nil, n.Props, r)

	r.Insert(el, container, anchor)
}

func patchElement(n1, n2 *VNode, r Renderer, parentInst *Instance) {
	el := n1.el
	n2.el = el

	patchProps(el, n1, n2, r)

	if n2.DynamicChildren != nil && n1.DynamicChildren != nil && !n2.PatchFlag.Has(FlagFullProps) {
		patchBlockChildren(n1.DynamicChildren, n2.DynamicChildren, r, parentInst)
	} else {
		patchChildren(n1, n2, r, el, parentInst)
	}
}

func mountChildren(children []*VNode, r Renderer, container, anchor any, parentInst *Instance) {
	for _, c := range children {
		patch(nil, c, r, container, anchor, parentInst)
	}
}

func patchChildren(n1, n2 *VNode, r Renderer, container any, parentInst *Instance) {
	c1, c2 := n1.Children, n2.Children

	switch {
	case n2.ShapeFlag.Has(ShapeTextChildren):
		if !n1.ShapeFlag.Has(ShapeTextChildren) {
			unmountChildrenList(c1, r)
		}
		if n1.Text != n2.Text || !n1.ShapeFlag.Has(ShapeTextChildren) {
			r.SetElementText(container, n2.Text)
		}
	case n1.ShapeFlag.Has(ShapeTextChildren):
		r.SetElementText(container, "")
		mountChildren(c2, r, container, nil, parentInst)
	default:
		if hasKeyedChildren(c1) || hasKeyedChildren(c2) {
			patchKeyedChildren(c1, c2, r, container, parentInst)
		} else {
			patchUnkeyedChildren(c1, c2, r, container, parentInst)
		}
	}
}

func unmountChildrenList(children []*VNode, r Renderer) {
	for _, c := range children {
		unmount(c, r)
	}
}

// patchBlockChildren is the block fast path: when the generator proved
// these are the only positions in the subtree that can change, patch
// each pair directly without walking static siblings.
func patchBlockChildren(c1, c2 []*VNode, r Renderer, parentInst *Instance) {
	n := len(c1)
	if len(c2) < n {
		n = len(c2)
	}
	for i := 0; i < n; i++ {
		container := r.ParentNode(firstHostNode(c1[i]))
		patch(c1[i], c2[i], r, container, nil, parentInst)
	}
}

func patchUnkeyedChildren(c1, c2 []*VNode, r Renderer, container any, parentInst *Instance) {
	oldLen, newLen := len(c1), len(c2)
	commonLen := oldLen
	if newLen < commonLen {
		commonLen = newLen
	}
	for i := 0; i < commonLen; i++ {
		patch(c1[i], c2[i], r, container, nil, parentInst)
	}
	if oldLen > newLen {
		for i := newLen; i < oldLen; i++ {
			unmount(c1[i], r)
		}
	} else if newLen > oldLen {
		mountChildren(c2[oldLen:], r, container, nil, parentInst)
	}
}

// patchKeyedChildren implements the two-ended shrink plus
// longest-increasing-subsequence minimal-move algorithm: common
// prefix/suffix are patched in place without moving, the remaining
// middle run is matched by key, and only nodes NOT part of the
// longest already-ordered run are actually re-inserted.
func patchKeyedChildren(c1, c2 []*VNode, r Renderer, container any, parentInst *Instance) {
	i := 0
	e1 := len(c1) - 1
	e2 := len(c2) - 1

	for i <= e1 && i <= e2 && sameVNodeType(c1[i], c2[i]) {
		patch(c1[i], c2[i], r, container, nil, parentInst)
		i++
	}

	for i <= e1 && i <= e2 && sameVNodeType(c1[e1], c2[e2]) {
		patch(c1[e1], c2[e2], r, container, nil, parentInst)
		e1--
		e2--
	}

	if i > e1 {
		if i <= e2 {
			anchor := anchorFor(c2, e2+1, container)
			for ; i <= e2; i++ {
				patch(nil, c2[i], r, container, anchor, parentInst)
			}
		}
		return
	}

	if i > e2 {
		for ; i <= e1; i++ {
			unmount(c1[i], r)
		}
		return
	}

	s1, s2 := i, i
	keyToNewIndex := make(map[any]int, e2-s2+1)
	for j := s2; j <= e2; j++ {
		if k := vnodeKey(c2[j]); k != nil {
			keyToNewIndex[k] = j
		}
	}

	toBePatched := e2 - s2 + 1
	newIndexToOldIndex := make([]int, toBePatched)
	patched := 0
	moved := false
	maxNewIndexSoFar := -1

	for oldIdx := s1; oldIdx <= e1; oldIdx++ {
		prevChild := c1[oldIdx]
		if patched >= toBePatched {
			unmount(prevChild, r)
			continue
		}
		var newIdx int
		found := false
		if k := vnodeKey(prevChild); k != nil {
			newIdx, found = keyToNewIndex[k]
		} else {
			for j := s2; j <= e2; j++ {
				if newIndexToOldIndex[j-s2] == 0 && sameVNodeType(prevChild, c2[j]) {
					newIdx, found = j, true
					break
				}
			}
		}
		if !found {
			unmount(prevChild, r)
			continue
		}
		newIndexToOldIndex[newIdx-s2] = oldIdx + 1
		if newIdx >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIdx
		} else {
			moved = true
		}
		patch(prevChild, c2[newIdx], r, container, nil, parentInst)
		patched++
	}

	var increasing []int
	if moved {
		seq := make([]int, toBePatched)
		for k, v := range newIndexToOldIndex {
			if v == 0 {
				seq[k] = -1
			} else {
				seq[k] = v
			}
		}
		increasing = longestIncreasingSubsequence(seq)
	}
	j := len(increasing) - 1

	for k := toBePatched - 1; k >= 0; k-- {
		newIdx := s2 + k
		anchor := anchorFor(c2, newIdx+1, container)
		if newIndexToOldIndex[k] == 0 {
			patch(nil, c2[newIdx], r, container, anchor, parentInst)
			continue
		}
		if !moved {
			continue
		}
		if j < 0 || k != increasing[j] {
			moveVNode(c2[newIdx], container, anchor, r)
		} else {
			j--
		}
	}
}

// anchorFor returns the host anchor to insert/move before: the first
// host node of c2[idx] if that position still exists, else nil
// (append at the end of container).
func anchorFor(c2 []*VNode, idx int, container any) any {
	if idx < len(c2) {
		if el := firstHostNode(c2[idx]); el != nil {
			return el
		}
	}
	return nil
}

// moveVNode re-inserts an already-mounted VNode's host node(s) at a
// new position without re-running patch.
func moveVNode(n *VNode, container, anchor any, r Renderer) {
	switch n.Kind {
	case KindComponent:
		if n.instance != nil {
			moveVNode(n.instance.Subtree, container, anchor, r)
		}
	case KindFragment:
		for _, c := range n.Children {
			moveVNode(c, container, anchor, r)
		}
	default:
		if n.el != nil {
			r.Insert(n.el, container, anchor)
		}
	}
}

func processFragment(n1, n2 *VNode, r Renderer, container, anchor any, parentInst *Instance) {
	if n1 == nil {
		mountChildren(n2.Children, r, container, anchor, parentInst)
		return
	}
	if hasKeyedChildren(n1.Children) || hasKeyedChildren(n2.Children) {
		patchKeyedChildren(n1.Children, n2.Children, r, container, parentInst)
	} else {
		patchUnkeyedChildren(n1.Children, n2.Children, r, container, parentInst)
	}
}

func processComponent(n1, n2 *VNode, r Renderer, container, anchor any, parentInst *Instance) {
	if n1 == nil {
		mountComponent(n2, r, container, anchor, parentInst)
		return
	}
	patchComponent(n1, n2, r)
}

func mountComponent(n *VNode, r Renderer, container, anchor any, parentInst *Instance) {
	inst := newInstance(n, n.Comp, n.Props, parentInst)
	inst.mount(r, container, anchor)
}

func patchComponent(n1, n2 *VNode, r Renderer) {
	inst := n1.instance
	n2.instance = inst
	inst.Root = n2
	inst.updateProps(n2.Props)
}

func patchFullProps(el any, oldProps, newProps Props, r Renderer) {
	for key, oldVal := range oldProps {
		if isEventHandler(key) || key == "key" {
			continue
		}
		if newVal, ok := newProps[key]; !ok {
			r.PatchProp(el, key, oldVal, nil)
		} else if !propsEqual(oldVal, newVal) {
			r.PatchProp(el, key, oldVal, newVal)
		}
	}
	for key, newVal := range newProps {
		if isEventHandler(key) || key == "key" {
			continue
		}
		if _, existed := oldProps[key]; !existed {
			r.PatchProp(el, key, nil, newVal)
		}
	}
	for key, newVal := range newProps {
		if isEventHandler(key) {
			r.PatchProp(el, key, oldProps[key], newVal)
		}
	}
}

func patchProps(el any, n1, n2 *VNode, r Renderer) {
	if n2.PatchFlag.Has(FlagFullProps) || n2.PatchFlag == 0 || n2.PatchFlag.Has(FlagNeedPatch) {
		patchFullProps(el, n1.Props, n2.Props, r)
		return
	}
	if n2.PatchFlag.Has(FlagClass) {
		if !propsEqual(n1.Props["class"], n2.Props["class"]) {
			r.PatchProp(el, "class", n1.Props["class"], n2.Props["class"])
		}
	}
	if n2.PatchFlag.Has(FlagStyle) {
		if !propsEqual(n1.Props["style"], n2.Props["style"]) {
			r.PatchProp(el, "style", n1.Props["style"], n2.Props["style"])
		}
	}
	if n2.PatchFlag.Has(FlagProps) {
		for _, key := range n2.DynamicProps {
			oldVal, newVal := n1.Props[key], n2.Props[key]
			if !propsEqual(oldVal, newVal) {
				r.PatchProp(el, key, oldVal, newVal)
			}
		}
	}
}

// unmount tears down n's host subtree: component instances dispose
// their Owner (stopping the render effect and every watcher/child
// scope) before their own host node is detached; plain element/text/
// comment nodes detach directly. Nested component scopes beneath an
// element are disposed without a second, redundant host removal,
// since removing the element's own host node already takes its whole
// host subtree with it.
func unmount(n *VNode, r Renderer) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindComponent:
		if n.instance != nil {
			n.instance.unmount(r)
		}
	case KindFragment:
		for _, c := range n.Children {
			unmount(c, r)
		}
	default:
		for _, c := range n.Children {
			disposeNestedScopes(c, r)
		}
		if n.el != nil {
			r.Remove(n.el)
		}
	}
}

// disposeNestedScopes stops every component Effect/Owner beneath n
// without issuing a host Remove call, for use when an ancestor
// element's removal already detached the whole host subtree.
func disposeNestedScopes(n *VNode, r Renderer) {
	if n == nil {
		return
	}
	if n.Kind == KindComponent && n.instance != nil {
		inst := n.instance
		inst.Owner.Dispose()
		inst.unmounted = true
		inst.emit(HookUnmounted)
		if inst.Subtree != nil {
			disposeNestedScopes(inst.Subtree, r)
		}
		return
	}
	for _, c := range n.Children {
		disposeNestedScopes(c, r)
	}
}
