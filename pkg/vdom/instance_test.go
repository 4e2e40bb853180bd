package vdom

import (
	"strconv"
	"testing"

	"github.com/vireo-dev/vireo/pkg/reactive"
)

func counterComponent(initial int) (*FuncComponent, func() *reactive.Signal[int]) {
	var count *reactive.Signal[int]
	comp := Func("Counter", func(props func() Props) func() *VNode {
		count = reactive.NewSignal(initial)
		return func() *VNode {
			return NewElementText("span", nil, strconv.Itoa(count.Get()))
		}
	})
	return comp, func() *reactive.Signal[int] { return count }
}

func TestComponentMountRendersOnce(t *testing.T) {
	r := newFakeRenderer()
	container := &fakeNode{kind: "element", tag: "root"}

	comp, _ := counterComponent(0)
	root := NewComponentNode(comp, ShapeFunctionalComponent, nil, nil)
	Mount(root, r, container, nil)

	el := firstHostNode(root).(*fakeNode)
	if el.text != "0" {
		t.Fatalf("expected initial text '0', got %q", el.text)
	}
}

// A Signal read inside a component's render closure re-renders the
// component when the signal changes, without any explicit Patch call
// from the test — the render Effect's own scheduler wiring drives it.
func TestComponentRerendersOnSignalChange(t *testing.T) {
	r := newFakeRenderer()
	container := &fakeNode{kind: "element", tag: "root"}

	comp, getSignal := counterComponent(0)
	root := NewComponentNode(comp, ShapeFunctionalComponent, nil, nil)
	Mount(root, r, container, nil)

	getSignal().Set(7)

	el := firstHostNode(root).(*fakeNode)
	if el.text != "7" {
		t.Fatalf("expected re-rendered text '7', got %q", el.text)
	}
}

func TestComponentPropsAreReactive(t *testing.T) {
	r := newFakeRenderer()
	container := &fakeNode{kind: "element", tag: "root"}

	comp := Func("Greeting", func(props func() Props) func() *VNode {
		return func() *VNode {
			name, _ := props()["name"].(string)
			return NewElementText("span", nil, "hello "+name)
		}
	})

	n1 := NewComponentNode(comp, ShapeFunctionalComponent, Props{"name": "a"}, nil)
	Mount(n1, r, container, nil)
	el := firstHostNode(n1).(*fakeNode)
	if el.text != "hello a" {
		t.Fatalf("expected 'hello a', got %q", el.text)
	}

	n2 := NewComponentNode(comp, ShapeFunctionalComponent, Props{"name": "b"}, nil)
	Patch(n1, n2, r, container)

	if el.text != "hello b" {
		t.Fatalf("expected 'hello b' after prop update, got %q", el.text)
	}
}

func TestComponentUnmountRunsCleanup(t *testing.T) {
	r := newFakeRenderer()
	container := &fakeNode{kind: "element", tag: "root"}

	cleaned := false
	comp := Func("Widget", func(props func() Props) func() *VNode {
		reactive.CurrentOwner().OnCleanup(func() { cleaned = true })
		return func() *VNode { return NewElementText("div", nil, "x") }
	})

	root := NewComponentNode(comp, ShapeFunctionalComponent, nil, nil)
	Mount(root, r, container, nil)

	Unmount(root, r)

	if !cleaned {
		t.Error("expected component's owner cleanup to run on unmount")
	}
	if len(container.children) != 0 {
		t.Errorf("expected host node removed after unmount, container has %d children", len(container.children))
	}
}

// Disposing an ancestor element's subtree must dispose nested
// component scopes without double-removing their (already detached)
// host nodes.
func TestUnmountDisposesNestedComponentScopes(t *testing.T) {
	r := newFakeRenderer()
	container := &fakeNode{kind: "element", tag: "root"}

	cleaned := false
	child := Func("Child", func(props func() Props) func() *VNode {
		reactive.CurrentOwner().OnCleanup(func() { cleaned = true })
		return func() *VNode { return NewElementText("span", nil, "child") }
	})

	wrapper := NewElement("div", nil, NewComponentNode(child, ShapeFunctionalComponent, nil, nil))
	Mount(wrapper, r, container, nil)

	Unmount(wrapper, r)

	if !cleaned {
		t.Error("expected nested component's owner cleanup to run when ancestor unmounts")
	}
	if r.removed != 1 {
		t.Errorf("expected exactly 1 host Remove call (the wrapper div), got %d", r.removed)
	}
}

func TestProvideInject(t *testing.T) {
	r := newFakeRenderer()
	container := &fakeNode{kind: "element", tag: "root"}

	parent := Func("Parent", func(props func() Props) func() *VNode {
		return func() *VNode { return NewText("parent") }
	})
	root := NewComponentNode(parent, ShapeFunctionalComponent, nil, nil)
	Mount(root, r, container, nil)

	inst := root.Instance()
	inst.Provide("theme", "dark")

	child := &Instance{Parent: inst}
	if v, ok := child.Inject("theme"); !ok || v != "dark" {
		t.Errorf("expected injected value 'dark', got %v (%v)", v, ok)
	}

	if _, ok := child.Inject("missing"); ok {
		t.Error("expected Inject to report false for an unprovided key")
	}
}
