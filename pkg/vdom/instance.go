package vdom

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/vireo-dev/vireo/pkg/reactive"
)

// LifecycleHook identifies one of the lifecycle events a component may
// subscribe to via Instance.On.
type LifecycleHook int

const (
	HookBeforeMount LifecycleHook = iota
	HookMounted
	HookBeforeUpdate
	HookUpdated
	HookBeforeUnmount
	HookUnmounted
	HookActivated
	HookDeactivated
)

var instanceSeq uint64
var instanceSeqMu sync.Mutex

func nextInstanceID() uint64 {
	instanceSeqMu.Lock()
	defer instanceSeqMu.Unlock()
	instanceSeq++
	return instanceSeq
}

// Instance is the live state of a mounted component: its identity,
// its scope (an Owner that anchors its render Effect and every watcher
// or child scope it creates), its current subtree, and
// its lifecycle hooks. Reconciler-internal; application code observes
// it only through the Instance accessor on VNode.
type Instance struct {
	ID uint64

	Parent    *Instance
	Root      *VNode // the VNode this instance backs
	Owner     *reactive.Owner
	Scheduler *reactive.Scheduler

	comp     Component
	propsSig *reactive.Signal[Props]

	// Subtree is the instance's current rendered output.
	Subtree *VNode
	// render is the component's render closure, captured once at setup
	// time; re-invoking it (inside the render Effect) produces the next
	// Subtree.
	render func() *VNode

	renderEffect *reactive.Effect

	hooks map[LifecycleHook][]func()

	provides map[any]any

	mounted     bool
	unmounted   bool
	deactivated bool

	// KeepAliveCache is set when this instance is a <KeepAlive> boundary,
	// nil otherwise.
	KeepAliveCache *KeepAliveCache

	// SuspenseBoundary is a reconciler-level extension point preserved
	// for a future Suspense implementation; unused by the reconciler
	// itself today.
	SuspenseBoundary any
}

// newInstance creates an instance for comp as a child of parent (nil
// for a root mount), installs it on host, and runs comp's setup.
func newInstance(host *VNode, comp Component, props Props, parent *Instance) *Instance {
	var parentOwner *reactive.Owner
	sched := reactive.DefaultScheduler
	if parent != nil {
		parentOwner = parent.Owner
		sched = parent.Scheduler
	}
	inst := &Instance{
		ID:        nextInstanceID(),
		Parent:    parent,
		Root:      host,
		Owner:     reactive.NewOwner(parentOwner),
		Scheduler: sched,
		comp:      comp,
		propsSig:  reactive.NewSignal(props),
		hooks:     make(map[LifecycleHook][]func()),
	}
	host.instance = inst

	switch c := comp.(type) {
	case *FuncComponent:
		inst.Owner.RunWithOwner(func() {
			inst.render = c.Setup(inst.propsSig.Get)
		})
	default:
		inst.render = comp.Render
	}
	return inst
}

// updateProps pushes newProps through the instance's reactive props
// signal; any render-time read of props() sees the update the next
// time the render effect (re-)runs.
func (inst *Instance) updateProps(newProps Props) {
	inst.propsSig.Set(newProps)
}

// On registers fn to run when hook fires on this instance.
func (inst *Instance) On(hook LifecycleHook, fn func()) {
	inst.hooks[hook] = append(inst.hooks[hook], fn)
}

func (inst *Instance) emit(hook LifecycleHook) {
	for _, fn := range inst.hooks[hook] {
		fn()
	}
}

// Provide registers a value under key, visible to this instance and
// every descendant that calls Inject with the same key and finds no
// closer provider.
func (inst *Instance) Provide(key, value any) {
	if inst.provides == nil {
		inst.provides = make(map[any]any)
	}
	inst.provides[key] = value
}

// Inject walks up the instance chain looking for a value provided
// under key, returning (nil, false) if none is found.
func (inst *Instance) Inject(key any) (any, bool) {
	for cur := inst; cur != nil; cur = cur.Parent {
		if cur.provides != nil {
			if v, ok := cur.provides[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// mount fires HookBeforeMount, wires the render function into a
// reactive Effect scheduled through inst.Scheduler, performs the first render,
// and patches the result into container before anchor.
func (inst *Instance) mount(r Renderer, container any, anchor any) {
	inst.emit(HookBeforeMount)

	firstRun := true
	inst.Owner.RunWithOwner(func() {
		inst.renderEffect = reactive.NewEffect(func() reactive.Cleanup {
			next := inst.render()
			if firstRun {
				firstRun = false
				patch(nil, next, r, container, anchor, inst)
			} else {
				inst.emit(HookBeforeUpdate)
				prev := inst.Subtree
				patch(prev, next, r, parentOf(r, prev), nil, inst)
				inst.emit(HookUpdated)
			}
			inst.Subtree = next
			return nil
		}, reactive.WithScheduler(func(e *reactive.Effect) {
			inst.Scheduler.QueueJob(e.ID(), e.Run)
		}))
	})

	inst.mounted = true
	inst.emit(HookMounted)
}

func parentOf(r Renderer, n *VNode) any {
	el := firstHostNode(n)
	if el == nil {
		return nil
	}
	return r.ParentNode(el)
}

// unmount tears down the instance's render effect and Owner scope
// (disposing every watcher/child scope it created), and removes its
// host nodes from the document.
func (inst *Instance) unmount(r Renderer) {
	if inst.unmounted {
		return
	}
	inst.emit(HookBeforeUnmount)
	inst.Owner.Dispose()
	if inst.Subtree != nil {
		unmount(inst.Subtree, r)
	}
	inst.unmounted = true
	inst.emit(HookUnmounted)
}

// deactivate detaches the instance's host nodes (for storage in a
// KeepAlive cache) without disposing its Owner, preserving reactive
// state across re-activation.
func (inst *Instance) deactivate(r Renderer) {
	if inst.Subtree != nil {
		el := firstHostNode(inst.Subtree)
		if el != nil {
			r.Remove(el)
		}
	}
	inst.deactivated = true
	inst.emit(HookDeactivated)
}

// activate re-attaches a previously deactivated instance's host nodes
// into container before anchor, without re-running setup.
func (inst *Instance) activate(r Renderer, container, anchor any) {
	if inst.Subtree != nil {
		el := firstHostNode(inst.Subtree)
		if el != nil {
			r.Insert(el, container, anchor)
		}
	}
	inst.deactivated = false
	inst.emit(HookActivated)
}

// sameComponentIdentity reports whether a and b are considered the
// same component definition for the purposes of VNode type matching.
// *FuncComponent values compare by Name (the stable identity a code
// generator assigns); anything else compares by dynamic type.
func sameComponentIdentity(a, b Component) bool {
	if a == nil || b == nil {
		return a == b
	}
	if fa, ok := a.(*FuncComponent); ok {
		fb, ok := b.(*FuncComponent)
		return ok && fa.Name == fb.Name
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// componentCacheKey returns the stable identity used to key a
// KeepAlive cache slot when the VNode carries no explicit key.
func componentCacheKey(n *VNode) any {
	if n.Key != nil {
		return n.Key
	}
	if fc, ok := n.Comp.(*FuncComponent); ok {
		return fc.Name
	}
	return reflect.TypeOf(n.Comp)
}

func (inst *Instance) String() string {
	return fmt.Sprintf("Instance#%d", inst.ID)
}
