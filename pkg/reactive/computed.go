package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a lazily-evaluated, cached derivation over other reactive
// values. It reads like a Signal but recomputes only when read after
// one of its dependencies actually changed, using the tri-state
// dirtiness protocol in §4.1: a direct write marks it Dirty, while a
// change that merely flows through another Computed marks it only
// MaybeDirty until something forces it to settle.
type Computed[T any] struct {
	id uint64

	compute func() T

	mu    sync.RWMutex
	value T
	ready bool

	equal func(T, T) bool

	dirty   DirtyLevel
	dirtyMu sync.Mutex

	trackID uint64
	deps    []*Dep
	// computedSrcs mirrors deps filtered to Computed-backed deps, used
	// when this Computed itself must settle.
	computedSrcs []settleable

	// dep is this Computed's own outward-facing Dep: anything that
	// reads this Computed subscribes here.
	dep *Dep

	computing atomic.Bool
}

// NewComputed creates a Computed. The function does not run until the
// first Get().
func NewComputed[T any](compute func() T) *Computed[T] {
	c := &Computed[T]{
		id:      nextID(),
		compute: compute,
		dirty:   Dirty,
	}
	c.dep = newDep(nil)
	c.dep.owner = c
	return c
}

// WithEquals installs a custom equality function used to decide whether
// a recomputation actually changed the value (and so whether downstream
// subscribers need telling).
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// ID implements Listener/settleable.
func (c *Computed[T]) ID() uint64 { return c.id }

func (c *Computed[T]) currentTrackID() uint64 { return atomic.LoadUint64(&c.trackID) }

// Get returns the current value, recomputing first if necessary, and
// subscribes the active listener (if any) to this Computed.
func (c *Computed[T]) Get() T {
	trackDep(c.dep)
	c.ensureFresh()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Peek returns the current value, recomputing if necessary, without
// subscribing the active listener.
func (c *Computed[T]) Peek() T {
	c.ensureFresh()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *Computed[T]) ensureFresh() {
	c.dirtyMu.Lock()
	level := c.dirty
	c.dirtyMu.Unlock()

	switch level {
	case NotDirty:
		return
	case Dirty:
		c.recompute()
	case MaybeDirty:
		c.settle()
	}
}

// notify implements Listener. A direct upstream write (Dirty) is taken
// at face value; anything else is clamped to MaybeDirty, since this
// Computed cannot promise its own subscribers a real change until it
// actually recomputes.
func (c *Computed[T]) notify(level DirtyLevel) {
	c.dirtyMu.Lock()
	old := c.dirty
	if level > old {
		c.dirty = level
	}
	shouldPropagate := old == NotDirty
	c.dirtyMu.Unlock()

	if shouldPropagate {
		c.dep.trigger(MaybeDirty)
	}
}

// settle implements settleable. It resolves this Computed's own
// dirtiness — recursing into any Computed sources first — and reports
// whether the value actually changed, without subscribing anyone.
func (c *Computed[T]) settle() bool {
	c.dirtyMu.Lock()
	level := c.dirty
	c.dirtyMu.Unlock()

	switch level {
	case NotDirty:
		return false
	case Dirty:
		return c.recompute()
	default: // MaybeDirty
		changed := false
		for _, s := range c.computedSrcs {
			if s.settle() {
				changed = true
			}
		}
		if changed {
			return c.recompute()
		}
		c.dirtyMu.Lock()
		c.dirty = NotDirty
		c.dirtyMu.Unlock()
		return false
	}
}

// recompute runs the computation under the track-id protocol and
// reports whether the resulting value differs from the previous one.
func (c *Computed[T]) recompute() bool {
	if c.computing.Swap(true) {
		// Circular dependency: treat as unchanged to break the cycle.
		return false
	}
	defer c.computing.Store(false)

	atomic.AddUint64(&c.trackID, 1)
	oldListener := setCurrentListener(c)

	prevDeps := append([]*Dep(nil), c.deps...)
	c.deps = c.deps[:0]
	var newValue T
	callGuarded(KindComputedPanic, c.id, func() {
		newValue = c.compute()
	})

	setCurrentListener(oldListener)

	for _, d := range prevDeps {
		if !depsContain(c.deps, d) {
			d.untrack(c.id)
		}
	}
	c.rebuildComputedSrcs()

	c.mu.Lock()
	changed := !c.ready || !c.equals(c.value, newValue)
	c.value = newValue
	c.ready = true
	c.mu.Unlock()

	c.dirtyMu.Lock()
	c.dirty = NotDirty
	c.dirtyMu.Unlock()

	return changed
}

// addDep implements depAdder: called while this Computed is the active
// listener during recompute.
func (c *Computed[T]) addDep(d *Dep) {
	if !depsContain(c.deps, d) {
		c.deps = append(c.deps, d)
	}
}

func (c *Computed[T]) rebuildComputedSrcs() {
	c.computedSrcs = c.computedSrcs[:0]
	for _, d := range c.deps {
		if d.owner != nil {
			c.computedSrcs = append(c.computedSrcs, d.owner)
		}
	}
}

func (c *Computed[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}
