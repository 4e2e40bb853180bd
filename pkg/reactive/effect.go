package reactive

import "sync/atomic"

// Cleanup is returned by an effect function and run before the effect's
// next invocation, or when the effect is disposed.
type Cleanup func()

// EffectOption configures an Effect at creation time.
type EffectOption func(*effectOptions)

type effectOptions struct {
	scheduler    func(*Effect)
	allowRecurse bool
}

// WithScheduler attaches a scheduler callback. When the effect's
// dependencies change, instead of re-running synchronously, the
// scheduler is invoked with the effect so the caller can decide when
// (and whether) to call Run — this is how component render effects are
// wired into the pre-flush queue.
func WithScheduler(fn func(*Effect)) EffectOption {
	return func(o *effectOptions) { o.scheduler = fn }
}

// AllowRecurse permits an effect to re-schedule itself while it is
// already running (normally suppressed to prevent self-write loops).
func AllowRecurse() EffectOption {
	return func(o *effectOptions) { o.allowRecurse = true }
}

// Effect is a subscriber in the reactivity graph: a function re-run
// whenever a Signal, Collection key, or Computed it reads changes.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	owner *Owner

	scheduler    func(*Effect)
	allowRecurse bool

	trackID uint64
	deps    []*Dep
	// computedSrcs mirrors deps but only the entries backed by a
	// Computed, used to settle MaybeDirty before deciding to re-run.
	computedSrcs []settleable

	dirty DirtyLevel

	// depth counts re-entrant calls to run(), used to suppress
	// self-triggering recursion during set-within-get unless
	// allowRecurse is set.
	depth int32

	disposed atomic.Bool
}

// NewEffect creates and immediately runs an effect. The owner, if any,
// is the current Owner (see RunWithOwner/WithOwner); disposing the owner
// disposes the effect.
func NewEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	var o effectOptions
	for _, opt := range opts {
		opt(&o)
	}
	e := &Effect{
		id:           nextID(),
		fn:           fn,
		owner:        getCurrentOwner(),
		scheduler:    o.scheduler,
		allowRecurse: o.allowRecurse,
		dirty:        Dirty, // runs unconditionally the first time
	}
	if e.owner != nil {
		e.owner.registerEffect(e)
	}
	e.run()
	return e
}

// ID implements Listener.
func (e *Effect) ID() uint64 { return e.id }

func (e *Effect) currentTrackID() uint64 { return atomic.LoadUint64(&e.trackID) }

// notify implements Listener. It raises the effect's dirty level and,
// if a scheduler is attached and the effect isn't already running (or
// allows recursion), hands it to the scheduler. With no scheduler
// attached the effect runs synchronously, matching a plain `effect()`
// call with no explicit flush timing.
func (e *Effect) notify(level DirtyLevel) {
	if e.disposed.Load() {
		return
	}
	if e.dirty >= level {
		return
	}
	e.dirty = level

	running := atomic.LoadInt32(&e.depth) > 0
	if running && !e.allowRecurse {
		return
	}
	if e.scheduler != nil {
		e.scheduler(e)
		return
	}
	e.Run()
}

// Run executes the effect if it is dirty, settling a MaybeDirty level
// first by asking upstream Computed sources to resolve themselves.
// Safe to call from a scheduler job; a no-op if nothing is pending.
func (e *Effect) Run() {
	if e.disposed.Load() {
		return
	}
	if e.dirty == NotDirty {
		return
	}
	if e.dirty == MaybeDirty {
		changed := false
		for _, s := range e.computedSrcs {
			if s.settle() {
				changed = true
			}
		}
		if !changed {
			e.dirty = NotDirty
			return
		}
	}
	e.run()
}

// run unconditionally re-executes the effect body under the track-id
// protocol: bump the generation, let reads re-confirm or add deps, then
// truncate anything not re-confirmed this run.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.dirty = NotDirty

	if e.cleanup != nil {
		fn := e.cleanup
		e.cleanup = nil
		fn()
	}

	atomic.AddUint64(&e.trackID, 1)
	atomic.AddInt32(&e.depth, 1)
	oldListener := setCurrentListener(e)

	prevDeps := append([]*Dep(nil), e.deps...)
	e.deps = e.deps[:0]
	var cleanup Cleanup
	callGuarded(KindEffectPanic, e.id, func() {
		cleanup = e.fn()
	})
	e.cleanup = cleanup

	setCurrentListener(oldListener)
	atomic.AddInt32(&e.depth, -1)

	for _, d := range prevDeps {
		if !depsContain(e.deps, d) {
			d.untrack(e.id)
		}
	}
	e.rebuildComputedSrcs()
}

// addDep is called by Dep.track via Signal/Collection/Computed reads
// while this effect is the active listener; it appends (or confirms)
// a dependency in run order so the post-run cursor truncation works.
func (e *Effect) addDep(d *Dep) {
	if !depsContain(e.deps, d) {
		e.deps = append(e.deps, d)
	}
}

// depsContain is a small linear scan; an effect's dependency count is
// typically small enough that this beats map overhead.
func depsContain(deps []*Dep, d *Dep) bool {
	for _, existing := range deps {
		if existing == d {
			return true
		}
	}
	return false
}

func (e *Effect) rebuildComputedSrcs() {
	e.computedSrcs = e.computedSrcs[:0]
	for _, d := range e.deps {
		if d.owner != nil {
			e.computedSrcs = append(e.computedSrcs, d.owner)
		}
	}
}

// Stop disposes the effect: it runs the last cleanup, unsubscribes from
// every dependency, and marks itself inert so future triggers are
// no-ops.
func (e *Effect) Stop() {
	if !e.disposed.CompareAndSwap(false, true) {
		return
	}
	if e.cleanup != nil {
		fn := e.cleanup
		e.cleanup = nil
		fn()
	}
	for _, d := range e.deps {
		d.untrack(e.id)
	}
	e.deps = nil
	e.computedSrcs = nil
}

// IsDisposed reports whether Stop has been called.
func (e *Effect) IsDisposed() bool { return e.disposed.Load() }
