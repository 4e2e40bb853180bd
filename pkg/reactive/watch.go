package reactive

// FlushTiming controls when a Watch's callback runs relative to the
// component update it was triggered alongside.
type FlushTiming uint8

const (
	// FlushPre runs the callback in the scheduler's pre-flush queue,
	// before the component re-renders — the default, matching a plain
	// `watch()` call.
	FlushPre FlushTiming = iota
	// FlushPost runs after the pre-flush queue (and so after the
	// component's own re-render) has drained, for callbacks that need
	// to observe the patched host tree.
	FlushPost
	// FlushSync runs the callback synchronously, inline with the write
	// that triggered it, bypassing the scheduler entirely.
	FlushSync
)

// WatchOption configures a Watch call.
type WatchOption func(*watchOptions)

type watchOptions struct {
	immediate bool
	flush     FlushTiming
	scheduler *Scheduler
	owner     *Owner
}

// Immediate runs the callback once synchronously at registration, with
// oldValue equal to the zero value, before any change has occurred.
func Immediate() WatchOption {
	return func(o *watchOptions) { o.immediate = true }
}

// WithFlush selects when the callback runs relative to other queued
// work.
func WithFlush(t FlushTiming) WatchOption {
	return func(o *watchOptions) { o.flush = t }
}

// WithSchedulerInstance routes the watcher's callback through a
// specific Scheduler instead of DefaultScheduler.
func WithSchedulerInstance(s *Scheduler) WatchOption {
	return func(o *watchOptions) { o.scheduler = s }
}

// WithWatchOwner attaches the watcher's underlying Effect to owner
// instead of the ambient current Owner.
func WithWatchOwner(owner *Owner) WatchOption {
	return func(o *watchOptions) { o.owner = owner }
}

// OnInvalidate registers a cleanup to run before the watcher's callback
// runs again, or when the watcher stops — the hook a callback uses to
// cancel in-flight async work it started on a prior invocation.
type OnInvalidate func(cleanup func())

// Watch observes the value returned by source and invokes cb whenever
// it changes, with the new and previous values and an onInvalidate
// registration hook. It returns a stop function that tears down the
// underlying Effect.
//
// source is read inside a tracked Effect exactly like a render
// function, so it may read any mix of Signal, Collection, and Computed
// values; whichever it reads becomes the watcher's dependency set, and
// the watcher re-evaluates source (not just cb) on every dependency
// change to obtain the new value for comparison.
//
// A cleanup registered via onInvalidate during one callback invocation
// runs automatically — via the underlying Effect's own cleanup-before-
// rerun protocol — right before the watcher's next re-evaluation, or on
// Stop if no further change occurs.
func Watch[T any](source func() T, cb func(newValue, oldValue T, onInvalidate OnInvalidate), opts ...WatchOption) func() {
	var o watchOptions
	o.scheduler = DefaultScheduler
	for _, opt := range opts {
		opt(&o)
	}

	var (
		hasValue bool
		oldValue T
		watchID  = nextID()
	)

	runCompare := func() Cleanup {
		var invalidate Cleanup
		onInvalidate := func(cleanup func()) { invalidate = cleanup }

		newValue := source()
		if !hasValue {
			hasValue = true
			oldValue = newValue
			if o.immediate {
				var zero T
				callGuarded(KindWatchCallbackPanic, watchID, func() { cb(newValue, zero, onInvalidate) })
			}
			return invalidate
		}
		if !defaultEquals(oldValue, newValue) {
			prev := oldValue
			oldValue = newValue
			callGuarded(KindWatchCallbackPanic, watchID, func() { cb(newValue, prev, onInvalidate) })
		}
		return invalidate
	}

	var effectOpts []EffectOption
	switch o.flush {
	case FlushSync:
		// No scheduler: Effect.notify runs the job inline.
	default:
		sched := o.scheduler
		effectOpts = append(effectOpts, WithScheduler(func(e *Effect) {
			if o.flush == FlushPost {
				sched.QueuePostFlushCb(e.Run)
			} else {
				sched.QueueJob(e.ID(), e.Run)
			}
		}))
	}

	if o.owner != nil {
		restore := setCurrentOwner(o.owner)
		defer setCurrentOwner(restore)
	}

	var eff *Effect
	eff = NewEffect(func() Cleanup {
		return runCompare()
	}, effectOpts...)

	return eff.Stop
}

// WatchSignal is a convenience wrapper over Watch for the common case
// of observing a single Signal directly.
func WatchSignal[T any](s *Signal[T], cb func(newValue, oldValue T, onInvalidate OnInvalidate), opts ...WatchOption) func() {
	return Watch(s.Get, cb, opts...)
}
