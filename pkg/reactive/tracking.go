package reactive

import (
	"reflect"
	"runtime"
	"sync"
)

// depAdder is implemented by Effect and Computed: whichever is the
// active listener during a dependency read also needs the raw Dep
// appended to its own run-scoped dependency list (see Effect.run /
// Computed.recompute), on top of the Dep's own subscriber bookkeeping.
type depAdder interface {
	addDep(d *Dep)
}

// trackingContext holds reactive bookkeeping for one goroutine. Each
// goroutine gets its own context so independently rendering component
// trees (e.g. concurrent sessions in one process) don't clobber each
// other's active listener; see SPEC_FULL.md §C for why this is
// goroutine-local rather than a single global, matching §9's guidance
// to thread an application context through component creation instead
// of assuming process-wide globals partition by application.
type trackingContext struct {
	currentOwner    *Owner
	currentListener Listener
	batchDepth      int
	pending         map[uint64]pendingNotify
}

// pendingNotify is a deferred Listener.notify call coalesced during a
// batch: if the same listener is queued twice before the batch flushes,
// it's told the higher of the two dirty levels exactly once.
type pendingNotify struct {
	listener Listener
	level    DirtyLevel
}

// beginBatch increments the calling goroutine's batch depth, deferring
// any Dep.trigger reached while it is >0 to a single flush at the
// matching endBatch.
func beginBatch() {
	currentTrackingContext().batchDepth++
}

// endBatch decrements the batch depth and, once it returns to zero,
// flushes every deferred notification queued during the batch.
func endBatch() {
	ctx := currentTrackingContext()
	ctx.batchDepth--
	if ctx.batchDepth > 0 {
		return
	}
	pending := ctx.pending
	ctx.pending = nil
	for _, p := range pending {
		p.listener.notify(p.level)
	}
}

// inBatch reports whether the calling goroutine is currently inside a
// Batch call.
func inBatch() bool {
	return currentTrackingContext().batchDepth > 0
}

// queueNotify defers a notify call to the end of the current batch,
// coalescing repeat notifications of the same listener to its highest
// requested level.
func queueNotify(l Listener, level DirtyLevel) {
	ctx := currentTrackingContext()
	if ctx.pending == nil {
		ctx.pending = make(map[uint64]pendingNotify)
	}
	if existing, ok := ctx.pending[l.ID()]; ok {
		if level > existing.level {
			existing.level = level
			ctx.pending[l.ID()] = existing
		}
		return
	}
	ctx.pending[l.ID()] = pendingNotify{listener: l, level: level}
}

var trackingContexts sync.Map // goroutine id (uint64) -> *trackingContext

// goroutineID extracts the numeric goroutine id from the runtime stack
// header. It is an implementation detail, never exposed, used purely as
// a map key to give each goroutine its own tracking context.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := 10; i < n; i++ { // skip the "goroutine " prefix
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func currentTrackingContext() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

func getCurrentListener() Listener {
	return currentTrackingContext().currentListener
}

// setCurrentListener installs l as the active listener for the calling
// goroutine and returns the previous one so callers can restore it on
// every exit path, including panics recovered upstream — this is the
// "scoped acquisition returning a restore token" §5 requires for any
// operation that toggles tracking state.
func setCurrentListener(l Listener) Listener {
	ctx := currentTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getCurrentOwner() *Owner {
	return currentTrackingContext().currentOwner
}

func setCurrentOwner(o *Owner) *Owner {
	ctx := currentTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// trackDep subscribes the active listener (if any) to dep, recording
// the dependency on the listener's own run-scoped list too.
func trackDep(dep *Dep) {
	l := getCurrentListener()
	if l == nil {
		return
	}
	dep.track(l)
	if da, ok := l.(depAdder); ok {
		da.addDep(dep)
	}
}

// WithOwner runs fn with owner installed as the current Owner, so any
// Signal/Computed/Effect created inside fn belongs to it. Used when
// spawning a goroutine that must attribute new reactive state to an
// existing component scope.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener installs l as the active listener for the duration of
// fn. Exposed for callers (e.g. the reconciler) driving a render
// function directly rather than through Effect/Computed.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// Untracked runs fn with tracking disabled: reads inside fn do not
// subscribe the calling listener.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// defaultEquals provides type-appropriate equality for Signal/Computed
// change detection: fast `==` for comparable scalar kinds, falling back
// to reflect.DeepEqual for composite types. Floats use an Object.is-style
// comparison so writing NaN over NaN is treated as identity (`x !== x`
// never triggers a change) instead of `==`'s always-false NaN behavior.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		bv := any(b).(float32)
		return av == bv || (av != av && bv != bv)
	case float64:
		bv := any(b).(float64)
		return av == bv || (av != av && bv != bv)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
