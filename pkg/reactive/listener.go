package reactive

// DirtyLevel is the tri-state dirtiness a dependency change propagates to
// a subscriber. A writer (Signal/Collection) always notifies at Dirty; a
// Computed, not yet knowing whether its own value will actually change,
// demotes what it propagates to its own subscribers to MaybeDirty. A
// MaybeDirty subscriber must settle (re-evaluate its upstream Computed
// sources) before deciding whether it is really Dirty or actually
// NotDirty.
type DirtyLevel uint8

const (
	NotDirty DirtyLevel = iota
	MaybeDirty
	Dirty
)

// Listener is anything that can subscribe to a Dep: an Effect or a
// Computed. currentTrackID exposes the subscriber's current run
// generation so a Dep can tell a live subscription from a stale one
// (invariant: e ∈ d.subscribers ⇔ d.trackIDOf(e) == e.currentTrackID()).
type Listener interface {
	ID() uint64
	notify(level DirtyLevel)
	currentTrackID() uint64
}

// settleable is implemented by Computed. It lets a downstream Effect or
// Computed that received only a MaybeDirty notification force an
// upstream Computed to resolve its own dirtiness (recomputing if
// necessary) and report whether its value actually changed.
type settleable interface {
	ID() uint64
	settle() bool
}
