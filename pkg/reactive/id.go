package reactive

import "sync/atomic"

var idCounter uint64

// nextID returns a process-wide unique identifier for a signal, effect,
// computed, or owner. IDs are used as map keys for dependency tracking
// and never reused, so a stale subscriber entry can always be told apart
// from a freshly created one that happens to occupy the same memory.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
