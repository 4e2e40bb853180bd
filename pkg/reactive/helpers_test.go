package reactive

import "sync"

// testListener is a minimal Listener implementation used across this
// package's tests to observe notify calls without the overhead of a
// real Effect.
type testListener struct {
	id uint64

	mu          sync.Mutex
	trackID     uint64
	notifyCount int
	lastLevel   DirtyLevel
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) ID() uint64 { return l.id }

func (l *testListener) currentTrackID() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trackID
}

func (l *testListener) notify(level DirtyLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifyCount++
	l.lastLevel = level
}

func (l *testListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notifyCount
}

// bumpTrackID simulates the listener starting a new run, invalidating
// any subscription recorded under the previous trackId.
func (l *testListener) bumpTrackID() {
	l.mu.Lock()
	l.trackID++
	l.mu.Unlock()
}
