package reactive

import "testing"

func TestWatchSyncFiresOnChange(t *testing.T) {
	s := NewSignal(1)
	var gotNew, gotOld int
	calls := 0

	stop := Watch(s.Get, func(newValue, oldValue int, onInvalidate OnInvalidate) {
		calls++
		gotNew, gotOld = newValue, oldValue
	}, WithFlush(FlushSync))
	defer stop()

	if calls != 0 {
		t.Fatalf("expected no call before any change, got %d", calls)
	}

	s.Set(2)
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if gotNew != 2 || gotOld != 1 {
		t.Fatalf("expected new=2 old=1, got new=%d old=%d", gotNew, gotOld)
	}
}

func TestWatchImmediateRunsOnceAtRegistration(t *testing.T) {
	s := NewSignal(5)
	calls := 0
	var firstOld int
	firstOld = -1

	stop := Watch(s.Get, func(newValue, oldValue int, onInvalidate OnInvalidate) {
		calls++
		if calls == 1 {
			firstOld = oldValue
		}
	}, WithFlush(FlushSync), Immediate())
	defer stop()

	if calls != 1 {
		t.Fatalf("expected 1 immediate call, got %d", calls)
	}
	if firstOld != 0 {
		t.Fatalf("expected zero-value oldValue on the immediate call, got %d", firstOld)
	}
}

func TestWatchStopPreventsFurtherCalls(t *testing.T) {
	s := NewSignal(1)
	calls := 0

	stop := Watch(s.Get, func(newValue, oldValue int, onInvalidate OnInvalidate) {
		calls++
	}, WithFlush(FlushSync))

	s.Set(2)
	stop()
	s.Set(3)

	if calls != 1 {
		t.Errorf("expected exactly 1 call before Stop, got %d", calls)
	}
}

func TestWatchUnchangedValueDoesNotFire(t *testing.T) {
	s := NewSignal(1)
	calls := 0

	stop := Watch(s.Get, func(newValue, oldValue int, onInvalidate OnInvalidate) {
		calls++
	}, WithFlush(FlushSync))
	defer stop()

	s.Set(1) // Set itself is a no-op (same value, no trigger)
	if calls != 0 {
		t.Errorf("expected no call for an unchanged value, got %d", calls)
	}
}

func TestWatchPostFlushDefersViaScheduler(t *testing.T) {
	s := NewSignal(1)
	sched := NewScheduler()
	var order []string

	stop := Watch(s.Get, func(newValue, oldValue int, onInvalidate OnInvalidate) {
		order = append(order, "watch")
	}, WithFlush(FlushPost), WithSchedulerInstance(sched))
	defer stop()

	sched.QueueJob(1, func() {
		order = append(order, "render")
		s.Set(2)
	})

	if len(order) != 2 || order[0] != "render" || order[1] != "watch" {
		t.Fatalf("expected [render watch], got %v", order)
	}
}

func TestWatchSignalConvenience(t *testing.T) {
	s := NewSignal("a")
	calls := 0
	stop := WatchSignal(s, func(newValue, oldValue string, onInvalidate OnInvalidate) {
		calls++
	}, WithFlush(FlushSync))
	defer stop()

	s.Set("b")
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestWatchOnInvalidateRunsBeforeNextCallbackAndOnStop(t *testing.T) {
	s := NewSignal(1)
	var cancelled []int
	calls := 0

	stop := Watch(s.Get, func(newValue, oldValue int, onInvalidate OnInvalidate) {
		calls++
		v := newValue
		onInvalidate(func() { cancelled = append(cancelled, v) })
	}, WithFlush(FlushSync))

	s.Set(2) // registers onInvalidate for newValue=2
	if len(cancelled) != 0 {
		t.Fatalf("cleanup ran too early: %v", cancelled)
	}

	s.Set(3) // should run the cleanup registered for 2 before invoking cb again
	if len(cancelled) != 1 || cancelled[0] != 2 {
		t.Fatalf("expected prior invalidation for 2, got %v", cancelled)
	}

	stop() // should run the cleanup registered for 3
	if len(cancelled) != 2 || cancelled[1] != 3 {
		t.Fatalf("expected Stop to invalidate 3, got %v", cancelled)
	}
	if calls != 3 {
		t.Fatalf("expected 3 callback invocations, got %d", calls)
	}
}
