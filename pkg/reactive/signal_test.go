package reactive

import "testing"

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	count := NewSignal(42)
	listener := newTestListener()

	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.count() != 0 {
		t.Errorf("Peek should not subscribe, got %d notifications", listener.count())
	}
}

func TestSignalSubscriptionAndEquality(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.count() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.count())
	}

	count.Set(1)
	if listener.count() != 1 {
		t.Errorf("same value should not notify, got %d", listener.count())
	}

	count.Set(2)
	if listener.count() != 2 {
		t.Errorf("expected 2 notifications, got %d", listener.count())
	}
}

func TestSignalNoTrackingOutsideContext(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	_ = count.Get() // no active listener installed

	count.Set(1)
	if listener.count() != 0 {
		t.Errorf("listener should not be subscribed without WithListener, got %d", listener.count())
	}
}

func TestSignalNotifyForcesTrigger(t *testing.T) {
	type box struct{ n int }
	s := NewSignal(&box{n: 1})
	listener := newTestListener()

	WithListener(listener, func() { _ = s.Get() })

	s.Peek().n = 2 // in-place mutation, Set would see "no change" (same pointer)
	s.Notify()

	if listener.count() != 1 {
		t.Errorf("expected Notify to force a trigger, got %d", listener.count())
	}
}

func TestSignalCustomEquals(t *testing.T) {
	type point struct{ x, y int }
	s := NewSignal(point{1, 1}, WithSignalEquals(func(a, b point) bool {
		return a.x == b.x // ignore y
	}))
	listener := newTestListener()
	WithListener(listener, func() { _ = s.Get() })

	s.Set(point{1, 99})
	if listener.count() != 0 {
		t.Errorf("custom equals should have suppressed notification, got %d", listener.count())
	}

	s.Set(point{2, 99})
	if listener.count() != 1 {
		t.Errorf("expected 1 notification after x changed, got %d", listener.count())
	}
}

func TestSignalUntracked(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		Untracked(func() {
			_ = count.Get()
		})
	})

	count.Set(5)
	if listener.count() != 0 {
		t.Errorf("Untracked read should not subscribe, got %d", listener.count())
	}
}

func TestSignalNumericMutators(t *testing.T) {
	count := NewSignal(10)
	count.Inc()
	if count.Get() != 11 {
		t.Errorf("Inc: expected 11, got %d", count.Get())
	}
	count.Dec()
	if count.Get() != 10 {
		t.Errorf("Dec: expected 10, got %d", count.Get())
	}
	count.Add(5)
	if count.Get() != 15 {
		t.Errorf("Add: expected 15, got %d", count.Get())
	}
	count.Sub(3)
	if count.Get() != 12 {
		t.Errorf("Sub: expected 12, got %d", count.Get())
	}
}

func TestSignalSliceMutators(t *testing.T) {
	items := NewSignal([]string{"a", "b", "c"})

	items.AppendItem("d")
	if got := items.Get(); len(got) != 4 || got[3] != "d" {
		t.Fatalf("AppendItem: got %v", got)
	}

	items.SetAt(0, "A")
	if got := items.Get(); got[0] != "A" {
		t.Fatalf("SetAt: got %v", got)
	}

	items.UpdateAt(1, func(v any) any { return v.(string) + "!" })
	if got := items.Get(); got[1] != "b!" {
		t.Fatalf("UpdateAt: got %v", got)
	}

	items.RemoveAt(0)
	if got := items.Get(); len(got) != 3 || got[0] != "b!" {
		t.Fatalf("RemoveAt: got %v", got)
	}

	if items.Len() != 3 {
		t.Errorf("Len: expected 3, got %d", items.Len())
	}

	items.Clear()
	if items.Len() != 0 {
		t.Errorf("Clear: expected empty slice, got %v", items.Get())
	}
}

func TestSignalMapMutators(t *testing.T) {
	m := NewSignal(map[string]int{"a": 1})

	m.SetKey("b", 2)
	if got := m.Get(); got["b"] != 2 {
		t.Fatalf("SetKey: got %v", got)
	}

	if m.Len() != 2 {
		t.Errorf("Len: expected 2, got %d", m.Len())
	}

	m.RemoveKey("a")
	if got := m.Get(); len(got) != 1 {
		t.Fatalf("RemoveKey: got %v", got)
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Clear: expected empty map, got %v", m.Get())
	}
}

func TestSignalMutatorsTriggerSubscribers(t *testing.T) {
	items := NewSignal([]int{1, 2, 3})
	listener := newTestListener()
	WithListener(listener, func() { _ = items.Get() })

	items.AppendItem(4)
	if listener.count() != 1 {
		t.Errorf("expected 1 notification after AppendItem, got %d", listener.count())
	}
}
