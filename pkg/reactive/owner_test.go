package reactive

import "testing"

func TestOwnerDisposeStopsEffects(t *testing.T) {
	owner := NewOwner(nil)
	s := NewSignal(0)
	runs := 0

	owner.RunWithOwner(func() {
		NewEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
	})

	if runs != 1 {
		t.Fatalf("expected 1 initial run, got %d", runs)
	}

	owner.Dispose()
	s.Set(1)
	if runs != 1 {
		t.Errorf("expected effect to stop re-running after owner disposal, got %d runs", runs)
	}
}

func TestOwnerDisposeCascadesToChildren(t *testing.T) {
	parent := NewOwner(nil)
	var child *Owner
	parent.RunWithOwner(func() {
		child = NewOwner(CurrentOwner())
	})

	childDisposedBeforeCleanup := false
	parent.OnCleanup(func() {
		childDisposedBeforeCleanup = child.IsDisposed()
	})

	parent.Dispose()

	if !child.IsDisposed() {
		t.Error("expected child owner to be disposed along with its parent")
	}
	if !childDisposedBeforeCleanup {
		t.Error("expected children to be disposed before the parent's own cleanups run")
	}
}

func TestOwnerCleanupOrderIsLIFO(t *testing.T) {
	owner := NewOwner(nil)
	var order []int

	owner.OnCleanup(func() { order = append(order, 1) })
	owner.OnCleanup(func() { order = append(order, 2) })
	owner.OnCleanup(func() { order = append(order, 3) })

	owner.Dispose()

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestOwnerDisposeIsIdempotent(t *testing.T) {
	owner := NewOwner(nil)
	calls := 0
	owner.OnCleanup(func() { calls++ })

	owner.Dispose()
	owner.Dispose()

	if calls != 1 {
		t.Errorf("expected cleanup to run exactly once, got %d", calls)
	}
}
