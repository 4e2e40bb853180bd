package reactive

import "testing"

func TestEffectRunsImmediatelyAndOnChange(t *testing.T) {
	s := NewSignal(1)
	runs := 0
	var seen int

	e := NewEffect(func() Cleanup {
		runs++
		seen = s.Get()
		return nil
	})
	defer e.Stop()

	if runs != 1 || seen != 1 {
		t.Fatalf("expected 1 run with value 1, got %d runs, value %d", runs, seen)
	}

	s.Set(2)
	if runs != 2 || seen != 2 {
		t.Fatalf("expected 2 runs with value 2, got %d runs, value %d", runs, seen)
	}
}

func TestEffectStopUnsubscribes(t *testing.T) {
	s := NewSignal(1)
	runs := 0

	e := NewEffect(func() Cleanup {
		runs++
		_ = s.Get()
		return nil
	})
	e.Stop()

	s.Set(2)
	if runs != 1 {
		t.Errorf("expected no re-run after Stop, got %d runs", runs)
	}
	if !e.IsDisposed() {
		t.Error("expected effect to report disposed")
	}
}

func TestEffectCleanupRunsBeforeNextRunAndOnStop(t *testing.T) {
	s := NewSignal(0)
	var cleanups int

	e := NewEffect(func() Cleanup {
		_ = s.Get()
		return func() { cleanups++ }
	})

	s.Set(1)
	if cleanups != 1 {
		t.Errorf("expected cleanup before re-run, got %d", cleanups)
	}

	e.Stop()
	if cleanups != 2 {
		t.Errorf("expected cleanup on stop, got %d", cleanups)
	}
}

func TestEffectDynamicDependenciesAreUntracked(t *testing.T) {
	cond := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")
	runs := 0

	e := NewEffect(func() Cleanup {
		runs++
		if cond.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		return nil
	})
	defer e.Stop()

	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	cond.Set(false) // switches branch; effect now depends on b, not a
	if runs != 2 {
		t.Fatalf("expected 2 runs after branch switch, got %d", runs)
	}

	a.Set("a2") // no longer a dependency
	if runs != 2 {
		t.Errorf("effect should not have re-run for a dropped dependency, got %d runs", runs)
	}

	b.Set("b2")
	if runs != 3 {
		t.Errorf("expected 3 runs after b changed, got %d runs", runs)
	}
}

func TestEffectSchedulerDefersExecution(t *testing.T) {
	s := NewSignal(0)
	var scheduled *Effect
	var scheduleCount int

	e := NewEffect(func() Cleanup {
		_ = s.Get()
		return nil
	}, WithScheduler(func(eff *Effect) {
		scheduled = eff
		scheduleCount++
	}))
	defer e.Stop()

	s.Set(1)
	if scheduleCount != 1 {
		t.Fatalf("expected scheduler to be invoked once, got %d", scheduleCount)
	}
	if scheduled != e {
		t.Fatal("expected scheduler to receive the effect instance")
	}
}

func TestEffectDisposedIgnoresNotify(t *testing.T) {
	s := NewSignal(0)
	runs := 0
	e := NewEffect(func() Cleanup {
		runs++
		_ = s.Get()
		return nil
	})
	e.Stop()
	initial := runs

	e.notify(Dirty)
	if runs != initial {
		t.Error("disposed effect should ignore notify")
	}
}
