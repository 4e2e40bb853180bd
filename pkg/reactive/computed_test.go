package reactive

import "testing"

func TestComputedLazyAndCached(t *testing.T) {
	s := NewSignal(1)
	computes := 0
	c := NewComputed(func() int {
		computes++
		return s.Get() + 1
	})

	if computes != 0 {
		t.Fatalf("expected no computation before first Get, got %d", computes)
	}

	if v := c.Get(); v != 2 {
		t.Fatalf("expected 2, got %d", v)
	}
	if computes != 1 {
		t.Fatalf("expected 1 computation, got %d", computes)
	}

	// Reading again without a write must not recompute.
	_ = c.Get()
	if computes != 1 {
		t.Fatalf("expected cached read, got %d computations", computes)
	}
}

func TestComputedRecomputesAfterDependencyChange(t *testing.T) {
	s := NewSignal(1)
	c := NewComputed(func() int { return s.Get() * 10 })

	if v := c.Get(); v != 10 {
		t.Fatalf("expected 10, got %d", v)
	}

	s.Set(2)
	if v := c.Get(); v != 20 {
		t.Fatalf("expected 20 after dependency change, got %d", v)
	}
}

func TestComputedChainSettlesExactlyOnce(t *testing.T) {
	// a = signal(1); b = computed(a+1); c = computed(b+1).
	// Reading c once forces b and c to compute once each. Writing a
	// then reading c again must recompute b exactly once even though c
	// only ever receives a MaybeDirty notification from b until b
	// actually settles.
	a := NewSignal(1)
	bComputes := 0
	cComputes := 0

	b := NewComputed(func() int {
		bComputes++
		return a.Get() + 1
	})
	c := NewComputed(func() int {
		cComputes++
		return b.Get() + 1
	})

	if v := c.Get(); v != 3 {
		t.Fatalf("expected c == 3, got %d", v)
	}
	if bComputes != 1 || cComputes != 1 {
		t.Fatalf("expected 1/1 computations, got b=%d c=%d", bComputes, cComputes)
	}

	a.Set(2)
	if v := c.Get(); v != 4 {
		t.Fatalf("expected c == 4 after a changed, got %d", v)
	}
	if bComputes != 2 {
		t.Fatalf("expected b to recompute exactly once more, got %d", bComputes)
	}
	if cComputes != 2 {
		t.Fatalf("expected c to recompute exactly once more, got %d", cComputes)
	}
}

func TestComputedUnchangedValueDoesNotPropagate(t *testing.T) {
	// a changes, b's formula happens to produce the same output, so a
	// downstream effect reading b must not re-run.
	a := NewSignal(1)
	b := NewComputed(func() int {
		v := a.Get()
		if v < 0 {
			return v
		}
		return 0 // constant for any non-negative input
	})

	effectRuns := 0
	e := NewEffect(func() Cleanup {
		effectRuns++
		_ = b.Get()
		return nil
	})
	defer e.Stop()

	if effectRuns != 1 {
		t.Fatalf("expected 1 initial run, got %d", effectRuns)
	}

	a.Set(2) // b's computed value is still 0
	if effectRuns != 1 {
		t.Errorf("effect should not re-run when computed value is unchanged, got %d runs", effectRuns)
	}

	a.Set(-1) // now b's value actually changes
	if effectRuns != 2 {
		t.Errorf("expected effect to re-run once b's value changed, got %d runs", effectRuns)
	}
}

func TestComputedCustomEquals(t *testing.T) {
	s := NewSignal(10)
	c := NewComputed(func() int { return s.Get() }).WithEquals(func(a, b int) bool {
		return a/10 == b/10 // only the tens digit matters
	})

	runs := 0
	e := NewEffect(func() Cleanup {
		runs++
		_ = c.Get()
		return nil
	})
	defer e.Stop()

	if runs != 1 {
		t.Fatalf("expected 1 initial run, got %d", runs)
	}

	s.Set(11) // still the same tens digit under the custom equals
	if runs != 1 {
		t.Errorf("custom equals should have suppressed a re-run, got %d runs", runs)
	}

	s.Set(20)
	if runs != 2 {
		t.Errorf("expected a re-run once the tens digit changed, got %d runs", runs)
	}
}

func TestComputedCircularReadBreaksCycle(t *testing.T) {
	var c *Computed[int]
	c = NewComputed(func() int {
		// Reading c from inside its own compute re-enters recompute,
		// which treats the nested call as unchanged and leaves the
		// zero value in place, so the outer computation yields 0 + 1.
		return c.Peek() + 1
	})
	if v := c.Get(); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
}
