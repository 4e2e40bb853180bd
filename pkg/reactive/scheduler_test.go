package reactive

import "testing"

func TestSchedulerQueueJobRunsOnFlush(t *testing.T) {
	s := NewScheduler()
	ran := false
	s.QueueJob(1, func() { ran = true })
	if !ran {
		t.Error("expected QueueJob to trigger an immediate flush when idle")
	}
}

func TestSchedulerQueueJobDedupesByID(t *testing.T) {
	s := NewScheduler()
	var order []int

	// Queue a job id, then before it flushes re-queue the same id with a
	// different body; only the latest body should run, exactly once.
	// Force this by queuing both from inside a first job's body so the
	// second QueueJob call lands on the same flush.
	s.QueueJob(1, func() {
		order = append(order, 1)
		s.QueueJob(2, func() { order = append(order, 21) })
		s.QueueJob(2, func() { order = append(order, 22) })
	})

	if len(order) != 2 || order[0] != 1 || order[1] != 22 {
		t.Fatalf("expected [1 22], got %v", order)
	}
}

func TestSchedulerParentBeforeChildOrdering(t *testing.T) {
	s := NewScheduler()
	var order []uint64

	s.QueueJob(2, func() { order = append(order, 2) })
	s.QueueJob(1, func() { order = append(order, 1) })

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected lower id to flush first, got %v", order)
	}
}

func TestSchedulerInvalidateJobRemovesPending(t *testing.T) {
	s := NewScheduler()
	ran := false

	s.QueueJob(1, func() { ran = true })
	// Job already ran synchronously above (idle flush); re-queue then
	// invalidate before it has a chance to flush, by doing both from
	// inside another job on the same flush pass.
	ran = false
	s.QueueJob(2, func() {
		s.QueueJob(1, func() { ran = true })
		s.InvalidateJob(1)
	})

	if ran {
		t.Error("expected invalidated job not to run")
	}
}

func TestSchedulerPostFlushRunsAfterPreFlush(t *testing.T) {
	s := NewScheduler()
	var order []string

	// Schedule the post-flush callback from inside a pre-flush job, the
	// way a component's render job schedules its own onMounted/onUpdated
	// hooks: both land in the same flush cycle, and post must still run
	// only once the whole pre-queue (not just this one job) has drained.
	s.QueueJob(1, func() {
		order = append(order, "pre")
		s.QueuePostFlushCb(func() { order = append(order, "post") })
	})

	if len(order) != 2 || order[0] != "pre" || order[1] != "post" {
		t.Fatalf("expected [pre post], got %v", order)
	}
}

func TestSchedulerNextTickRunsAfterFlush(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.QueueJob(1, func() { order = append(order, "job") })
	s.NextTick(func() { order = append(order, "tick") })

	if len(order) != 2 || order[0] != "job" || order[1] != "tick" {
		t.Fatalf("expected [job tick], got %v", order)
	}
}

func TestSchedulerNextTickWithNothingPendingRunsImmediately(t *testing.T) {
	s := NewScheduler()
	ran := false
	s.NextTick(func() { ran = true })
	if !ran {
		t.Error("expected NextTick to run synchronously when nothing is pending")
	}
}

func TestSchedulerRecoversFromPanickingJob(t *testing.T) {
	s := NewScheduler()
	var reported error
	s.OnUnhandledError(func(err error) { reported = err })

	after := false
	s.QueueJob(1, func() { panic("boom") })
	s.QueueJob(2, func() { after = true })

	if reported == nil {
		t.Error("expected the panic to be reported")
	}
	if !after {
		t.Error("expected a later job to still run after an earlier one panicked")
	}
}
