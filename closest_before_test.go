package lockstep_test

import (
	"testing"

	"github.com/zoobzio/lockstep"
)

// TestClosestBeforeCapturesCandidate tests in-window candidate capture
func TestClosestBeforeCapturesCandidate(t *testing.T) {
	follower := lockstep.NewClosestBefore[int](5, 1)
	inject(t, follower, 2, 6, 9, 14)

	r := lockstep.CaptureRange{Lower: 10, Upper: 10}
	var out []lockstep.Dispatch[int]

	if state := follower.Capture(collector(&out), &r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED, got %v", state)
	}
	// Boundary 9, acceptance window (4, 9].
	if !sameStamps(captured(out), []int64{9}) {
		t.Errorf("expected emission [9], got %v", captured(out))
	}
	if !sameStamps(remaining(follower), []int64{9, 14}) {
		t.Errorf("expected [9 14] buffered, got %v", remaining(follower))
	}
}

// TestClosestBeforeAbortsPastRange tests ABORT once data moved past the range
func TestClosestBeforeAbortsPastRange(t *testing.T) {
	follower := lockstep.NewClosestBefore[int](5, 1)
	inject(t, follower, 11, 14)

	r := lockstep.CaptureRange{Lower: 10, Upper: 10}
	if state := follower.DryCapture(&r); state != lockstep.StateAbort {
		t.Errorf("expected ABORT with data past the range, got %v", state)
	}
}

// TestClosestBeforeRetriesForCandidate tests RETRY while a candidate may
// still arrive
func TestClosestBeforeRetriesForCandidate(t *testing.T) {
	follower := lockstep.NewClosestBefore[int](5, 1)

	r := lockstep.CaptureRange{Lower: 10, Upper: 10}
	if state := follower.DryCapture(&r); state != lockstep.StateRetry {
		t.Errorf("expected RETRY on empty queue, got %v", state)
	}

	// An element older than one period is no candidate, but the window can
	// still be filled by a later arrival.
	inject(t, follower, 2)
	if state := follower.DryCapture(&r); state != lockstep.StateRetry {
		t.Errorf("expected RETRY for stale candidate, got %v", state)
	}
}

// TestClosestBeforeAbortsUnfillableWindow tests ABORT once the window can no
// longer be filled
func TestClosestBeforeAbortsUnfillableWindow(t *testing.T) {
	follower := lockstep.NewClosestBefore[int](2, 0)
	inject(t, follower, 1, 20)

	// Boundary 10, window (8, 10]. Candidate 1 is stale and 20 is already
	// past the boundary, so nothing can ever land inside.
	r := lockstep.CaptureRange{Lower: 10, Upper: 30}
	if state := follower.DryCapture(&r); state != lockstep.StateAbort {
		t.Errorf("expected ABORT for unfillable window, got %v", state)
	}
}

// TestClosestBeforeDryEvicts tests that the probe removes superseded data
func TestClosestBeforeDryEvicts(t *testing.T) {
	follower := lockstep.NewClosestBefore[int](5, 1)
	inject(t, follower, 2, 6, 9, 14)

	r := lockstep.CaptureRange{Lower: 10, Upper: 10}
	if state := follower.DryCapture(&r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED, got %v", state)
	}
	if !sameStamps(remaining(follower), []int64{9, 14}) {
		t.Errorf("expected [9 14] after dry eviction, got %v", remaining(follower))
	}

	// The candidate survives the probe for the committing capture.
	var out []lockstep.Dispatch[int]
	if state := follower.Capture(collector(&out), &r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED commit, got %v", state)
	}
	if !sameStamps(captured(out), []int64{9}) {
		t.Errorf("expected emission [9], got %v", captured(out))
	}
}
