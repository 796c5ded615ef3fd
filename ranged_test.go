package lockstep_test

import (
	"testing"

	"github.com/zoobzio/lockstep"
)

// TestRangedCapturesBracket tests bracketing interval capture
func TestRangedCapturesBracket(t *testing.T) {
	follower := lockstep.NewRanged[int](0)
	inject(t, follower, 2, 4, 6, 8, 10)

	r := lockstep.CaptureRange{Lower: 5, Upper: 9}
	var out []lockstep.Dispatch[int]

	if state := follower.Capture(collector(&out), &r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED, got %v", state)
	}
	if !sameStamps(captured(out), []int64{4, 6, 8, 10}) {
		t.Errorf("expected emissions [4 6 8 10], got %v", captured(out))
	}
	if !sameStamps(remaining(follower), []int64{4, 6, 8, 10}) {
		t.Errorf("expected [4 6 8 10] buffered, got %v", remaining(follower))
	}

	// At least one element brackets each side of the range.
	if captured(out)[0] >= 5 {
		t.Error("expected a bracketing element before the lower bound")
	}
	if captured(out)[len(out)-1] < 9 {
		t.Error("expected a bracketing element at or past the upper bound")
	}
}

// TestRangedAbortsWithoutLowerBracket tests ABORT when nothing precedes the range
func TestRangedAbortsWithoutLowerBracket(t *testing.T) {
	follower := lockstep.NewRanged[int](0)
	inject(t, follower, 6, 8)

	r := lockstep.CaptureRange{Lower: 5, Upper: 9}
	var out []lockstep.Dispatch[int]

	if state := follower.Capture(collector(&out), &r); state != lockstep.StateAbort {
		t.Fatalf("expected ABORT, got %v", state)
	}
	if len(out) != 0 {
		t.Errorf("expected no emissions on ABORT, got %v", captured(out))
	}
}

// TestRangedRetriesWithoutUpperBracket tests RETRY until the range is closed
func TestRangedRetriesWithoutUpperBracket(t *testing.T) {
	follower := lockstep.NewRanged[int](0)
	inject(t, follower, 2, 6, 8)

	r := lockstep.CaptureRange{Lower: 5, Upper: 9}
	if state := follower.DryCapture(&r); state != lockstep.StateRetry {
		t.Fatalf("expected RETRY without upper bracket, got %v", state)
	}

	inject(t, follower, 11)
	if state := follower.DryCapture(&r); state != lockstep.StatePrimed {
		t.Errorf("expected PRIMED once closed, got %v", state)
	}
}

// TestRangedDryEvicts tests that the probe evicts data before the bracket
func TestRangedDryEvicts(t *testing.T) {
	follower := lockstep.NewRanged[int](0)
	inject(t, follower, 1, 2, 4, 6, 8, 10)

	r := lockstep.CaptureRange{Lower: 5, Upper: 9}
	if state := follower.DryCapture(&r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED, got %v", state)
	}
	if !sameStamps(remaining(follower), []int64{4, 6, 8, 10}) {
		t.Errorf("expected [4 6 8 10] after dry eviction, got %v", remaining(follower))
	}

	var out []lockstep.Dispatch[int]
	if state := follower.Capture(collector(&out), &r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED commit, got %v", state)
	}
	if !sameStamps(captured(out), []int64{4, 6, 8, 10}) {
		t.Errorf("expected emissions [4 6 8 10], got %v", captured(out))
	}
}

// TestRangedDelayShiftsWindow tests the delayed capture window
func TestRangedDelayShiftsWindow(t *testing.T) {
	follower := lockstep.NewRanged[int](2)
	inject(t, follower, 1, 3, 5, 7, 9)

	// Shifted window is (3, 7).
	r := lockstep.CaptureRange{Lower: 5, Upper: 9}
	var out []lockstep.Dispatch[int]

	if state := follower.Capture(collector(&out), &r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED, got %v", state)
	}
	if !sameStamps(captured(out), []int64{1, 3, 5, 7, 9}) {
		t.Errorf("expected emissions [1 3 5 7 9], got %v", captured(out))
	}
}

// TestRangedAbortIsNoOp tests that external aborts leave the queue intact
func TestRangedAbortIsNoOp(t *testing.T) {
	follower := lockstep.NewRanged[int](0)
	inject(t, follower, 2, 4, 6)

	follower.Abort(6)

	if !sameStamps(remaining(follower), []int64{2, 4, 6}) {
		t.Errorf("expected queue intact after abort, got %v", remaining(follower))
	}
}
