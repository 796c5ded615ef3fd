package lockstep_test

import (
	"testing"

	"github.com/zoobzio/lockstep"
)

// TestMatchedCapturesClosest tests closest-in-tolerance capture
func TestMatchedCapturesClosest(t *testing.T) {
	follower := lockstep.NewMatched[int](2)
	inject(t, follower, 7, 9, 14)

	r := lockstep.CaptureRange{Lower: 10, Upper: 10}
	var out []lockstep.Dispatch[int]

	if state := follower.Capture(collector(&out), &r); state != lockstep.StatePrimed {
		t.Fatalf("expected PRIMED, got %v", state)
	}
	if !sameStamps(captured(out), []int64{9}) {
		t.Errorf("expected emission [9], got %v", captured(out))
	}
	if !sameStamps(remaining(follower), []int64{9, 14}) {
		t.Errorf("expected [9 14] buffered, got %v", remaining(follower))
	}
}

// TestMatchedAbortsPastTolerance tests ABORT once data moved past the window
func TestMatchedAbortsPastTolerance(t *testing.T) {
	follower := lockstep.NewMatched[int](2)
	inject(t, follower, 14)

	r := lockstep.CaptureRange{Lower: 10, Upper: 10}
	if state := follower.DryCapture(&r); state != lockstep.StateAbort {
		t.Errorf("expected ABORT past tolerance, got %v", state)
	}
}

// TestMatchedRetriesBeforeWindow tests RETRY while a match may still arrive
func TestMatchedRetriesBeforeWindow(t *testing.T) {
	follower := lockstep.NewMatched[int](2)
	inject(t, follower, 7)

	r := lockstep.CaptureRange{Lower: 10, Upper: 10}
	if state := follower.DryCapture(&r); state != lockstep.StateRetry {
		t.Errorf("expected RETRY before window, got %v", state)
	}
}
