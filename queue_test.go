package lockstep_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/lockstep"
)

// TestQueueOrdering tests stamp-ordered push and pop
func TestQueueOrdering(t *testing.T) {
	q := lockstep.NewQueue[int](0)

	for _, d := range dispatches(1, 2, 2, 5) {
		if _, err := q.Push(d); err != nil {
			t.Fatalf("unexpected push error: %v", err)
		}
	}

	if q.Len() != 4 {
		t.Fatalf("expected 4 buffered, got %d", q.Len())
	}

	oldest, err := q.OldestStamp()
	if err != nil || oldest != 1 {
		t.Errorf("expected oldest 1, got %d (%v)", oldest, err)
	}
	newest, err := q.NewestStamp()
	if err != nil || newest != 5 {
		t.Errorf("expected newest 5, got %d (%v)", newest, err)
	}

	var popped []int64
	for q.Len() > 0 {
		d, err := q.Pop()
		if err != nil {
			t.Fatalf("unexpected pop error: %v", err)
		}
		popped = append(popped, int64(d.Stamp))
	}
	if !sameStamps(popped, []int64{1, 2, 2, 5}) {
		t.Errorf("expected pops [1 2 2 5], got %v", popped)
	}
}

// TestQueueOutOfOrderPush tests rejection of stamps behind the newest
func TestQueueOutOfOrderPush(t *testing.T) {
	q := lockstep.NewQueue[int](0)

	if _, err := q.Push(lockstep.NewDispatch(10, 10)); err != nil {
		t.Fatalf("unexpected push error: %v", err)
	}
	_, err := q.Push(lockstep.NewDispatch(9, 9))
	if !errors.Is(err, lockstep.ErrOutOfOrderStamp) {
		t.Errorf("expected ErrOutOfOrderStamp, got %v", err)
	}
	if q.Len() != 1 {
		t.Errorf("rejected push must not mutate the queue, len %d", q.Len())
	}
}

// TestQueueEmptyAccessors tests Empty errors on an empty queue
func TestQueueEmptyAccessors(t *testing.T) {
	q := lockstep.NewQueue[int](0)

	if _, err := q.OldestStamp(); !errors.Is(err, lockstep.ErrEmpty) {
		t.Errorf("expected ErrEmpty from OldestStamp, got %v", err)
	}
	if _, err := q.NewestStamp(); !errors.Is(err, lockstep.ErrEmpty) {
		t.Errorf("expected ErrEmpty from NewestStamp, got %v", err)
	}
	if _, err := q.Pop(); !errors.Is(err, lockstep.ErrEmpty) {
		t.Errorf("expected ErrEmpty from Pop, got %v", err)
	}
}

// TestQueueCapacityEviction tests oldest-first eviction on a full queue
func TestQueueCapacityEviction(t *testing.T) {
	q := lockstep.NewQueue[int](3)

	for i, d := range dispatches(1, 2, 3) {
		evicted, err := q.Push(d)
		if err != nil {
			t.Fatalf("unexpected push error: %v", err)
		}
		if evicted {
			t.Errorf("push %d must not evict below capacity", i)
		}
	}
	evicted, err := q.Push(lockstep.NewDispatch(4, 4))
	if err != nil {
		t.Fatalf("unexpected push error: %v", err)
	}
	if !evicted {
		t.Error("expected eviction at capacity")
	}

	oldest, _ := q.OldestStamp()
	if oldest != 2 {
		t.Errorf("expected oldest 2 after eviction, got %d", oldest)
	}
}

// TestQueueStrictCapacity tests rejection instead of eviction
func TestQueueStrictCapacity(t *testing.T) {
	q := lockstep.NewQueue[int](2).Strict()

	for _, d := range dispatches(1, 2) {
		if _, err := q.Push(d); err != nil {
			t.Fatalf("unexpected push error: %v", err)
		}
	}
	_, err := q.Push(lockstep.NewDispatch(3, 3))
	if !errors.Is(err, lockstep.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if q.Len() != 2 {
		t.Errorf("rejected push must not mutate the queue, len %d", q.Len())
	}
}

// TestQueueRemoveBefore tests stamp-based eviction
func TestQueueRemoveBefore(t *testing.T) {
	q := lockstep.NewQueue[int](0)
	for _, d := range dispatches(1, 3, 5, 7) {
		q.Push(d) //nolint:errcheck // ordered fixture
	}

	if removed := q.RemoveBefore(5); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	oldest, _ := q.OldestStamp()
	if oldest != 5 {
		t.Errorf("expected oldest 5, got %d", oldest)
	}
	if removed := q.RemoveBefore(4); removed != 0 {
		t.Errorf("expected 0 removed for past frontier, got %d", removed)
	}
}

// TestQueueRemoveFirstN tests count-based eviction
func TestQueueRemoveFirstN(t *testing.T) {
	q := lockstep.NewQueue[int](0)
	for _, d := range dispatches(1, 2, 3) {
		q.Push(d) //nolint:errcheck // ordered fixture
	}

	if removed := q.RemoveFirstN(2); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if removed := q.RemoveFirstN(5); removed != 1 {
		t.Errorf("expected 1 removed from short queue, got %d", removed)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
}

// TestQueueGrowth tests ring growth across wraparound
func TestQueueGrowth(t *testing.T) {
	q := lockstep.NewQueue[int](0)

	// Interleave pushes and pops to shift the ring head before growth.
	for _, d := range dispatches(1, 2, 3, 4, 5, 6, 7, 8) {
		q.Push(d) //nolint:errcheck // ordered fixture
	}
	q.Pop() //nolint:errcheck // non-empty
	q.Pop() //nolint:errcheck // non-empty
	for _, d := range dispatches(9, 10, 11, 12, 13, 14) {
		if _, err := q.Push(d); err != nil {
			t.Fatalf("unexpected push error: %v", err)
		}
	}

	want := []int64{3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
	var got []int64
	for i := 0; i < q.Len(); i++ {
		got = append(got, int64(q.At(i).Stamp))
	}
	if !sameStamps(got, want) {
		t.Errorf("expected %v after growth, got %v", want, got)
	}
}

// TestQueueStampRange tests the available stamp window
func TestQueueStampRange(t *testing.T) {
	q := lockstep.NewQueue[int](0)

	if r := q.StampRange(); r.Valid() {
		t.Error("expected invalid range for empty queue")
	}

	for _, d := range dispatches(2, 4, 6) {
		q.Push(d) //nolint:errcheck // ordered fixture
	}
	r := q.StampRange()
	if r.Lower != 2 || r.Upper != 6 {
		t.Errorf("expected range (2,6), got (%d,%d)", r.Lower, r.Upper)
	}
}

// TestQueueSetCapacity tests runtime capacity adjustment
func TestQueueSetCapacity(t *testing.T) {
	q := lockstep.NewQueue[int](0)
	for _, d := range dispatches(1, 2, 3, 4, 5) {
		q.Push(d) //nolint:errcheck // ordered fixture
	}

	q.SetCapacity(2)
	if q.Len() != 2 {
		t.Fatalf("expected 2 retained, got %d", q.Len())
	}
	oldest, _ := q.OldestStamp()
	if oldest != 4 {
		t.Errorf("expected oldest 4 after shrink, got %d", oldest)
	}
}
