package lockstep_test

import (
	"testing"

	"github.com/zoobzio/lockstep"
)

// dispatches builds int-payload dispatches whose values mirror their stamps.
func dispatches(stamps ...int64) []lockstep.Dispatch[int] {
	ds := make([]lockstep.Dispatch[int], len(stamps))
	for i, s := range stamps {
		ds[i] = lockstep.NewDispatch(lockstep.Stamp(s), int(s))
	}
	return ds
}

// inject pushes stamps into a captor, failing the test on rejection.
func inject(t *testing.T, c lockstep.Captor[int], stamps ...int64) {
	t.Helper()
	for _, d := range dispatches(stamps...) {
		if err := c.Inject(d); err != nil {
			t.Fatalf("unexpected inject error: %v", err)
		}
	}
}

// collector returns a sink appending into out.
func collector(out *[]lockstep.Dispatch[int]) lockstep.Sink[int] {
	return func(d lockstep.Dispatch[int]) {
		*out = append(*out, d)
	}
}

// captured extracts the stamps of captured dispatches.
func captured(ds []lockstep.Dispatch[int]) []int64 {
	stamps := make([]int64, len(ds))
	for i, d := range ds {
		stamps[i] = int64(d.Stamp)
	}
	return stamps
}

// remaining extracts the stamps left in a captor's queue.
func remaining(c lockstep.Captor[int]) []int64 {
	var stamps []int64
	c.Inspect(func(d lockstep.Dispatch[int]) {
		stamps = append(stamps, int64(d.Stamp))
	})
	return stamps
}

// sameStamps compares stamp sequences.
func sameStamps(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
