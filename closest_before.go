package lockstep

// ClosestBefore captures at most one dispatch: the newest one at or before
// the driving lower stamp minus the delay, accepted only if it falls within
// one period of that boundary. All older dispatches are removed.
//
// ClosestBefore behaves non-deterministically if the actual input period
// does not match the period argument: a period set too large admits several
// candidates before the driving range, so the chosen "closest" element can
// differ between cycles that assumed the same latest data.
type ClosestBefore[T any] struct {
	captor[T]
	period Offset
	delay  Offset
}

// NewClosestBefore creates a ClosestBefore follower. Period is the expected
// spacing between successive dispatches; delay shifts the capture boundary
// earlier than the driving range.
func NewClosestBefore[T any](period, delay Offset, opts ...CaptorOption) *ClosestBefore[T] {
	return &ClosestBefore[T]{
		captor: newCaptor[T]("closest-before", opts),
		period: period,
		delay:  delay,
	}
}

// Capture moves the accepted candidate into out and removes everything
// older than it. The candidate itself is retained for later cycles.
func (p *ClosestBefore[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state, idx := p.dryLocked(r)
	if state == StatePrimed {
		d := p.queue.At(idx)
		out(d)
		p.queue.RemoveBefore(d.Stamp)
	}
	return state
}

// DryCapture returns the state Capture would return and performs the same
// eviction, without emitting.
func (p *ClosestBefore[T]) DryCapture(r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state, idx := p.dryLocked(r)
	if state == StatePrimed {
		p.queue.RemoveBefore(p.queue.At(idx).Stamp)
	}
	return state
}

// dryLocked finds the newest dispatch at or before the capture boundary and
// returns its index when it falls within the acceptance window
// (boundary-period, boundary].
func (p *ClosestBefore[T]) dryLocked(r *CaptureRange) (State, int) {
	if p.queue.Len() == 0 {
		return StateRetry, 0
	}
	boundary := r.Lower.Add(-p.delay)

	idx := -1
	for i := p.queue.Len() - 1; i >= 0; i-- {
		if p.queue.At(i).Stamp <= boundary {
			idx = i
			break
		}
	}
	newest, _ := p.queue.NewestStamp()

	if idx < 0 {
		// Everything buffered is past the boundary. Once data is past the
		// driving range too, no candidate can ever appear.
		if newest > r.Upper {
			return StateAbort, 0
		}
		return StateRetry, 0
	}
	if p.queue.At(idx).Stamp > boundary.Add(-p.period) {
		return StatePrimed, idx
	}
	// Candidate is older than one period. A dispatch may still arrive inside
	// the window unless something past the boundary is already buffered.
	if newest > boundary {
		return StateAbort, 0
	}
	return StateRetry, 0
}

func (*ClosestBefore[T]) followerPolicy() {}

// Ensure ClosestBefore satisfies the follower contract.
var _ Follower[int] = (*ClosestBefore[int])(nil)
