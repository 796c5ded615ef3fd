package lockstep

// Matched captures the single dispatch whose stamp is closest to the driving
// upper stamp, within a symmetric tolerance. The cycle aborts once buffered
// data has moved past the tolerance window with no candidate inside it.
type Matched[T any] struct {
	captor[T]
	tolerance Offset
}

// NewMatched creates a Matched follower accepting dispatches within
// ±tolerance of range.Upper.
func NewMatched[T any](tolerance Offset, opts ...CaptorOption) *Matched[T] {
	return &Matched[T]{
		captor:    newCaptor[T]("matched", opts),
		tolerance: tolerance,
	}
}

// Capture moves the closest in-window dispatch into out and removes
// everything older than it. The match itself is retained.
func (p *Matched[T]) Capture(out Sink[T], r *CaptureRange) State {
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
func (p *Matched[T]) DryCapture(r *CaptureRange) State {
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

func (p *Matched[T]) dryLocked(r *CaptureRange) (State, int) {
	if p.queue.Len() == 0 {
		return StateRetry, 0
	}
	target := r.Upper

	best := -1
	var bestDiff Offset
	for i := 0; i < p.queue.Len(); i++ {
		diff := p.queue.At(i).Stamp.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff > p.tolerance {
			continue
		}
		if best < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best >= 0 {
		return StatePrimed, best
	}

	newest, _ := p.queue.NewestStamp()
	if newest > target.Add(p.tolerance) {
		return StateAbort, 0
	}
	return StateRetry, 0
}

func (*Matched[T]) followerPolicy() {}

// Ensure Matched satisfies the follower contract.
var _ Follower[int] = (*Matched[int])(nil)
