package lockstep

// Ranged captures a bracketing interval around the driving range: one
// dispatch at or before range.Lower - delay, one at or after
// range.Upper - delay, and everything in between. The cycle aborts when no
// dispatch older than the shifted lower bound remains, since nothing newer
// can ever bracket the range from below.
type Ranged[T any] struct {
	captor[T]
	delay Offset
}

// NewRanged creates a Ranged follower with the given capture delay.
func NewRanged[T any](delay Offset, opts ...CaptorOption) *Ranged[T] {
	return &Ranged[T]{
		captor: newCaptor[T]("ranged", opts),
		delay:  delay,
	}
}

// Capture moves the bracketing sequence into out and removes everything
// older than its first element.
func (p *Ranged[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state, first, last := p.dryLocked(r)
	if state != StatePrimed {
		return state
	}
	for i := first; i <= last; i++ {
		out(p.queue.At(i))
	}
	p.queue.RemoveBefore(p.queue.At(first).Stamp)
	return StatePrimed
}

// DryCapture returns the state Capture would return and performs the same
// eviction, without emitting. The eviction is intentional: it keeps dry and
// real captures state-equivalent after execution.
func (p *Ranged[T]) DryCapture(r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state, first, _ := p.dryLocked(r)
	if state == StatePrimed {
		p.queue.RemoveBefore(p.queue.At(first).Stamp)
	}
	return state
}

// dryLocked locates the bracketing interval and returns its inclusive index
// bounds.
func (p *Ranged[T]) dryLocked(r *CaptureRange) (state State, first, last int) {
	if p.queue.Len() == 0 {
		return StateRetry, 0, 0
	}

	// First element at or past the shifted lower bound.
	afterFirst := p.findAfterFirst(r)

	// Nothing older than the shifted lower bound: every element is at or
	// past the valid range, and later arrivals only come after.
	if afterFirst == 0 {
		return StateAbort, 0, 0
	}

	// First element past the shifted upper bound closes the bracket.
	beforeLast := p.findBeforeLast(r, afterFirst)
	if beforeLast == p.queue.Len() {
		return StateRetry, 0, 0
	}

	return StatePrimed, afterFirst - 1, beforeLast
}

func (p *Ranged[T]) findAfterFirst(r *CaptureRange) int {
	lower := r.Lower.Add(-p.delay)
	for i := 0; i < p.queue.Len(); i++ {
		if p.queue.At(i).Stamp >= lower {
			return i
		}
	}
	return p.queue.Len()
}

func (p *Ranged[T]) findBeforeLast(r *CaptureRange, afterFirst int) int {
	upper := r.Upper.Add(-p.delay)
	start := afterFirst
	if start == p.queue.Len() {
		start = 0
	}
	for i := start; i < p.queue.Len(); i++ {
		if p.queue.At(i).Stamp > upper {
			return i
		}
	}
	return p.queue.Len()
}

// Abort is a no-op for Ranged; its eviction is tied to capture so the lower
// bracketing element survives aborted cycles.
func (p *Ranged[T]) Abort(Stamp) {}

func (*Ranged[T]) followerPolicy() {}

// Ensure Ranged satisfies the follower contract.
var _ Follower[int] = (*Ranged[int])(nil)
