package lockstep

// Latched always captures the most recent dispatch at or before the driving
// upper stamp and retries only while none exists. The latched element is
// retained and re-emitted on later cycles until a newer dispatch inside the
// driving window supersedes it.
type Latched[T any] struct {
	captor[T]
}

// NewLatched creates a Latched follower.
func NewLatched[T any](opts ...CaptorOption) *Latched[T] {
	return &Latched[T]{captor: newCaptor[T]("latched", opts)}
}

// Capture moves a copy of the latched dispatch into out and removes the
// superseded elements before it.
func (p *Latched[T]) Capture(out Sink[T], r *CaptureRange) State {
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
func (p *Latched[T]) DryCapture(r *CaptureRange) State {
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

func (p *Latched[T]) dryLocked(r *CaptureRange) (State, int) {
	for i := p.queue.Len() - 1; i >= 0; i-- {
		if p.queue.At(i).Stamp <= r.Upper {
			return StatePrimed, i
		}
	}
	return StateRetry, 0
}

// Abort drops data older than t, but never past the newest dispatch at or
// before t: that element stays latched for the next cycle.
func (p *Latched[T]) Abort(t Stamp) {
	if !p.lock.Acquire() {
		return
	}
	defer p.lock.Release()

	for i := p.queue.Len() - 1; i >= 0; i-- {
		if p.queue.At(i).Stamp <= t {
			p.queue.RemoveBefore(p.queue.At(i).Stamp)
			return
		}
	}
}

func (*Latched[T]) followerPolicy() {}

// Ensure Latched satisfies the follower contract.
var _ Follower[int] = (*Latched[int])(nil)
