package lockstep

// Before is the deterministic companion to AnyBefore. It captures every
// dispatch behind the driving upper stamp minus the delay, but only once a
// dispatch at or past that boundary has been observed, confirming that the
// window is complete. Until then it retries.
type Before[T any] struct {
	captor[T]
	delay Offset
}

// NewBefore creates a Before follower capturing dispatches stamped before
// range.Upper - delay once the boundary is confirmed.
func NewBefore[T any](delay Offset, opts ...CaptorOption) *Before[T] {
	return &Before[T]{
		captor: newCaptor[T]("before", opts),
		delay:  delay,
	}
}

// Capture moves every dispatch stamped before the confirmed boundary into
// out.
func (p *Before[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	boundary := r.Upper.Add(-p.delay)
	if state := p.dryLocked(boundary); state != StatePrimed {
		return state
	}
	for {
		oldest, err := p.queue.OldestStamp()
		if err != nil || oldest >= boundary {
			break
		}
		d, _ := p.queue.Pop()
		out(d)
	}
	return StatePrimed
}

// DryCapture returns the state Capture would return without emitting or
// evicting, so the dispatches behind the boundary stay buffered for the
// capture that commits them.
func (p *Before[T]) DryCapture(r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()
	return p.dryLocked(r.Upper.Add(-p.delay))
}

func (p *Before[T]) dryLocked(boundary Stamp) State {
	newest, err := p.queue.NewestStamp()
	if err != nil || newest < boundary {
		return StateRetry
	}
	return StatePrimed
}

func (*Before[T]) followerPolicy() {}

// Ensure Before satisfies the follower contract.
var _ Follower[int] = (*Before[int])(nil)
