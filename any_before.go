package lockstep

// AnyBefore captures every dispatch behind the driving upper stamp, shifted
// earlier by a fixed delay. It is always PRIMED, whether or not any data is
// buffered, making it the only unconditional follower.
//
// AnyBefore does not behave deterministically unless all data is available
// before the capture boundary: a dispatch arriving late, but stamped inside
// an already-captured window, is silently captured by a later cycle instead.
// Set the delay large enough to cover upstream latency, and prefer Before
// when the boundary must be confirmed.
type AnyBefore[T any] struct {
	captor[T]
	delay Offset
}

// NewAnyBefore creates an AnyBefore follower capturing dispatches stamped
// before range.Upper - delay.
func NewAnyBefore[T any](delay Offset, opts ...CaptorOption) *AnyBefore[T] {
	return &AnyBefore[T]{
		captor: newCaptor[T]("any-before", opts),
		delay:  delay,
	}
}

// Capture moves every dispatch stamped before the capture boundary into out.
// Always PRIMED.
func (p *AnyBefore[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	boundary := r.Upper.Add(-p.delay)
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

// DryCapture probes without emitting or evicting, so the dispatches behind
// the boundary stay buffered for the capture that commits them.
// Always PRIMED.
func (p *AnyBefore[T]) DryCapture(*CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()
	return StatePrimed
}

func (*AnyBefore[T]) followerPolicy() {}

// Ensure AnyBefore satisfies the follower contract.
var _ Follower[int] = (*AnyBefore[int])(nil)
