package lockstep

// Next is the simplest driving policy: it captures the oldest buffered
// dispatch and sequences the cycle at exactly that stamp, so
// range.Lower == range.Upper == the captured stamp.
type Next[T any] struct {
	captor[T]
}

// NewNext creates a Next driver.
//
// Example:
//
//	driver := lockstep.NewNext[Pose](lockstep.WithCapacity(64))
//	sync := lockstep.NewSynchronizer("fusion", driver, followers...)
func NewNext[T any](opts ...CaptorOption) *Next[T] {
	return &Next[T]{captor: newCaptor[T]("next", opts)}
}

// Capture proposes the oldest stamp as the capture range and, on PRIMED,
// moves the oldest dispatch into out.
func (p *Next[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state := p.dryLocked(r)
	if state == StatePrimed {
		d, _ := p.queue.Pop()
		out(d)
	}
	return state
}

// DryCapture returns the state Capture would return without emitting.
func (p *Next[T]) DryCapture(r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()
	return p.dryLocked(r)
}

func (p *Next[T]) dryLocked(r *CaptureRange) State {
	oldest, err := p.queue.OldestStamp()
	if err != nil {
		return StateRetry
	}
	r.Lower = oldest
	r.Upper = oldest
	return StatePrimed
}

func (*Next[T]) driverPolicy() {}

// Ensure Next satisfies the driver contract.
var _ Driver[int] = (*Next[int])(nil)
