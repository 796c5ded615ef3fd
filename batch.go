package lockstep

// Batch is a driving policy that captures every dispatch inside a fixed
// period starting at the oldest buffered stamp. The cycle is ready once the
// buffered span covers the period, so the batch boundary is confirmed.
type Batch[T any] struct {
	captor[T]
	period Offset
}

// NewBatch creates a Batch driver that captures period-wide windows.
func NewBatch[T any](period Offset, opts ...CaptorOption) *Batch[T] {
	return &Batch[T]{
		captor: newCaptor[T]("batch", opts),
		period: period,
	}
}

// Capture proposes the window [oldest, oldest+period] and, on PRIMED, moves
// every dispatch inside it into out.
func (p *Batch[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state := p.dryLocked(r)
	if state == StatePrimed {
		for {
			oldest, err := p.queue.OldestStamp()
			if err != nil || oldest > r.Upper {
				break
			}
			d, _ := p.queue.Pop()
			out(d)
		}
	}
	return state
}

// DryCapture returns the state Capture would return without emitting.
func (p *Batch[T]) DryCapture(r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()
	return p.dryLocked(r)
}

func (p *Batch[T]) dryLocked(r *CaptureRange) State {
	oldest, err := p.queue.OldestStamp()
	if err != nil {
		return StateRetry
	}
	newest, _ := p.queue.NewestStamp()
	if newest.Sub(oldest) < p.period {
		return StateRetry
	}
	r.Lower = oldest
	r.Upper = oldest.Add(p.period)
	return StatePrimed
}

func (*Batch[T]) driverPolicy() {}

// Ensure Batch satisfies the driver contract.
var _ Driver[int] = (*Batch[int])(nil)
