package lockstep

// Throttled behaves like Next but enforces a minimum period between
// successive emissions. Dispatches arriving sooner than the period after the
// previous emission are silently dropped, so some elements are skipped when
// the input rate exceeds the throttled rate.
type Throttled[T any] struct {
	captor[T]
	period      Offset
	previous    Stamp
	hasPrevious bool
}

// NewThrottled creates a Throttled driver with the given minimum period
// between emissions.
func NewThrottled[T any](period Offset, opts ...CaptorOption) *Throttled[T] {
	return &Throttled[T]{
		captor: newCaptor[T]("throttled", opts),
		period: period,
	}
}

// Capture proposes the next head satisfying the throttle period and, on
// PRIMED, moves it into out and records its stamp.
func (p *Throttled[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state := p.dryLocked(r)
	if state == StatePrimed {
		d, _ := p.queue.Pop()
		out(d)
		p.previous = d.Stamp
		p.hasPrevious = true
	}
	return state
}

// DryCapture returns the state Capture would return without emitting.
// Heads arriving too soon after the previous emission are dropped here.
func (p *Throttled[T]) DryCapture(r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()
	return p.dryLocked(r)
}

func (p *Throttled[T]) dryLocked(r *CaptureRange) State {
	for {
		oldest, err := p.queue.OldestStamp()
		if err != nil {
			return StateRetry
		}
		if p.hasPrevious && oldest.Sub(p.previous) < p.period {
			p.queue.Pop() //nolint:errcheck // head exists
			continue
		}
		r.Lower = oldest
		r.Upper = oldest
		return StatePrimed
	}
}

// Reset clears the previous emission stamp. The queue is retained.
func (p *Throttled[T]) Reset() {
	if !p.lock.Acquire() {
		return
	}
	defer p.lock.Release()
	p.previous = 0
	p.hasPrevious = false
}

func (*Throttled[T]) driverPolicy() {}

// Ensure Throttled satisfies the driver contract.
var _ Driver[int] = (*Throttled[int])(nil)
