package lockstep

// Chunk is a driving policy that captures a fixed-size block of the oldest
// dispatches. The capture range spans the stamps of the block.
type Chunk[T any] struct {
	captor[T]
	size int
}

// NewChunk creates a Chunk driver that captures size dispatches per cycle.
func NewChunk[T any](size int, opts ...CaptorOption) *Chunk[T] {
	return &Chunk[T]{
		captor: newCaptor[T]("chunk", opts),
		size:   size,
	}
}

// Capture proposes a range spanning the n oldest dispatches and, on PRIMED,
// moves them into out.
func (p *Chunk[T]) Capture(out Sink[T], r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()

	state := p.dryLocked(r)
	if state == StatePrimed {
		for i := 0; i < p.size; i++ {
			d, _ := p.queue.Pop()
			out(d)
		}
	}
	return state
}

// DryCapture returns the state Capture would return without emitting.
func (p *Chunk[T]) DryCapture(r *CaptureRange) State {
	if !p.lock.Acquire() {
		return StateRetry
	}
	defer p.lock.Release()
	return p.dryLocked(r)
}

func (p *Chunk[T]) dryLocked(r *CaptureRange) State {
	if p.queue.Len() < p.size {
		return StateRetry
	}
	r.Lower = p.queue.At(0).Stamp
	r.Upper = p.queue.At(p.size - 1).Stamp
	return StatePrimed
}

func (*Chunk[T]) driverPolicy() {}

// Ensure Chunk satisfies the driver contract.
var _ Driver[int] = (*Chunk[int])(nil)
