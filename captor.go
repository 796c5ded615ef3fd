package lockstep

import (
	"errors"
	"fmt"
)

// Sink accepts successive captured dispatches. The synchronizer hands each
// policy a buffering sink so nothing user-visible happens until the whole
// cycle is PRIMED.
type Sink[T any] func(Dispatch[T])

// Captor is the uniform contract exposed by every capture policy, driver and
// follower alike. Producers inject dispatches; one consumer runs capture
// operations against a shared CaptureRange.
type Captor[T any] interface {
	// Inject appends a dispatch to the policy queue. It fails with
	// ErrOutOfOrderStamp if the stamp is behind the newest buffered stamp,
	// ErrCapacityExceeded on a full strict queue, and ErrContendedQueue
	// when a polling lock is unavailable.
	Inject(d Dispatch[T]) error

	// Insert appends a stamp-ordered batch of dispatches under a single
	// lock acquisition.
	Insert(ds []Dispatch[T]) error

	// Capture decides readiness for the range and, on PRIMED, moves the
	// dispatches owed for this range into out. Drivers populate the range;
	// followers consume it as given.
	Capture(out Sink[T], r *CaptureRange) State

	// DryCapture returns the state Capture would return for the same
	// pre-state. It may evict data to prepare the next capture but never
	// emits.
	DryCapture(r *CaptureRange) State

	// Abort drops data older than t. It never fails.
	Abort(t Stamp)

	// Reset returns policy scalars to their initial values. The queue is
	// retained.
	Reset()

	// Size returns the number of buffered dispatches.
	Size() int

	// Capacity returns the queue capacity; zero means unbounded.
	Capacity() int

	// SetCapacity adjusts the queue capacity, evicting the oldest elements
	// if the queue is over the new bound.
	SetCapacity(n int)

	// AvailableStampRange returns the stamps bracketing the buffered
	// dispatches, or the unpopulated sentinel range when the queue is empty.
	AvailableStampRange() CaptureRange

	// Inspect invokes fn for each buffered dispatch in stamp order. The
	// queue is immutable during inspection.
	Inspect(fn func(Dispatch[T]))

	// Name returns the policy name used in signals and metrics.
	Name() string
}

// Driver is a captor that produces the capture range for each cycle.
type Driver[T any] interface {
	Captor[T]
	driverPolicy()
}

// Follower is a captor that consumes a driver-supplied capture range.
type Follower[T any] interface {
	Captor[T]
	followerPolicy()
}

// CaptorOption configures a policy's queue, lock, and observability at
// construction.
type CaptorOption func(*captorConfig)

type captorConfig struct {
	capacity int
	strict   bool
	lock     LockPolicy
	metrics  MetricsProvider
}

// WithCapacity bounds the policy queue to n elements. A full queue evicts
// its oldest element on inject unless WithStrictCapacity is also set.
// Default: unbounded.
func WithCapacity(n int) CaptorOption {
	return func(c *captorConfig) {
		c.capacity = n
	}
}

// WithStrictCapacity makes a bounded queue reject injects with
// ErrCapacityExceeded when full, instead of evicting the oldest element.
func WithStrictCapacity() CaptorOption {
	return func(c *captorConfig) {
		c.strict = true
	}
}

// WithLock sets the lock policy guarding the queue.
// Default: NoLock, for single-threaded use.
func WithLock(lock LockPolicy) CaptorOption {
	return func(c *captorConfig) {
		c.lock = lock
	}
}

// WithPolicyMetrics sets a metrics provider for inject-side observability:
// queue depth, capacity drops, and out-of-order rejections.
func WithPolicyMetrics(m MetricsProvider) CaptorOption {
	return func(c *captorConfig) {
		c.metrics = m
	}
}

// captor is the shared buffer-and-lock base embedded by every policy.
type captor[T any] struct {
	name    string
	queue   *Queue[T]
	lock    LockPolicy
	metrics MetricsProvider
}

func newCaptor[T any](name string, opts []CaptorOption) captor[T] {
	cfg := captorConfig{
		lock:    NoLock{},
		metrics: NoOpMetricsProvider{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	q := NewQueue[T](cfg.capacity)
	if cfg.strict {
		q.Strict()
	}
	return captor[T]{
		name:    name,
		queue:   q,
		lock:    cfg.lock,
		metrics: cfg.metrics,
	}
}

// Inject appends a dispatch to the policy queue.
func (c *captor[T]) Inject(d Dispatch[T]) error {
	if !c.lock.Acquire() {
		return fmt.Errorf("inject into %s: %w", c.name, ErrContendedQueue)
	}
	defer c.lock.Release()
	return c.pushLocked(d)
}

// Insert appends a stamp-ordered batch of dispatches under a single lock
// acquisition. It stops at the first rejected dispatch.
func (c *captor[T]) Insert(ds []Dispatch[T]) error {
	if !c.lock.Acquire() {
		return fmt.Errorf("insert into %s: %w", c.name, ErrContendedQueue)
	}
	defer c.lock.Release()
	for _, d := range ds {
		if err := c.pushLocked(d); err != nil {
			return err
		}
	}
	return nil
}

func (c *captor[T]) pushLocked(d Dispatch[T]) error {
	evicted, err := c.queue.Push(d)
	if err != nil {
		if errors.Is(err, ErrOutOfOrderStamp) {
			c.metrics.OnOutOfOrder(c.name)
		}
		return fmt.Errorf("inject into %s: %w", c.name, err)
	}
	if evicted {
		c.metrics.OnDispatchDropped(c.name)
	}
	c.metrics.OnInject(c.name, c.queue.Len())
	return nil
}

// Abort drops data older than t.
func (c *captor[T]) Abort(t Stamp) {
	if !c.lock.Acquire() {
		return
	}
	defer c.lock.Release()
	c.queue.RemoveBefore(t)
}

// Reset returns policy scalars to their initial values. The base captor has
// none; policies with scalar state override this.
func (c *captor[T]) Reset() {}

// Size returns the number of buffered dispatches.
func (c *captor[T]) Size() int {
	if !c.lock.Acquire() {
		return 0
	}
	defer c.lock.Release()
	return c.queue.Len()
}

// Capacity returns the queue capacity; zero means unbounded.
func (c *captor[T]) Capacity() int {
	if !c.lock.Acquire() {
		return 0
	}
	defer c.lock.Release()
	return c.queue.Capacity()
}

// SetCapacity adjusts the queue capacity.
func (c *captor[T]) SetCapacity(n int) {
	if !c.lock.Acquire() {
		return
	}
	defer c.lock.Release()
	c.queue.SetCapacity(n)
}

// AvailableStampRange returns the stamps bracketing the buffered dispatches.
func (c *captor[T]) AvailableStampRange() CaptureRange {
	if !c.lock.Acquire() {
		return NewCaptureRange()
	}
	defer c.lock.Release()
	return c.queue.StampRange()
}

// Name returns the policy name used in signals and metrics.
func (c *captor[T]) Name() string {
	return c.name
}

// Inspect invokes fn for each buffered dispatch in stamp order.
func (c *captor[T]) Inspect(fn func(Dispatch[T])) {
	if !c.lock.Acquire() {
		return
	}
	defer c.lock.Release()
	for i := 0; i < c.queue.Len(); i++ {
		fn(c.queue.At(i))
	}
}
