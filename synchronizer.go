package lockstep

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Result is the outcome of one capture cycle. On PRIMED it carries the
// flushed dispatches for the driver and each follower in registration order;
// on RETRY and ABORT the output slices are empty.
type Result[T any] struct {
	State     State
	Range     CaptureRange
	Driver    []Dispatch[T]
	Followers [][]Dispatch[T]
}

// Total returns the number of dispatches flushed by the cycle.
func (r *Result[T]) Total() int {
	n := len(r.Driver)
	for _, f := range r.Followers {
		n += len(f)
	}
	return n
}

// Synchronizer orchestrates one driver and N followers across capture
// cycles. Each cycle probes every policy with DryCapture first and commits
// real captures only once all of them are PRIMED, so a RETRY from any
// follower leaves the other queues untouched apart from documented
// dry-capture eviction.
//
// Cycles are linearized: Capture must not be called concurrently. Producers
// may inject concurrently when the policies carry a Mutex or Polling lock.
type Synchronizer[T any] struct {
	name      string
	driver    Driver[T]
	followers []Follower[T]
	clock     clockz.Clock
	metrics   MetricsProvider
	history   *resultRing
}

// NewSynchronizer combines a driver with followers into a capture pipeline.
//
// Example:
//
//	driver := lockstep.NewNext[LaserScan]()
//	odom := lockstep.NewRanged[LaserScan](0)
//	sync := lockstep.NewSynchronizer("scan-fusion", driver, odom)
//
//	res, err := sync.Capture(ctx)
//	if err != nil {
//	    return err
//	}
//	if res.State == lockstep.StatePrimed {
//	    fuse(res.Driver, res.Followers[0])
//	}
func NewSynchronizer[T any](name string, driver Driver[T], followers ...Follower[T]) *Synchronizer[T] {
	return &Synchronizer[T]{
		name:      name,
		driver:    driver,
		followers: followers,
		clock:     clockz.RealClock,
		metrics:   NoOpMetricsProvider{},
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets a custom clock for cycle timing.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before Capture().
func (s *Synchronizer[T]) Clock(clock clockz.Clock) *Synchronizer[T] {
	s.clock = clock
	return s
}

// Metrics sets a metrics provider receiving per-cycle outcome callbacks.
// Must be called before Capture().
func (s *Synchronizer[T]) Metrics(provider MetricsProvider) *Synchronizer[T] {
	s.metrics = provider
	return s
}

// HistorySize sets the number of recent cycle records to retain.
// Use 0 (default) to disable history. Must be called before Capture().
func (s *Synchronizer[T]) HistorySize(n int) *Synchronizer[T] {
	s.history = newResultRing(n)
	return s
}

// Name returns the synchronizer name used in signals.
func (s *Synchronizer[T]) Name() string {
	return s.name
}

// History returns the retained cycle records, oldest first.
func (s *Synchronizer[T]) History() []CycleRecord {
	return s.history.all()
}

// Capture runs one capture cycle: the driver proposes a range, every
// follower is probed against it, and on consensus the owed dispatches are
// flushed into the Result. A RETRY from any policy yields a RETRY cycle with
// no outputs; an ABORT fans the range's lower stamp out to every policy,
// driver included, so the queues converge on the same forward frontier.
//
// Capture returns ErrInvalidRange when the driver produces an unordered
// range, or aborts without populating one.
func (s *Synchronizer[T]) Capture(ctx context.Context) (Result[T], error) {
	start := s.clock.Now()

	r := NewCaptureRange()
	state, err := s.probe(ctx, &r)
	if err != nil {
		return Result[T]{State: StateAbort, Range: r}, err
	}
	if state != StatePrimed {
		return s.finish(ctx, Result[T]{State: state, Range: r}, start), nil
	}

	// Consensus reached; commit. A policy whose state shifted since the
	// probe (concurrent injection) downgrades the cycle to RETRY.
	res := Result[T]{State: StatePrimed, Range: r}
	driverSink := func(d Dispatch[T]) { res.Driver = append(res.Driver, d) }
	if s.driver.Capture(driverSink, &r) != StatePrimed {
		return s.finish(ctx, Result[T]{State: StateRetry, Range: r}, start), nil
	}
	res.Followers = make([][]Dispatch[T], len(s.followers))
	for i, f := range s.followers {
		i := i
		sink := func(d Dispatch[T]) { res.Followers[i] = append(res.Followers[i], d) }
		if f.Capture(sink, &r) != StatePrimed {
			return s.finish(ctx, Result[T]{State: StateRetry, Range: r}, start), nil
		}
	}
	return s.finish(ctx, res, start), nil
}

// CaptureUntil polls capture cycles until one commits or aborts, or the
// deadline expires. A cycle still in RETRY at the deadline is returned as
// such; the caller decides whether to abandon the range. Polling paces on
// the synchronizer clock, so tests can drive it with a fake clock.
func (s *Synchronizer[T]) CaptureUntil(ctx context.Context, deadline time.Time, poll time.Duration) (Result[T], error) {
	for {
		res, err := s.Capture(ctx)
		if err != nil || res.State != StateRetry {
			return res, err
		}
		if !s.clock.Now().Before(deadline) {
			return res, nil
		}
		timer := s.clock.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return res, ctx.Err()
		case <-timer.C():
		}
	}
}

// DryCapture runs the probe pattern of a cycle: dry captures across the
// driver and followers with their queue-side effects, but no emissions. It
// returns the aggregate state and the proposed range.
func (s *Synchronizer[T]) DryCapture(ctx context.Context) (State, CaptureRange, error) {
	r := NewCaptureRange()
	state, err := s.probe(ctx, &r)
	return state, r, err
}

// probe runs driver and follower dry captures and handles abort fan-out.
func (s *Synchronizer[T]) probe(ctx context.Context, r *CaptureRange) (State, error) {
	switch state := s.driver.DryCapture(r); state {
	case StateRetry:
		return StateRetry, nil
	case StateAbort:
		if r.Lower == MaxStamp {
			return StateAbort, s.invalidRange(ctx, *r, "abort without populated range")
		}
		s.fanOutAbort(*r)
		return StateAbort, nil
	case StatePrimed:
		if !r.Valid() {
			return StateAbort, s.invalidRange(ctx, *r, "lower stamp exceeds upper stamp")
		}
	}

	for _, f := range s.followers {
		switch f.DryCapture(r) {
		case StateRetry:
			return StateRetry, nil
		case StateAbort:
			s.fanOutAbort(*r)
			return StateAbort, nil
		}
	}
	return StatePrimed, nil
}

// fanOutAbort propagates the abort frontier to every participant, driver
// included.
func (s *Synchronizer[T]) fanOutAbort(r CaptureRange) {
	s.driver.Abort(r.Lower)
	for _, f := range s.followers {
		f.Abort(r.Lower)
	}
}

// Reset resets the driver and every follower. Queues are retained unless a
// policy specifies otherwise.
func (s *Synchronizer[T]) Reset() {
	s.driver.Reset()
	for _, f := range s.followers {
		f.Reset()
	}
	s.history.clear()
}

func (s *Synchronizer[T]) invalidRange(ctx context.Context, r CaptureRange, detail string) error {
	capitan.Emit(ctx, CycleInvalidRange,
		KeySynchronizer.Field(s.name),
		KeyLowerStamp.Field(int(r.Lower)),
		KeyUpperStamp.Field(int(r.Upper)),
	)
	return fmt.Errorf("synchronizer %s: %s: %w", s.name, detail, ErrInvalidRange)
}

func (s *Synchronizer[T]) finish(ctx context.Context, res Result[T], start time.Time) Result[T] {
	s.metrics.OnCycle(res.State, s.clock.Since(start))
	s.history.push(CycleRecord{State: res.State, Range: res.Range})

	switch res.State {
	case StatePrimed:
		capitan.Emit(ctx, CyclePrimed,
			KeySynchronizer.Field(s.name),
			KeyLowerStamp.Field(int(res.Range.Lower)),
			KeyUpperStamp.Field(int(res.Range.Upper)),
			KeyDispatchCount.Field(res.Total()),
		)
	case StateRetry:
		capitan.Emit(ctx, CycleRetry,
			KeySynchronizer.Field(s.name),
		)
	case StateAbort:
		capitan.Emit(ctx, CycleAborted,
			KeySynchronizer.Field(s.name),
			KeyLowerStamp.Field(int(res.Range.Lower)),
			KeyUpperStamp.Field(int(res.Range.Upper)),
		)
	}
	return res
}
