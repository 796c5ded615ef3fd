package lockstep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultInterval is the default pump back-off between RETRY cycles.
const DefaultInterval = 10 * time.Millisecond

// deliveryID names the terminal delivery stage in the pump pipeline.
const deliveryID = "delivery"

// Pump is the application-facing polling loop around a Synchronizer. It
// drains registered sources into their policy queues, runs capture cycles,
// and delivers committed results through the configured pipeline. RETRY
// cycles back off on the configured clock; ABORT cycles retry immediately
// while the frontier advances and back off once it stalls.
type Pump[T any] struct {
	sync     *Synchronizer[T]
	pipeline pipz.Chainable[*Result[T]]
	feeds    []pumpFeed[T]
	interval time.Duration
	clock    clockz.Clock

	mu      sync.Mutex
	started bool
}

type pumpFeed[T any] struct {
	source Source[T]
	captor Captor[T]
}

// NewPump creates a pump delivering committed cycles to fn.
//
// Pipeline options (With*) wrap the delivery with middleware. Instance
// configuration uses chainable methods before calling Run().
//
// Example:
//
//	pump := lockstep.NewPump(sync,
//	    func(ctx context.Context, res *lockstep.Result[Frame]) error {
//	        return fuse(ctx, res)
//	    },
//	    lockstep.WithRetry[Frame](3),
//	    lockstep.WithTimeout[Frame](time.Second),
//	).
//	    Feed(scanSource, driver).
//	    Feed(odomSource, odomFollower).
//	    Interval(5 * time.Millisecond)
//
//	err := pump.Run(ctx)
func NewPump[T any](synchronizer *Synchronizer[T], fn func(ctx context.Context, res *Result[T]) error, opts ...Option[T]) *Pump[T] {
	terminal := pipz.Effect(deliveryID, func(ctx context.Context, res *Result[T]) error {
		return fn(ctx, res)
	})
	return &Pump[T]{
		sync:     synchronizer,
		pipeline: buildPipeline(terminal, opts),
		interval: DefaultInterval,
		clock:    clockz.RealClock,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Feed registers a source draining into the given policy. The policy must be
// one of the synchronizer's participants and must carry a Mutex or Polling
// lock, since the pump injects from a separate goroutine per source.
// Must be called before Run().
func (p *Pump[T]) Feed(source Source[T], captor Captor[T]) *Pump[T] {
	p.feeds = append(p.feeds, pumpFeed[T]{source: source, captor: captor})
	return p
}

// Interval sets the back-off between RETRY cycles.
// Default: DefaultInterval. Must be called before Run().
func (p *Pump[T]) Interval(d time.Duration) *Pump[T] {
	p.interval = d
	return p
}

// Clock sets a custom clock for the retry back-off.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before Run().
func (p *Pump[T]) Clock(clock clockz.Clock) *Pump[T] {
	p.clock = clock
	return p
}

// Run starts the sources and drives capture cycles until the context is
// canceled or the synchronizer surfaces a fatal error. It returns the
// context error on cancellation.
func (p *Pump[T]) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("pump already started")
	}
	p.started = true
	p.mu.Unlock()

	capitan.Emit(ctx, PumpStarted,
		KeySynchronizer.Field(p.sync.Name()),
		KeyInterval.Field(p.interval),
	)
	defer func() {
		capitan.Emit(ctx, PumpStopped,
			KeySynchronizer.Field(p.sync.Name()),
		)
	}()

	// Drains must unblock before Run returns, even when the loop exits on a
	// synchronizer error rather than caller cancellation.
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	for _, f := range p.feeds {
		ch, err := f.source.Dispatches(ctx)
		if err != nil {
			return fmt.Errorf("failed to start source for %s: %w", f.captor.Name(), err)
		}
		wg.Add(1)
		go p.drain(ctx, &wg, ch, f.captor)
	}

	lastAbort := MinStamp
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := p.sync.Capture(ctx)
		if err != nil {
			return err
		}

		switch res.State {
		case StatePrimed:
			if _, err := p.pipeline.Process(ctx, &res); err != nil {
				capitan.Emit(ctx, PumpDeliveryFailed,
					KeySynchronizer.Field(p.sync.Name()),
					KeyError.Field(err.Error()),
				)
			}

		case StateRetry:
			if err := p.wait(ctx); err != nil {
				return err
			}

		case StateAbort:
			// A frontier that advanced is worth retrying immediately; one
			// that stalled needs new data first.
			if res.Range.Lower == lastAbort {
				if err := p.wait(ctx); err != nil {
					return err
				}
			}
			lastAbort = res.Range.Lower
		}
	}
}

// wait blocks for the retry interval or context cancellation.
func (p *Pump[T]) wait(ctx context.Context) error {
	timer := p.clock.NewTimer(p.interval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

// drain injects dispatches from a source channel into its policy queue.
// Rejected dispatches are reported via signal and dropped.
func (p *Pump[T]) drain(ctx context.Context, wg *sync.WaitGroup, ch <-chan Dispatch[T], captor Captor[T]) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-ch:
			if !ok {
				return
			}
			if err := captor.Inject(d); err != nil {
				capitan.Emit(ctx, PumpInjectFailed,
					KeySynchronizer.Field(p.sync.Name()),
					KeyPolicy.Field(captor.Name()),
					KeyError.Field(err.Error()),
				)
			}
		}
	}
}
