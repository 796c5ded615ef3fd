package lockstep

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key synchronization events.
type MetricsProvider interface {
	// OnCycle is called after every capture cycle with its outcome and the
	// time taken to run the driver and all followers.
	OnCycle(state State, duration time.Duration)

	// OnInject is called after a dispatch is accepted into a policy queue.
	// Depth is the queue length after the insert.
	OnInject(policy string, depth int)

	// OnDispatchDropped is called when a full bounded queue evicts its
	// oldest element to make room.
	OnDispatchDropped(policy string)

	// OnOutOfOrder is called when an inject is rejected because its stamp
	// is behind the newest buffered stamp.
	OnOutOfOrder(policy string)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnCycle(_ State, _ time.Duration) {}
func (NoOpMetricsProvider) OnInject(_ string, _ int)         {}
func (NoOpMetricsProvider) OnDispatchDropped(_ string)       {}
func (NoOpMetricsProvider) OnOutOfOrder(_ string)            {}
