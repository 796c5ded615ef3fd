package lockstep

import "github.com/zoobzio/capitan"

// Capture cycle signals.
var (
	// CyclePrimed is emitted when a cycle commits and flushes its outputs.
	CyclePrimed = capitan.NewSignal(
		"lockstep.cycle.primed",
		"Capture cycle committed",
	)

	// CycleRetry is emitted when a cycle yields RETRY and is discarded.
	CycleRetry = capitan.NewSignal(
		"lockstep.cycle.retry",
		"Capture cycle waiting for data",
	)

	// CycleAborted is emitted when a cycle yields ABORT and the abort stamp
	// is fanned out to every policy.
	CycleAborted = capitan.NewSignal(
		"lockstep.cycle.aborted",
		"Capture cycle aborted",
	)

	// CycleInvalidRange is emitted when the driver yields an unordered or
	// unpopulated range.
	CycleInvalidRange = capitan.NewSignal(
		"lockstep.cycle.invalid_range",
		"Driver produced an invalid capture range",
	)
)

// Pump lifecycle signals.
var (
	// PumpStarted is emitted when a Pump begins draining sources.
	PumpStarted = capitan.NewSignal(
		"lockstep.pump.started",
		"Pump loop started",
	)

	// PumpStopped is emitted when a Pump loop exits.
	PumpStopped = capitan.NewSignal(
		"lockstep.pump.stopped",
		"Pump loop stopped",
	)

	// PumpInjectFailed is emitted when a dispatch from a source is rejected
	// by its policy queue.
	PumpInjectFailed = capitan.NewSignal(
		"lockstep.pump.inject.failed",
		"Source dispatch rejected by policy queue",
	)

	// PumpDeliveryFailed is emitted when the delivery pipeline fails for a
	// committed cycle.
	PumpDeliveryFailed = capitan.NewSignal(
		"lockstep.pump.delivery.failed",
		"Delivery pipeline failed",
	)
)
