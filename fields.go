package lockstep

import "github.com/zoobzio/capitan"

// Field keys for capture cycle and pump events.
var (
	// KeySynchronizer is the name of the synchronizer running the cycle.
	KeySynchronizer = capitan.NewStringKey("synchronizer")

	// KeyState is the aggregate state of the cycle.
	KeyState = capitan.NewStringKey("state")

	// KeyLowerStamp is the lower bound of the capture range.
	KeyLowerStamp = capitan.NewIntKey("lower_stamp")

	// KeyUpperStamp is the upper bound of the capture range.
	KeyUpperStamp = capitan.NewIntKey("upper_stamp")

	// KeyPolicy is the name of the policy an event concerns.
	KeyPolicy = capitan.NewStringKey("policy")

	// KeyDispatchCount is the number of dispatches flushed by a cycle.
	KeyDispatchCount = capitan.NewIntKey("dispatch_count")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyInterval is the configured pump retry interval.
	KeyInterval = capitan.NewDurationKey("interval")

	// KeySource is the type name of a pump source implementation.
	KeySource = capitan.NewStringKey("source")
)
