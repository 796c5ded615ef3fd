// Package lockstep provides stamped-data synchronization primitives for
// aligning asynchronous streams of timestamped messages into coherent,
// multi-stream captures.
//
// Each stream is buffered independently by a capture policy. A Synchronizer
// harvests one element (or a set of elements) from every stream that
// together satisfy a temporal sequencing predicate, then advances.
//
// # Capture Policies
//
// A policy is a per-stream state machine over an ordered dispatch queue.
// Two families exist:
//
//   - Drivers propose the capture range from their own buffer: Next,
//     Throttled, Chunk, Batch.
//   - Followers decide readiness relative to a driver-supplied range:
//     AnyBefore, Before, ClosestBefore, Ranged, Matched, Latched.
//
// Every policy operation resolves to one of three states:
//
//   - StatePrimed: the policy contributed what it owes for this range
//   - StateRetry: more data is needed; call again later
//   - StateAbort: this range is infeasible; advance past it
//
// The states are the nominal control signal, not errors. Real errors
// (out-of-order stamps, strict capacity, invalid ranges) surface as wrapped
// sentinel errors.
//
// # Synchronizer
//
// A Synchronizer combines one driver with N followers. Each cycle probes
// every policy with DryCapture and commits real captures only on consensus,
// so a RETRY leaves the other queues untouched and an ABORT fans a common
// forward frontier out to every participant:
//
//	driver := lockstep.NewNext[Scan]()
//	odom := lockstep.NewRanged[Scan](0)
//	sync := lockstep.NewSynchronizer("fusion", driver, odom)
//
//	res, err := sync.Capture(ctx)
//	if err != nil {
//	    return err
//	}
//	if res.State == lockstep.StatePrimed {
//	    fuse(res.Driver, res.Followers[0])
//	}
//
// # Lock Policies
//
// Each policy queue is guarded by a LockPolicy chosen at construction:
// NoLock for single-threaded use, MutexLock for blocking exclusion, and
// PollingLock, whose contended operations behave as if the queue were
// empty and read as RETRY.
//
//	driver := lockstep.NewNext[Scan](
//	    lockstep.WithCapacity(128),
//	    lockstep.WithLock(lockstep.NewMutexLock()),
//	)
//
// # Sources and Pump
//
// The Source interface adapts upstream producers to dispatch channels;
// ChannelSource wraps an existing channel and FileSource tails a recorded
// YAML trace. A Pump drains sources into their policies, drives capture
// cycles, and delivers committed results through a pipz pipeline:
//
//	pump := lockstep.NewPump(sync, deliver,
//	    lockstep.WithRetry[Scan](3),
//	).Feed(scans, driver).Feed(odometry, odom)
//
//	err := pump.Run(ctx)
//
// # Observability
//
// Cycle and pump events are emitted as capitan signals with typed field
// keys, and a MetricsProvider receives per-cycle and per-inject callbacks
// for integration with metrics systems.
package lockstep
