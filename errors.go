package lockstep

import "errors"

// Sentinel errors surfaced by queues, captors, and the synchronizer.
// Policy states (PRIMED/RETRY/ABORT) are the nominal control signal and are
// never reported through errors.
var (
	// ErrOutOfOrderStamp is returned by Push/Inject when a dispatch carries
	// a stamp older than the newest buffered stamp.
	ErrOutOfOrderStamp = errors.New("dispatch stamp older than newest buffered stamp")

	// ErrEmpty is returned by stamp accessors and Pop on an empty queue.
	ErrEmpty = errors.New("queue is empty")

	// ErrCapacityExceeded is returned by Push/Inject when a strict-bounded
	// queue is full.
	ErrCapacityExceeded = errors.New("queue capacity exceeded")

	// ErrContendedQueue is returned by Inject when a polling lock could not
	// be acquired. Capture paths translate contention to RETRY instead.
	ErrContendedQueue = errors.New("queue lock contended")

	// ErrInvalidRange is returned by the synchronizer when a driver yields
	// a range with Lower > Upper, or aborts without populating the range.
	ErrInvalidRange = errors.New("capture range lower stamp exceeds upper stamp")
)
