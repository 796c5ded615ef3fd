package lockstep

import "sync"

// LockPolicy guards a captor's queue. The policy is chosen at construction
// and applied to the minimum window: inject, capture, and inspection.
type LockPolicy interface {
	// Acquire obtains the lock. It reports false when the lock could not be
	// obtained without blocking; capture paths treat that as RETRY and
	// inject reports ErrContendedQueue.
	Acquire() bool

	// Release releases the lock. Only valid after a successful Acquire.
	Release()
}

// NoLock is the lock policy for single-threaded use. The caller guarantees
// exclusion; Acquire always succeeds.
type NoLock struct{}

// Acquire always succeeds.
func (NoLock) Acquire() bool { return true }

// Release does nothing.
func (NoLock) Release() {}

// MutexLock is a blocking mutual-exclusion lock policy. Every queue
// operation acquires and releases the mutex.
type MutexLock struct {
	mu sync.Mutex
}

// NewMutexLock creates a blocking lock policy.
func NewMutexLock() *MutexLock {
	return &MutexLock{}
}

// Acquire blocks until the lock is held, then succeeds.
func (l *MutexLock) Acquire() bool {
	l.mu.Lock()
	return true
}

// Release releases the lock.
func (l *MutexLock) Release() {
	l.mu.Unlock()
}

// PollingLock is a non-blocking try-lock policy. When contended, queue
// operations behave as if the queue were empty: captures return RETRY and
// injects fail with ErrContendedQueue.
type PollingLock struct {
	mu sync.Mutex
}

// NewPollingLock creates a non-blocking lock policy.
func NewPollingLock() *PollingLock {
	return &PollingLock{}
}

// Acquire reports whether the lock was obtained without blocking.
func (l *PollingLock) Acquire() bool {
	return l.mu.TryLock()
}

// Release releases the lock.
func (l *PollingLock) Release() {
	l.mu.Unlock()
}
