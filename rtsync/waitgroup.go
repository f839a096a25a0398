package rtsync

import "sync/atomic"

// WaitGroup waits for a collection of tasks to finish. state packs
// the signed counter into its high 32 bits and the parked-waiter
// count into its low 32, mirroring sync.WaitGroup's own layout and
// original_source/src/waitgroup.cpp's counter/waiter pair. Waiters
// block on an embedded Sema rather than a bespoke waiter list, the
// same trick sync.WaitGroup plays with its runtime semaphore.
type WaitGroup struct {
	state uint64
	sema  Sema
}

// NewWaitGroup returns a ready-to-use WaitGroup.
func NewWaitGroup() *WaitGroup {
	return &WaitGroup{}
}

// Add changes the counter by delta, which may be negative. It is a
// programmer error for the counter to go negative, or for a positive
// Add to race a drain already in progress (the same misuse
// sync.WaitGroup panics on).
func (wg *WaitGroup) Add(delta int32) {
	state := atomic.AddUint64(&wg.state, uint64(uint32(delta))<<32)
	count := int32(state >> 32)
	waiters := uint32(state)

	if count < 0 {
		fail("negative WaitGroup counter: Add(%d) left count %d (waiters %d)", delta, count, waiters)
	}
	if waiters > 0 && delta > 0 && count == delta {
		fail("WaitGroup misused: Add(%d) raced a drain in progress (count %d, waiters %d)", delta, count, waiters)
	}
	if count > 0 || waiters == 0 {
		return
	}

	if !atomic.CompareAndSwapUint64(&wg.state, state, 0) {
		fail("WaitGroup misused: concurrent state change during drain")
	}
	for i := uint32(0); i < waiters; i++ {
		wg.sema.Release()
	}
}

// Done decrements the counter by one.
func (wg *WaitGroup) Done() { wg.Add(-1) }

// Wait blocks the calling task until the counter reaches zero.
func (wg *WaitGroup) Wait() {
	for {
		state := atomic.LoadUint64(&wg.state)
		if int32(state>>32) == 0 {
			return
		}
		if atomic.CompareAndSwapUint64(&wg.state, state, state+1) {
			wg.sema.Acquire()
			return
		}
	}
}
