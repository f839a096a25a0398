// Package tmutex implements a mutual-exclusion primitive with a
// cheap uncontended fast path and a TryLock, adapted from
// qxcheng-net-protocol's pkg/tmutex. Used by rtsync for Sema root
// locks and by timer for the timer-context lock: both are workloads
// that are uncontended in the overwhelmingly common case and only
// rarely see a handful of waiters.
package tmutex

import "sync/atomic"

// Mutex is a mutual exclusion primitive that implements TryLock in
// addition to Lock and Unlock. The zero value is not ready for use;
// call Init first.
type Mutex struct {
	v  int32
	ch chan struct{}
}

// Init prepares m for use. Must be called exactly once before any
// other method.
func (m *Mutex) Init() {
	m.v = 1
	m.ch = make(chan struct{}, 1)
}

// Lock acquires m, blocking until it is available.
func (m *Mutex) Lock() {
	if atomic.AddInt32(&m.v, -1) == 0 {
		return
	}

	for {
		// Swap unconditionally marks the mutex contended (-1) even
		// when this attempt loses, which is what guarantees Unlock
		// later sees a nonzero old value and notifies the channel; a
		// CAS keyed off the just-loaded v would let a second reader of
		// a merely-uncontended-locked (v==0) mutex "win" the same way
		// the true holder did, without ever having observed it free.
		if v := atomic.LoadInt32(&m.v); v >= 0 && atomic.SwapInt32(&m.v, -1) == 1 {
			return
		}

		<-m.ch
	}
}

// TryLock acquires m only if it is currently free.
func (m *Mutex) TryLock() bool {
	v := atomic.LoadInt32(&m.v)
	if v <= 0 {
		return false
	}
	return atomic.CompareAndSwapInt32(&m.v, 1, 0)
}

// Unlock releases m. It is a programmer error to call Unlock on an
// already-unlocked Mutex.
func (m *Mutex) Unlock() {
	if atomic.SwapInt32(&m.v, 1) == 0 {
		return
	}

	select {
	case m.ch <- struct{}{}:
	default:
	}
}
