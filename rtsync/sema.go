// Package rtsync provides the scheduler-aware blocking primitives
// built on top of scheduler.SuspendWithUnlock: a counting semaphore
// and a WaitGroup. Both publish a waiter before suspending and only
// release their root lock from inside the unlock callback, so a
// Release/Add racing the suspend can never be lost (spec.md §5).
package rtsync

import (
	"sync/atomic"
	"unsafe"

	"github.com/qxcheng/fiberrt/internal/ilist"
	"github.com/qxcheng/fiberrt/internal/tmutex"
	"github.com/qxcheng/fiberrt/scheduler"
)

// semTableSize is prime, matching the address-hashed root table
// study-core-go1.14.6-analysis documents for runtime/sema.go's
// semroot(): a prime modulus spreads pointer addresses (which cluster
// on allocator-size boundaries) more evenly across roots than a power
// of two would.
const semTableSize = 251

type semaRoot struct {
	lock    tmutex.Mutex
	waiters ilist.List
}

var semTable [semTableSize]semaRoot

func init() {
	for i := range semTable {
		semTable[i].lock.Init()
	}
}

// Sema is a counting semaphore. The zero value, or any value produced
// by NewSema, is ready to use.
type Sema struct {
	value int32
}

// NewSema returns a Sema with the given initial value.
func NewSema(initial int32) *Sema {
	return &Sema{value: initial}
}

type semaWaiter struct {
	ilist.Entry
	sema *Sema
	task *scheduler.Task
}

// semroot picks this Sema's root the same way runtime/sema.go does:
// hash the variable's own address. Shifting by 3 discards the
// pointer-alignment bits, which carry no entropy.
func semroot(s *Sema) *semaRoot {
	return &semTable[(uintptr(unsafe.Pointer(s))>>3)%semTableSize]
}

// Acquire decrements s, blocking the calling task until a unit is
// available.
func (s *Sema) Acquire() {
	for {
		if s.TryAcquire() {
			return
		}

		root := semroot(s)
		root.lock.Lock()

		if s.TryAcquire() {
			root.lock.Unlock()
			return
		}

		w := &semaWaiter{sema: s, task: scheduler.CurrentTask()}
		root.waiters.PushBack(w)

		scheduler.SuspendWithUnlock(func() {
			root.lock.Unlock()
		})
		// Resumed by Release; loop back and retry rather than assuming
		// ownership, since more than one Sema can share this root.
	}
}

// TryAcquire decrements s only if a unit is immediately available,
// without blocking.
func (s *Sema) TryAcquire() bool {
	for {
		v := atomic.LoadInt32(&s.value)
		if v <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&s.value, v, v-1) {
			return true
		}
	}
}

// Release increments s and wakes one task waiting on it, if any.
func (s *Sema) Release() {
	atomic.AddInt32(&s.value, 1)

	root := semroot(s)
	root.lock.Lock()
	for e := root.waiters.Front(); e != nil; e = e.Next() {
		w, ok := e.(*semaWaiter)
		if ok && w.sema == s {
			root.waiters.Remove(w)
			root.lock.Unlock()
			scheduler.Wake(w.task)
			return
		}
	}
	root.lock.Unlock()
}
