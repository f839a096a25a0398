// Package scheduler implements the cooperative M:N task scheduler:
// workers pull Tasks off a shared runqueue and dispatch them onto
// fibers, with suspend/wake primitives for cooperative yielding.
package scheduler

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/internal/rtlog"
)

// Scheduler owns a single shared runqueue and the Factory every
// worker attached to it switches fibers through.
type Scheduler struct {
	mu    sync.Mutex
	cond  *sync.Cond
	front *Task
	last  *Task

	factory  fiber.Factory
	attached int32
	logger   *slog.Logger
}

// New creates a scheduler bound to factory with logging disabled.
func New(factory fiber.Factory) *Scheduler {
	return NewWithLogger(factory, rtlog.Discard())
}

// NewWithLogger creates a scheduler that logs dispatch, suspend, and
// completion events at debug level through logger. Wake is not logged.
func NewWithLogger(factory fiber.Factory, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = rtlog.Discard()
	}
	s := &Scheduler{factory: factory, logger: logger}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Factory returns the fiber.Factory this scheduler dispatches
// through, for callers that need to prime a new fiber on the same
// backend.
func (s *Scheduler) Factory() fiber.Factory { return s.factory }

// Destroy tears s down. It is a programmer error to call Destroy
// while any worker is still attached via Run.
func Destroy(s *Scheduler) {
	if n := atomic.LoadInt32(&s.attached); n != 0 {
		fail("destroy called with %d worker(s) still attached", n)
	}
}

func (s *Scheduler) pushLocked(t *Task) {
	t.next = nil
	if s.last != nil {
		s.last.next = t
	} else {
		s.front = t
	}
	s.last = t
	s.cond.Signal()
}

func (s *Scheduler) push(t *Task) {
	s.mu.Lock()
	s.pushLocked(t)
	s.mu.Unlock()
}

func (s *Scheduler) popFrontLocked() *Task {
	t := s.front
	if t == nil {
		return nil
	}
	s.front = t.next
	if s.front == nil {
		s.last = nil
	}
	t.next = nil
	return t
}
