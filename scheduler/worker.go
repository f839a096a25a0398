package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/internal/gls"
)

// workerThread is the per-goroutine record a worker's goroutine keeps
// about itself, recovered through internal/gls instead of true
// thread-local storage (spec.md §9's "per-OS-thread SchedulerThread
// record").
type workerThread struct {
	schedulerFiber  *fiber.Fiber
	deleteLastFiber bool
	scheduler       *Scheduler

	// id identifies the worker's own goroutine, captured once at
	// creation; exposed to callers via CurrentWorkerID so they can
	// observe which worker is dispatching a task at any given moment
	// without reaching into gls themselves.
	id uint64

	// running marks that this goroutine is already inside a Run loop,
	// so a nested Run call on the same goroutine inherits the context
	// instead of treating it as a fresh worker, and leaves releasing it
	// to the outer call. (RunFunction's priming Spawn only creates the
	// record; its later Run call is the outer one.)
	running bool
}

var workers = gls.NewStore[*workerThread]()

// currentWorker returns the calling goroutine's workerThread,
// establishing one against s via FromCurrentThread if this goroutine
// has never been seen before. Callers must only invoke this from a
// genuine worker or host goroutine, never from a task's own
// fiber-goroutine (see Spawn).
func currentWorker(s *Scheduler) *workerThread {
	if wt, ok := workers.Get(); ok {
		return wt
	}
	wt := &workerThread{schedulerFiber: s.factory.FromCurrentThread(), scheduler: s, id: gls.ID()}
	workers.Set(wt)
	return wt
}

// Run drives the calling goroutine as a worker against s: pop a task,
// switch into it, act on how it left off, repeat while rc returns
// true. Once rc returns false the worker exits after its current
// dispatch; tasks still on the runqueue are left there.
func Run(s *Scheduler, rc RunContext) {
	wt := currentWorker(s)
	nested := wt.running
	wt.running = true

	atomic.AddInt32(&s.attached, 1)
	defer func() {
		atomic.AddInt32(&s.attached, -1)
		if !nested {
			wt.running = false
			workers.Delete()
			s.factory.ReleaseCurrentThread(wt.schedulerFiber)
		}
	}()

	for rc.Running() {
		s.mu.Lock()
		for s.front == nil && rc.Running() {
			// cond.Wait does not observe rc by itself; wake up
			// periodically so an idle worker notices a stop.
			poll := time.AfterFunc(10*time.Millisecond, func() {
				s.mu.Lock()
				s.cond.Broadcast()
				s.mu.Unlock()
			})
			s.cond.Wait()
			poll.Stop()
		}
		t := s.popFrontLocked()
		s.mu.Unlock()

		if t == nil {
			continue
		}

		wt.deleteLastFiber = false

		t.runLock.Lock()
		// t.thread must only be set once runLock is actually held: a
		// duplicate runqueue entry for the same task (admitted by
		// spec.md §9's yield/wake race) may be popped by a second,
		// idle worker here too, but it then blocks on this same Lock
		// until the real dispatch below has switched out and released
		// it. Writing t.thread any earlier would let that second
		// worker overwrite it while the task is still mid-suspend.
		t.thread = wt
		s.logger.Debug("dispatch", "task", t.ID)
		s.factory.SwitchTo(wt.schedulerFiber, t.fiber)

		if wt.deleteLastFiber {
			s.factory.Release(t.fiber)
			s.logger.Debug("completed", "task", t.ID)
		} else {
			unlock := t.unlockFn
			t.unlockFn = nil
			t.runLock.Unlock()
			s.logger.Debug("suspended", "task", t.ID)
			if unlock != nil {
				unlock()
			}
		}
	}

	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}
