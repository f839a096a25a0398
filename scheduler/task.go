package scheduler

import (
	"sync"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/internal/gls"
)

// currentTask maps a task's own dedicated fiber-goroutine to the Task
// it is running. Unlike workers (keyed by whichever goroutine is
// acting as a worker at the moment), this mapping is set exactly once,
// when the fiber-goroutine is created in Spawn's trampoline, and holds
// until the task's entry returns, when the trampoline deletes it: a
// task's entry never migrates to a different goroutine, only the
// worker dispatching it changes.
var currentTask = gls.NewStore[*Task]()

// Task is a unit of user work backed by exactly one Fiber. A Task
// appears on at most one queue at a time (the runqueue, a Sema root's
// waiter list, or the timer heap); next is owned solely by whichever
// queue currently holds it.
type Task struct {
	fiber *fiber.Fiber
	next  *Task

	// runLock is held by the dispatching worker from just before the
	// switch into the task's fiber until the worker has fully
	// returned from that switch and published any unlock callback.
	// This is the "run_lock spanning dispatch" half of the
	// publish-then-sleep protocol (spec.md §5).
	runLock sync.Mutex

	// unlockFn is set by SuspendWithUnlock just before the task
	// suspends, cleared and invoked by the dispatching worker after
	// releasing runLock.
	unlockFn func()

	// thread is the worker currently dispatching this task. It is
	// written only by that worker, holding runLock, immediately before
	// switching into the task's fiber, so a suspension primitive
	// reading it always sees the worker actually waiting on the other
	// end of the switch — never a stale or racing one from a duplicate
	// runqueue entry (spec.md §9's "yield races wake").
	thread *workerThread

	// ID is a uuid used only for log correlation; it has no role in
	// scheduling semantics (SPEC_FULL.md §11.2).
	ID string
}

func (t *Task) String() string { return t.ID }
