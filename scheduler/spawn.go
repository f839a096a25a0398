package scheduler

import (
	"github.com/google/uuid"

	"github.com/qxcheng/fiberrt/fiber"
)

// Spawn creates a new Task on s running entry, primes it on its own
// fiber, and pushes it onto the runqueue. stackSize <= 0 selects
// fiber.DefaultStackSize.
//
// Priming follows the publish-then-run trampoline in spec.md §4.3:
// the fiber factory launches entry's backing fiber immediately, but
// the trampoline's first act is to construct the Task and switch
// straight back to whoever called Spawn, so construction never races
// a worker dispatching the task before Spawn has even returned it.
func Spawn(s *Scheduler, entry func(), stackSize int) *Task {
	// A caller already running as a task (SpawnOnCurrent, or any
	// nested spawn) switches back into its own fiber, not a worker's
	// scheduler-fiber; currentWorker must never be invoked from a
	// task's own goroutine; it was never registered as one.
	var callingFiber *fiber.Fiber
	if parent, ok := currentTask.Get(); ok {
		callingFiber = parent.fiber
	} else {
		callingFiber = currentWorker(s).schedulerFiber
	}

	var primed *Task
	var newFiber *fiber.Fiber
	newFiber = s.factory.Create(func() {
		t := &Task{fiber: newFiber, ID: uuid.NewString()}
		currentTask.Set(t)
		primed = t
		s.factory.SwitchTo(newFiber, callingFiber)

		// Resumed later by a worker's dispatch switch.
		entry()

		// entry returned: hand control back to whichever worker is
		// currently dispatching us, marking the fiber for release.
		// Release closes this fiber's resume channel, which is what
		// unblocks the SwitchTo call below instead of leaving this
		// goroutine parked forever.
		currentTask.Delete()
		finishing := t.thread
		finishing.deleteLastFiber = true
		s.factory.SwitchTo(t.fiber, finishing.schedulerFiber)
	}, stackSize)

	s.factory.SwitchTo(callingFiber, newFiber)

	s.push(primed)
	return primed
}

// SpawnOnCurrent spawns entry onto the calling task's own scheduler,
// the current-task-relative overload original_source/include/sched/
// scheduler.h declares alongside the general spawn(scheduler, ...)
// that spec.md's distillation kept (SPEC_FULL.md §11.4).
func SpawnOnCurrent(entry func(), stackSize int) *Task {
	t := CurrentTask()
	return Spawn(t.thread.scheduler, entry, stackSize)
}
