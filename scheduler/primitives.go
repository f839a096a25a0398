package scheduler

// CurrentTask returns the Task whose entry function the calling
// goroutine is running. It is a programmer error to call it from a
// goroutine that is not a task's own fiber-goroutine.
func CurrentTask() *Task {
	t, ok := currentTask.Get()
	if !ok {
		fail("CurrentTask called outside any task")
	}
	return t
}

// CurrentWorkerID identifies the worker goroutine currently
// dispatching the calling task. It is only meaningful for the
// duration of the current dispatch: a task carries no thread-affinity
// guarantee, so the id a later call returns may differ once the task
// has suspended and been resumed by a different worker (spec.md §8
// scenario 6).
func CurrentWorkerID() uint64 {
	return CurrentTask().thread.id
}

// suspendTask switches from t's fiber back to the scheduler-fiber of
// whichever worker is dispatching it, returning control to the
// worker loop's SwitchTo call in Run.
func suspendTask(t *Task) {
	wt := t.thread
	wt.scheduler.factory.SwitchTo(t.fiber, wt.schedulerFiber)
}

// Wake pushes t onto its worker's scheduler runqueue and signals any
// worker blocked waiting for work. Waking an already-runnable task is
// harmless: it is simply enqueued again.
func Wake(t *Task) {
	t.thread.scheduler.push(t)
}

// Yield re-enqueues the calling task at the back of the runqueue and
// suspends it, giving other runnable tasks a turn.
func Yield() {
	t := CurrentTask()
	Wake(t)
	SuspendSelf()
}

// SuspendSelf suspends the calling task with no unlock callback and
// without re-enqueuing it; some other Wake(t) call must run later or
// the task never resumes.
func SuspendSelf() {
	suspendTask(CurrentTask())
}

// SuspendWithUnlock suspends the calling task, publishing unlock as
// the callback the dispatching worker invokes once this task's
// run_lock has been released — after the worker has fully returned
// from the switch, never before. This is the "publish then sleep"
// half of the protocol described in spec.md §5: callers use it to
// release an external lock only once it is guaranteed the task is
// safely parked and cannot be missed by a concurrent Wake.
func SuspendWithUnlock(unlock func()) {
	t := CurrentTask()
	t.unlockFn = unlock
	suspendTask(t)
}
