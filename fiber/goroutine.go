package fiber

// goroutineFactory is the default Factory: every Fiber is backed by a
// parked goroutine instead of a raw machine stack. See DESIGN.md,
// "Fibers as goroutines," for why this is the idiomatic Go rendition
// of a capability spec.md treats as an external, host-specific
// collaborator.
type goroutineFactory struct{}

// NewGoroutineFactory returns the default Factory implementation.
func NewGoroutineFactory() Factory {
	return goroutineFactory{}
}

func (goroutineFactory) FromCurrentThread() *Fiber {
	return &Fiber{resume: make(chan struct{}), label: "scheduler-fiber"}
}

func (goroutineFactory) ReleaseCurrentThread(f *Fiber) {
	// The calling goroutine never had a dedicated goroutine launched
	// on its behalf (it *is* the fiber), so there is nothing to stop.
	// Close the channel so any stray SwitchTo targeting this fiber
	// after release panics loudly instead of deadlocking silently.
	close(f.resume)
}

func (goroutineFactory) Create(entry func(), stackSize int) *Fiber {
	f := &Fiber{
		resume:    make(chan struct{}),
		stackSize: normalizeStackSize(stackSize),
	}
	go func() {
		// Wait for the first SwitchTo before running entry. This is
		// the trampoline's parking point: the fiber exists (the
		// goroutine has been scheduled by the Go runtime) but does
		// not run user code until explicitly switched into, matching
		// spec.md §4.1 point 3 ("the fiber is NOT yet executing").
		<-f.resume
		entry()
	}()
	return f
}

func (goroutineFactory) Release(f *Fiber) {
	// entry has already returned and its goroutine is parked on a
	// final SwitchTo, waiting to switch back into a fiber nothing will
	// ever resume. Closing resume here is what lets that goroutine
	// exit instead of leaking forever: a receive on a closed channel
	// returns immediately, so the parked SwitchTo call unblocks and
	// the trampoline falls off the end of its closure.
	close(f.resume)
}

func (goroutineFactory) SwitchTo(from, to *Fiber) {
	to.resume <- struct{}{}
	<-from.resume
}
