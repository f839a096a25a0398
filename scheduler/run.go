package scheduler

import (
	"sync"

	"github.com/qxcheng/fiberrt/fiber"
)

// Config configures RunFunction.
type Config struct {
	// Threads is the number of worker OS threads (goroutines, in this
	// backend); values below 1 are treated as 1.
	Threads int
	// StackSize is the fiber stack size of the initial task
	// RunFunction spawns; 0 selects fiber.DefaultStackSize. Tasks
	// spawned later use the size passed to Spawn/SpawnOnCurrent, not
	// this one.
	StackSize int
}

// RunFunction creates a scheduler on factory, spawns an initial task
// running entry, starts cfg.Threads-1 additional worker goroutines,
// runs the calling goroutine as the last worker until entry returns,
// joins the rest, and destroys the scheduler. It returns once entry
// has returned and every worker has exited; tasks spawned by entry
// that have not finished by then are not run to completion.
func RunFunction(factory fiber.Factory, cfg Config, entry func()) {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	s := New(factory)
	rc := NewAtomicRunContext()

	Spawn(s, func() {
		entry()
		rc.Stop()
	}, cfg.StackSize)

	var wg sync.WaitGroup
	for i := 0; i < threads-1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Run(s, rc)
		}()
	}

	Run(s, rc)

	wg.Wait()
	Destroy(s)
}
