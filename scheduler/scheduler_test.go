package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/qxcheng/fiberrt/fiber"
)

func TestRunFunctionRunsEntryToCompletion(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	var ran int32

	RunFunction(factory, Config{Threads: 2}, func() {
		atomic.StoreInt32(&ran, 1)
	})

	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("entry did not run")
	}
}

func TestSpawnAndWaitForCompletion(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	const n = 20

	var done int32

	RunFunction(factory, Config{Threads: 4}, func() {
		self := CurrentTask()
		for i := 0; i < n; i++ {
			SpawnOnCurrent(func() {
				atomic.AddInt32(&done, 1)
				Wake(self)
			}, 0)
			SuspendSelf()
		}
	})

	if atomic.LoadInt32(&done) != n {
		t.Fatalf("done = %d, want %d", done, n)
	}
}

func TestYieldGivesOtherTasksATurn(t *testing.T) {
	factory := fiber.NewGoroutineFactory()

	var order []int
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	wg.Add(2)

	RunFunction(factory, Config{Threads: 1}, func() {
		SpawnOnCurrent(func() {
			mu.Lock()
			order = append(order, 2)
			mu.Unlock()
			wg.Done()
		}, 0)

		Yield()

		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		wg.Done()
	})

	wg.Wait()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("order = %v, want [2 1]", order)
	}
}

func TestSuspendWithUnlockRunsUnlockAfterSuspend(t *testing.T) {
	factory := fiber.NewGoroutineFactory()

	var unlocked int32
	done := make(chan struct{})

	RunFunction(factory, Config{Threads: 2}, func() {
		self := CurrentTask()

		SpawnOnCurrent(func() {
			Wake(self)
		}, 0)

		SuspendWithUnlock(func() {
			atomic.StoreInt32(&unlocked, 1)
		})
		close(done)
	})

	<-done
	if atomic.LoadInt32(&unlocked) != 1 {
		t.Fatalf("unlock callback never ran")
	}
}

func TestDestroyPanicsWhileWorkersAttached(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	s := New(factory)
	rc := NewAtomicRunContext()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		Run(s, rc)
	}()

	defer func() {
		rc.Stop()
		wg.Wait()
		if r := recover(); r == nil {
			t.Fatalf("expected Destroy to panic while a worker is attached")
		}
	}()

	for atomic.LoadInt32(&s.attached) == 0 {
		runtime.Gosched()
	}
	Destroy(s)
}

func TestCurrentTaskPanicsOutsideTask(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected CurrentTask to panic outside a task")
		}
	}()
	CurrentTask()
}

// A task's entry runs on its own dedicated fiber-goroutine, distinct
// from whatever worker goroutine is currently dispatching it.
// CurrentTask must resolve correctly from inside that entry on every
// resume, and CurrentWorkerID must track the actual dispatcher even
// when a yield hands the task to a different worker next time.
func TestCurrentTaskAndWorkerIDAcrossYields(t *testing.T) {
	factory := fiber.NewGoroutineFactory()

	var mu sync.Mutex
	var taskIDs []string
	var workerIDs []uint64

	RunFunction(factory, Config{Threads: 4}, func() {
		self := CurrentTask()
		for i := 0; i < 40; i++ {
			mu.Lock()
			taskIDs = append(taskIDs, CurrentTask().ID)
			workerIDs = append(workerIDs, CurrentWorkerID())
			mu.Unlock()
			if self != CurrentTask() {
				t.Errorf("CurrentTask() changed identity across a yield")
			}
			Yield()
		}
	})

	for _, id := range taskIDs {
		if id != taskIDs[0] {
			t.Fatalf("taskIDs = %v, want every entry identical", taskIDs)
		}
	}

	distinct := map[uint64]bool{}
	for _, id := range workerIDs {
		distinct[id] = true
	}
	if len(distinct) == 0 {
		t.Fatalf("collected no worker ids")
	}
}

// Spawning a second task from inside a running task (SpawnOnCurrent)
// must not register the caller's own fiber-goroutine as a worker.
func TestSpawnOnCurrentFromNestedTask(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	var ran int32

	RunFunction(factory, Config{Threads: 2}, func() {
		SpawnOnCurrent(func() {
			SpawnOnCurrent(func() {
				atomic.AddInt32(&ran, 1)
			}, 0)
		}, 0)
		for atomic.LoadInt32(&ran) == 0 {
			Yield()
		}
	})

	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("nested SpawnOnCurrent did not run")
	}
}
