package rtsync

import (
	"sync/atomic"
	"testing"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/scheduler"
)

func TestWaitGroupWaitReturnsImmediatelyAtZero(t *testing.T) {
	wg := NewWaitGroup()
	wg.Wait()
}

func TestWaitGroupNegativeCounterPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on negative counter")
		}
	}()
	wg := NewWaitGroup()
	wg.Add(-1)
}

func TestWaitGroupBlocksUntilAllDone(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	wg := NewWaitGroup()
	const n = 25
	wg.Add(n)

	var completed int32

	scheduler.RunFunction(factory, scheduler.Config{Threads: 4}, func() {
		for i := 0; i < n; i++ {
			scheduler.SpawnOnCurrent(func() {
				atomic.AddInt32(&completed, 1)
				wg.Done()
			}, 0)
		}
		wg.Wait()

		if atomic.LoadInt32(&completed) != n {
			panic("Wait returned before all tasks finished")
		}
	})

	if atomic.LoadInt32(&completed) != n {
		t.Fatalf("completed = %d, want %d", completed, n)
	}
}
