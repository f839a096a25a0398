package rtsync

import (
	"sync/atomic"
	"testing"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/scheduler"
)

func TestSemaTryAcquireRespectsCapacity(t *testing.T) {
	s := NewSema(1)

	if !s.TryAcquire() {
		t.Fatalf("first TryAcquire should succeed")
	}
	if s.TryAcquire() {
		t.Fatalf("second TryAcquire should fail while capacity is exhausted")
	}
	s.Release()
	if !s.TryAcquire() {
		t.Fatalf("TryAcquire after Release should succeed")
	}
}

func TestSemaBlocksAndWakesAcrossTasks(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	sem := NewSema(1)

	var holder int32
	var maxConcurrent int32
	const contenders = 10

	done := NewWaitGroup()
	done.Add(contenders)

	scheduler.RunFunction(factory, scheduler.Config{Threads: 4}, func() {
		for i := 0; i < contenders; i++ {
			scheduler.SpawnOnCurrent(func() {
				sem.Acquire()
				n := atomic.AddInt32(&holder, 1)
				for {
					old := atomic.LoadInt32(&maxConcurrent)
					if n <= old || atomic.CompareAndSwapInt32(&maxConcurrent, old, n) {
						break
					}
				}
				scheduler.Yield()
				atomic.AddInt32(&holder, -1)
				sem.Release()
				done.Done()
			}, 0)
		}
		done.Wait()
	})

	if maxConcurrent != 1 {
		t.Fatalf("observed %d concurrent holders, want 1", maxConcurrent)
	}
}

func TestSemaRootsDoNotCrossTalk(t *testing.T) {
	a := NewSema(0)
	b := NewSema(1)

	if a.TryAcquire() {
		t.Fatalf("a should start empty")
	}
	if !b.TryAcquire() {
		t.Fatalf("b should start with one unit")
	}
}
