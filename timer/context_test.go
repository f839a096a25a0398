package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/scheduler"
)

func TestSleepOrdersByDeadline(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	delays := []int64{30, 10, 20}

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(len(delays))

	scheduler.RunFunction(factory, scheduler.Config{Threads: 4}, func() {
		for i, d := range delays {
			i, d := i, d
			scheduler.SpawnOnCurrent(func() {
				SleepMS(d)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				wg.Done()
			}, 0)
		}
		wg.Wait()
	})

	want := []int{1, 2, 0} // sorted by delay: 10, 20, 30
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestHeapSiftMaintainsOrder(t *testing.T) {
	c := newContext()
	deadlines := []int64{50, 10, 40, 20, 5, 30, 15, 25}

	for _, d := range deadlines {
		c.mu.Lock()
		c.pushLocked(&Timer{deadline: d})
		c.mu.Unlock()
	}

	var popped []int64
	c.mu.Lock()
	for len(c.heap) > 0 {
		popped = append(popped, c.popLocked().deadline)
	}
	c.mu.Unlock()

	for i := 1; i < len(popped); i++ {
		if popped[i-1] > popped[i] {
			t.Fatalf("popped out of order: %v", popped)
		}
	}
	if len(popped) != len(deadlines) {
		t.Fatalf("popped %d timers, want %d", len(popped), len(deadlines))
	}
}

func TestSleepActuallyElapses(t *testing.T) {
	factory := fiber.NewGoroutineFactory()
	start := time.Now()

	scheduler.RunFunction(factory, scheduler.Config{Threads: 2}, func() {
		SleepMS(20)
	})

	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("elapsed = %v, want at least 20ms", elapsed)
	}
}
