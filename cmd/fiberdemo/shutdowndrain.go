package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/scheduler"
	"github.com/qxcheng/fiberrt/timer"
)

func newShutdownDrainCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "shutdown-drain",
		Short: "Stop a scheduler mid-flight and report how many tasks it drained first",
		RunE: func(cmd *cobra.Command, args []string) error {
			runShutdownDrain(n)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 60, "Number of tasks to spawn")
	return cmd
}

// runShutdownDrain bypasses RunFunction to drive the lower-level
// Spawn/Run/RunContext API directly: the controlling goroutine only
// primes work, a separate pool of worker goroutines drains it, and
// RunContext.Stop is called while tasks are still outstanding.
func runShutdownDrain(n int) {
	factory := fiber.NewGoroutineFactory()
	s := scheduler.New(factory)
	rc := scheduler.NewAtomicRunContext()

	var completed int32

	scheduler.Spawn(s, func() {
		for i := 0; i < n; i++ {
			i := i
			scheduler.SpawnOnCurrent(func() {
				if i%3 == 0 {
					timer.SleepMS(50)
				}
				atomic.AddInt32(&completed, 1)
			}, 0)
		}
	}, 0)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scheduler.Run(s, rc)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	rc.Stop()

	wg.Wait()
	scheduler.Destroy(s)

	fmt.Printf("shutdown-drain: %d/%d tasks completed before shutdown\n", atomic.LoadInt32(&completed), n)
}
