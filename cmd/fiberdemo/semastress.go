package main

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/rtsync"
	"github.com/qxcheng/fiberrt/scheduler"
)

func newSemaStressCmd() *cobra.Command {
	var workers, capacity int
	cmd := &cobra.Command{
		Use:   "sema-stress",
		Short: "Hammer a semaphore with many tasks and report peak observed concurrency",
		RunE: func(cmd *cobra.Command, args []string) error {
			runSemaStress(workers, capacity)
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 200, "Number of tasks contending for the semaphore")
	cmd.Flags().IntVar(&capacity, "capacity", 8, "Semaphore capacity")
	return cmd
}

func runSemaStress(workers, capacity int) {
	factory := fiber.NewGoroutineFactory()
	cfg := scheduler.Config{Threads: 4}

	sem := rtsync.NewSema(int32(capacity))
	var active, maxActive int32

	wg := rtsync.NewWaitGroup()
	wg.Add(int32(workers))

	scheduler.RunFunction(factory, cfg, func() {
		for i := 0; i < workers; i++ {
			scheduler.SpawnOnCurrent(func() {
				sem.Acquire()
				n := atomic.AddInt32(&active, 1)
				for {
					old := atomic.LoadInt32(&maxActive)
					if n <= old || atomic.CompareAndSwapInt32(&maxActive, old, n) {
						break
					}
				}
				scheduler.Yield()
				atomic.AddInt32(&active, -1)
				sem.Release()
				wg.Done()
			}, 0)
		}
		wg.Wait()
	})

	fmt.Printf("sema-stress: %d workers, capacity %d, peak observed concurrency %d\n", workers, capacity, maxActive)
}
