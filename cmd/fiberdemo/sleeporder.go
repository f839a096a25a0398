package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/rtsync"
	"github.com/qxcheng/fiberrt/scheduler"
	"github.com/qxcheng/fiberrt/timer"
)

func newSleepOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sleep-order",
		Short: "Spawn tasks sleeping different durations and report completion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			runSleepOrder()
			return nil
		},
	}
	return cmd
}

func runSleepOrder() {
	factory := fiber.NewGoroutineFactory()
	cfg := scheduler.Config{Threads: 4}

	delaysMS := []int64{30, 10, 20, 5}
	order := make([]int, 0, len(delaysMS))
	var mu sync.Mutex

	wg := rtsync.NewWaitGroup()
	wg.Add(int32(len(delaysMS)))

	scheduler.RunFunction(factory, cfg, func() {
		for i, d := range delaysMS {
			i, d := i, d
			scheduler.SpawnOnCurrent(func() {
				timer.SleepMS(d)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				wg.Done()
			}, 0)
		}
		wg.Wait()
	})

	fmt.Printf("sleep-order: delays %v finished in index order %v\n", delaysMS, order)
}
