package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/rtsync"
	"github.com/qxcheng/fiberrt/scheduler"
)

func newFanoutCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "fanout",
		Short: "Spawn N tasks from one task and wait for all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			runFanout(n)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 100, "Number of tasks to fan out")
	return cmd
}

func runFanout(n int) {
	factory := fiber.NewGoroutineFactory()
	cfg := scheduler.Config{Threads: 4}

	results := make([]int, n)
	wg := rtsync.NewWaitGroup()
	wg.Add(int32(n))

	scheduler.RunFunction(factory, cfg, func() {
		for i := 0; i < n; i++ {
			i := i
			scheduler.SpawnOnCurrent(func() {
				results[i] = i * i
				logger.Debug("fanout task done", "index", i)
				wg.Done()
			}, 0)
		}
		wg.Wait()
	})

	sum := 0
	for _, r := range results {
		sum += r
	}
	fmt.Printf("fanout: %d tasks joined, sum of squares = %d\n", n, sum)
}
