package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/scheduler"
)

func newMigrationCmd() *cobra.Command {
	var hops int
	cmd := &cobra.Command{
		Use:   "migration",
		Short: "Yield repeatedly and report which worker goroutines dispatched the task",
		RunE: func(cmd *cobra.Command, args []string) error {
			runMigration(hops)
			return nil
		},
	}
	cmd.Flags().IntVar(&hops, "hops", 50, "Number of times to yield")
	return cmd
}

func runMigration(hops int) {
	factory := fiber.NewGoroutineFactory()
	cfg := scheduler.Config{Threads: 4}

	var mu sync.Mutex
	var seen []uint64

	scheduler.RunFunction(factory, cfg, func() {
		for i := 0; i < hops; i++ {
			mu.Lock()
			seen = append(seen, scheduler.CurrentWorkerID())
			mu.Unlock()
			scheduler.Yield()
		}
	})

	distinct := map[uint64]bool{}
	for _, id := range seen {
		distinct[id] = true
	}
	fmt.Printf("migration: one task observed on %d distinct worker goroutine(s) across %d yields\n", len(distinct), hops)
}
