package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qxcheng/fiberrt/fiber"
	"github.com/qxcheng/fiberrt/rtsync"
	"github.com/qxcheng/fiberrt/scheduler"
)

func newPingPongCmd() *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "pingpong",
		Short: "Bounce control between two tasks a fixed number of times",
		RunE: func(cmd *cobra.Command, args []string) error {
			runPingPong(rounds)
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 10, "Number of round trips")
	return cmd
}

// runPingPong has two tasks alternately release each other's Sema:
// ping's starts with one unit available (Sema(1)), pong's starts
// empty (Sema(0)).
func runPingPong(rounds int) {
	factory := fiber.NewGoroutineFactory()
	cfg := scheduler.Config{Threads: 2}

	pingTurn := rtsync.NewSema(1)
	pongTurn := rtsync.NewSema(0)

	done := rtsync.NewWaitGroup()
	done.Add(2)

	scheduler.RunFunction(factory, cfg, func() {
		scheduler.SpawnOnCurrent(func() {
			for i := 0; i < rounds; i++ {
				pongTurn.Acquire()
				logger.Debug("pong", "round", i)
				pingTurn.Release()
			}
			done.Done()
		}, 0)

		for i := 0; i < rounds; i++ {
			pingTurn.Acquire()
			logger.Debug("ping", "round", i)
			pongTurn.Release()
		}
		done.Done()
	})

	done.Wait()
	fmt.Printf("pingpong: completed %d round trips\n", rounds)
}
