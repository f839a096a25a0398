// Command fiberdemo drives small, deterministic scenarios against the
// scheduler package: bouncing control between two tasks, fanning work
// out and back in, ordering sleeps, stressing a semaphore, draining a
// scheduler mid-shutdown, and watching a task migrate between
// workers. Grounded on qxcheng-net-protocol/cmd/tcp's main-as-driver
// shape and wilke-GoWe/internal/cli's cobra wiring.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
