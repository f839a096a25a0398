package scheduler

import "sync/atomic"

// RunContext is polled by each worker between dispatches; while
// Running reports true workers keep pulling from the runqueue, once
// it reports false they drain whatever they already popped and exit.
type RunContext interface {
	Running() bool
}

// AtomicRunContext is the default RunContext, a flag that only ever
// flips from running to stopped. The int32/atomic shape mirrors
// internal/tmutex's own fast-path idiom rather than introducing a
// second style for the same thing.
type AtomicRunContext struct {
	running int32
}

// NewAtomicRunContext returns a RunContext that starts out running.
func NewAtomicRunContext() *AtomicRunContext {
	return &AtomicRunContext{running: 1}
}

// Running implements RunContext.
func (rc *AtomicRunContext) Running() bool {
	return atomic.LoadInt32(&rc.running) != 0
}

// Stop flips rc to stopped. Idempotent.
func (rc *AtomicRunContext) Stop() {
	atomic.StoreInt32(&rc.running, 0)
}
