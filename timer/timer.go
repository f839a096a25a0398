// Package timer provides SleepMS: parking a task until a deadline
// elapses, backed by a 4-ary min-heap matching the shape
// study-core-go1.14.6-analysis documents for runtime/time.go's
// siftupTimer/siftdownTimer.
package timer

import "github.com/qxcheng/fiberrt/scheduler"

// Timer is a single pending deadline, one per sleeping task.
type Timer struct {
	deadline int64 // UnixNano
	task     *scheduler.Task
	index    int // current position in the owning Context's heap
}
