package timer

import (
	"time"

	"github.com/qxcheng/fiberrt/internal/tmutex"
	"github.com/qxcheng/fiberrt/scheduler"
)

// Context is a timer service: a min-heap of pending deadlines plus
// one background goroutine that sleeps until the earliest of them and
// wakes the corresponding tasks. One process-wide Context is enough
// for every scheduler in the process, since waking a task only needs
// scheduler.Wake, which already finds the right runqueue through the
// task's own thread/scheduler pointer.
type Context struct {
	mu     tmutex.Mutex
	heap   []*Timer
	notify chan struct{}
}

var global = newContext()

// Current returns the process-wide timer Context.
func Current() *Context { return global }

func newContext() *Context {
	c := &Context{notify: make(chan struct{}, 1)}
	c.mu.Init()
	go c.loop()
	return c
}

// SleepMS suspends the calling task for at least ms milliseconds.
func SleepMS(ms int64) {
	Current().Sleep(time.Duration(ms) * time.Millisecond)
}

// Sleep suspends the calling task for at least d.
func (c *Context) Sleep(d time.Duration) {
	t := &Timer{
		deadline: time.Now().Add(d).UnixNano(),
		task:     scheduler.CurrentTask(),
	}

	c.mu.Lock()
	c.pushLocked(t)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}

	// Published on the heap before suspending, so the background loop
	// can never fire and wake this task before it has a deadline to
	// find; no unlock callback is needed the way Sema/WaitGroup need
	// one, since nothing outside this package can observe the
	// half-published state.
	scheduler.SuspendSelf()
}

func (c *Context) loop() {
	idle := time.NewTimer(time.Hour)
	defer idle.Stop()

	for {
		c.mu.Lock()
		var wait time.Duration
		if len(c.heap) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(time.Unix(0, c.heap[0].deadline))
			if wait < 0 {
				wait = 0
			}
		}
		c.mu.Unlock()

		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(wait)

		select {
		case <-idle.C:
			c.fire()
		case <-c.notify:
			// Loop around: an earlier deadline may have just been
			// published, so recompute wait from scratch.
		}
	}
}

func (c *Context) fire() {
	now := time.Now().UnixNano()

	var due []*Timer
	c.mu.Lock()
	for len(c.heap) > 0 && c.heap[0].deadline <= now {
		due = append(due, c.popLocked())
	}
	c.mu.Unlock()

	for _, t := range due {
		scheduler.Wake(t.task)
	}
}

func (c *Context) pushLocked(t *Timer) {
	t.index = len(c.heap)
	c.heap = append(c.heap, t)
	c.siftUpLocked(t.index)
}

func (c *Context) popLocked() *Timer {
	t := c.heap[0]
	last := len(c.heap) - 1
	c.heap[0] = c.heap[last]
	c.heap[0].index = 0
	c.heap[last] = nil
	c.heap = c.heap[:last]
	if last > 0 {
		c.siftDownLocked(0)
	}
	return t
}

// siftUpLocked and siftDownLocked implement a 4-ary heap ordered by
// deadline: parent(i) = (i-1)/4, children(i) = 4i+1..4i+4. The
// children are computed in two pairs (c1/c2, then c3/c4) as in
// runtime/time.go's siftdownTimer, then each is compared in turn
// against the smallest deadline seen so far, unrolled rather than
// looped.
func (c *Context) siftUpLocked(i int) {
	for i > 0 {
		parent := (i - 1) / 4
		if c.heap[parent].deadline <= c.heap[i].deadline {
			break
		}
		c.heap[parent], c.heap[i] = c.heap[i], c.heap[parent]
		c.heap[parent].index = parent
		c.heap[i].index = i
		i = parent
	}
}

func (c *Context) siftDownLocked(i int) {
	n := len(c.heap)
	for {
		c1, c2 := 4*i+1, 4*i+2
		c3, c4 := 4*i+3, 4*i+4
		smallest := i

		if c1 < n && c.heap[c1].deadline < c.heap[smallest].deadline {
			smallest = c1
		}
		if c2 < n && c.heap[c2].deadline < c.heap[smallest].deadline {
			smallest = c2
		}
		if c3 < n && c.heap[c3].deadline < c.heap[smallest].deadline {
			smallest = c3
		}
		if c4 < n && c.heap[c4].deadline < c.heap[smallest].deadline {
			smallest = c4
		}

		if smallest == i {
			return
		}
		c.heap[i], c.heap[smallest] = c.heap[smallest], c.heap[i]
		c.heap[i].index = i
		c.heap[smallest].index = smallest
		i = smallest
	}
}
