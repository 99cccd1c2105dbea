package submission

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending single-shot callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The flow only needs AfterFunc, which keeps
// tests free of real sleeps.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}

// ManualClock is a Clock for tests and demos: callbacks fire only when
// Advance moves time past their deadline.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// NewManualClock returns a ManualClock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc implements Clock.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, running due callbacks in deadline order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
		var due *manualTimer
		for _, t := range c.timers {
			if !t.fired && !t.stopped && t.at <= target {
				due = t
				break
			}
		}
		if due == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		due.fired = true
		c.now = due.at
		c.mu.Unlock()
		due.fn()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
