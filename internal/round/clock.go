package round

import (
	"sync"
	"time"
)

// Timer is a pending clock callback.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already ran or was stopped.
	Stop() bool
}

// Clock schedules callbacks. Engines never sleep; they arm one callback at a time.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}

// ManualClock is a deterministic Clock for tests. Time only moves on Advance.
type ManualClock struct {
	mu      sync.Mutex
	elapsed time.Duration
	seq     uint64
	timers  []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	at    time.Duration
	seq   uint64
	fn    func()
	done  bool
}

// NewManualClock returns a clock positioned at zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc arms f to run once the clock has been advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.elapsed + d, seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, running due callbacks in deadline order.
// Callbacks run without the clock lock held, so they may arm new timers; those
// fire within the same call when they fall due before the target.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.elapsed + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDueLocked(target)
		if next == nil {
			c.elapsed = target
			c.mu.Unlock()
			return
		}
		c.elapsed = next.at
		c.mu.Unlock()
		next.fn()
	}
}

// Pending reports how many callbacks are armed.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Elapsed reports the total time advanced so far.
func (c *ManualClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *ManualClock) popDueLocked(target time.Duration) *manualTimer {
	best := -1
	for i, t := range c.timers {
		if t.at > target {
			continue
		}
		if best < 0 || t.at < c.timers[best].at || (t.at == c.timers[best].at && t.seq < c.timers[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := c.timers[best]
	t.done = true
	c.timers = append(c.timers[:best], c.timers[best+1:]...)
	return t
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
	}
	return true
}
