package scene

import (
	"sync"
	"time"
)

// Clock reports seconds elapsed since it started. It can be paused, scrubbed
// and reset; between those calls the reported time never decreases.
type Clock struct {
	mu     sync.Mutex
	now    func() time.Time
	start  time.Time // Wall time when the current run began
	base   float64   // Seconds accumulated before the current run
	last   float64   // Last reported value
	paused bool
}

// NewClock creates a running clock starting at zero.
func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource creates a running clock reading wall time from now.
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{now: now, start: now()}
}

// Elapsed returns the current time in seconds.
func (c *Clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

func (c *Clock) elapsedLocked() float64 {
	t := c.base
	if !c.paused {
		t += c.now().Sub(c.start).Seconds()
	}
	if t < c.last {
		t = c.last
	}
	c.last = t
	return t
}

// Paused reports whether the clock is stopped.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Pause freezes the clock at its current value.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.base = c.elapsedLocked()
	c.paused = true
}

// Resume restarts a paused clock from the value it was frozen at.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.start = c.now()
	c.paused = false
}

// Toggle pauses a running clock or resumes a paused one and returns the
// new paused state.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	paused := c.paused
	c.mu.Unlock()
	if paused {
		c.Resume()
	} else {
		c.Pause()
	}
	return !paused
}

// Set jumps to t seconds. Negative values are clamped to zero.
func (c *Clock) Set(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = max(t, 0)
	c.last = c.base
	c.start = c.now()
}

// Scrub moves the clock by delta seconds, backwards when negative.
func (c *Clock) Scrub(delta float64) {
	c.mu.Lock()
	t := c.elapsedLocked() + delta
	c.mu.Unlock()
	c.Set(t)
}

// Reset rewinds the clock to zero, keeping the paused state.
func (c *Clock) Reset() {
	c.Set(0)
}
