// Package testutil holds deterministic stand-ins for the clocks and id
// generators used by the exporter, so runs can be compared byte for byte.
package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is where a DeterministicClock starts when given a zero base.
var DefaultEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DeterministicClock is a thread-safe wall clock for tests. Every call to
// Now advances it by one step.
//
// Unlike time.Now, DeterministicClock can be reset for test reuse, so the
// same scenario produces identical timestamps on every run.
type DeterministicClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	seq  int64
}

// NewDeterministicClock creates a clock starting at base that advances by
// one second per reading. A zero base means DefaultEpoch.
//
// The first call to Now() returns base.
func NewDeterministicClock(base time.Time) *DeterministicClock {
	if base.IsZero() {
		base = DefaultEpoch
	}
	return &DeterministicClock{base: base, step: time.Second}
}

// Now returns the current reading and advances the clock.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.seq) * c.step)
	c.seq++
	return t
}

// Readings returns how many times Now has been called since the last reset.
func (c *DeterministicClock) Readings() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to its base.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
