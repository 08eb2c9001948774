package ai

import (
	"sync"
	"time"
)

// FixedClock reports the same delta every tick. Used for deterministic runs.
type FixedClock struct {
	Dt float64
}

// ElapsedSinceLastTick returns the fixed delta.
func (c FixedClock) ElapsedSinceLastTick() float64 {
	return c.Dt
}

// FrameClock measures wall time between Advance calls.
// All controllers ticked within one frame observe the same delta.
type FrameClock struct {
	mu    sync.RWMutex
	last  time.Time
	delta float64
	scale float64
}

// NewFrameClock creates a frame clock. scale multiplies real time
// (1 = realtime); scale <= 0 is treated as 1.
func NewFrameClock(scale float64) *FrameClock {
	if scale <= 0 {
		scale = 1
	}
	return &FrameClock{scale: scale}
}

// Advance marks a new frame at now and returns its delta in seconds.
// The first call yields zero.
func (c *FrameClock) Advance(now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last.IsZero() {
		c.delta = 0
	} else {
		c.delta = max(now.Sub(c.last).Seconds(), 0) * c.scale
	}
	c.last = now
	return c.delta
}

// ElapsedSinceLastTick returns the delta of the current frame.
func (c *FrameClock) ElapsedSinceLastTick() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.delta
}
