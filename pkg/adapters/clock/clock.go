// Package clock provides time sources, frame tickers and timers.
//
// Real drives playback from the wall clock at a fixed frame rate. Manual is a
// deterministic clock for tests and offline rendering: every frame and every
// wait advances its time instantly.
package clock

import (
	"context"
	"sync"
	"time"
)

// Real is a wall-clock frame source. Time is measured from construction.
type Real struct {
	start  time.Time
	ticker *time.Ticker
}

// NewReal creates a clock ticking fps times per second.
func NewReal(fps int) *Real {
	if fps <= 0 {
		fps = 60
	}
	return &Real{
		start:  time.Now(),
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
	}
}

// Now returns seconds since the clock was created.
func (c *Real) Now() float64 {
	return time.Since(c.start).Seconds()
}

// NextFrame blocks until the next tick.
func (c *Real) NextFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticker.C:
		return nil
	}
}

// Wait blocks for d.
func (c *Real) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Stop releases the ticker.
func (c *Real) Stop() {
	c.ticker.Stop()
}

// Manual is a deterministic clock. NextFrame advances time by one frame step
// and Wait by the requested duration, both without blocking.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	step   time.Duration
	frames int
}

// NewManual creates a manual clock advancing step per frame.
func NewManual(step time.Duration) *Manual {
	return &Manual{step: step}
}

func (c *Manual) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Seconds()
}

func (c *Manual) NextFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now += c.step
	c.frames++
	c.mu.Unlock()
	return nil
}

func (c *Manual) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

// Advance moves time forward by d.
func (c *Manual) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Frames returns how many frames have elapsed.
func (c *Manual) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}
