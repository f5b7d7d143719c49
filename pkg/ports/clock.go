package ports

import (
	"context"
	"time"
)

// TimeSource exposes a monotonically non-decreasing time in seconds.
type TimeSource interface {
	Now() float64
}

// FrameTicker blocks until the next rendering frame or until ctx is done.
type FrameTicker interface {
	NextFrame(ctx context.Context) error
}

// Timer waits for d to elapse. It returns ctx.Err() when cancelled first.
type Timer interface {
	Wait(ctx context.Context, d time.Duration) error
}
