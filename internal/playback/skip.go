package playback

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/quill/pkg/ports"
)

// SkipWatch turns the next input notification into cancellation of a child
// context.
type SkipWatch struct {
	ctx    context.Context
	cancel context.CancelFunc
	fired  atomic.Bool
	unsub  func()
}

// WatchSkip subscribes to input. Stop must be called to release it.
func WatchSkip(ctx context.Context, input ports.InputSource) *SkipWatch {
	w := &SkipWatch{}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.unsub = input.Subscribe(func() {
		w.fired.Store(true)
		w.cancel()
	})
	return w
}

// Context is done once input arrives or the parent is done.
func (w *SkipWatch) Context() context.Context { return w.ctx }

// Skipped reports whether input arrived.
func (w *SkipWatch) Skipped() bool { return w.fired.Load() }

func (w *SkipWatch) Stop() {
	w.unsub()
	w.cancel()
}
