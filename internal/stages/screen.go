package stages

import (
	"context"
	"sync"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
)

// Screen is where stages display (a prefix of) the current message part.
type Screen interface {
	Show(ctx context.Context, preset domain.Preset) error
}

// ScreenFunc adapts a function to a Screen.
type ScreenFunc func(ctx context.Context, preset domain.Preset) error

func (f ScreenFunc) Show(ctx context.Context, preset domain.Preset) error { return f(ctx, preset) }

// nextInput subscribes to the next input notification. The channel is closed
// on the first notification after the call.
func nextInput(input ports.InputSource) (<-chan struct{}, func()) {
	ch := make(chan struct{})
	var once sync.Once
	unsub := input.Subscribe(func() { once.Do(func() { close(ch) }) })
	return ch, unsub
}
