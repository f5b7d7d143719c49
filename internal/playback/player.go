package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
)

// ErrCharOutOfRange is returned for character indexes outside the laid-out text.
var ErrCharOutOfRange = errors.New("character index out of range")

// Player animates a preset on a text field, one pass per frame tick.
type Player struct {
	surface   *Surface
	clock     ports.TimeSource
	frames    ports.FrameTicker
	logger    *slog.Logger
	hooks     domain.Hooks
	maxFrames int
	current   atomic.Pointer[domain.Preset]
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithHooks registers lifecycle hooks. OnFrame fires after every committed frame.
func WithHooks(hooks domain.Hooks) Option {
	return func(p *Player) {
		p.hooks = hooks
	}
}

// WithSurface shares a guarded surface with other writers of the same field.
func WithSurface(s *Surface) Option {
	return func(p *Player) {
		p.surface = s
	}
}

// WithMaxFrames ends playback successfully after n frames. Zero plays until cancelled.
func WithMaxFrames(n int) Option {
	return func(p *Player) {
		p.maxFrames = n
	}
}

// NewPlayer creates a player drawing on field.
func NewPlayer(field ports.TextField, clock ports.TimeSource, frames ports.FrameTicker, opts ...Option) *Player {
	p := &Player{
		clock:  clock,
		frames: frames,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.surface == nil {
		p.surface = NewSurface(field)
	}
	return p
}

// Surface returns the guarded surface the player draws on.
func (p *Player) Surface() *Surface {
	return p.surface
}

// Play shows preset.Text and animates it until ctx is cancelled or the frame
// limit is reached. Errors and panics from collaborators become Failed outcomes.
func (p *Player) Play(ctx context.Context, preset domain.Preset) domain.Outcome {
	p.Update(preset)
	return p.Run(ctx)
}

// Run animates the current preset, as set by Update, like Play does. It
// starts from an empty preset when Update was never called.
func (p *Player) Run(ctx context.Context) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = domain.Failed(fmt.Errorf("player panic: %v", r))
		}
		p.logOutcome(out)
	}()

	p.current.CompareAndSwap(nil, &domain.Preset{})
	if _, err := p.surface.Show(p.current.Load().Text); err != nil {
		return domain.Failed(err)
	}

	rendering := false
	for frame := 0; ; frame++ {
		if err := ctx.Err(); err != nil {
			return domain.Cancelled(err)
		}
		if p.maxFrames > 0 && frame >= p.maxFrames {
			return domain.Succeeded()
		}

		if err := p.frames.NextFrame(ctx); err != nil {
			if ctx.Err() != nil {
				return domain.Cancelled(ctx.Err())
			}
			return domain.Failed(fmt.Errorf("frame %d: %w", frame, err))
		}

		n, err := p.renderFrame(ctx, *p.current.Load(), &rendering)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Cancelled(ctx.Err())
			}
			return domain.Failed(fmt.Errorf("frame %d: %w", frame, err))
		}

		if p.hooks.OnFrame != nil {
			p.hooks.OnFrame(ctx, &domain.FrameEvent{
				EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventFrame},
				Frame:      frame,
				Time:       p.clock.Now(),
				Characters: n,
			})
		}
	}
}

// Update replaces the preset of a running Play from the next frame on. It is
// safe to call before Run.
func (p *Player) Update(preset domain.Preset) {
	p.current.Store(&preset)
}

// renderFrame relayouts, displaces every visible character and commits.
// Cancellation is checked between characters; nothing is committed then.
func (p *Player) renderFrame(ctx context.Context, preset domain.Preset, rendering *bool) (int, error) {
	s := p.surface
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.field.Text() != preset.Text {
		s.field.SetText(preset.Text)
	}
	info, err := s.field.Layout()
	if err != nil {
		return 0, fmt.Errorf("layout: %w", err)
	}

	animated := 0
	for i, c := range info.Characters {
		if err := ctx.Err(); err != nil {
			return animated, err
		}
		if !c.Visible {
			continue
		}
		quad := info.Quad(i)
		var base [domain.VerticesPerChar]domain.Vec3
		copy(base[:], quad)
		displace(quad, base[:], preset.TweenAt(i), p.clock.Now)
		animated++
	}

	if !*rendering {
		s.field.SetRendering(true)
		*rendering = true
	}

	return animated, commitSections(s.field, info)
}

func (p *Player) logOutcome(out domain.Outcome) {
	switch out.Status {
	case domain.StatusSucceeded:
		p.logger.Info("Playback finished")
	case domain.StatusCancelled:
		p.logger.Warn("Playback cancelled")
	default:
		p.logger.Error("Playback failed", "err", out.Err)
	}
}
