package reveal

import (
	"context"
	"iter"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/quill/internal/playback"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
)

// Op recolors one character, then waits before committing.
// Apply and Flush together commit the character exactly once.
type Op struct {
	Index int
	Color domain.Color

	surface *playback.Surface
	timer   ports.Timer
	delay   time.Duration
	first   bool

	mu        sync.Mutex
	painted   bool
	committed bool
}

// Apply paints the character, waits the per-character delay and commits.
// If the wait is interrupted the paint is kept and nothing is committed.
func (o *Op) Apply(ctx context.Context) error {
	if err := o.paint(); err != nil {
		return err
	}
	if err := o.timer.Wait(ctx, o.delay); err != nil {
		return err
	}
	return o.commit()
}

// Flush completes the operation without waiting. It is a no-op once committed.
func (o *Op) Flush() error {
	if err := o.paint(); err != nil {
		return err
	}
	return o.commit()
}

// Committed reports whether the operation has been committed.
func (o *Op) Committed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.committed
}

func (o *Op) paint() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.painted {
		return nil
	}
	if o.first {
		o.surface.SetRendering(true)
	}
	if err := o.surface.Paint(o.Index, o.Color); err != nil {
		return err
	}
	o.painted = true
	return nil
}

func (o *Op) commit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.committed {
		return nil
	}
	if err := o.surface.CommitColors(); err != nil {
		return err
	}
	o.committed = true
	return nil
}

// RevealStream yields one operation per character assigning a random opaque
// color. The first operation also turns rendering on.
func RevealStream(s *playback.Surface, timer ports.Timer, delay time.Duration, n int, rng *rand.Rand) iter.Seq[*Op] {
	return func(yield func(*Op) bool) {
		for i := range n {
			op := &Op{
				Index:   i,
				Color:   randomOpaque(rng),
				surface: s,
				timer:   timer,
				delay:   delay,
				first:   i == 0,
			}
			if !yield(op) {
				return
			}
		}
	}
}

// DissolveStream yields one operation per character making it transparent.
func DissolveStream(s *playback.Surface, timer ports.Timer, delay time.Duration, n int) iter.Seq[*Op] {
	return func(yield func(*Op) bool) {
		for i := range n {
			op := &Op{
				Index:   i,
				Color:   domain.Transparent,
				surface: s,
				timer:   timer,
				delay:   delay,
			}
			if !yield(op) {
				return
			}
		}
	}
}

// IdleOp keeps one character moving until cancelled.
type IdleOp struct {
	Index int

	surface *playback.Surface
	clock   ports.TimeSource
	timer   ports.Timer
	step    time.Duration
	tween   domain.Tween
	base    []domain.Vec3
	visible bool
}

// Run displaces the character from its cached base position every step and
// commits, until ctx is done. Invisible characters return immediately.
func (o *IdleOp) Run(ctx context.Context) error {
	if !o.visible {
		return nil
	}
	for ctx.Err() == nil {
		if err := o.surface.Displace(o.Index, o.base, o.tween, o.clock.Now); err != nil {
			return err
		}
		if err := o.timer.Wait(ctx, o.step); err != nil {
			return nil
		}
		if err := o.surface.CommitGeometry(); err != nil {
			return err
		}
	}
	return nil
}

// IdleStream yields one idle operation per character. base holds each
// character's vertex positions before any animation.
func IdleStream(s *playback.Surface, clock ports.TimeSource, timer ports.Timer, step time.Duration, tween domain.Tween, info *domain.TextInfo, base [][]domain.Vec3) iter.Seq[*IdleOp] {
	return func(yield func(*IdleOp) bool) {
		for i, c := range info.Characters {
			op := &IdleOp{
				Index:   i,
				surface: s,
				clock:   clock,
				timer:   timer,
				step:    step,
				tween:   tween,
				base:    base[i],
				visible: c.Visible,
			}
			if !yield(op) {
				return
			}
		}
	}
}

func randomOpaque(rng *rand.Rand) domain.Color {
	v := rng.Uint32()
	return domain.Color{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 0xff}
}
