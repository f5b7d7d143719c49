package reveal

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/quill/internal/playback"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/aretw0/quill/pkg/ports"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDelay    = 50 * time.Millisecond
	DefaultTimeout  = 3 * time.Second
	DefaultIdleStep = time.Second / 60
)

// DefaultIdleTween is a gentle wobble.
func DefaultIdleTween() domain.Tween {
	return (&effect.Wobble{Speed: 2, Strength: 0.01, Amplitude: 0.5}).Tween()
}

// Presenter reveals, idles and dissolves single blocks of text.
type Presenter struct {
	surface *playback.Surface
	clock   ports.TimeSource
	timer   ports.Timer
	input   ports.InputSource

	delay    time.Duration
	timeout  time.Duration
	idleStep time.Duration
	idle     domain.Tween
	rng      *rand.Rand
	hooks    domain.Hooks
	logger   *slog.Logger
}

// Option configures a Presenter.
type Option func(*Presenter)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) { p.logger = logger }
}

func WithHooks(hooks domain.Hooks) Option {
	return func(p *Presenter) { p.hooks = hooks }
}

// WithDelay sets the pause after each revealed or dissolved character.
func WithDelay(d time.Duration) Option {
	return func(p *Presenter) { p.delay = d }
}

// WithTimeout sets how long a revealed block stays before it dissolves on its own.
func WithTimeout(d time.Duration) Option {
	return func(p *Presenter) { p.timeout = d }
}

// WithIdleTween replaces the idle animation. WithIdleStep sets its cadence.
func WithIdleTween(t domain.Tween) Option {
	return func(p *Presenter) { p.idle = t }
}

func WithIdleStep(d time.Duration) Option {
	return func(p *Presenter) { p.idleStep = d }
}

// WithRand sets the source of reveal colors.
func WithRand(r *rand.Rand) Option {
	return func(p *Presenter) { p.rng = r }
}

// WithSurface shares a guarded field with other writers.
func WithSurface(s *playback.Surface) Option {
	return func(p *Presenter) { p.surface = s }
}

func NewPresenter(field ports.TextField, clock ports.TimeSource, timer ports.Timer, input ports.InputSource, opts ...Option) *Presenter {
	p := &Presenter{
		clock:    clock,
		timer:    timer,
		input:    input,
		delay:    DefaultDelay,
		timeout:  DefaultTimeout,
		idleStep: DefaultIdleStep,
		idle:     DefaultIdleTween(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.surface == nil {
		p.surface = playback.NewSurface(field)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// Surface returns the guarded field the presenter writes to.
func (p *Presenter) Surface() *playback.Surface { return p.surface }

// Handle is a revealed block whose characters are idling.
type Handle struct {
	p    *Presenter
	info *domain.TextInfo
	stop context.CancelFunc
	idle *errgroup.Group
	mu   sync.Mutex
	done bool
}

// Present reveals text, keeps it until the user skips or the timeout elapses,
// then dissolves it.
func (p *Presenter) Present(ctx context.Context, text string) domain.Outcome {
	h, out := p.Reveal(ctx, text)
	if !out.IsSucceeded() {
		return out
	}

	hold := playback.WatchSkip(ctx, p.input)
	err := p.timer.Wait(hold.Context(), p.timeout)
	hold.Stop()
	if err != nil && !hold.Skipped() {
		h.halt()
		return p.logOutcome("present", domain.Cancelled(err))
	}
	return h.Dissolve(ctx)
}

// Reveal lays text out invisibly and reveals it character by character,
// starting each character's idle animation as it appears. A skip flushes the
// remaining characters at once. Idle animations stop on Dissolve or when ctx
// is done.
func (p *Presenter) Reveal(ctx context.Context, text string) (*Handle, domain.Outcome) {
	if err := ctx.Err(); err != nil {
		return nil, p.logOutcome("reveal", domain.Cancelled(err))
	}
	info, base, err := p.prepare(text)
	if err != nil {
		return nil, p.logOutcome("reveal", domain.Failed(err))
	}

	idleCtx, stop := context.WithCancel(ctx)
	h := &Handle{p: p, info: info, stop: stop, idle: &errgroup.Group{}}

	reveal := RevealStream(p.surface, p.timer, p.delay, len(info.Characters), p.rng)
	idle := IdleStream(p.surface, p.clock, p.timer, p.idleStep, p.idle, info, base)
	start := func(op *IdleOp) {
		h.idle.Go(func() error { return op.Run(idleCtx) })
	}

	err = p.drive(ctx, zip(reveal, idle), start, p.hooks.OnReveal, domain.EventReveal)
	if err != nil {
		h.halt()
		if ctx.Err() != nil {
			return nil, p.logOutcome("reveal", domain.Cancelled(ctx.Err()))
		}
		return nil, p.logOutcome("reveal", domain.Failed(err))
	}
	return h, p.logOutcome("reveal", domain.Succeeded())
}

// Dissolve makes every character transparent, one by one, then stops the idle
// animations. A skip flushes the remaining characters at once. Calling it
// again after success is a no-op.
func (h *Handle) Dissolve(ctx context.Context) domain.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := h.p
	if h.done {
		return domain.Succeeded()
	}
	if err := ctx.Err(); err != nil {
		h.halt()
		return p.logOutcome("dissolve", domain.Cancelled(err))
	}

	ops := DissolveStream(p.surface, p.timer, p.delay, len(h.info.Characters))
	err := p.drive(ctx, zip(ops, none[*IdleOp]()), nil, p.hooks.OnDissolve, domain.EventDissolve)
	h.halt()
	if err != nil {
		if ctx.Err() != nil {
			return p.logOutcome("dissolve", domain.Cancelled(ctx.Err()))
		}
		return p.logOutcome("dissolve", domain.Failed(err))
	}
	h.done = true
	return p.logOutcome("dissolve", domain.Succeeded())
}

// Info returns the layout of the revealed block.
func (h *Handle) Info() *domain.TextInfo { return h.info }

// halt stops the idle animations and waits for them to return.
func (h *Handle) halt() {
	h.stop()
	if err := h.idle.Wait(); err != nil {
		h.p.logger.Warn("idle animation failed", "err", err)
	}
}

// prepare shows text with rendering off and every character transparent.
func (p *Presenter) prepare(text string) (*domain.TextInfo, [][]domain.Vec3, error) {
	info, err := p.surface.Show(text)
	if err != nil {
		return nil, nil, err
	}
	err = p.surface.Do(func(info *domain.TextInfo) error {
		for _, sec := range info.Sections {
			for i := range sec.Colors {
				sec.Colors[i] = domain.Transparent
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if err := p.surface.CommitColors(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	base, err := p.surface.BaseQuads()
	if err != nil {
		return nil, nil, err
	}
	return info, base, nil
}

// drive applies ops in index order until a skip arrives, then flushes the
// current and all remaining ops concurrently.
func (p *Presenter) drive(ctx context.Context, ops iter.Seq2[*Op, *IdleOp], start func(*IdleOp), hook func(context.Context, *domain.CharEvent), typ domain.EventType) error {
	skip := playback.WatchSkip(ctx, p.input)
	defer skip.Stop()

	next, stop := iter.Pull2(ops)
	defer stop()

	for {
		op, idle, ok := next()
		if !ok {
			return nil
		}
		if !skip.Skipped() {
			err := op.Apply(skip.Context())
			if err == nil {
				p.emit(ctx, hook, typ, op, false)
				if idle != nil && start != nil {
					start(idle)
				}
				continue
			}
			if !skip.Skipped() {
				return err
			}
		}
		return p.flush(ctx, op, idle, next, start, hook, typ)
	}
}

func (p *Presenter) flush(ctx context.Context, op *Op, idle *IdleOp, next func() (*Op, *IdleOp, bool), start func(*IdleOp), hook func(context.Context, *domain.CharEvent), typ domain.EventType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var g errgroup.Group
	for ok := true; ok; op, idle, ok = next() {
		op := op
		g.Go(func() error {
			if err := op.Flush(); err != nil {
				return err
			}
			p.emit(ctx, hook, typ, op, true)
			return nil
		})
		if idle != nil && start != nil {
			start(idle)
		}
	}
	p.logger.Debug("flushed after skip", "type", typ)
	return g.Wait()
}

func (p *Presenter) emit(ctx context.Context, hook func(context.Context, *domain.CharEvent), typ domain.EventType, op *Op, flushed bool) {
	if hook == nil {
		return
	}
	var char rune
	_ = p.surface.Do(func(info *domain.TextInfo) error {
		if op.Index < len(info.Characters) {
			char = info.Characters[op.Index].Char
		}
		return nil
	})
	hook(ctx, &domain.CharEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		Index:     op.Index,
		Char:      char,
		Flushed:   flushed,
	})
}

func (p *Presenter) logOutcome(phase string, out domain.Outcome) domain.Outcome {
	switch out.Status {
	case domain.StatusSucceeded:
		p.logger.Info("phase completed", "phase", phase)
	case domain.StatusCancelled:
		p.logger.Warn("phase cancelled", "phase", phase)
	default:
		p.logger.Error("phase failed", "phase", phase, "err", out.Err)
	}
	return out
}

// zip pairs two streams; the second yields nil once exhausted.
func zip[A, B any](a iter.Seq[A], b iter.Seq[B]) iter.Seq2[A, B] {
	return func(yield func(A, B) bool) {
		nb, stop := iter.Pull(b)
		defer stop()
		for x := range a {
			y, _ := nb()
			if !yield(x, y) {
				return
			}
		}
	}
}

func none[T any]() iter.Seq[T] {
	return func(func(T) bool) {}
}
