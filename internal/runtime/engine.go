// Package runtime runs scripts on a text surface in one of the presentation
// modes.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/quill/internal/compiler"
	"github.com/aretw0/quill/internal/playback"
	"github.com/aretw0/quill/internal/reveal"
	"github.com/aretw0/quill/internal/stages"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
	"github.com/aretw0/quill/pkg/sequencer"
	"golang.org/x/sync/errgroup"
)

// Surface bundles what a flow draws on and listens to.
type Surface struct {
	Field  ports.TextField
	Input  ports.InputSource
	Clock  ports.TimeSource
	Frames ports.FrameTicker
	Timer  ports.Timer
}

// Timing holds the default pacing. Script values override the delays they set.
type Timing struct {
	SymbolDelay     time.Duration
	MessageDelay    time.Duration
	RevealDelay     time.Duration
	DissolveTimeout time.Duration
	ConfirmOnSkip   bool
	// MaxFrames bounds animate mode. Zero plays until cancelled.
	MaxFrames int
}

// DefaultTiming matches the values shipped in the default config.
func DefaultTiming() Timing {
	return Timing{
		SymbolDelay:     50 * time.Millisecond,
		MessageDelay:    time.Second,
		RevealDelay:     reveal.DefaultDelay,
		DissolveTimeout: reveal.DefaultTimeout,
	}
}

// Engine runs scripts.
type Engine struct {
	compiler *compiler.Compiler
	timing   Timing
	hooks    domain.Hooks
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithHooks(hooks domain.Hooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

func WithTiming(t Timing) EngineOption {
	return func(e *Engine) { e.timing = t }
}

func NewEngine(c *compiler.Compiler, opts ...EngineOption) *Engine {
	e := &Engine{
		compiler: c,
		timing:   DefaultTiming(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run presents script on s according to its mode.
func (e *Engine) Run(ctx context.Context, script domain.Script, s Surface) domain.Outcome {
	logger := e.logger.With("script", script.ID, "mode", script.Mode)
	timing := e.timing
	if script.SymbolDelay > 0 {
		timing.SymbolDelay = script.SymbolDelay
	}
	if script.MessageDelay > 0 {
		timing.MessageDelay = script.MessageDelay
	}

	var out domain.Outcome
	switch script.Mode {
	case domain.ModeDialogue, domain.ModeAuto, "":
		out = e.runStages(ctx, script, s, timing, logger)
	case domain.ModeReveal:
		out = e.runReveal(ctx, script, s, timing, logger)
	case domain.ModeAnimate:
		out = e.runAnimate(ctx, script, s, timing, logger)
	default:
		out = domain.Failed(fmt.Errorf("%w: %q", domain.ErrUnknownMode, script.Mode))
	}

	switch out.Status {
	case domain.StatusSucceeded:
		logger.Info("Script finished")
	case domain.StatusCancelled:
		logger.Warn("Script cancelled")
	default:
		logger.Error("Script failed", "err", out.Err)
	}
	return out
}

// runStages drives the dialogue or auto graph while a player animates
// whatever the stages last showed.
func (e *Engine) runStages(ctx context.Context, script domain.Script, s Surface, timing Timing, logger *slog.Logger) domain.Outcome {
	msg, err := e.compiler.CompileMessage(ctx, script.Parts...)
	if err != nil {
		return failOrCancel(ctx, err)
	}

	player := playback.NewPlayer(s.Field, s.Clock, s.Frames,
		playback.WithLogger(logger),
		playback.WithHooks(e.hooks),
	)
	screen := stages.ScreenFunc(func(_ context.Context, preset domain.Preset) error {
		player.Update(preset)
		return nil
	})

	deps := stages.Deps{Screen: screen, Timer: s.Timer, Input: s.Input}
	opts := stages.Options{
		SymbolDelay:   timing.SymbolDelay,
		MessageDelay:  timing.MessageDelay,
		ConfirmOnSkip: timing.ConfirmOnSkip,
	}
	var start sequencer.Stage
	if script.Mode == domain.ModeAuto {
		start, err = stages.Auto(deps, opts, msg)
	} else {
		start, err = stages.Dialogue(deps, opts, msg)
	}
	if err != nil {
		return domain.Failed(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	playCtx, stopPlayer := context.WithCancel(gctx)
	defer stopPlayer()

	g.Go(func() error {
		out := player.Run(playCtx)
		if out.IsFailed() {
			return out.Err
		}
		return nil
	})

	var out domain.Outcome
	g.Go(func() error {
		defer stopPlayer()
		out = sequencer.New(start,
			sequencer.WithLogger(logger),
			sequencer.WithHooks(e.hooks),
		).Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Failed(fmt.Errorf("playback: %w", err))
	}
	return out
}

// runReveal presents each part as a revealed, idling, then dissolved block.
func (e *Engine) runReveal(ctx context.Context, script domain.Script, s Surface, timing Timing, logger *slog.Logger) domain.Outcome {
	p := reveal.NewPresenter(s.Field, s.Clock, s.Timer, s.Input,
		reveal.WithLogger(logger),
		reveal.WithHooks(e.hooks),
		reveal.WithDelay(timing.RevealDelay),
		reveal.WithTimeout(timing.DissolveTimeout),
	)
	if len(script.Parts) == 0 {
		return domain.Failed(domain.ErrEmptyMonologue)
	}
	for i, part := range script.Parts {
		preset, err := e.compiler.Compile(ctx, part)
		if err != nil {
			return failOrCancel(ctx, fmt.Errorf("part %d: %w", i, err))
		}
		if out := p.Present(ctx, preset.Text); !out.IsSucceeded() {
			return out
		}
	}
	return domain.Succeeded()
}

// runAnimate folds every part into one preset and plays it.
func (e *Engine) runAnimate(ctx context.Context, script domain.Script, s Surface, timing Timing, logger *slog.Logger) domain.Outcome {
	preset, err := e.compiler.CompileAll(ctx, script.Parts...)
	if err != nil {
		return failOrCancel(ctx, err)
	}
	player := playback.NewPlayer(s.Field, s.Clock, s.Frames,
		playback.WithLogger(logger),
		playback.WithHooks(e.hooks),
		playback.WithMaxFrames(timing.MaxFrames),
	)
	return player.Play(ctx, preset)
}

func failOrCancel(ctx context.Context, err error) domain.Outcome {
	if ctx.Err() != nil {
		return domain.Cancelled(ctx.Err())
	}
	return domain.Failed(err)
}
