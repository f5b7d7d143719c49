package sequencer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/quill/pkg/domain"
)

// ErrMalformedGraph is reported when the flow reaches a missing stage.
var ErrMalformedGraph = errors.New("malformed stage graph")

// Stage is one node of a flow.
type Stage interface {
	Process(ctx context.Context) Transition
}

// StageFunc adapts a function to a Stage.
type StageFunc func(ctx context.Context) Transition

func (f StageFunc) Process(ctx context.Context) Transition { return f(ctx) }

// Named is implemented by stages that report a name to hooks and logs.
type Named interface {
	Name() string
}

// Sequencer walks a flow from its initial stage.
type Sequencer struct {
	initial Stage
	logger  *slog.Logger
	hooks   domain.Hooks
}

// Option configures a Sequencer.
type Option func(*Sequencer)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// WithHooks registers OnStageEnter and OnStageLeave callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Sequencer) {
		s.hooks = hooks
	}
}

// New creates a sequencer starting at initial.
func New(initial Stage, opts ...Option) *Sequencer {
	s := &Sequencer{
		initial: initial,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes stages until one ends, cancels or fails the flow.
// A cancelled ctx wins over whatever the current stage returned.
func (s *Sequencer) Run(ctx context.Context) domain.Outcome {
	current := s.initial
	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return s.finish(domain.Cancelled(err))
		}
		if current == nil {
			return s.finish(domain.Failed(fmt.Errorf("%w: no stage at step %d", ErrMalformedGraph, step)))
		}

		name := StageName(current)
		s.emit(ctx, s.hooks.OnStageEnter, domain.EventStageEnter, name, Transition{})
		s.logger.Debug("Entering stage", "stage", name, "step", step)

		tr := process(ctx, current)

		s.emit(ctx, s.hooks.OnStageLeave, domain.EventStageLeave, name, tr)

		if err := ctx.Err(); err != nil {
			return s.finish(domain.Cancelled(err))
		}

		switch tr.kind {
		case KindNext:
			current = tr.next
		case KindEnded:
			return s.finish(domain.Succeeded())
		case KindCancelled:
			return s.finish(domain.Cancelled(nil))
		default:
			err := tr.err
			if err == nil {
				err = errors.New("stage failed")
			}
			return s.finish(domain.Failed(fmt.Errorf("stage %s: %w", name, err)))
		}
	}
}

func process(ctx context.Context, st Stage) (tr Transition) {
	defer func() {
		if r := recover(); r != nil {
			tr = Fail(fmt.Errorf("stage panic: %v", r))
		}
	}()
	return st.Process(ctx)
}

func (s *Sequencer) emit(ctx context.Context, fn func(context.Context, *domain.StageEvent), typ domain.EventType, name string, tr Transition) {
	if fn == nil {
		return
	}
	ev := &domain.StageEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		Stage:     name,
	}
	if typ == domain.EventStageLeave {
		ev.Result = tr.kind.String()
		ev.Err = tr.err
	}
	fn(ctx, ev)
}

func (s *Sequencer) finish(out domain.Outcome) domain.Outcome {
	switch out.Status {
	case domain.StatusSucceeded:
		s.logger.Info("Flow ended")
	case domain.StatusCancelled:
		s.logger.Warn("Flow cancelled")
	default:
		s.logger.Error("Flow failed", "err", out.Err)
	}
	return out
}

// StageName returns the stage's Name, or its type name.
func StageName(st Stage) string {
	if n, ok := st.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", st)
}
