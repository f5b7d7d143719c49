package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/quill/internal/compiler"
	"github.com/aretw0/quill/internal/runtime"
	"github.com/aretw0/quill/internal/testutils"
	"github.com/aretw0/quill/pkg/adapters/clock"
	"github.com/aretw0/quill/pkg/adapters/grid"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameFunc func(ctx context.Context) error

func (f frameFunc) NextFrame(ctx context.Context) error { return f(ctx) }

type stageLog struct {
	mu    sync.Mutex
	names []string
}

func (l *stageLog) hooks() domain.Hooks {
	return domain.Hooks{OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
		l.mu.Lock()
		l.names = append(l.names, e.Stage)
		l.mu.Unlock()
	}}
}

func (l *stageLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

type env struct {
	field *grid.Field
	clock *clock.Manual
	timer *testutils.Timer
	input *testutils.Input
}

func newEnv() *env {
	return &env{
		field: grid.New(),
		clock: clock.NewManual(time.Millisecond),
		timer: &testutils.Timer{},
		input: testutils.NewInput(),
	}
}

func (e *env) surface() runtime.Surface {
	return runtime.Surface{Field: e.field, Input: e.input, Clock: e.clock, Frames: e.clock, Timer: e.timer}
}

func newEngine(opts ...runtime.EngineOption) *runtime.Engine {
	return runtime.NewEngine(compiler.New(effect.DefaultRegistry()), opts...)
}

func TestEngine_RunDialogue(t *testing.T) {
	log := &stageLog{}
	e := newEnv()

	script := domain.Script{ID: "intro", Mode: domain.ModeDialogue, Parts: []string{"a<wobble>b</wobble>", "cd"}}
	out := newEngine(runtime.WithHooks(log.hooks())).Run(context.Background(), script, e.surface())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []string{"initial", "print", "fetch", "delay", "print", "fetch"}, log.snapshot())
}

func TestEngine_RunAuto(t *testing.T) {
	log := &stageLog{}
	e := newEnv()

	script := domain.Script{ID: "auto", Mode: domain.ModeAuto, Parts: []string{"xy"}}
	out := newEngine(runtime.WithHooks(log.hooks())).Run(context.Background(), script, e.surface())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []string{"setup", "auto_print", "fetch"}, log.snapshot())
}

func TestEngine_ScriptDelaysOverrideDefaults(t *testing.T) {
	e := newEnv()

	script := domain.Script{
		Mode:         domain.ModeDialogue,
		SymbolDelay:  7 * time.Millisecond,
		MessageDelay: 70 * time.Millisecond,
		Parts:        []string{"abc", "d"},
	}
	out := newEngine().Run(context.Background(), script, e.surface())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []time.Duration{7 * time.Millisecond, 7 * time.Millisecond, 70 * time.Millisecond}, e.timer.Waits())
}

func TestEngine_RunAnimate(t *testing.T) {
	e := newEnv()
	timing := runtime.DefaultTiming()
	timing.MaxFrames = 3

	script := domain.Script{Mode: domain.ModeAnimate, Parts: []string{"<wave>ab</wave>", "cd"}}
	out := newEngine(runtime.WithTiming(timing)).Run(context.Background(), script, e.surface())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, "abcd", e.field.Frame().Text)
	assert.Equal(t, 3, e.clock.Frames())
}

func TestEngine_RunReveal(t *testing.T) {
	e := newEnv()
	timing := runtime.DefaultTiming()
	// Idle animations park after their first step.
	e.timer.OnWait = func(_ int, d time.Duration) bool { return d != timing.RevealDelay && d != timing.DissolveTimeout }

	var mu sync.Mutex
	revealed, dissolved := 0, 0
	hooks := domain.Hooks{
		OnReveal:   func(context.Context, *domain.CharEvent) { mu.Lock(); revealed++; mu.Unlock() },
		OnDissolve: func(context.Context, *domain.CharEvent) { mu.Lock(); dissolved++; mu.Unlock() },
	}

	script := domain.Script{Mode: domain.ModeReveal, Parts: []string{"<shake>hey</shake>", "you"}}
	out := newEngine(runtime.WithHooks(hooks), runtime.WithTiming(timing)).Run(context.Background(), script, e.surface())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, 6, revealed)
	assert.Equal(t, 6, dissolved)
	assert.Equal(t, "you", e.field.Frame().Text)
}

func TestEngine_Failures(t *testing.T) {
	t.Run("Unknown mode", func(t *testing.T) {
		out := newEngine().Run(context.Background(), domain.Script{Mode: "karaoke", Parts: []string{"x"}}, newEnv().surface())
		require.True(t, out.IsFailed())
		assert.ErrorIs(t, out.Err, domain.ErrUnknownMode)
	})

	t.Run("Empty monologue", func(t *testing.T) {
		out := newEngine().Run(context.Background(), domain.Script{Mode: domain.ModeDialogue}, newEnv().surface())
		require.True(t, out.IsFailed())
		assert.ErrorIs(t, out.Err, domain.ErrEmptyMonologue)
	})

	t.Run("Unknown tag", func(t *testing.T) {
		out := newEngine().Run(context.Background(), domain.Script{Mode: domain.ModeAnimate, Parts: []string{"<sparkle>x</sparkle>"}}, newEnv().surface())
		require.True(t, out.IsFailed())
		assert.ErrorIs(t, out.Err, compiler.ErrUnknownEffect)
	})

	t.Run("Player failure stops the flow", func(t *testing.T) {
		e := newEnv()
		// The message pause blocks until the flow is torn down.
		e.timer.OnWait = func(_ int, d time.Duration) bool { return d == time.Second }
		s := e.surface()
		s.Frames = frameFunc(func(context.Context) error { return errors.New("display lost") })

		out := newEngine().Run(context.Background(), domain.Script{Mode: domain.ModeDialogue, Parts: []string{"a", "b"}}, s)
		require.True(t, out.IsFailed(), out.String())
		assert.ErrorContains(t, out.Err, "display lost")
	})
}

func TestEngine_Cancelled(t *testing.T) {
	e := newEnv()
	ctx, cancel := context.WithCancel(context.Background())
	e.timer.OnWait = func(int, time.Duration) bool {
		cancel()
		return true
	}

	out := newEngine().Run(ctx, domain.Script{Mode: domain.ModeDialogue, Parts: []string{"abc"}}, e.surface())
	assert.True(t, out.IsCancelled(), out.String())
}
