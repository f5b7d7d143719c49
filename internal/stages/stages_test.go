package stages_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/quill/internal/stages"
	"github.com/aretw0/quill/internal/testutils"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	symbolDelay  = 10 * time.Millisecond
	messageDelay = 500 * time.Millisecond
)

type recordingScreen struct {
	mu     sync.Mutex
	shown  []string
	onShow func(text string)
	err    error
}

func (r *recordingScreen) Show(_ context.Context, p domain.Preset) error {
	r.mu.Lock()
	r.shown = append(r.shown, p.Text)
	hook := r.onShow
	r.mu.Unlock()
	if hook != nil {
		hook(p.Text)
	}
	return r.err
}

func (r *recordingScreen) Shown() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.shown...)
}

func message(t *testing.T, parts ...string) domain.Message {
	t.Helper()
	presets := make([]domain.Preset, len(parts))
	for i, p := range parts {
		presets[i] = domain.NewPreset(p, nil)
	}
	msg, err := domain.NewMessage(presets)
	require.NoError(t, err)
	return msg
}

func stageLog() (*[]string, domain.Hooks) {
	var entered []string
	return &entered, domain.Hooks{OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
		entered = append(entered, e.Stage)
	}}
}

func TestInitialFetchEnd(t *testing.T) {
	g := sequencer.NewGraph()
	toFetch := g.Resolver(stages.IDFetch)
	toInitial := g.Resolver(stages.IDInitial)
	require.NoError(t, g.Register(stages.IDInitial, func(msg domain.Message) sequencer.Stage {
		return &stages.Initial{Msg: msg, Then: toFetch}
	}))
	require.NoError(t, g.Register(stages.IDFetch, func(msg domain.Message) sequencer.Stage {
		return &stages.Fetch{Msg: msg, Then: toInitial}
	}))
	require.NoError(t, g.Validate())

	entered, hooks := stageLog()
	out := sequencer.New(g.Start(stages.IDInitial, message(t, "only")), sequencer.WithHooks(hooks)).Run(context.Background())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []string{"initial", "fetch"}, *entered)
}

func TestDialogue_NaturalFlow(t *testing.T) {
	screen := &recordingScreen{}
	timer := &testutils.Timer{}
	deps := stages.Deps{Screen: screen, Timer: timer, Input: testutils.NewInput()}

	start, err := stages.Dialogue(deps, stages.Options{SymbolDelay: symbolDelay, MessageDelay: messageDelay}, message(t, "ab", "c"))
	require.NoError(t, err)

	entered, hooks := stageLog()
	out := sequencer.New(start, sequencer.WithHooks(hooks)).Run(context.Background())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []string{"a", "ab", "c"}, screen.Shown())
	assert.Equal(t, []time.Duration{symbolDelay, messageDelay}, timer.Waits())
	assert.Equal(t, []string{"initial", "print", "fetch", "delay", "print", "fetch"}, *entered)
}

func TestDialogue_SkipGoesToFetch(t *testing.T) {
	input := testutils.NewInput()
	screen := &recordingScreen{}
	timer := &testutils.Timer{OnWait: func(call int, _ time.Duration) bool {
		if call == 1 {
			input.Fire()
			return true
		}
		return false
	}}
	deps := stages.Deps{Screen: screen, Timer: timer, Input: input}

	start, err := stages.Dialogue(deps, stages.Options{SymbolDelay: symbolDelay, MessageDelay: messageDelay}, message(t, "abcd", "xy"))
	require.NoError(t, err)

	entered, hooks := stageLog()
	out := sequencer.New(start, sequencer.WithHooks(hooks)).Run(context.Background())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []string{"a", "x", "xy"}, screen.Shown())
	assert.Equal(t, []string{"initial", "print", "fetch", "print", "fetch"}, *entered)
	assert.NotContains(t, timer.Waits(), messageDelay, "a skipped message does not take the finished path")
	assert.Zero(t, input.Subscribers())
}

func TestDialogue_ConfirmOnSkip(t *testing.T) {
	input := testutils.NewInput()
	screen := &recordingScreen{}
	screen.onShow = func(text string) {
		if text == "abcd" {
			input.Fire() // confirm
		}
	}
	timer := &testutils.Timer{OnWait: func(call int, _ time.Duration) bool {
		if call == 2 {
			input.Fire() // skip
			return true
		}
		return false
	}}
	deps := stages.Deps{Screen: screen, Timer: timer, Input: input}
	opts := stages.Options{SymbolDelay: symbolDelay, MessageDelay: messageDelay, ConfirmOnSkip: true}

	start, err := stages.Dialogue(deps, opts, message(t, "abcd", "z"))
	require.NoError(t, err)

	entered, hooks := stageLog()
	out := sequencer.New(start, sequencer.WithHooks(hooks)).Run(context.Background())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []string{"a", "ab", "abcd", "z"}, screen.Shown())
	assert.Equal(t, []string{"initial", "print", "skip", "fetch", "print", "fetch"}, *entered)
}

func TestPrint_Resolvers(t *testing.T) {
	end := sequencer.StageFunc(func(context.Context) sequencer.Transition { return sequencer.End() })
	var finishedCalls, skippedCalls int
	finished := func(domain.Message) sequencer.Stage { finishedCalls++; return end }
	skipped := func(domain.Message) sequencer.Stage { skippedCalls++; return end }

	input := testutils.NewInput()
	timer := &testutils.Timer{OnWait: func(call int, _ time.Duration) bool {
		input.Fire()
		return true
	}}
	st := &stages.Print{
		Msg:      message(t, "hello"),
		Screen:   &recordingScreen{},
		Timer:    timer,
		Input:    input,
		Delay:    symbolDelay,
		Finished: finished,
		Skipped:  skipped,
	}

	tr := st.Process(context.Background())
	assert.Equal(t, sequencer.KindNext, tr.Kind())
	assert.Equal(t, 1, skippedCalls)
	assert.Zero(t, finishedCalls)
}

func TestDialogue_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	timer := &testutils.Timer{OnWait: func(call int, _ time.Duration) bool {
		cancel()
		return true
	}}
	deps := stages.Deps{Screen: &recordingScreen{}, Timer: timer, Input: testutils.NewInput()}
	start, err := stages.Dialogue(deps, stages.Options{SymbolDelay: symbolDelay}, message(t, "abc"))
	require.NoError(t, err)

	out := sequencer.New(start).Run(ctx)
	assert.True(t, out.IsCancelled())
}

func TestDialogue_ScreenError(t *testing.T) {
	boom := errors.New("screen gone")
	deps := stages.Deps{Screen: &recordingScreen{err: boom}, Timer: &testutils.Timer{}, Input: testutils.NewInput()}
	start, err := stages.Dialogue(deps, stages.Options{}, message(t, "abc"))
	require.NoError(t, err)

	out := sequencer.New(start).Run(context.Background())
	assert.True(t, out.IsFailed())
	assert.ErrorIs(t, out.Err, boom)
}

func TestAutoFlow(t *testing.T) {
	screen := &recordingScreen{}
	timer := &testutils.Timer{}
	start, err := stages.Auto(stages.Deps{Screen: screen, Timer: timer}, stages.Options{SymbolDelay: symbolDelay, MessageDelay: messageDelay}, message(t, "ab", "c"))
	require.NoError(t, err)

	entered, hooks := stageLog()
	out := sequencer.New(start, sequencer.WithHooks(hooks)).Run(context.Background())

	require.True(t, out.IsSucceeded(), out.String())
	assert.Equal(t, []string{"", "a", "ab", "c"}, screen.Shown())
	assert.Equal(t, []time.Duration{symbolDelay, messageDelay}, timer.Waits())
	assert.Equal(t, []string{"setup", "auto_print", "fetch", "delay", "auto_print", "fetch"}, *entered)
}

func TestGraphs_MissingDeps(t *testing.T) {
	_, err := stages.NewDialogueGraph(stages.Deps{Screen: &recordingScreen{}, Timer: &testutils.Timer{}}, stages.Options{})
	assert.ErrorIs(t, err, stages.ErrMissingDeps)

	_, err = stages.NewAutoGraph(stages.Deps{}, stages.Options{})
	assert.ErrorIs(t, err, stages.ErrMissingDeps)
}

func TestLayout(t *testing.T) {
	t.Run("Dialogue", func(t *testing.T) {
		g, start, err := stages.Layout(domain.ModeDialogue, stages.Options{})
		require.NoError(t, err)
		assert.Equal(t, stages.IDInitial, start)
		assert.NotContains(t, g.IDs(), stages.IDSkip)
		assert.Contains(t, g.Edges(), sequencer.Edge{From: stages.IDPrint, To: stages.IDFetchNow, Label: "skipped"})
	})

	t.Run("Dialogue with confirmation", func(t *testing.T) {
		g, _, err := stages.Layout(domain.ModeDialogue, stages.Options{ConfirmOnSkip: true})
		require.NoError(t, err)
		assert.Contains(t, g.IDs(), stages.IDSkip)
		assert.Contains(t, g.Edges(), sequencer.Edge{From: stages.IDSkip, To: stages.IDFetchNow, Label: "confirmed"})
		assert.NotContains(t, g.Edges(), sequencer.Edge{From: stages.IDPrint, To: stages.IDFetchNow, Label: "skipped"})
	})

	t.Run("Auto", func(t *testing.T) {
		g, start, err := stages.Layout(domain.ModeAuto, stages.Options{})
		require.NoError(t, err)
		assert.Equal(t, stages.IDSetup, start)
		assert.Len(t, g.Edges(), 4)
	})

	t.Run("Reveal has no graph", func(t *testing.T) {
		_, _, err := stages.Layout(domain.ModeReveal, stages.Options{})
		assert.ErrorIs(t, err, domain.ErrUnknownMode)
	})
}
