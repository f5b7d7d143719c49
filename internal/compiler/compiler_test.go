package compiler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/quill/internal/compiler"
	"github.com/aretw0/quill/pkg/adapters/memory"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/aretw0/quill/pkg/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	reg := effect.DefaultRegistry()
	tokens := []domain.Token{
		{Text: "Hello "},
		{Tags: []string{"wobble", "trigger"}, Text: "World"},
	}

	configs, err := compiler.Configure(tokens, reg)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "Hello ", configs[0].Text)
	assert.Empty(t, configs[0].Effects)
	assert.Equal(t, "World", configs[1].Text)
	require.Len(t, configs[1].Effects, 2)
	assert.Equal(t, "wobble", configs[1].Effects[0].Name())
	assert.Equal(t, "trigger", configs[1].Effects[1].Name())
}

func TestConfigure_UnknownTag(t *testing.T) {
	tokens := []domain.Token{{Text: "ok"}, {Tags: []string{"sparkle"}, Text: "no"}}

	_, err := compiler.Configure(tokens, effect.DefaultRegistry())
	assert.ErrorIs(t, err, compiler.ErrUnknownEffect)
}

func TestConfiguration_Tween(t *testing.T) {
	origin := domain.Vec3{X: 12, Y: 3}

	t.Run("Zero effects", func(t *testing.T) {
		tw := compiler.Configuration{Text: "abc"}.Tween()
		assert.Equal(t, domain.Vec3{}, tw(origin, 7))
	})

	t.Run("Two effects sum", func(t *testing.T) {
		wobble := effect.NewWobble("wobble")
		wave := effect.NewWave("wave")
		cfg := compiler.Configuration{Effects: []effect.Effect{wobble, wave}}

		want := wobble.Tween()(origin, 0.3).Add(wave.Tween()(origin, 0.3))
		assert.Equal(t, want, cfg.Tween()(origin, 0.3))
	})
}

func TestBuild(t *testing.T) {
	wave := effect.NewWave("wave")
	configs := []compiler.Configuration{
		{Text: "ab"},
		{Text: "cdé", Effects: []effect.Effect{wave}},
	}

	preset := compiler.Build(configs)

	assert.Equal(t, "abcdé", preset.Text)
	require.Len(t, preset.Tweens, 5)
	origin := domain.Vec3{X: 1}
	assert.Equal(t, domain.Vec3{}, preset.TweenAt(1)(origin, 1))
	for i := 2; i < 5; i++ {
		assert.Equal(t, wave.Tween()(origin, 1), preset.TweenAt(i)(origin, 1))
	}
}

func TestSegments_RoundTrip(t *testing.T) {
	reg, err := effect.Build([]effect.Definition{
		{Name: "jelly", Kind: effect.KindWobble, Params: map[string]any{"amplitude": 2}},
	})
	require.NoError(t, err)

	jelly, _ := reg.Pick("jelly")
	configs := []compiler.Configuration{{Text: "x", Effects: []effect.Effect{jelly}}}

	back, err := compiler.FromSegments(compiler.ToSegments(configs), reg)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, jelly.Spec(), back[0].Effects[0].Spec())

	_, err = compiler.FromSegments([]domain.Segment{{Text: "x", Effects: []domain.EffectSpec{{Name: "gone"}}}}, reg)
	assert.ErrorIs(t, err, compiler.ErrUnknownEffect)
}

func TestCompiler_Compile(t *testing.T) {
	c := compiler.New(effect.DefaultRegistry())
	ctx := context.Background()

	preset, err := c.Compile(ctx, "Hi <wave>there</wave>!")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", preset.Text)
	assert.Equal(t, 9, preset.Len())

	_, err = c.Compile(ctx, "broken</wave>")
	assert.ErrorIs(t, err, markup.ErrUnmatchedClose)
}

func TestCompiler_CompileAll(t *testing.T) {
	c := compiler.New(effect.DefaultRegistry())

	preset, err := c.CompileAll(context.Background(), "<wobble>one</wobble>", " two")
	require.NoError(t, err)
	assert.Equal(t, "one two", preset.Text)
	assert.Equal(t, 7, preset.Len())
}

func TestCompiler_CompileMessage(t *testing.T) {
	c := compiler.New(effect.DefaultRegistry())
	ctx := context.Background()

	msg, err := c.CompileMessage(ctx, "first", "<shake>second</shake>")
	require.NoError(t, err)
	assert.Equal(t, 2, msg.Len())
	assert.Equal(t, "first", msg.Part().Text)

	_, err = c.CompileMessage(ctx)
	assert.ErrorIs(t, err, domain.ErrEmptyMonologue)
}

type countingStore struct {
	*memory.Store
	loads, saves int
	failLoad     error
}

func (s *countingStore) Load(ctx context.Context, key string) ([]domain.Segment, error) {
	s.loads++
	if s.failLoad != nil {
		return nil, s.failLoad
	}
	return s.Store.Load(ctx, key)
}

func (s *countingStore) Save(ctx context.Context, key string, segs []domain.Segment) error {
	s.saves++
	return s.Store.Save(ctx, key, segs)
}

func TestCompiler_Cache(t *testing.T) {
	store := &countingStore{Store: memory.NewStore()}
	c := compiler.New(effect.DefaultRegistry(), compiler.WithStore(store))
	ctx := context.Background()
	text := "<wobble>cached</wobble>"

	first, err := c.Compile(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	segs, err := store.Store.Load(ctx, c.Key(text))
	require.NoError(t, err)
	assert.Equal(t, "cached", segs[0].Text)

	second, err := c.Compile(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves, "second compile is served from cache")
	assert.Equal(t, first.Text, second.Text)
	origin := domain.Vec3{X: 3}
	assert.Equal(t, first.TweenAt(0)(origin, 1), second.TweenAt(0)(origin, 1))
}

func TestCompiler_CacheLoadErrorFallsBack(t *testing.T) {
	store := &countingStore{Store: memory.NewStore(), failLoad: errors.New("backend down")}
	c := compiler.New(effect.DefaultRegistry(), compiler.WithStore(store))

	preset, err := c.Compile(context.Background(), "<wave>still works</wave>")
	require.NoError(t, err)
	assert.Equal(t, "still works", preset.Text)
}

func TestCompiler_KeyDependsOnRegistry(t *testing.T) {
	a := compiler.New(effect.DefaultRegistry())
	reg, err := effect.Build([]effect.Definition{{Name: "wobble", Params: map[string]any{"amplitude": 1}}})
	require.NoError(t, err)
	b := compiler.New(reg)

	assert.NotEqual(t, a.Key("x"), b.Key("x"))
	assert.Equal(t, a.Key("x"), compiler.New(effect.DefaultRegistry()).Key("x"))
}
