package quill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/quill/internal/compiler"
	"github.com/aretw0/quill/internal/playback"
	"github.com/aretw0/quill/internal/runtime"
	"github.com/aretw0/quill/pkg/adapters/clock"
	"github.com/aretw0/quill/pkg/adapters/grid"
	loamAdapter "github.com/aretw0/quill/pkg/adapters/loam"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/aretw0/quill/pkg/markup"
	"github.com/aretw0/quill/pkg/ports"
)

// ErrNoLoader is returned by script lookups when the engine has no script source.
var ErrNoLoader = errors.New("no script loader configured")

// Surface is what a script is presented on.
type Surface = runtime.Surface

// Timing holds the default pacing of every mode.
type Timing = runtime.Timing

// DefaultTiming returns the built-in pacing.
func DefaultTiming() Timing { return runtime.DefaultTiming() }

// Engine is the high-level entry point of the library: it compiles markup into
// presets and presents scripts.
type Engine struct {
	registry *effect.Registry
	compiler *compiler.Compiler
	runtime  *runtime.Engine
	store    ports.PresetStore
	loader   ports.ScriptLoader
	timing   Timing
	hooks    domain.Hooks
	logger   *slog.Logger
	fps      int
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in effects.
func WithRegistry(r *effect.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithStore caches compiled segments in store.
func WithStore(store ports.PresetStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLoader injects a ScriptLoader, bypassing the default Loam initialization.
func WithLoader(l ports.ScriptLoader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.Hooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithTiming(t Timing) Option {
	return func(e *Engine) { e.timing = t }
}

// WithFPS sets the frame rate of Preview.
func WithFPS(fps int) Option {
	return func(e *Engine) { e.fps = fps }
}

// New initializes an Engine. When scriptsPath is set and no loader is
// injected, scripts are read from a Loam repository at that path.
func New(scriptsPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{timing: DefaultTiming(), fps: 60}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil && scriptsPath != "" {
		l, err := loamAdapter.Open(scriptsPath)
		if err != nil {
			return nil, err
		}
		eng.loader = l
	}
	if scriptsPath != "" {
		eng.Name = filepath.Base(scriptsPath)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("scripts", eng.Name)
	}
	if eng.registry == nil {
		eng.registry = effect.DefaultRegistry()
	}
	if eng.fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", eng.fps)
	}

	compilerOpts := []compiler.Option{compiler.WithLogger(eng.logger)}
	if eng.store != nil {
		compilerOpts = append(compilerOpts, compiler.WithStore(eng.store))
	}
	eng.compiler = compiler.New(eng.registry, compilerOpts...)
	eng.runtime = runtime.NewEngine(eng.compiler,
		runtime.WithLogger(eng.logger),
		runtime.WithHooks(eng.hooks),
		runtime.WithTiming(eng.timing),
	)
	return eng, nil
}

// Registry returns the effects the engine recognizes.
func (e *Engine) Registry() *effect.Registry { return e.registry }

// Effects describes every registered effect.
func (e *Engine) Effects() []effect.Definition { return e.registry.Definitions() }

// Parse tokenizes markup against the registered tags.
func (e *Engine) Parse(text string) ([]domain.Token, error) {
	return markup.Parse(text, e.registry.Tags())
}

// Configure returns the effect segments of text, from the cache when possible.
func (e *Engine) Configure(ctx context.Context, text string) ([]domain.Segment, error) {
	configs, err := e.compiler.Configure(ctx, text)
	if err != nil {
		return nil, err
	}
	return compiler.ToSegments(configs), nil
}

// Compile turns markup into a preset.
func (e *Engine) Compile(ctx context.Context, text string) (domain.Preset, error) {
	return e.compiler.Compile(ctx, text)
}

// CompileAll compiles several pieces into one preset.
func (e *Engine) CompileAll(ctx context.Context, pieces ...string) (domain.Preset, error) {
	return e.compiler.CompileAll(ctx, pieces...)
}

// Script loads a script by ID.
func (e *Engine) Script(ctx context.Context, id string) (domain.Script, error) {
	if e.loader == nil {
		return domain.Script{}, ErrNoLoader
	}
	return e.loader.Load(ctx, id)
}

// Scripts lists the available script IDs.
func (e *Engine) Scripts(ctx context.Context) ([]string, error) {
	if e.loader == nil {
		return nil, ErrNoLoader
	}
	return e.loader.List(ctx)
}

// Run presents script on s.
func (e *Engine) Run(ctx context.Context, script domain.Script, s Surface) domain.Outcome {
	return e.runtime.Run(ctx, script, s)
}

// RunScript loads and presents the script id.
func (e *Engine) RunScript(ctx context.Context, id string, s Surface) domain.Outcome {
	script, err := e.Script(ctx, id)
	if err != nil {
		return domain.Failed(err)
	}
	return e.Run(ctx, script, s)
}

// Preview animates text headlessly on a fresh grid at the engine frame rate,
// calling emit with every committed frame. frames bounds the preview; zero
// runs until ctx is done.
func (e *Engine) Preview(ctx context.Context, text string, frames int, emit func(grid.Frame)) domain.Outcome {
	preset, err := e.Compile(ctx, text)
	if err != nil {
		return domain.Failed(err)
	}

	field := grid.New()
	clk := clock.NewReal(e.fps)
	defer clk.Stop()

	hooks := e.hooks.Merge(domain.Hooks{
		OnFrame: func(context.Context, *domain.FrameEvent) { emit(field.Frame()) },
	})
	player := playback.NewPlayer(field, clk, clk,
		playback.WithLogger(e.logger),
		playback.WithHooks(hooks),
		playback.WithMaxFrames(frames),
	)
	return player.Play(ctx, preset)
}

// Watch reports changed script IDs when the loader supports it.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(interface {
		Watch(context.Context) (<-chan string, error)
	}); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}
