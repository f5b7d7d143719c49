package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/aretw0/quill/pkg/markup"
	"github.com/aretw0/quill/pkg/ports"
)

// Compiler turns markup into presets: parse, configure, build.
// With a store attached, configured segments are cached by markup and registry fingerprint.
type Compiler struct {
	registry *effect.Registry
	store    ports.PresetStore
	logger   *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithStore enables segment caching.
func WithStore(store ports.PresetStore) Option {
	return func(c *Compiler) {
		c.store = store
	}
}

// New creates a compiler for reg.
func New(reg *effect.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the effect registry the compiler resolves tags against.
func (c *Compiler) Registry() *effect.Registry {
	return c.registry
}

// Key returns the cache key of text under the compiler's registry.
func (c *Compiler) Key(text string) string {
	sum := sha256.Sum256([]byte(c.registry.Fingerprint() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Configure parses text and binds its tags to effects.
func (c *Compiler) Configure(ctx context.Context, text string) ([]Configuration, error) {
	if c.store != nil {
		if configs, ok := c.cached(ctx, text); ok {
			return configs, nil
		}
	}

	tokens, err := markup.Parse(text, c.registry.Tags())
	if err != nil {
		return nil, err
	}
	configs, err := Configure(tokens, c.registry)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Save(ctx, c.Key(text), ToSegments(configs)); err != nil {
			c.logger.Warn("Failed to cache segments", "err", err)
		}
	}
	return configs, nil
}

func (c *Compiler) cached(ctx context.Context, text string) ([]Configuration, bool) {
	key := c.Key(text)
	segments, err := c.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrPresetNotFound) {
			c.logger.Warn("Failed to load cached segments", "key", key, "err", err)
		}
		return nil, false
	}
	configs, err := FromSegments(segments, c.registry)
	if err != nil {
		c.logger.Warn("Discarding stale cached segments", "key", key, "err", err)
		return nil, false
	}
	c.logger.Debug("Segment cache hit", "key", key)
	return configs, true
}

// Compile turns text into a preset.
func (c *Compiler) Compile(ctx context.Context, text string) (domain.Preset, error) {
	configs, err := c.Configure(ctx, text)
	if err != nil {
		return domain.Preset{}, fmt.Errorf("compile: %w", err)
	}
	preset := Build(configs)
	c.logger.Debug("Compiled preset", "segments", len(configs), "chars", preset.Len())
	return preset, nil
}

// CompileAll compiles every piece and folds them into one preset.
func (c *Compiler) CompileAll(ctx context.Context, pieces ...string) (domain.Preset, error) {
	presets, err := c.compileEach(ctx, pieces)
	if err != nil {
		return domain.Preset{}, err
	}
	return domain.AppendPresets(presets...), nil
}

// CompileMessage compiles each part separately into a monologue cursor.
func (c *Compiler) CompileMessage(ctx context.Context, parts ...string) (domain.Message, error) {
	presets, err := c.compileEach(ctx, parts)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.NewMessage(presets)
}

func (c *Compiler) compileEach(ctx context.Context, pieces []string) ([]domain.Preset, error) {
	out := make([]domain.Preset, 0, len(pieces))
	for i, p := range pieces {
		preset, err := c.Compile(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		out = append(out, preset)
	}
	return out, nil
}
