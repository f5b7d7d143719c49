// Package config loads quill.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/quill/internal/logging"
	"github.com/aretw0/quill/pkg/effect"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no path is given.
const DefaultPath = "quill.yaml"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the file format. Durations use Go syntax ("40ms", "1.5s").
type Config struct {
	LogLevel string `yaml:"log_level"`
	FPS      int    `yaml:"fps"`

	// Scripts is the directory of script documents.
	Scripts string `yaml:"scripts"`

	SymbolDelay     time.Duration `yaml:"symbol_delay"`
	MessageDelay    time.Duration `yaml:"message_delay"`
	RevealDelay     time.Duration `yaml:"reveal_delay"`
	DissolveTimeout time.Duration `yaml:"dissolve_timeout"`
	ConfirmOnSkip   bool          `yaml:"confirm_on_skip"`

	// Effects replaces the built-in effect set when non-empty.
	Effects []effect.Definition `yaml:"effects"`

	Cache CacheConfig `yaml:"cache"`
	HTTP  HTTPConfig  `yaml:"http"`
}

type CacheConfig struct {
	Backend string `yaml:"backend"`
	// Dir holds the preset files of the file backend.
	Dir string `yaml:"dir"`
	// Addr, TTL and Prefix configure the redis backend.
	Addr   string        `yaml:"addr"`
	TTL    time.Duration `yaml:"ttl"`
	Prefix string        `yaml:"prefix"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:        "info",
		FPS:             60,
		Scripts:         "scripts",
		SymbolDelay:     50 * time.Millisecond,
		MessageDelay:    time.Second,
		RevealDelay:     50 * time.Millisecond,
		DissolveTimeout: 3 * time.Second,
		Cache:           CacheConfig{Backend: CacheMemory, Dir: ".quill/presets", Addr: "localhost:6379"},
		HTTP:            HTTPConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	for name, d := range map[string]time.Duration{
		"symbol_delay":     c.SymbolDelay,
		"message_delay":    c.MessageDelay,
		"reveal_delay":     c.RevealDelay,
		"dissolve_timeout": c.DissolveTimeout,
		"cache.ttl":        c.Cache.TTL,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory:
	case CacheFile:
		if c.Cache.Dir == "" {
			errs = append(errs, errors.New("cache.dir is required for file"))
		}
	case CacheRedis:
		if c.Cache.Addr == "" {
			errs = append(errs, errors.New("cache.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Registry builds the effect registry: the configured definitions, or the
// built-in set when none are configured.
func (c Config) Registry() (*effect.Registry, error) {
	if len(c.Effects) == 0 {
		return effect.DefaultRegistry(), nil
	}
	return effect.Build(c.Effects)
}

// Level returns the parsed log level.
func (c Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
