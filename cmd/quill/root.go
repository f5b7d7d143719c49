package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/internal/config"
	"github.com/aretw0/quill/internal/logging"
	"github.com/aretw0/quill/internal/presentation/tui"
	"github.com/aretw0/quill/pkg/adapters/file"
	"github.com/aretw0/quill/pkg/adapters/memory"
	"github.com/aretw0/quill/pkg/adapters/redis"
	"github.com/aretw0/quill/pkg/ports"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

// app carries what every command shares once the config is loaded.
type app struct {
	configPath string
	debug      bool

	cfg    config.Config
	logger *slog.Logger

	// newScreen opens the terminal used by play.
	newScreen func() (tcell.Screen, error)
}

func newRootCmd() *cobra.Command {
	return newAppCmd(&app{newScreen: tcell.NewScreen})
}

func newAppCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "quill",
		Short: "Quill animates rich text",
		Long: `Quill parses tagged markup such as "Hello <wobble>World</wobble>",
turns it into per-character animations and presents scripts in a terminal or
over HTTP.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Path to the quill.yaml config")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newParseCmd(a),
		newCompileCmd(a),
		newEffectsCmd(a),
		newScriptsCmd(a),
		newGraphCmd(a),
		newValidateCmd(a),
		newPlayCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := cfg.Level()
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
	return nil
}

func (a *app) timing() quill.Timing {
	return quill.Timing{
		SymbolDelay:     a.cfg.SymbolDelay,
		MessageDelay:    a.cfg.MessageDelay,
		RevealDelay:     a.cfg.RevealDelay,
		DissolveTimeout: a.cfg.DissolveTimeout,
		ConfirmOnSkip:   a.cfg.ConfirmOnSkip,
	}
}

// engine builds a quill.Engine from the config. The returned close func
// releases the preset cache.
func (a *app) engine(ctx context.Context, scriptsPath string, opts ...quill.Option) (*quill.Engine, func() error, error) {
	registry, err := a.cfg.Registry()
	if err != nil {
		return nil, nil, fmt.Errorf("effects: %w", err)
	}
	store, closeStore, err := openStore(ctx, a.cfg.Cache, a.logger)
	if err != nil {
		return nil, nil, err
	}

	base := []quill.Option{
		quill.WithRegistry(registry),
		quill.WithLogger(a.logger),
		quill.WithTiming(a.timing()),
		quill.WithFPS(a.cfg.FPS),
	}
	if store != nil {
		base = append(base, quill.WithStore(store))
	}
	eng, err := quill.New(scriptsPath, append(base, opts...)...)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return eng, closeStore, nil
}

// openStore returns the configured preset cache, or nil when caching is off.
func openStore(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (ports.PresetStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.CacheNone:
		return nil, noop, nil
	case config.CacheFile:
		logger.Debug("Using file preset cache", "dir", cfg.Dir)
		return file.New(cfg.Dir), noop, nil
	case config.CacheRedis:
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		store := redis.New(cfg.Addr, os.Getenv("QUILL_REDIS_PASSWORD"), 0, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis cache at %s: %w", cfg.Addr, err)
		}
		logger.Debug("Using redis preset cache", "addr", cfg.Addr)
		return store, store.Close, nil
	default:
		return memory.NewStore(), noop, nil
	}
}

// colorful reports whether w is a terminal worth coloring.
func colorful(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && tui.IsTerminal(f)
}
