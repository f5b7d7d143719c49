package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/internal/stages"
	"github.com/aretw0/quill/pkg/adapters/clock"
	"github.com/aretw0/quill/pkg/adapters/grid"
	"github.com/aretw0/quill/pkg/adapters/terminal"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/observability"
	"github.com/aretw0/quill/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type playFlags struct {
	dir        string
	text       []string
	mode       string
	frames     int
	wrap       int
	metricsOut string
	graphOut   string
}

func newPlayCmd(a *app) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play [script-id]",
		Short: "Present a script in the terminal",
		Long: `Presents a stored script, or the markup given with --text, in the terminal.
Enter or any letter skips ahead; Esc or Ctrl+C quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(f.text) == 0 {
				return errors.New("play needs a script id or --text")
			}
			return a.play(cmd.Context(), args, f)
		},
	}
	cmd.Flags().StringVarP(&f.dir, "dir", "d", "", "Scripts directory (defaults to the config value)")
	cmd.Flags().StringArrayVarP(&f.text, "text", "t", nil, "Markup to present instead of a stored script; repeat for several parts")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "Presentation mode: dialogue, auto, reveal or animate")
	cmd.Flags().IntVar(&f.frames, "frames", 0, "Stop animate mode after this many frames (0 runs until quit)")
	cmd.Flags().IntVar(&f.wrap, "wrap", 0, "Wrap lines after this many columns")
	cmd.Flags().StringVar(&f.metricsOut, "metrics-out", "", "Write Prometheus metrics to this file on exit")
	cmd.Flags().StringVar(&f.graphOut, "graph-out", "", "Write the stage flow with the visited stages as Mermaid to this file on exit")
	return cmd
}

func (a *app) play(ctx context.Context, args []string, f playFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}

	timing := a.timing()
	timing.MaxFrames = f.frames

	var dir string
	if len(args) > 0 {
		dir = scriptsDir(a, f.dir)
	}
	trace := &stageTrace{}
	eng, closeStore, err := a.engine(ctx, dir,
		quill.WithTiming(timing),
		quill.WithLifecycleHooks(metrics.Hooks().Merge(trace.hooks())),
	)
	if err != nil {
		return err
	}
	defer closeStore()

	script, err := resolveScript(ctx, eng, args, f)
	if err != nil {
		return err
	}

	screen, err := a.newScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	field := grid.New(grid.WithWrap(f.wrap))
	host := terminal.New(screen, field, terminal.WithLogger(a.logger))
	clk := clock.NewReal(a.cfg.FPS)
	defer clk.Stop()

	surface := quill.Surface{Field: field, Input: host, Clock: clk, Frames: clk, Timer: clk}
	sessions := session.NewManager(
		session.WithLogger(a.logger),
		session.WithObserver(metrics.ObserveOutcome),
	)

	var out domain.Outcome
	hostCtx, stopHost := context.WithCancel(ctx)
	defer stopHost()
	g, gctx := errgroup.WithContext(hostCtx)
	g.Go(func() error {
		return host.Run(gctx)
	})
	g.Go(func() error {
		defer stopHost()
		select {
		case <-host.Ready():
		case <-gctx.Done():
			out = domain.Cancelled(gctx.Err())
			return nil
		}
		out = sessions.Present(gctx, "terminal", script, func(ctx context.Context, s domain.Script) domain.Outcome {
			return eng.Run(ctx, s, surface)
		})
		return nil
	})

	err = g.Wait()
	if f.metricsOut != "" {
		if werr := prometheus.WriteToTextfile(f.metricsOut, reg); werr != nil {
			a.logger.Warn("Failed to write metrics", "path", f.metricsOut, "err", werr)
		}
	}
	if f.graphOut != "" {
		if werr := a.writeTrace(trace, script.Mode, f.graphOut); werr != nil {
			a.logger.Warn("Failed to write stage graph", "path", f.graphOut, "err", werr)
		}
	}
	if err != nil && !errors.Is(err, terminal.ErrQuit) {
		return err
	}
	if out.IsFailed() {
		return out.Err
	}
	return nil
}

// resolveScript loads the named script or wraps --text into an inline one.
// --mode overrides the mode either way.
func resolveScript(ctx context.Context, eng *quill.Engine, args []string, f playFlags) (domain.Script, error) {
	var script domain.Script
	if len(args) > 0 {
		s, err := eng.Script(ctx, args[0])
		if err != nil {
			return domain.Script{}, err
		}
		script = s
	} else {
		script = domain.Script{ID: "inline", Parts: f.text}
	}
	if f.mode != "" {
		mode, err := domain.ParseMode(f.mode)
		if err != nil {
			return domain.Script{}, err
		}
		script.Mode = mode
	}
	return script, nil
}

func (a *app) writeTrace(trace *stageTrace, mode domain.Mode, path string) error {
	out, err := trace.mermaid(mode, stages.Options{ConfirmOnSkip: a.cfg.ConfirmOnSkip})
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0644)
}
