package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/quill/internal/presentation/graph"
	"github.com/aretw0/quill/internal/stages"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/sequencer"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export a stage flow as a Mermaid diagram",
		Long:  `Outputs a Mermaid diagram (graph TD) of the dialogue or auto stage flow, honoring confirm_on_skip from the config.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMode(mode)
			if err != nil {
				return err
			}
			g, start, err := stages.Layout(m, stages.Options{ConfirmOnSkip: a.cfg.ConfirmOnSkip})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, start, nil))
			return err
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(domain.ModeDialogue), "Flow to draw: dialogue or auto")
	return cmd
}

// stageTrace records the stages a run enters.
type stageTrace struct {
	mu      sync.Mutex
	visited []sequencer.StageID
}

func (t *stageTrace) hooks() domain.Hooks {
	return domain.Hooks{OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
		t.mu.Lock()
		t.visited = append(t.visited, sequencer.StageID(e.Stage))
		t.mu.Unlock()
	}}
}

// mermaid draws the flow of mode with the traced stages highlighted.
func (t *stageTrace) mermaid(mode domain.Mode, opts stages.Options) (string, error) {
	g, start, err := stages.Layout(mode, opts)
	if err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	overlay := &graph.Overlay{Visited: t.visited}
	if n := len(t.visited); n > 0 {
		overlay.Current = t.visited[n-1]
	}
	return graph.GenerateMermaid(g, start, overlay), nil
}
