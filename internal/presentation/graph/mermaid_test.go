package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/quill/internal/presentation/graph"
	"github.com/aretw0/quill/pkg/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *sequencer.Graph {
	t.Helper()
	g := sequencer.NewGraph()
	g.Link("initial", "print", "")
	g.Link("print", "fetch-now", "skipped \"fast\"")
	g.Link("fetch-now", "print", "")
	for _, id := range []sequencer.StageID{"initial", "print", "fetch-now"} {
		require.NoError(t, g.Register(id, nil))
	}
	return g
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes and edges",
			contains: []string{
				"graph TD\n",
				"initial((\"initial\"))",
				"print[\"print\"]",
				"fetch_now[\"fetch-now\"]",
				"initial --> print",
				"print -- \"skipped 'fast'\" --> fetch_now",
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "Overlay",
			overlay: &graph.Overlay{Visited: []sequencer.StageID{"initial", "print", "print"}, Current: "fetch-now"},
			contains: []string{
				"classDef visited",
				"class initial visited;",
				"class fetch_now current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sample(t), "initial", tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(got, "class print visited;"))
			}
		})
	}
}
