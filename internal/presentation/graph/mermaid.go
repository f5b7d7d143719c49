package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/quill/pkg/sequencer"
)

// Overlay highlights stages on the rendered graph, e.g. the ones a run visited.
type Overlay struct {
	Visited []sequencer.StageID
	Current sequencer.StageID
}

// GenerateMermaid produces a Mermaid flowchart of g from its linked edges.
// The start stage is drawn as a circle, every other stage as a rectangle.
func GenerateMermaid(g *sequencer.Graph, start sequencer.StageID, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range g.IDs() {
		opener, closer := "[", "]"
		if id == start {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(id), opener, id, closer)
	}

	for _, e := range g.Edges() {
		arrow := "-->"
		if e.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(e.Label, "\"", "'"))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast on light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id sequencer.StageID) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "_").Replace(string(id))
}
