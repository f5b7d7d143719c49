package tui

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// EffectsMarkdown lists effect definitions as a Markdown table.
func EffectsMarkdown(defs []effect.Definition) string {
	var b strings.Builder
	b.WriteString("# Effects\n\n")
	b.WriteString("| Tag | Kind | Parameters |\n")
	b.WriteString("|-----|------|------------|\n")
	for _, d := range defs {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", d.Name, d.Kind, formatParams(d.Params))
	}
	b.WriteString("\nWrap text in `<tag>…</tag>`; `</>` closes every open tag.\n")
	return b.String()
}

func formatParams(params map[string]any) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, ", ")
}

var tagColors = []string{"#60a5fa", "#34d399", "#fbbf24", "#f87171", "#a78bfa"}

// WriteTokens prints one token per line as "[tags] text". With color, each
// distinct tag set gets its own foreground color.
func WriteTokens(w io.Writer, tokens []domain.Token, color bool) {
	p := termenv.ColorProfile()
	palette := map[string]string{}
	for _, tok := range tokens {
		tags := strings.Join(tok.Tags, ",")
		line := fmt.Sprintf("[%s] %q", tags, tok.Text)
		if !color || tok.Untagged() {
			fmt.Fprintln(w, line)
			continue
		}
		c, ok := palette[tags]
		if !ok {
			c = tagColors[len(palette)%len(tagColors)]
			palette[tags] = c
		}
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(c)))
	}
}
