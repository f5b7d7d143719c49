package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var bannerLines = []string{
	"   ____        _ _ _ ",
	"  / __ \\__  __(_) | |",
	" / / / / / / / / | |",
	"/ /_/ / /_/ / / /| |",
	"\\___\\_\\__,_/_/_/ |_|",
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the Quill banner followed by version, coloured when
// color is set.
func PrintBanner(w io.Writer, version string, color bool) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		if color {
			fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
			continue
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "  v%s\n\n", version)
}
