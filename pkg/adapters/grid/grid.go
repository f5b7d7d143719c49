// Package grid provides an in-memory monospace implementation of ports.TextField.
//
// Characters are laid out on a grid of fixed-size cells, one quad per cell
// (two cells for wide runes). Coordinates grow right and down. Edits to the
// snapshot returned by Layout become visible to readers of Frame only after
// CommitGeometry or CommitColors.
package grid

import (
	"slices"
	"sync"
	"unicode"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/mattn/go-runewidth"
)

// Glyph is one committed character as a renderer sees it.
type Glyph struct {
	Char    rune `json:"char"`
	Visible bool `json:"visible"`
	// Center of the character quad, in field units.
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Color domain.Color `json:"color"`
	// Column and row before any animation.
	Col int `json:"col"`
	Row int `json:"row"`
}

// Frame is the committed state of a field.
type Frame struct {
	Text      string  `json:"text"`
	Rendering bool    `json:"rendering"`
	Glyphs    []Glyph `json:"glyphs"`
}

// Field is a text field laid out on a monospace grid. Safe for concurrent use
// except for the snapshot returned by Layout, which callers must guard.
type Field struct {
	mu sync.RWMutex

	cellW, cellH float64
	wrap         int
	color        domain.Color

	text      string
	rendering bool
	info      *domain.TextInfo
	cells     [][2]int

	colorsDirty bool
	committed   Frame
	geometryN   int
	colorsN     int
	listeners   map[int]func()
	nextListen  int
}

// Option configures a Field.
type Option func(*Field)

// WithCellSize sets the cell size in field units.
func WithCellSize(w, h float64) Option {
	return func(f *Field) {
		f.cellW, f.cellH = w, h
	}
}

// WithWrap wraps lines after cols columns. Zero disables wrapping.
func WithWrap(cols int) Option {
	return func(f *Field) {
		f.wrap = cols
	}
}

// WithColor sets the color given to every vertex after a text change.
func WithColor(c domain.Color) Option {
	return func(f *Field) {
		f.color = c
	}
}

// New creates an empty field. Rendering starts off.
func New(opts ...Option) *Field {
	f := &Field{
		cellW:     10,
		cellH:     20,
		color:     domain.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if text != f.text {
		f.text = text
		f.colorsDirty = true
	}
}

func (f *Field) Text() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.text
}

func (f *Field) SetRendering(on bool) {
	f.mu.Lock()
	f.rendering = on
	f.committed.Rendering = on
	f.mu.Unlock()
	f.notify()
}

func (f *Field) Rendering() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rendering
}

// Layout rebuilds base vertex positions for the current text. Vertex colors
// survive a relayout unless the text changed since the previous one.
func (f *Field) Layout() (*domain.TextInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var prevColors []domain.Color
	if f.info != nil && !f.colorsDirty {
		prevColors = f.info.Sections[0].Colors
	}

	runes := []rune(f.text)
	info := &domain.TextInfo{
		Characters: make([]domain.CharacterInfo, len(runes)),
		Sections: []domain.MeshSection{{
			Vertices: make([]domain.Vec3, len(runes)*domain.VerticesPerChar),
			Colors:   make([]domain.Color, len(runes)*domain.VerticesPerChar),
		}},
	}
	cells := make([][2]int, len(runes))

	col, row := 0, 0
	for i, r := range runes {
		w := runewidth.RuneWidth(r)
		if r == '\n' {
			w = 0
		}
		if f.wrap > 0 && col > 0 && col+w > f.wrap {
			col, row = 0, row+1
		}

		vi := i * domain.VerticesPerChar
		info.Characters[i] = domain.CharacterInfo{
			Char:        r,
			Visible:     w > 0 && !unicode.IsSpace(r),
			VertexIndex: vi,
		}
		cells[i] = [2]int{col, row}

		x0, y0 := float64(col)*f.cellW, float64(row)*f.cellH
		x1, y1 := x0+float64(max(w, 1))*f.cellW, y0+f.cellH
		// Bottom-left, top-left, top-right, bottom-right.
		copy(info.Sections[0].Vertices[vi:], []domain.Vec3{
			{X: x0, Y: y1}, {X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1},
		})

		if r == '\n' {
			col, row = 0, row+1
		} else {
			col += w
		}
	}

	colors := info.Sections[0].Colors
	if len(prevColors) == len(colors) {
		copy(colors, prevColors)
	} else {
		for i := range colors {
			colors[i] = f.color
		}
	}

	f.info = info
	f.cells = cells
	f.colorsDirty = false
	return info, nil
}

func (f *Field) Info() *domain.TextInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.info
}

// CommitGeometry publishes the vertices of section.
func (f *Field) CommitGeometry(section int) error {
	f.mu.Lock()
	if err := f.checkSection(section); err != nil {
		f.mu.Unlock()
		return err
	}
	f.publish(true, false)
	f.geometryN++
	f.mu.Unlock()
	f.notify()
	return nil
}

// CommitColors publishes the vertex colors of every section.
func (f *Field) CommitColors() error {
	f.mu.Lock()
	if f.info == nil {
		f.mu.Unlock()
		return ErrNotLaidOut
	}
	f.publish(false, true)
	f.colorsN++
	f.mu.Unlock()
	f.notify()
	return nil
}

// Frame returns a copy of the committed state.
func (f *Field) Frame() Frame {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := f.committed
	out.Glyphs = slices.Clone(f.committed.Glyphs)
	return out
}

// Commits returns how many geometry and color commits happened so far.
func (f *Field) Commits() (geometry, colors int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.geometryN, f.colorsN
}

// OnCommit registers fn to run after every commit or rendering change.
// fn runs on the committing goroutine and must not block.
func (f *Field) OnCommit(fn func()) (cancel func()) {
	f.mu.Lock()
	id := f.nextListen
	f.nextListen++
	f.listeners[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *Field) notify() {
	f.mu.RLock()
	fns := make([]func(), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// publish copies the working snapshot into the committed frame. Caller holds mu.
func (f *Field) publish(geometry, colors bool) {
	info := f.info
	if len(f.committed.Glyphs) != len(info.Characters) || f.committed.Text != f.text {
		f.committed.Text = f.text
		f.committed.Glyphs = make([]Glyph, len(info.Characters))
		geometry, colors = true, true
	}
	f.committed.Rendering = f.rendering

	for i, c := range info.Characters {
		g := &f.committed.Glyphs[i]
		g.Char, g.Visible = c.Char, c.Visible
		g.Col, g.Row = f.cells[i][0], f.cells[i][1]
		if geometry {
			q := info.Quad(i)
			g.X = (q[0].X + q[1].X + q[2].X + q[3].X) / 4
			g.Y = (q[0].Y + q[1].Y + q[2].Y + q[3].Y) / 4
		}
		if colors {
			g.Color = info.QuadColors(i)[0]
		}
	}
}

func (f *Field) checkSection(section int) error {
	if f.info == nil {
		return ErrNotLaidOut
	}
	if section < 0 || section >= len(f.info.Sections) {
		return ErrNoSection
	}
	return nil
}

// CellSize returns the cell width and height.
func (f *Field) CellSize() (w, h float64) {
	return f.cellW, f.cellH
}
