// Package terminal hosts a grid field on a tcell screen and turns key presses
// into skip input.
package terminal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/aretw0/quill/pkg/adapters/grid"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// ErrQuit is returned by Run when the user asks to leave.
var ErrQuit = errors.New("quit requested")

// Host draws committed frames of a grid.Field and publishes input.
// It implements ports.InputSource.
type Host struct {
	screen tcell.Screen
	field  *grid.Field
	logger *slog.Logger

	originX, originY int
	ready            chan struct{}

	mu   sync.Mutex
	subs map[int]func()
	next int
}

// Option configures a Host.
type Option func(*Host)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

// WithOrigin offsets the field on screen, in cells.
func WithOrigin(x, y int) Option {
	return func(h *Host) { h.originX, h.originY = x, y }
}

func New(screen tcell.Screen, field *grid.Field, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		field:  field,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:   make(map[int]func()),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers fn for every confirm key press (Enter, Space or any
// printable key).
func (h *Host) Subscribe(fn func()) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *Host) fire() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Run initializes the screen and serves it until ctx is done or the user
// presses Escape or Ctrl+C, in which case it returns ErrQuit. The screen is
// finalized on return.
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return err
	}
	defer h.screen.Fini()
	h.screen.Clear()

	redraw := make(chan struct{}, 1)
	cancel := h.field.OnCommit(func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	})
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	h.Draw()
	close(h.ready)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			h.Draw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					h.logger.Debug("quit key pressed")
					return ErrQuit
				case ev.Key() == tcell.KeyEnter || ev.Key() == tcell.KeyRune:
					h.fire()
				}
			case *tcell.EventResize:
				h.screen.Sync()
				h.Draw()
			}
		}
	}
}

// Ready is closed once Run has initialized the screen.
func (h *Host) Ready() <-chan struct{} { return h.ready }

// Draw renders the last committed frame.
func (h *Host) Draw() {
	fr := h.field.Frame()
	cellW, cellH := h.field.CellSize()

	h.screen.Clear()
	if fr.Rendering {
		for _, g := range fr.Glyphs {
			if !g.Visible || g.Color.A == 0 {
				continue
			}
			w := float64(max(runewidth.RuneWidth(g.Char), 1))
			col := int(math.Round((g.X - w*cellW/2) / cellW))
			row := int(math.Round((g.Y - cellH/2) / cellH))
			h.screen.SetContent(h.originX+col, h.originY+row, g.Char, nil, styleOf(g.Color))
		}
	}
	h.screen.Show()
}

// styleOf maps a color onto a black background, scaling by alpha.
func styleOf(c domain.Color) tcell.Style {
	scale := func(v uint8) int32 { return int32(v) * int32(c.A) / 255 }
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(scale(c.R), scale(c.G), scale(c.B)))
}
