package playback

import (
	"fmt"
	"sync"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
)

// Surface serialises access to a text field's glyph buffers. Every
// per-character write goes through it, so a character's four vertices are
// never observed half-updated by a commit.
type Surface struct {
	mu    sync.Mutex
	field ports.TextField
}

// NewSurface wraps field.
func NewSurface(field ports.TextField) *Surface {
	return &Surface{field: field}
}

// Field returns the wrapped field.
func (s *Surface) Field() ports.TextField {
	return s.field
}

// Do runs fn with exclusive access to the current snapshot.
// The field is laid out first if it never was.
func (s *Surface) Do(fn func(info *domain.TextInfo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := s.field.Info()
	if info == nil {
		var err error
		if info, err = s.field.Layout(); err != nil {
			return fmt.Errorf("layout: %w", err)
		}
	}
	return fn(info)
}

// Show sets the field text, lays it out and hides it until the first commit.
func (s *Surface) Show(text string) (*domain.TextInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.field.SetRendering(false)
	s.field.SetText(text)
	info, err := s.field.Layout()
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return info, nil
}

// Displace writes base[k] + tween(base[k], now()) into the four corners of
// character i. now is sampled once per corner.
func (s *Surface) Displace(i int, base []domain.Vec3, tween domain.Tween, now func() float64) error {
	return s.Do(func(info *domain.TextInfo) error {
		if err := checkIndex(info, i); err != nil {
			return err
		}
		displace(info.Quad(i), base, tween, now)
		return nil
	})
}

// Paint sets all four vertex colors of character i.
func (s *Surface) Paint(i int, c domain.Color) error {
	return s.Do(func(info *domain.TextInfo) error {
		if err := checkIndex(info, i); err != nil {
			return err
		}
		paint(info.QuadColors(i), c)
		return nil
	})
}

// CommitColors pushes vertex colors to the field.
func (s *Surface) CommitColors() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field.CommitColors()
}

// CommitGeometry pushes every mesh section to the field.
func (s *Surface) CommitGeometry() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return commitSections(s.field, s.field.Info())
}

// SetRendering toggles rendering under the guard.
func (s *Surface) SetRendering(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.field.SetRendering(on)
}

// BaseQuads copies the current vertex positions of every character.
func (s *Surface) BaseQuads() ([][]domain.Vec3, error) {
	var out [][]domain.Vec3
	err := s.Do(func(info *domain.TextInfo) error {
		out = make([][]domain.Vec3, len(info.Characters))
		for i := range info.Characters {
			out[i] = append([]domain.Vec3(nil), info.Quad(i)...)
		}
		return nil
	})
	return out, err
}

func displace(quad, base []domain.Vec3, tween domain.Tween, now func() float64) {
	for k := range quad {
		quad[k] = base[k].Add(tween(base[k], now()))
	}
}

func paint(colors []domain.Color, c domain.Color) {
	for k := range colors {
		colors[k] = c
	}
}

func commitSections(field ports.TextField, info *domain.TextInfo) error {
	if info == nil {
		return nil
	}
	for sec := range info.Sections {
		if err := field.CommitGeometry(sec); err != nil {
			return fmt.Errorf("commit section %d: %w", sec, err)
		}
	}
	return nil
}

func checkIndex(info *domain.TextInfo, i int) error {
	if i < 0 || i >= len(info.Characters) {
		return fmt.Errorf("%w: %d of %d", ErrCharOutOfRange, i, len(info.Characters))
	}
	return nil
}
