package ports

import "github.com/aretw0/quill/pkg/domain"

// TextField is a text layout provider.
//
// Layout recomputes the glyph snapshot for the current text; the returned
// TextInfo stays valid (and writable) until the next Layout call. Commit
// methods push the edited buffers to whatever renders them.
type TextField interface {
	SetText(text string)
	Text() string

	// SetRendering toggles whether committed geometry is shown.
	SetRendering(on bool)
	Rendering() bool

	Layout() (*domain.TextInfo, error)
	// Info returns the snapshot of the last Layout call, or nil before the first one.
	Info() *domain.TextInfo

	CommitGeometry(section int) error
	CommitColors() error
}
