package ports

import (
	"context"

	"github.com/aretw0/quill/pkg/domain"
)

// PresetStore caches compiled segments.
type PresetStore interface {
	// Save stores segments under key, replacing any previous entry.
	Save(ctx context.Context, key string, segments []domain.Segment) error

	// Load returns the segments stored under key.
	// Returns domain.ErrPresetNotFound if there is none.
	Load(ctx context.Context, key string) ([]domain.Segment, error)

	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}

// ScriptLoader loads dialogue scripts by ID.
type ScriptLoader interface {
	// Load returns domain.ErrScriptNotFound for unknown IDs.
	Load(ctx context.Context, id string) (domain.Script, error)

	List(ctx context.Context) ([]string, error)
}
