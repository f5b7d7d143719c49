package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/quill/pkg/domain"
)

// Loader implements ports.ScriptLoader over a fixed set of scripts.
type Loader struct {
	scripts map[string]domain.Script
}

// NewLoader creates a loader for scripts, keyed by Script.ID.
func NewLoader(scripts ...domain.Script) (*Loader, error) {
	data := make(map[string]domain.Script, len(scripts))
	for _, s := range scripts {
		if s.ID == "" {
			return nil, fmt.Errorf("script missing ID")
		}
		s.Parts = slices.Clone(s.Parts)
		data[s.ID] = s
	}
	return &Loader{scripts: data}, nil
}

// Load returns the script registered under id.
func (l *Loader) Load(ctx context.Context, id string) (domain.Script, error) {
	s, ok := l.scripts[id]
	if !ok {
		return domain.Script{}, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, id)
	}
	s.Parts = slices.Clone(s.Parts)
	return s, nil
}

// List returns all script IDs in sorted order.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	return slices.Sorted(maps.Keys(l.scripts)), nil
}
