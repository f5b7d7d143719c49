package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/quill/pkg/domain"
)

// Store implements ports.PresetStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]domain.Segment
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]domain.Segment),
	}
}

// Save stores a copy of segments.
func (s *Store) Save(ctx context.Context, key string, segments []domain.Segment) error {
	copied := cloneSegments(segments)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Load returns a copy so callers can't mutate the cached entry.
func (s *Store) Load(ctx context.Context, key string) ([]domain.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	segments, ok := s.data[key]
	if !ok {
		return nil, domain.ErrPresetNotFound
	}
	return cloneSegments(segments), nil
}

// Delete removes the entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns all keys in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}

func cloneSegments(in []domain.Segment) []domain.Segment {
	out := make([]domain.Segment, len(in))
	for i, seg := range in {
		out[i].Text = seg.Text
		if seg.Effects == nil {
			continue
		}
		out[i].Effects = make([]domain.EffectSpec, len(seg.Effects))
		for j, spec := range seg.Effects {
			out[i].Effects[j] = domain.EffectSpec{Name: spec.Name, Params: maps.Clone(spec.Params)}
		}
	}
	return out
}
