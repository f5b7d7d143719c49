// Package file persists compiled segments as JSON files.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
)

// ErrInvalidKey is returned for keys that cannot name a file.
var ErrInvalidKey = errors.New("invalid preset key")

const ext = ".json"

// Store implements ports.PresetStore on the local filesystem, one file per key.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath. If basePath is empty, it defaults
// to ".quill/presets".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".quill", "presets")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.BasePath, key+ext), nil
}

// Save writes segments to a temporary file and renames it over the entry, so
// readers never see a partial write.
func (s *Store) Save(ctx context.Context, key string, segments []domain.Segment) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure preset directory: %w", err)
	}

	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("failed to marshal segments: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create preset file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preset file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}
	return nil
}

// Load reads the segments stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]domain.Segment, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var segments []domain.Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal segments: %w", err)
	}
	return segments, nil
}

// Delete removes the entry. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete preset file: %w", err)
	}
	return nil
}

// List returns every stored key.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ext); ok && !entry.IsDir() {
			keys = append(keys, name)
		}
	}
	return keys, nil
}
