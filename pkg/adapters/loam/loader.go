package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/quill/pkg/domain"
)

// Loader adapts a Loam repository of Markdown/JSON/YAML documents to
// ports.ScriptLoader.
type Loader struct {
	Repo *loam.TypedRepository[ScriptMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ScriptMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only repository rooted at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open scripts at %s: %w", dir, err)
	}
	return New(loam.NewTypedRepository[ScriptMetadata](repo)), nil
}

// Load returns the script whose normalized ID is id.
func (l *Loader) Load(ctx context.Context, id string) (domain.Script, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return domain.Script{}, fmt.Errorf("loam list failed: %w", err)
	}

	want := trimExtension(id)
	for _, doc := range docs {
		if scriptID(doc.ID, doc.Data) != want {
			continue
		}
		full, err := l.Repo.Get(ctx, doc.ID)
		if err != nil {
			return domain.Script{}, fmt.Errorf("loam get failed for %s: %w", id, err)
		}
		return buildScript(want, full.Data, full.Content)
	}
	return domain.Script{}, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, id)
}

// List returns the normalized IDs of every script, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := scriptID(doc.ID, doc.Data)
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Watch streams the IDs of changed documents until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func buildScript(id string, meta ScriptMetadata, body string) (domain.Script, error) {
	s := domain.Script{
		ID:    id,
		Title: meta.Title,
		Parts: meta.Parts,
	}

	var err error
	if s.Mode, err = domain.ParseMode(meta.Mode); err != nil {
		return domain.Script{}, fmt.Errorf("script %s: %w", id, err)
	}
	if s.SymbolDelay, err = parseDuration(meta.SymbolDelay); err != nil {
		return domain.Script{}, fmt.Errorf("script %s: symbol_delay: %w", id, err)
	}
	if s.MessageDelay, err = parseDuration(meta.MessageDelay); err != nil {
		return domain.Script{}, fmt.Errorf("script %s: message_delay: %w", id, err)
	}

	if len(s.Parts) == 0 {
		s.Parts = splitParts(body)
	}
	if len(s.Parts) == 0 {
		return domain.Script{}, fmt.Errorf("script %s: %w", id, domain.ErrEmptyMonologue)
	}
	return s, nil
}

// splitParts splits a body into paragraphs. Lines within a paragraph are kept.
func splitParts(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var parts []string
	for p := range strings.SplitSeq(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func scriptID(docID string, meta ScriptMetadata) string {
	if meta.ID != "" {
		return trimExtension(meta.ID)
	}
	return trimExtension(docID)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
