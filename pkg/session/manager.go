package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/quill/internal/logging"
	"github.com/aretw0/quill/pkg/domain"
	"golang.org/x/sync/semaphore"
)

// lockEntry holds the field lock and the reference count.
type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// RunFunc presents one script.
type RunFunc func(ctx context.Context, script domain.Script) domain.Outcome

// Manager serializes presentations on the same field.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*lockEntry

	observe func(domain.Mode, domain.Outcome)
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithObserver reports every finished presentation to fn.
func WithObserver(fn func(domain.Mode, domain.Outcome)) Option {
	return func(m *Manager) {
		m.observe = fn
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// Every acquire must be paired with release.
func (m *Manager) acquire(field string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[field]
	if !exists {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		m.locks[field] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[field]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, field)
	}
}

// WithLock runs fn while holding the lock for field. Waiting for the lock
// gives up with ctx.Err() when ctx is done.
func (m *Manager) WithLock(ctx context.Context, field string, fn func(context.Context) error) error {
	entry := m.acquire(field)
	defer m.release(field)

	if err := entry.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer entry.sem.Release(1)

	return fn(ctx)
}

// Present runs script on field once every earlier presentation on the same
// field has finished.
func (m *Manager) Present(ctx context.Context, field string, script domain.Script, run RunFunc) domain.Outcome {
	logger := m.logger.With("field", field, "script", script.ID)

	var out domain.Outcome
	start := time.Now()
	err := m.WithLock(ctx, field, func(ctx context.Context) error {
		logger.Debug("Presentation started", "waited", time.Since(start))
		start = time.Now()
		out = run(ctx, script)
		return nil
	})
	if err != nil {
		out = domain.Cancelled(err)
	}

	switch out.Status {
	case domain.StatusSucceeded:
		logger.Info("Presentation finished", "duration", time.Since(start))
	case domain.StatusCancelled:
		logger.Warn("Presentation cancelled", "duration", time.Since(start))
	default:
		logger.Error("Presentation failed", "err", out.Err)
	}
	if m.observe != nil {
		m.observe(script.Mode, out)
	}
	return out
}

// Active returns the fields with a running or waiting presentation.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.locks))
	for field := range m.locks {
		out = append(out, field)
	}
	slices.Sort(out)
	return out
}
