package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
	"github.com/stretchr/testify/mock"
)

// Input is an InputSource whose notifications are fired by the test.
type Input struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

func NewInput() *Input {
	return &Input{subs: make(map[int]func())}
}

func (in *Input) Subscribe(fn func()) func() {
	in.mu.Lock()
	id := in.next
	in.next++
	in.subs[id] = fn
	in.mu.Unlock()
	return func() {
		in.mu.Lock()
		delete(in.subs, id)
		in.mu.Unlock()
	}
}

// Fire notifies every current subscriber synchronously.
func (in *Input) Fire() {
	in.mu.Lock()
	fns := make([]func(), 0, len(in.subs))
	for _, fn := range in.subs {
		fns = append(fns, fn)
	}
	in.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Subscribers returns the number of live subscriptions.
func (in *Input) Subscribers() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.subs)
}

// Timer is a ports.Timer that returns immediately. OnWait, if set, runs on
// every call with the 1-based call number; returning true makes that call
// block until ctx is done.
type Timer struct {
	mu     sync.Mutex
	calls  int
	waited []time.Duration
	OnWait func(call int, d time.Duration) (block bool)
}

func (t *Timer) Wait(ctx context.Context, d time.Duration) error {
	t.mu.Lock()
	t.calls++
	call := t.calls
	t.waited = append(t.waited, d)
	hook := t.OnWait
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if hook != nil && hook(call, d) {
		<-ctx.Done()
		return ctx.Err()
	}
	return ctx.Err()
}

// Waits returns every requested duration in call order.
func (t *Timer) Waits() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.waited...)
}

// CancelAfter is a FrameTicker that delegates to Ticker and calls Cancel once
// Frames frames have elapsed.
type CancelAfter struct {
	Ticker ports.FrameTicker
	Frames int
	Cancel context.CancelFunc

	n int
}

func (c *CancelAfter) NextFrame(ctx context.Context) error {
	if c.n >= c.Frames {
		c.Cancel()
		<-ctx.Done()
		return ctx.Err()
	}
	c.n++
	return c.Ticker.NextFrame(ctx)
}

// MockField is a testify mock of ports.TextField for error-path tests.
type MockField struct {
	mock.Mock
}

func (m *MockField) SetText(text string) { m.Called(text) }

func (m *MockField) Text() string {
	return m.Called().String(0)
}

func (m *MockField) SetRendering(on bool) { m.Called(on) }

func (m *MockField) Rendering() bool {
	return m.Called().Bool(0)
}

func (m *MockField) Layout() (*domain.TextInfo, error) {
	args := m.Called()
	info, _ := args.Get(0).(*domain.TextInfo)
	return info, args.Error(1)
}

func (m *MockField) Info() *domain.TextInfo {
	info, _ := m.Called().Get(0).(*domain.TextInfo)
	return info
}

func (m *MockField) CommitGeometry(section int) error {
	return m.Called(section).Error(0)
}

func (m *MockField) CommitColors() error {
	return m.Called().Error(0)
}
