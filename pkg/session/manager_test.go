package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SerializesSameField(t *testing.T) {
	m := session.NewManager()

	var inFlight, peak atomic.Int32
	run := func(ctx context.Context, _ domain.Script) domain.Outcome {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return domain.Succeeded()
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := m.Present(context.Background(), "main", domain.Script{ID: "x"}, run)
			assert.True(t, out.IsSucceeded())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
	assert.Empty(t, m.Active(), "locks are released once unused")
}

func TestManager_DifferentFieldsRunConcurrently(t *testing.T) {
	m := session.NewManager()
	release := make(chan struct{})
	started := make(chan string, 2)

	run := func(field string) {
		m.Present(context.Background(), field, domain.Script{}, func(context.Context, domain.Script) domain.Outcome {
			started <- field
			<-release
			return domain.Succeeded()
		})
	}
	go run("left")
	go run("right")

	got := []string{<-started, <-started}
	assert.ElementsMatch(t, []string{"left", "right"}, got)
	assert.Equal(t, []string{"left", "right"}, m.Active())
	close(release)
}

func TestManager_CancelWhileWaiting(t *testing.T) {
	m := session.NewManager()
	hold := make(chan struct{})
	entered := make(chan struct{})

	go m.Present(context.Background(), "main", domain.Script{}, func(context.Context, domain.Script) domain.Outcome {
		close(entered)
		<-hold
		return domain.Succeeded()
	})
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	out := m.Present(ctx, "main", domain.Script{}, func(context.Context, domain.Script) domain.Outcome {
		t.Error("must not run while the field is busy")
		return domain.Succeeded()
	})

	assert.True(t, out.IsCancelled())
	assert.ErrorIs(t, out.Err, context.DeadlineExceeded)
	close(hold)
}

func TestManager_Observer(t *testing.T) {
	type seen struct {
		mode   domain.Mode
		status domain.Status
	}
	var got []seen
	m := session.NewManager(session.WithObserver(func(mode domain.Mode, out domain.Outcome) {
		got = append(got, seen{mode, out.Status})
	}))

	m.Present(context.Background(), "f", domain.Script{Mode: domain.ModeReveal}, func(context.Context, domain.Script) domain.Outcome {
		return domain.Failed(errors.New("boom"))
	})
	m.Present(context.Background(), "f", domain.Script{Mode: domain.ModeAuto}, func(context.Context, domain.Script) domain.Outcome {
		return domain.Succeeded()
	})

	require.Len(t, got, 2)
	assert.Equal(t, seen{domain.ModeReveal, domain.StatusFailed}, got[0])
	assert.Equal(t, seen{domain.ModeAuto, domain.StatusSucceeded}, got[1])
}
