package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMatchOutcome(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		outcome domain.Outcome
		want    string
	}{
		{"succeeded", domain.Succeeded(), "ok"},
		{"cancelled", domain.Cancelled(context.Canceled), "cancel:context canceled"},
		{"failed", domain.Failed(boom), "fail:boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.MatchOutcome(tt.outcome,
				func() string { return "ok" },
				func(err error) string { return "cancel:" + err.Error() },
				func(err error) string { return "fail:" + err.Error() },
			)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, tt.outcome.Status.String())
		})
	}
}

func TestHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.Hooks{OnFrame: func(context.Context, *domain.FrameEvent) { calls = append(calls, "a") }}
	b := domain.Hooks{OnFrame: func(context.Context, *domain.FrameEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnFrame(context.Background(), &domain.FrameEvent{})

	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, merged.OnReveal)
}
