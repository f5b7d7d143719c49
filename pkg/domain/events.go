package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStageEnter EventType = "stage_enter"
	EventStageLeave EventType = "stage_leave"
	EventFrame      EventType = "frame"
	EventReveal     EventType = "reveal"
	EventDissolve   EventType = "dissolve"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StageEvent represents entry into or exit from a sequencer stage.
type StageEvent struct {
	EventBase
	Stage string `json:"stage"`
	// Result is the transition kind on leave ("next", "ended", "cancelled", "failed").
	Result string `json:"result,omitempty"`
	Err    error  `json:"-"`
}

// FrameEvent is published once per committed playback frame.
type FrameEvent struct {
	EventBase
	Frame      int     `json:"frame"`
	Time       float64 `json:"time"`
	Characters int     `json:"characters"`
}

// CharEvent reports a per-character reveal or dissolve operation.
type CharEvent struct {
	EventBase
	Index   int  `json:"index"`
	Char    rune `json:"char"`
	Flushed bool `json:"flushed,omitempty"`
}

// Hooks defines callbacks for pipeline observability. Nil fields are skipped.
type Hooks struct {
	OnStageEnter func(context.Context, *StageEvent)
	OnStageLeave func(context.Context, *StageEvent)
	OnFrame      func(context.Context, *FrameEvent)
	OnReveal     func(context.Context, *CharEvent)
	OnDissolve   func(context.Context, *CharEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnStageEnter: chain(h.OnStageEnter, other.OnStageEnter),
		OnStageLeave: chain(h.OnStageLeave, other.OnStageLeave),
		OnFrame:      chain(h.OnFrame, other.OnFrame),
		OnReveal:     chain(h.OnReveal, other.OnReveal),
		OnDissolve:   chain(h.OnDissolve, other.OnDissolve),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
