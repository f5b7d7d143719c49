package observability

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one process.
type Metrics struct {
	StageVisits   *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	Frames        prometheus.Counter
	Characters    *prometheus.CounterVec
	Outcomes      *prometheus.CounterVec

	mu      sync.Mutex
	enterAt map[string]time.Time
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StageVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_stage_visits_total",
				Help: "Total number of sequencer stage visits",
			},
			[]string{"stage", "result"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quill_stage_duration_seconds",
				Help:    "Time spent inside a sequencer stage",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"stage"},
		),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quill_frames_total",
			Help: "Total number of committed playback frames",
		}),
		Characters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_characters_total",
				Help: "Characters revealed or dissolved, by phase and whether a skip flushed them",
			},
			[]string{"phase", "flushed"},
		),
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_flow_outcomes_total",
				Help: "Finished flows by mode and status",
			},
			[]string{"mode", "status"},
		),
		enterAt: make(map[string]time.Time),
	}
	for _, c := range []prometheus.Collector{m.StageVisits, m.StageDuration, m.Frames, m.Characters, m.Outcomes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns hooks that feed the collectors. Stage durations are measured
// from the enter event to the matching leave event.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
			m.mu.Lock()
			m.enterAt[e.Stage] = e.Timestamp
			m.mu.Unlock()
		},
		OnStageLeave: func(_ context.Context, e *domain.StageEvent) {
			m.StageVisits.WithLabelValues(e.Stage, e.Result).Inc()
			m.mu.Lock()
			start, ok := m.enterAt[e.Stage]
			delete(m.enterAt, e.Stage)
			m.mu.Unlock()
			if ok {
				m.StageDuration.WithLabelValues(e.Stage).Observe(e.Timestamp.Sub(start).Seconds())
			}
		},
		OnFrame: func(context.Context, *domain.FrameEvent) {
			m.Frames.Inc()
		},
		OnReveal: func(_ context.Context, e *domain.CharEvent) {
			m.Characters.WithLabelValues(string(domain.EventReveal), strconv.FormatBool(e.Flushed)).Inc()
		},
		OnDissolve: func(_ context.Context, e *domain.CharEvent) {
			m.Characters.WithLabelValues(string(domain.EventDissolve), strconv.FormatBool(e.Flushed)).Inc()
		},
	}
}

// ObserveOutcome counts a finished flow.
func (m *Metrics) ObserveOutcome(mode domain.Mode, out domain.Outcome) {
	m.Outcomes.WithLabelValues(string(mode), out.Status.String()).Inc()
}
