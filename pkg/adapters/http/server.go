// Package http exposes the compiler over HTTP and streams headless previews
// over a websocket.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/quill/pkg/adapters/grid"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/aretw0/quill/pkg/markup"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the part of quill.Engine the server needs.
type Engine interface {
	Effects() []effect.Definition
	Parse(text string) ([]domain.Token, error)
	Configure(ctx context.Context, text string) ([]domain.Segment, error)
	Preview(ctx context.Context, text string, frames int, emit func(grid.Frame)) domain.Outcome
}

// MaxPreviewFrames bounds a single websocket preview.
const MaxPreviewFrames = 3600

// Server serves the HTTP API.
type Server struct {
	Engine   Engine
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGatherer serves metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/effects", s.GetEffects)
	r.Post("/parse", s.Parse)
	r.Post("/compile", s.Compile)
	r.Get("/ws/play", s.Play)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TextRequest is the body of /parse and /compile.
type TextRequest struct {
	Text string `json:"text"`
}

// TokenDTO is one parsed token.
type TokenDTO struct {
	Tags []string `json:"tags"`
	Text string   `json:"text"`
}

// CompileResponse describes the segments of a compiled text.
type CompileResponse struct {
	Text     string           `json:"text"`
	Runes    int              `json:"runes"`
	Segments []domain.Segment `json:"segments"`
}

// ErrorResponse is returned with every 4xx/5xx status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Offset *int   `json:"offset,omitempty"`
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) GetEffects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Effects())
}

func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}
	tokens, err := s.Engine.Parse(body.Text)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	out := make([]TokenDTO, len(tokens))
	for i, t := range tokens {
		out[i] = TokenDTO{Tags: t.Tags, Text: t.Text}
		if out[i].Tags == nil {
			out[i].Tags = []string{}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}
	segs, err := s.Engine.Configure(r.Context(), body.Text)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	resp := CompileResponse{Segments: segs}
	for _, seg := range segs {
		resp.Text += seg.Text
	}
	resp.Runes = len([]rune(resp.Text))
	writeJSON(w, http.StatusOK, resp)
}

// PlayRequest is the first websocket message of a preview.
type PlayRequest struct {
	Text   string `json:"text"`
	Frames int    `json:"frames"`
}

// PlayMessage is sent for every frame and once at the end.
type PlayMessage struct {
	Type   string      `json:"type"` // "frame" or "outcome"
	Frame  *grid.Frame `json:"frame,omitempty"`
	Status string      `json:"status,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Play upgrades to a websocket, reads one PlayRequest and streams frames
// until the preview ends or the client goes away.
func (s *Server) Play(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	var req PlayRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Warn("Play: invalid request", "err", err)
		return
	}
	if req.Frames <= 0 || req.Frames > MaxPreviewFrames {
		req.Frames = MaxPreviewFrames
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Any client message or a closed connection stops the preview.
	go func() {
		defer cancel()
		_, _, _ = conn.ReadMessage()
	}()

	var mu sync.Mutex
	send := func(m PlayMessage) error {
		mu.Lock()
		defer mu.Unlock()
		return conn.WriteJSON(m)
	}

	out := s.Engine.Preview(ctx, req.Text, req.Frames, func(f grid.Frame) {
		if err := send(PlayMessage{Type: "frame", Frame: &f}); err != nil {
			cancel()
		}
	})

	final := PlayMessage{Type: "outcome", Status: out.Status.String()}
	if out.Err != nil {
		final.Error = out.Err.Error()
	}
	if err := send(final); err != nil {
		s.logger.Debug("Play: client gone before outcome", "err", err)
	}
	s.logger.Info("Preview finished", "status", out.Status.String())
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (TextRequest, bool) {
	var body TextRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return body, false
	}
	return body, true
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var syntax *markup.SyntaxError
	if errors.As(err, &syntax) {
		resp.Offset = &syntax.Offset
	}
	s.logger.Warn("Request failed", "status", status, "err", err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
