package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/pkg/v1/commander"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Commander --filename commander.go
//go:generate mockery --name Operator --filename operator.go

// DefaultRequestTimeout limits handling time of single request. Connection tests are the slowest.
const DefaultRequestTimeout = time.Minute

// Commander sends commands to import workers.
type Commander interface {
	SendImportCommand(ctx context.Context, sourceID string) error
	SendPrefetchCommand(ctx context.Context, sourceID string) error
}

// Operator runs synchronous operations on sources.
type Operator interface {
	TestConnection(ctx context.Context, sourceID string) ([]string, error)
	LastRun(ctx context.Context, sourceID string) (*models.Run, error)
}

// RequestRecorder records handled requests.
type RequestRecorder interface {
	RecordRequest(method, route string, statusCode int, duration time.Duration)
}

// Server exposes operational HTTP API.
type Server struct {
	commander Commander
	operator  Operator
	sources   []string
	metrics   http.Handler
	recorder  RequestRecorder
	validate  *validator.Validate
	logger    *zerolog.Logger
	timeout   time.Duration
}

// Option configures Server.
type Option func(*Server)

// WithMetrics exposes metrics handler under /metrics and records handled requests.
func WithMetrics(handler http.Handler, recorder RequestRecorder) Option {
	return func(s *Server) {
		s.metrics = handler
		s.recorder = recorder
	}
}

// WithRequestTimeout sets request handling timeout.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// NewServer returns new Server serving provided enabled sources.
func NewServer(cmd Commander, operator Operator, sources []string, logger *zerolog.Logger, ops ...Option) *Server {
	s := &Server{
		commander: cmd,
		operator:  operator,
		sources:   sources,
		validate:  validator.New(),
		logger:    logger,
		timeout:   DefaultRequestTimeout,
	}

	for _, op := range ops {
		op(s)
	}

	return s
}

// Router returns router with all API routes.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.observe)
	router.Use(middleware.Timeout(s.timeout))

	router.Get("/health", s.health)
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics)
	}

	router.Route("/v1", func(r chi.Router) {
		r.Post("/imports", s.createImport)
		r.Route("/sources/{source}", func(r chi.Router) {
			r.Use(s.knownSource)
			r.Post("/imports", s.createImport)
			r.Get("/connection", s.testConnection)
			r.Get("/runs/last", s.lastRun)
		})
	})

	return router
}

type importRequest struct {
	Action string `json:"action" validate:"omitempty,oneof=import prefetch"`
}

type importResponse struct {
	SourceID string `json:"sourceId,omitempty"`
	Action   string `json:"action"`
}

type connectionResponse struct {
	SourceID string   `json:"sourceId"`
	Files    []string `json:"files"`
}

type runResponse struct {
	ID            int        `json:"id"`
	SourceID      string     `json:"sourceId"`
	CreatedAt     time.Time  `json:"createdAt"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
	IsSuccess     *bool      `json:"isSuccess,omitempty"`
	StatusMessage *string    `json:"statusMessage,omitempty"`
	Total         int32      `json:"total"`
	Imported      int32      `json:"imported"`
	Updated       int32      `json:"updated"`
	Skipped       int32      `json:"skipped"`
	Errors        int32      `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createImport publishes import command. Request without source imports all enabled sources.
func (s *Server) createImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	sourceID := chi.URLParam(r, "source")
	send := s.commander.SendImportCommand
	action := commander.ActionImport
	if req.Action == commander.ActionPrefetch {
		send = s.commander.SendPrefetchCommand
		action = commander.ActionPrefetch
	}

	if err := send(r.Context(), sourceID); err != nil {
		s.logger.Error().Err(err).Str("source", sourceID).Msg("can't send command")
		s.respondError(w, http.StatusServiceUnavailable, "can't send command")
		return
	}

	s.respond(w, http.StatusAccepted, importResponse{SourceID: sourceID, Action: action})
}

func (s *Server) testConnection(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "source")

	files, err := s.operator.TestConnection(r.Context(), sourceID)
	if err != nil {
		s.respondErr(w, sourceID, err)
		return
	}

	if files == nil {
		files = []string{}
	}
	s.respond(w, http.StatusOK, connectionResponse{SourceID: sourceID, Files: files})
}

func (s *Server) lastRun(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "source")

	run, err := s.operator.LastRun(r.Context(), sourceID)
	if err != nil {
		s.respondErr(w, sourceID, err)
		return
	}

	s.respond(w, http.StatusOK, runResponse{
		ID:            run.ID,
		SourceID:      run.SourceID,
		CreatedAt:     run.CreatedAt,
		FinishedAt:    run.FinishedAt,
		IsSuccess:     run.IsSuccess,
		StatusMessage: run.StatusMessage,
		Total:         run.Stats.Total,
		Imported:      run.Stats.Imported,
		Updated:       run.Stats.Updated,
		Skipped:       run.Stats.Skipped,
		Errors:        run.Stats.Errors,
	})
}

func (s *Server) knownSource(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(s.sources, chi.URLParam(r, "source")) {
			s.respondError(w, http.StatusNotFound, platform.ErrUnknownSource.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// observe logs and records handled requests by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)

		if s.recorder != nil {
			s.recorder.RecordRequest(r.Method, route, ww.Status(), duration)
		}

		s.logger.Debug().
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", duration).
			Msg("request handled")
	})
}

func (s *Server) respondErr(w http.ResponseWriter, sourceID string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, platform.ErrUnknownSource), errors.Is(err, platform.ErrNoRuns):
		status = http.StatusNotFound
	case errors.Is(err, platform.ErrSourceDisabled):
		status = http.StatusConflict
	case errors.Is(err, platform.ErrConnection), errors.Is(err, platform.ErrAuth):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("source", sourceID).Msg("request failed")
	}

	s.respondError(w, status, err.Error())
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, errorResponse{Error: message})
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("can't encode response")
	}
}
