package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/tropelink/internal/presentation/format"
	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
)

// Server exposes a Connector as a JSON API.
type Server struct {
	Connector ports.Connector
	Names     ports.NameResolver
	Metrics   http.Handler
	Version   string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithNames resolves display names in responses.
func WithNames(n ports.NameResolver) Option {
	return func(s *Server) { s.Names = n }
}

// WithMetrics mounts a metrics handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.Metrics = h }
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.Version = v }
}

// WithTimeout bounds every search. Zero means the request context alone decides.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.Timeout = d }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Role  string `json:"role,omitempty"`
}

// NewHandler creates a new HTTP handler for the connector.
func NewHandler(conn ports.Connector, opts ...Option) http.Handler {
	s := &Server{
		Connector: conn,
		Version:   "dev",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/connection", s.GetConnection)
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetConnection handles GET /connection?source=...&target=...
func (s *Server) GetConnection(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	target := r.URL.Query().Get("target")
	if source == "" || target == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "source and target query parameters are required",
			Kind:  "invalid_request",
		})
		return
	}

	ctx := r.Context()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	path, err := s.Connector.Connect(ctx, source, target)
	if err != nil {
		status, body := errorResponse(err)
		switch {
		case status == StatusClientClosedRequest:
			s.Logger.Debug("Client closed request", "source", source, "target", target)
		case status >= http.StatusInternalServerError:
			s.Logger.Error("Connection search failed", "source", source, "target", target, "error", err)
		default:
			s.Logger.Warn("Connection request rejected", "source", source, "target", target, "error", err)
		}
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, format.Resolve(ctx, path, s.Names))
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tropelink-http",
		"version": s.Version,
	})
}

// StatusClientClosedRequest is answered when the client went away before the search ended.
const StatusClientClosedRequest = 499

// errorResponse maps search errors to HTTP statuses.
func errorResponse(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var endpointErr *domain.EndpointError
	switch {
	case errors.Is(err, context.Canceled):
		resp.Kind = "client_closed"
		return StatusClientClosedRequest, resp
	case errors.As(err, &endpointErr):
		resp.Kind = "invalid_endpoint"
		resp.Role = endpointErr.Role
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrInvalidEndpoint):
		resp.Kind = "invalid_endpoint"
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrSearchLimit):
		resp.Kind = "search_limit"
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, context.DeadlineExceeded):
		resp.Kind = "timeout"
		return http.StatusGatewayTimeout, resp
	case errors.Is(err, domain.ErrLookupFailure):
		resp.Kind = "lookup_failure"
		return http.StatusBadGateway, resp
	default:
		resp.Kind = "internal"
		return http.StatusInternalServerError, resp
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
