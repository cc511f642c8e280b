// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/nric/internal/domain/resolver"
	"github.com/okian/nric/internal/domain/types"
	"github.com/okian/nric/pkg/metrics"
)

const defaultMaxBatchSize = 1000

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ValidateDependencies
	ResolveDependencies
}

// ValidationResult mirrors the read shape returned by validation.
type ValidationResult = types.ValidationResult

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	validateHandler *ValidateHandler
	resolveHandler  *ResolveHandler
}

// NewServer creates a new API server with all handlers. maxBatchSize bounds
// POST /validate; a non-positive value selects the default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBatchSize int) *Server {
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		validateHandler: NewValidateHandler(deps, maxBatchSize),
		resolveHandler:  NewResolveHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/validate", MetricsMiddleware(s.validateHandler.HandleValidateBatch, "validate_batch"))
	mux.HandleFunc("/validate/", MetricsMiddleware(s.validateHandler.HandleValidate, "validate"))
	mux.HandleFunc("/resolve", MetricsMiddleware(s.resolveHandler.HandleResolve, "resolve"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// Handler returns mux wrapped with request ID propagation.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return RequestID(mux)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFromContext(r.Context())})
}

// resolveStatus translates resolver error kinds to HTTP status and code.
func resolveStatus(err error) (int, string) {
	switch {
	case errors.Is(err, resolver.ErrMalformedInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, resolver.ErrNoCandidate):
		return http.StatusUnprocessableEntity, "no_candidate"
	case errors.Is(err, resolver.ErrStatistics):
		return http.StatusBadGateway, "statistics_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
