// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/nric/internal/domain/resolver"
)

// ResolveDependencies defines the interface for resolution.
type ResolveDependencies interface {
	Resolve(ctx context.Context, birthDate, lastFour string) (resolver.Result, error)
}

// ResolveHandler handles resolve requests.
type ResolveHandler struct {
	deps ResolveDependencies
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(deps ResolveDependencies) *ResolveHandler {
	return &ResolveHandler{deps: deps}
}

// resolveRequest is the body of POST /resolve.
type resolveRequest struct {
	BirthDate string `json:"birth_date"`
	LastFour  string `json:"last_four"`
}

func (req resolveRequest) validate() error {
	switch {
	case strings.TrimSpace(req.BirthDate) == "":
		return errors.New("missing birth_date")
	case strings.TrimSpace(req.LastFour) == "":
		return errors.New("missing last_four")
	}
	return nil
}

type resolveResponse struct {
	resolver.Result
	RequestID string `json:"request_id"`
}

// HandleResolve handles POST /resolve requests.
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	res, err := h.deps.Resolve(r.Context(), req.BirthDate, req.LastFour)
	if err != nil {
		status, code := resolveStatus(err)
		writeError(w, r, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Result: res, RequestID: RequestIDFromContext(r.Context())})
}
