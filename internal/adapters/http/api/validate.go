// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ValidateDependencies defines the interface for validation operations.
type ValidateDependencies interface {
	Validate(ctx context.Context, id string) ValidationResult
	ValidateBatch(ctx context.Context, ids []string) ([]ValidationResult, error)
}

// ValidateHandler handles validation requests.
type ValidateHandler struct {
	deps         ValidateDependencies
	maxBatchSize int
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(deps ValidateDependencies, maxBatchSize int) *ValidateHandler {
	return &ValidateHandler{deps: deps, maxBatchSize: maxBatchSize}
}

type batchRequest struct {
	NRICs []string `json:"nrics"`
}

type batchResponse struct {
	Results []ValidationResult `json:"results"`
}

// HandleValidate handles GET /validate/{nric} requests.
func (h *ValidateHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /validate/
	id := strings.TrimPrefix(r.URL.Path, "/validate/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Validate(r.Context(), id))
}

// HandleValidateBatch handles POST /validate requests.
func (h *ValidateHandler) HandleValidateBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	switch {
	case len(req.NRICs) == 0:
		writeError(w, r, http.StatusBadRequest, "bad_request", ErrEmptyBatch)
		return
	case len(req.NRICs) > h.maxBatchSize:
		writeError(w, r, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(req.NRICs), h.maxBatchSize))
		return
	}

	results, err := h.deps.ValidateBatch(r.Context(), req.NRICs)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}
