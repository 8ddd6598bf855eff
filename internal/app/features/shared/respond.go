// Package shared holds the JSON plumbing common to all feature handlers:
// response encoding, request decoding, and the single mapping from domain
// errors to HTTP status codes.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// Error maps a domain error onto the wire. Validation failures carry their
// violation list; everything unrecognized is a logged 500 with a generic
// body so internals never leak.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	if verr, ok := apperr.AsValidation(err); ok {
		JSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Violations: verr.Violations})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, apperr.ErrAuth):
		JSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
	case errors.Is(err, apperr.ErrConflict):
		JSON(w, http.StatusConflict, errorBody{Error: "conflict"})
	case errors.Is(err, apperr.ErrInvalidTransition):
		JSON(w, http.StatusConflict, errorBody{Error: "resource is not pending"})
	case errors.Is(err, apperr.ErrRateLimited):
		JSON(w, http.StatusTooManyRequests, errorBody{Error: "too many attempts, slow down"})
	case errors.Is(err, apperr.ErrStoreUnavailable):
		log.Error("store unavailable", zap.Error(err))
		JSON(w, http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable"})
	default:
		log.Error("unhandled error", zap.Error(err))
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// Decode reads a JSON request body into v, rejecting unknown fields so
// client typos surface as errors instead of silently ignored input.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	return nil
}
