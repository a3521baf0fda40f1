package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoronin/secretvault/internal/models"
)

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to its transport status. Anything outside
// the lifecycle/sync taxonomy is a store fault and is reported as a plain
// internal error without leaking the driver message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidSyncRequest):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, models.ErrDuplicateAccount):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, models.ErrAccountDeleted):
		status = http.StatusGone
		msg = err.Error()
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrAccountNotFoundOrDeleted),
		errors.Is(err, models.ErrNoDeletedAccount),
		errors.Is(err, models.ErrRecordNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	}

	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
