// Package http provides HTTP handlers for secret record CRUD and
// bulk synchronization.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/avoronin/secretvault/internal/models"
)

// SyncService defines the record operations required by the RecordHandler.
type SyncService interface {
	// SyncBatch applies a client-submitted batch in order and returns
	// positionally aligned per-item results.
	SyncBatch(ctx context.Context, userID int64, ops []models.SyncOperation) ([]models.SyncResult, error)
	// CreateRecord stores a record created directly on the server.
	CreateRecord(ctx context.Context, userID int64, data models.RecordData) (*models.SecretRecord, error)
	// ListRecords returns the user's live records, newest first.
	ListRecords(ctx context.Context, userID int64) ([]models.SecretRecord, error)
	// UpdateRecord rewrites content fields of a record by primary key.
	UpdateRecord(ctx context.Context, id int64, data models.RecordData) (*models.SecretRecord, error)
	// DeleteRecord tombstones a record by primary key.
	DeleteRecord(ctx context.Context, id int64) error
}

// RecordHandler handles HTTP requests for password records.
type RecordHandler struct {
	// SyncService performs the underlying record operations.
	SyncService SyncService

	validate *validator.Validate
}

// NewRecordHandler constructs a RecordHandler around the given service.
func NewRecordHandler(svc SyncService) *RecordHandler {
	return &RecordHandler{
		SyncService: svc,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateRecordRequest represents the JSON payload for direct record creation.
type CreateRecordRequest struct {
	UserID   int64   `json:"user_id" validate:"required"`
	Title    string  `json:"title" validate:"required"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Passcode *string `json:"passcode"`
	Website  *string `json:"website"`
	Notes    *string `json:"notes"`
	Category string  `json:"category"`
}

// SyncRequest represents the JSON envelope of a bulk sync call. The
// operations list keeps the original wire name "passwords".
type SyncRequest struct {
	UserID     int64                  `json:"user_id"`
	Operations []models.SyncOperation `json:"passwords"`
}

// Create handles POST /api/passwords.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}

	record, err := h.SyncService.CreateRecord(r.Context(), req.UserID, models.RecordData{
		Title:    req.Title,
		Username: req.Username,
		Password: req.Password,
		Passcode: req.Passcode,
		Website:  req.Website,
		Notes:    req.Notes,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "password": record})
}

// List handles GET /api/passwords/user/{userID}.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID == 0 {
		writeError(w, models.ErrValidation)
		return
	}

	records, err := h.SyncService.ListRecords(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []models.SecretRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "passwords": records})
}

// Update handles PUT /api/passwords/{id}.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, models.ErrValidation)
		return
	}

	var data models.RecordData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, models.ErrValidation)
		return
	}

	record, err := h.SyncService.UpdateRecord(r.Context(), id, data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "password": record})
}

// Delete handles DELETE /api/passwords/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, models.ErrValidation)
		return
	}

	if err := h.SyncService.DeleteRecord(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password entry deleted successfully",
	})
}

// Sync handles POST /api/passwords/sync. Envelope validation lives in the
// service so a malformed batch fails before any item runs.
func (h *RecordHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.ErrInvalidSyncRequest)
		return
	}

	results, err := h.SyncService.SyncBatch(r.Context(), req.UserID, req.Operations)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": results})
}
