// Package http provides HTTP handlers for the account lifecycle and
// secret record endpoints.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/avoronin/secretvault/internal/models"
)

// AccountService defines the lifecycle operations required by the HTTP handlers.
type AccountService interface {
	// Signup provisions a new active account.
	Signup(ctx context.Context, nu models.NewUser) (*models.User, error)
	// Signin resolves the identity to an active account and records the visit.
	Signin(ctx context.Context, email, googleID string) (*models.User, error)
	// LookupByEmail is a pre-flight existence check.
	LookupByEmail(ctx context.Context, email string) (bool, *models.User, error)
	// DeleteAccount transitions the account from Active to Deleted.
	DeleteAccount(ctx context.Context, email, googleID string) error
	// ReactivateAccount transitions the account from Deleted back to Active.
	ReactivateAccount(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler handles HTTP requests for the account lifecycle.
type AuthHandler struct {
	// AccountService performs the underlying lifecycle operations.
	AccountService AccountService

	validate *validator.Validate
}

// NewAuthHandler constructs an AuthHandler around the given service.
func NewAuthHandler(svc AccountService) *AuthHandler {
	return &AuthHandler{
		AccountService: svc,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

// SignupRequest represents the JSON payload for account creation.
type SignupRequest struct {
	GoogleID      string  `json:"google_id" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Name          string  `json:"name" validate:"required"`
	Picture       *string `json:"picture"`
	VerifiedEmail bool    `json:"verified_email"`
}

// SigninRequest represents the JSON payload for signin and account deletion.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	GoogleID string `json:"google_id" validate:"required"`
}

// ReactivateRequest represents the JSON payload for account reactivation.
type ReactivateRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}

	user, err := h.AccountService.Signup(r.Context(), models.NewUser{
		GoogleID:      req.GoogleID,
		Email:         req.Email,
		Name:          req.Name,
		Picture:       req.Picture,
		VerifiedEmail: req.VerifiedEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// Signin handles POST /api/auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}

	user, err := h.AccountService.Signin(r.Context(), req.Email, req.GoogleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// Lookup handles GET /api/auth/user/{email}.
func (h *AuthHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeError(w, models.ErrValidation)
		return
	}

	exists, user, err := h.AccountService.LookupByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"exists": exists, "user": user})
}

// DeleteAccount handles DELETE /api/auth/account.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}

	if err := h.AccountService.DeleteAccount(r.Context(), req.Email, req.GoogleID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Account deleted successfully",
	})
}

// Reactivate handles POST /api/auth/account/reactivate.
func (h *AuthHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	var req ReactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, models.ErrValidation)
		return
	}

	user, err := h.AccountService.ReactivateAccount(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
