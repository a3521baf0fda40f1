// Package http provides HTTP routing and middleware configuration
// for the SecretVault API.
package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avoronin/secretvault/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// SecretVault API. It applies JSON content-type enforcement and request
// logging, and mounts the account lifecycle and record endpoints under /api.
//
// Routes:
//
//	POST   /api/auth/signup              → authHandler.Signup
//	POST   /api/auth/signin              → authHandler.Signin
//	GET    /api/auth/user/{email}        → authHandler.Lookup
//	DELETE /api/auth/account             → authHandler.DeleteAccount
//	POST   /api/auth/account/reactivate  → authHandler.Reactivate
//	POST   /api/passwords                → recordHandler.Create
//	GET    /api/passwords/user/{userID}  → recordHandler.List
//	PUT    /api/passwords/{id}           → recordHandler.Update
//	DELETE /api/passwords/{id}           → recordHandler.Delete
//	POST   /api/passwords/sync           → recordHandler.Sync
//	GET    /api/health                   → liveness probe
func NewRouter(
	authHandler *AuthHandler,
	recordHandler *RecordHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Get("/user/{email}", authHandler.Lookup)
			r.Delete("/account", authHandler.DeleteAccount)
			r.Post("/account/reactivate", authHandler.Reactivate)
		})

		r.Route("/passwords", func(r chi.Router) {
			r.Post("/", recordHandler.Create)
			r.Get("/user/{userID}", recordHandler.List)
			r.Put("/{id}", recordHandler.Update)
			r.Delete("/{id}", recordHandler.Delete)
			r.Post("/sync", recordHandler.Sync)
		})
	})

	return r
}

// health reports service liveness.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"message":   "SecretVault API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
