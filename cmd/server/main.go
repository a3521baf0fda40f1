// Package main initializes and starts the SecretVault API server,
// setting up configuration, logging, the database connection,
// repositories, services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/avoronin/secretvault/internal/config"
	"github.com/avoronin/secretvault/internal/db"
	"github.com/avoronin/secretvault/internal/logger"
	"github.com/avoronin/secretvault/internal/repository"
	"github.com/avoronin/secretvault/internal/server/handler/http"
	"github.com/avoronin/secretvault/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, file, and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and bootstrap the schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Keep the is_active flag consistent with account tombstones.
	db.StartTombstoneGuard(context.Background(), postgresDB, options.GuardInterval, zapLogger)

	// Initialize repositories for accounts and records.
	accountRepo := repository.NewPostgresAccountRepository(postgresDB)
	recordRepo := repository.NewPostgresRecordRepository(postgresDB)

	// Initialize business-logic services.
	accountService := service.NewAccountService(accountRepo)
	syncService := service.NewSyncService(recordRepo)

	// Create HTTP handlers for the lifecycle and record endpoints.
	authHandler := http.NewAuthHandler(accountService)
	recordHandler := http.NewRecordHandler(syncService)

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, recordHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
