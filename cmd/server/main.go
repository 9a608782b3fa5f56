// Package main initializes and starts the TaskKeeper HTTP server,
// setting up configuration, logging, the database connection,
// repositories, services, middleware, and handlers.
package main

import (
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/TaskKeeper/internal/config"
	"github.com/atinyakov/TaskKeeper/internal/db"
	"github.com/atinyakov/TaskKeeper/internal/logger"
	"github.com/atinyakov/TaskKeeper/internal/ratelimit"
	"github.com/atinyakov/TaskKeeper/internal/repository"
	"github.com/atinyakov/TaskKeeper/internal/security"
	"github.com/atinyakov/TaskKeeper/internal/server/handler/http"
	"github.com/atinyakov/TaskKeeper/internal/service"
)

// Auth endpoints: 10 requests per 60 seconds per client address.
const (
	authRateLimit  = 10
	authRateWindow = 60 * time.Second
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	buildVersion, buildDateValue := version, buildDate
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDateValue == "" {
		buildDateValue = "N/A"
	}
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDateValue)

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT secret is required")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for users and tasks.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	taskRepo := repository.NewPostgresTaskRepository(postgresDB)

	// Initialize business-logic services.
	codec := security.NewTokenCodec([]byte(options.JWTSecret))
	tokenTTL := time.Duration(options.TokenTTLMinutes) * time.Minute
	authService := service.NewAuthService(userRepo, codec, tokenTTL)
	taskService := service.NewTaskService(taskRepo)

	// The limiter instance is shared by the auth endpoints.
	limiter := ratelimit.New(authRateLimit, authRateWindow)

	// Create HTTP handlers for auth and task endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	taskHandler := &http.TaskHandler{TaskService: taskService, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, taskHandler, authService, limiter, zapLogger, options.FrontendURL)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
