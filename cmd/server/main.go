package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "memberhub-backend/internal/api/http"
	"memberhub-backend/internal/config"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository/postgres"
	"memberhub-backend/internal/security"
	"memberhub-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MemberHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	// Initialize Services
	submissionSvc := service.NewSubmissionService(
		store.UserRepository,
		store.InitialApplications,
		store.FullApplications,
		store.MembershipTxRepository,
		emailSvc,
	)
	reviewSvc := service.NewReviewService(
		store.UserRepository,
		store.InitialApplications,
		store.FullApplications,
		store.MembershipTxRepository,
		emailSvc,
	)
	statusSvc := service.NewStatusService(
		store.UserRepository,
		store.InitialApplications,
		store.FullApplications,
		store.AccessGrantRepository,
	)
	consistencySvc := service.NewConsistencyService(
		store.UserRepository,
		store.FullApplications,
		store.AccessGrantRepository,
	)
	auditSvc := service.NewAuditService(store.AuditLogRepository)

	// Initialize HTTP handlers and router
	appHandler := httpapi.NewApplicationHandler(submissionSvc, statusSvc)
	adminHandler := httpapi.NewAdminHandler(reviewSvc, consistencySvc, auditSvc)
	router := httpapi.NewRouter(tokenManager, appHandler, adminHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
