package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"cityevents/config"
	_ "cityevents/docs"
	"cityevents/internal/adapters/email"
	"cityevents/internal/adapters/stats"
	delivery "cityevents/internal/delivery/http"
	"cityevents/internal/delivery/http/controllers"
	"cityevents/internal/delivery/http/middleware"
	"cityevents/internal/repository/postgres"
	"cityevents/internal/services"
)

const contextTimeout = 10 * time.Second

// @title City Events API
// @version 1.0
// @description Event management with capacity-limited participation and a view-statistics collector.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	statsClient := stats.NewHTTPClient(cfg.StatsURL, &http.Client{Timeout: 5 * time.Second})
	enrichment := services.NewEnrichmentService(requestRepo, statsClient, cfg.AppName, logger)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	eventService := services.NewEventService(eventRepo, userRepo, categoryRepo, enrichment, contextTimeout)
	admissionService := services.NewAdmissionService(eventRepo, requestRepo, userRepo, enrichment, emailService, contextTimeout, logger)

	eventController := controllers.NewEventController(logger, eventService)
	requestController := controllers.NewRequestController(logger, admissionService)

	mux := delivery.NewRouter(eventController, requestController)
	handler := middleware.Logging(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("api server stopped")
}
