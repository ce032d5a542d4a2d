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
	delivery "cityevents/internal/delivery/http"
	"cityevents/internal/delivery/http/controllers"
	"cityevents/internal/delivery/http/middleware"
	"cityevents/internal/repository/postgres"
	"cityevents/internal/stats"
)

const contextTimeout = 10 * time.Second

// @title City Events Statistics Collector
// @version 1.0
// @description Records visits and serves windowed per-URI view counts.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.StatsDBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	hitRepo := postgres.NewHitRepository(db)
	statsService := stats.NewService(hitRepo, contextTimeout)
	statsController := controllers.NewStatsController(logger, statsService)

	mux := delivery.NewStatsRouter(statsController)
	handler := middleware.Logging(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.StatsPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("stats collector listening", "port", cfg.StatsPort, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down stats collector")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("stats collector stopped")
}
