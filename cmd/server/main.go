package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thunderbolt-trucking/dispatch-api/internal/config"
	"github.com/thunderbolt-trucking/dispatch-api/internal/database"
	"github.com/thunderbolt-trucking/dispatch-api/internal/logger"
	"github.com/thunderbolt-trucking/dispatch-api/internal/middleware"
	"github.com/thunderbolt-trucking/dispatch-api/internal/server"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	db := database.GetDB()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemoData(db, log); err != nil {
			log.WithError(err).Fatal("failed to seed demo data")
		}
	}

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to create session store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginRateBurst, log)
	loginLimiter.StartCleanup(10*time.Minute, ctx.Done())

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	r := server.NewRouter(server.Options{
		Config:       cfg,
		DB:           db,
		Log:          log,
		SessionStore: store,
		LoginLimiter: loginLimiter,
		AIService:    aiService,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
