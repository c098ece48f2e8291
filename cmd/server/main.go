package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/postcraft/backend/internal/handlers"
	"github.com/anonto42/postcraft/backend/internal/middleware"
	"github.com/anonto42/postcraft/backend/internal/repositories"
	"github.com/anonto42/postcraft/backend/internal/router"
	"github.com/anonto42/postcraft/backend/internal/services"
	"github.com/anonto42/postcraft/backend/internal/suggest"
	"github.com/anonto42/postcraft/backend/pkg/config"
	"github.com/anonto42/postcraft/backend/pkg/firebase"
	"github.com/anonto42/postcraft/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New("postcraft-api", cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize databases")
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	if err := userRepo.Migrate(); err != nil {
		log.WithError(err).Fatal("Failed to migrate users table")
	}
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("Failed to create post indexes")
	}

	// Firebase is optional; without credentials the exchange route is not mounted
	var verifier services.FirebaseVerifier
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Firebase")
		}
		verifier = firebaseApp
	}

	var completer suggest.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = suggest.NewOpenAICompleter(suggest.OpenAIConfig{
			APIKey:   cfg.OpenAIAPIKey,
			BaseURL:  cfg.OpenAIBaseURL,
			Model:    cfg.OpenAIModel,
			Referer:  cfg.OpenAIReferer,
			AppTitle: cfg.OpenAIAppTitle,
		})
	} else {
		log.Warn("OPENAI_API_KEY not set, autocomplete will report the suggestion service as unavailable")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Dependencies{
		Config:       cfg,
		Log:          log,
		Users:        userRepo,
		Posts:        postRepo,
		Redis:        db.Redis,
		Completer:    completer,
		Firebase:     verifier,
		Metrics:      middleware.NewMetrics(prometheus.DefaultRegisterer),
		HealthChecks: healthChecks(db),
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.MetricsPort).Info("metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	// Start server
	go func() {
		log.WithField("port", cfg.Port).Info("api server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("api server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("api server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("metrics server shutdown failed")
	}
}

func healthChecks(db *config.DB) map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return db.Mongo.Ping(ctx, nil)
		},
	}
	if db.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return db.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
