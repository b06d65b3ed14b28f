package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	appLogger "github.com/FACorreiaa/go-trip-planner/app/logger"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/app/tracer"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/completions"
	"github.com/FACorreiaa/go-trip-planner/internal/api/generation"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trips"
	"github.com/FACorreiaa/go-trip-planner/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics()
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before initializing the main pool
	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Completion Backend ---
	completionClient, err := newCompletionClient(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize completion client", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency Injection ---
	generator := generation.NewGenerator(completionClient, generation.Options{
		Model:             cfg.LLM.Model,
		FallbackModel:     cfg.LLM.FallbackModel,
		MaxTokens:         cfg.LLM.MaxTokens,
		FallbackMaxTokens: cfg.LLM.FallbackMaxTokens,
		CacheTTL:          cfg.Itinerary.ContentCacheTTL,
	}, logger)

	preferencesRepo := preferences.NewRepository(pool, logger)
	preferencesService := preferences.NewService(preferencesRepo, logger)
	preferencesHandler := preferences.NewHandler(preferencesService, logger)

	notifier := itinerary.NewSlogNotifier(logger)
	itineraryService := itinerary.NewService(generator, preferencesService, notifier, cfg.Itinerary.CityConcurrency, logger)
	sessionStore := itinerary.NewSessionStore(cfg.Itinerary.SessionTTL)
	itineraryHandler := itinerary.NewHandler(itineraryService, sessionStore, logger)

	tripsRepo := trips.NewRepository(pool, logger)
	tripsService := trips.NewService(tripsRepo, logger)
	tripsHandler := trips.NewHandler(tripsService, logger)

	// --- Router Setup ---
	apiRouter := router.SetupRouter(&router.Config{
		ItineraryHandler:   itineraryHandler,
		TripsHandler:       tripsHandler,
		PreferencesHandler: preferencesHandler,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * cfg.LLM.Timeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// newCompletionClient picks the completion backend from config. The default
// is the OpenAI-compatible HTTP client; "gemini" switches to the Gemini API.
func newCompletionClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (completions.Client, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return completions.NewGeminiClient(ctx, cfg.LLM.Model)
	default:
		return completions.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.Timeout, logger)
	}
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
