// Triage Controller API server.
package main

// #region imports
import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/carelane/triage-controller/internal/api"
	"github.com/carelane/triage-controller/internal/config"
	"github.com/carelane/triage-controller/internal/llm"
	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/telemetry"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region main
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "llmMode", cfg.LLMMode)

	store, err := telemetry.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	var gen orchestrator.Generator
	var semantic triage.SemanticClassifier
	if cfg.LLMMode == config.ModeOpenAI {
		llmCfg := llm.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		}
		oa, err := llm.NewOpenAIGenerator(llmCfg)
		if err != nil {
			slog.Error("Failed to create OpenAI generator", "error", err)
			os.Exit(1)
		}
		gen = oa
		st, err := llm.NewSemanticTriage(llmCfg)
		if err != nil {
			slog.Error("Failed to create semantic triage", "error", err)
			os.Exit(1)
		}
		semantic = st
	} else {
		gen = llm.NewMock()
	}

	handler := api.NewHandler(
		triage.NewClassifier(semantic),
		orchestrator.New(gen, cfg.MaxAttempts),
		store,
		logger,
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(120 * time.Second))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}

// #endregion main
