//go:generate swag init -g main.go -d .,../../internal/api -o ../../docs

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/remaimber-it/quizdeck/internal/api"
	"github.com/remaimber-it/quizdeck/internal/infrastructure/config"
	"github.com/remaimber-it/quizdeck/internal/service"
	"github.com/remaimber-it/quizdeck/internal/store"

	_ "github.com/remaimber-it/quizdeck/docs" // generated swagger docs
)

// @title           Quizdeck API
// @version         1.0
// @description     Subject-based quiz and flashcard engine: build decks, answer, strike, collect and prune questions.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := store.Open(openCtx, store.Options{
		Path:         cfg.DBPath,
		TemplatePath: cfg.DBTemplatePath,
		ForceRefresh: cfg.DBForceRefresh,
	})
	cancelOpen()
	if err != nil {
		logger.Error("failed to open database",
			"path", cfg.DBPath,
			"template", cfg.DBTemplatePath,
			"error", err,
		)
		os.Exit(1)
	}
	defer db.Close()

	learningSvc := service.NewLearningService(db, service.Defaults{
		SampleSize:  cfg.DefaultSampleSize,
		RepeatCount: cfg.DefaultRepeatCount,
	}, logger)
	handler := api.NewHandler(db, learningSvc, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Recoverer → RequestID → Logging → CORS → mux ──
	chained := api.Chain(mux, logger, cfg.AllowedOrigins)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           chained,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server", "active_sessions", learningSvc.ActiveSessions())
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "db", cfg.DBPath)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
