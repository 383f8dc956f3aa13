// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/inkpot-app/inkpot/internal/api"
	"github.com/inkpot-app/inkpot/internal/metrics"
	"github.com/inkpot-app/inkpot/internal/noteservice"
	"github.com/inkpot-app/inkpot/internal/porter"
	"github.com/inkpot-app/inkpot/internal/sse"
	"github.com/inkpot-app/inkpot/internal/store"
)

// NewLogger builds the structured JSON logger and installs it as default.
func NewLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// OpenService opens the store, loads the notebook, and builds the service.
// The caller owns the returned store handle and must close it.
func OpenService(cfg *Config, logger *slog.Logger) (*noteservice.Service, *store.Store, error) {
	st, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	nb, err := st.LoadAll()
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("load notebook: %w", err)
	}
	logger.Info("Notebook loaded",
		slog.Int("notes", nb.Len()),
		slog.Int("tags", len(nb.TagCounts())))

	svc := noteservice.New(nb, st, cfg.Session.MaxOpenNotes, logger)
	return svc, st, nil
}

// Run starts the application with the given configuration.
func Run(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	logger := NewLogger(cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, st, err := OpenService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// SSE broker; note mutations fan out to connected clients.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	svc.OnChange(broker.PublishNoteEvent)

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus metrics.
	r.Handle("/metrics", promhttp.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start inbox watcher when an inbox directory is configured.
	if inbox := cfg.Import.InboxPath; inbox != "" {
		if err := os.MkdirAll(inbox, 0o755); err != nil {
			return fmt.Errorf("create inbox dir: %w", err)
		}
		importer := porter.NewImporter(svc, cfg.Import.PorterConfig(), logger)
		g.Go(func() error {
			return porter.Watch(gCtx, importer, inbox, logger, nil)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Flush any unsaved in-memory state before the store closes.
		if err := svc.SaveAll(); err != nil {
			logger.Error("final save failed", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
