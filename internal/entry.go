// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/safal938/board28-sub000/internal/api"
	"github.com/safal938/board28-sub000/internal/board"
	"github.com/safal938/board28-sub000/internal/index"
	"github.com/safal938/board28-sub000/internal/itemservice"
	"github.com/safal938/board28-sub000/internal/layout"
	"github.com/safal938/board28-sub000/internal/mcpserver"
	"github.com/safal938/board28-sub000/internal/sse"
	"github.com/safal938/board28-sub000/internal/storage"
	"github.com/safal938/board28-sub000/internal/timescale"
)

// components is everything Run wires together.
type components struct {
	logger *slog.Logger
	store  storage.Provider
	db     *index.DB
	items  *itemservice.Service
	broker *sse.Broker
	board  *board.Board
	layout *layout.Layout
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{logOut: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	// stdout carries the MCP protocol.
	if app.mode == ModeMCP && app.logOut == os.Stdout {
		app.logOut = os.Stderr
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("board_path", cfg.Board.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	c, err := build(cfg, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()
	defer c.broker.Close()

	// stop ends the board loop and watcher once the front end has exited.
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(runCtx)

	// Board loop owns the camera.
	g.Go(func() error {
		return c.board.Run(gCtx)
	})

	// Start file watcher with SSE callback.
	g.Go(func() error {
		err := index.Watch(gCtx, c.db, c.store, cfg.Board.Path, logger, func(kind, id string) {
			c.broker.PublishItemEvent(kind, id)
		})
		if err != nil {
			logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	switch app.mode {
	case ModeMCP:
		serveMCP(gCtx, g, c, stop)
	default:
		serveHTTP(gCtx, g, cfg, c, stop)
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func build(cfg *Config, logger *slog.Logger) (*components, error) {
	// Ensure board directory exists.
	if err := os.MkdirAll(cfg.Board.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create board dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Board.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	// Run initial sync.
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	items := itemservice.NewService(store, db, logger)
	broker := sse.NewBroker(cfg.SSE.BoardThrottle)

	b := board.New(items,
		board.WithPolicy(cfg.Viewport.Policy()),
		board.WithCameraSettings(cfg.Camera.Settings()),
		board.WithKeymap(cfg.Keys.Keymap()),
		board.WithFrameInterval(cfg.Frames.Interval),
		board.WithLogger(logger),
		board.WithObserver(broker.PublishViewport),
	)

	l := layout.New(items, timescale.NewCache(cfg.Timeline.CacheSize), cfg.Timeline.Settings(), logger)

	return &components{
		logger: logger,
		store:  store,
		db:     db,
		items:  items,
		broker: broker,
		board:  b,
		layout: l,
	}, nil
}

// NewHTTPHandler builds the root router: health probes plus the API under /api.
func NewHTTPHandler(h *api.Handler, maxBody int64, events http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

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

	r.Mount("/api", api.NewRouter(h, maxBody, events))
	return r
}

func serveHTTP(ctx context.Context, g *errgroup.Group, cfg *Config, c *components, stop context.CancelFunc) {
	logger := c.logger
	handler := api.NewHandler(c.items, c.board, c.layout)
	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           NewHTTPHandler(handler, cfg.App.HTTP.MaxBodyBytes, c.broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

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
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-ctx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// SSE streams end when the broker closes.
		c.broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		stop()
		return nil
	})
}

func serveMCP(ctx context.Context, g *errgroup.Group, c *components, stop context.CancelFunc) {
	srv := mcpserver.New(c.items, c.board, c.layout)
	g.Go(func() error {
		defer stop()
		c.logger.Info("Serving MCP on stdio")
		if err := srv.ServeStdio(); err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	})
}
