// Package app manages the application lifecycle: configuration, wiring,
// serving, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/filesystem"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/logging"
	"github.com/sophialabs/inkwell/internal/infrastructure/wiring"
)

// App is the thin lifecycle manager that delegates dependency construction
// to wiring.Container.
type App struct {
	cfg        Config
	container  *wiring.Container
	logger     *logging.ZapLogger
	httpServer *http.Server
}

// New constructs the application: logger, wired container, HTTP server.
func New(cfg Config) (*App, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	container, err := wiring.New(wiring.Params{
		ContentRoot:    cfg.ContentRoot,
		AuthBaseURL:    cfg.AuthBaseURL,
		AuthTimeout:    cfg.AuthTimeout,
		TraceSize:      cfg.TraceSize,
		DebugRate:      cfg.DebugRate,
		DebugBurst:     cfg.DebugBurst,
		RateLimiterTTL: cfg.RateLimiterTTL,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to wire infrastructure: %w", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      container.Server(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		container:  container,
		logger:     logger,
		httpServer: httpServer,
	}, nil
}

// Run executes the full application lifecycle: load the site, start the
// content watcher, serve HTTP, and shut down gracefully on SIGINT/SIGTERM
// or context cancellation.
func (a *App) Run(ctx context.Context) error {
	defer a.container.Close()
	defer func() { _ = a.logger.Sync() }()

	logger := a.container.Logger()
	server := a.container.Server()
	loadUC := a.container.LoadSiteUseCase()

	snapshot, err := loadUC.Execute(ctx)
	if err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}
	server.Rebuild(snapshot)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := a.setupWatcher()
	if watcher != nil {
		defer watcher.Stop()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting inkwell server", "addr", a.httpServer.Addr, "content", a.cfg.ContentRoot)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func (a *App) setupWatcher() *filesystem.Watcher {
	logger := a.container.Logger()
	server := a.container.Server()
	loadUC := a.container.LoadSiteUseCase()

	watcher, err := filesystem.NewWatcher(a.cfg.ContentRoot, a.cfg.WatcherDebounce, logger, func() {
		snapshot, err := loadUC.Execute(context.Background())
		if err != nil {
			logger.Error("hot reload failed", "error", err)
			return
		}
		server.Rebuild(snapshot)
		logger.Info("hot reload complete")
	})
	if err != nil {
		logger.Warn("file watcher not available", "error", err)
		return nil
	}

	watcher.Start()
	logger.Info("file watcher started", "root", a.cfg.ContentRoot)
	return watcher
}
