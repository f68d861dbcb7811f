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
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vaultpress/internal/api"
	"github.com/starford/vaultpress/internal/export"
	"github.com/starford/vaultpress/internal/mcpserver"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/site"
	"github.com/starford/vaultpress/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newLogger initializes the structured JSON logger and makes it the default.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func siteOptions(cfg *Config) site.Options {
	return site.Options{
		VaultRoot:      cfg.Vault.Path,
		AttachmentsDir: cfg.Vault.AttachmentsDir,
		BlogRoot:       cfg.Blog.Path,
		Production:     cfg.App.IsProduction(),
	}
}

func siteMeta(cfg *Config) site.Meta {
	return site.Meta{
		Title:    cfg.Site.Title,
		Author:   cfg.Site.Author,
		Favicon:  cfg.Site.Favicon,
		Pagefind: cfg.Site.PagefindEnabled(),
	}
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("blog_path", cfg.Blog.Path),
		slog.String("env", cfg.App.Env),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	snap, err := site.Build(siteOptions(cfg), logger)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	holder := site.NewHolder(snap)

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
		if holder.Load() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(holder, cfg.Site.PageSize))
	r.Mount("/vault", api.NewPageRouter(holder, siteMeta(cfg),
		filepath.Join(cfg.Vault.Path, filepath.FromSlash(cfg.Vault.AttachmentsDir))))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Vault.Watch && !cfg.App.IsProduction() {
		g.Go(func() error {
			return site.Watch(gCtx, holder, siteOptions(cfg), site.DefaultDebounce, logger, nil)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// Build renders the site once into the configured output directory.
func Build(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, os.Stderr)

	outDir := cfg.Build.OutDir
	if app.outDir != "" {
		outDir = app.outDir
	}

	snap, err := site.Build(siteOptions(cfg), logger)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	src, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	out, err := storage.NewFS(outDir)
	if err != nil {
		return fmt.Errorf("open out dir: %w", err)
	}

	stats, err := export.New(src, out, export.Options{
		Meta:           siteMeta(cfg),
		AttachmentsDir: cfg.Vault.AttachmentsDir,
		Concurrency:    cfg.Build.Concurrency,
	}, logger).Run(ctx, snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "exported %d pages, %d documents, %d files to %s (%d unchanged)\n",
		stats.Pages, stats.Documents, stats.Files, out.Root(), stats.Unchanged)
	return err
}

// Tree prints the vault navigation tree.
func Tree(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app.config, os.Stderr)

	snap, err := site.Build(siteOptions(app.config), logger)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	return writeTree(app.out, snap.Tree, 0)
}

func writeTree(w io.Writer, nodes []*models.VaultNode, depth int) error {
	for _, n := range nodes {
		line := strings.Repeat("  ", depth) + n.Title
		if n.Slug != "" {
			line += "  /vault/" + n.Slug
		}
		if _, err := fmt.Fprintf(w, "%s  [%s]\n", line, n.Kind); err != nil {
			return err
		}
		if err := writeTree(w, n.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// ServeMCP serves the read-only vault tools over stdio. Logs go to stderr
// because stdout carries the protocol.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, os.Stderr)

	snap, err := site.Build(siteOptions(cfg), logger)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	holder := site.NewHolder(snap)
	srv := mcpserver.New(holder, app.version)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	if cfg.Vault.Watch && !cfg.App.IsProduction() {
		g.Go(func() error {
			return site.Watch(gCtx, holder, siteOptions(cfg), site.DefaultDebounce, logger, nil)
		})
	}
	g.Go(func() error {
		defer cancel()
		logger.Info("MCP server starting on stdio")
		return srv.ServeStdio()
	})
	return g.Wait()
}
