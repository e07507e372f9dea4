// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the docstudio API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"docstudio/internal/cache"
	"docstudio/internal/config"
	"docstudio/internal/database"
	"docstudio/internal/engine"
	"docstudio/internal/fields"
	"docstudio/internal/handlers"
	"docstudio/internal/middleware"
	"docstudio/internal/router"
	"docstudio/internal/storage"
	"docstudio/internal/store"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"render_quota", cfg.RenderQuota,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	templateStore := store.NewTemplateStore(db)
	documentStore := store.NewDocumentStore(db)

	checks := map[string]handlers.Check{
		"postgres": db.PingContext,
	}

	// Valkey is optional. Without it PDFs are not cached and the render
	// quota is counted per instance.
	var (
		pdfCache handlers.PDFCache
		counter  middleware.Counter
	)
	if cfg.HasValkey() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()

		pdfCache = cache.NewDocumentCache(valkeyClient, cfg.PDFCacheTTL)
		counter = cache.NewQuota(valkeyClient, time.Minute)
		checks["valkey"] = func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() }
	} else {
		slog.Warn("valkey not configured, pdf cache disabled and render quota is per instance")
		memCounter := middleware.NewMemoryCounter(time.Minute)
		defer memCounter.Stop()
		counter = memCounter
	}

	// S3-compatible archive for generated contracts (optional).
	var archive handlers.Archive
	archiveClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize s3 archive", "error", err)
		os.Exit(1)
	}
	if archiveClient != nil {
		archive = archiveClient
		slog.Info("s3 archive configured", "endpoint", cfg.S3Endpoint, "bucket", archiveClient.Bucket())
	} else {
		slog.Warn("s3 archive not configured, contracts are not archived")
	}

	catalog := fields.Default()
	if cfg.FieldCatalogPath != "" {
		catalog, err = fields.LoadFile(cfg.FieldCatalogPath)
		if err != nil {
			slog.Error("failed to load field catalog", "path", cfg.FieldCatalogPath, "error", err)
			os.Exit(1)
		}
		slog.Info("field catalog loaded", "path", cfg.FieldCatalogPath, "categories", len(catalog.Categories()))
	}

	eng := engine.New(templateStore, catalog)

	templates := handlers.NewTemplates(templateStore, eng, documentStore)
	contracts := handlers.NewContracts(documentStore, pdfCache, archive, cfg.ContractCity)
	quota := middleware.NewRenderQuota(counter, cfg.RenderQuota, time.Minute)

	r := router.New(templates, contracts, handlers.NewHealth(checks), quota)

	// Batch imports render up to a few hundred PDFs in one request.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
