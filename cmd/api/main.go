package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bucket-browser/internal/api/handlers"
	"bucket-browser/internal/api/middleware"
	"bucket-browser/internal/browser"
	"bucket-browser/internal/config"
	"bucket-browser/internal/storage"

	// Use an alias to prevent naming collisions with the 'server' variable
	apiserver "bucket-browser/internal/api/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Bucket Browser API Server...")

	// 1. Setup Configuration
	cfg := config.Load()
	setupLogger(cfg.Server.LogLevel)

	// 2. Storage
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("❌ Storage setup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureBucket(ctx); err != nil {
		// Not fatal: /api/bucket/check retries on demand.
		log.Printf("⚠️ Bucket %s not ready: %v", store.Bucket(), err)
	}
	cancel()

	maxUpload, _ := cfg.MaxUploadBytes() // validated by config.Load
	svc := browser.NewService(store, browser.Options{
		HideSentinels: cfg.Browser.HideSentinels,
		MaxUploadSize: maxUpload,
		PresignTTL:    cfg.PresignTTL(),
	})

	// 3. Setup Metrics
	middleware.RegisterMetrics()
	handlers.RegisterMetrics()
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 4. Start Server
	srv := apiserver.New(cfg, svc)

	log.Printf("🚀 API Server starting on %s (provider=%s, bucket=%s)", cfg.Server.Addr, cfg.Storage.Provider, store.Bucket())

	if err := srv.Start(cfg.Server.Addr); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
