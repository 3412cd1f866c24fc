package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/ai"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/api"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/content"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/eval"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/guard"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/platform/cache"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/platform/config"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/tutor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	svc, err := buildService(cfg)
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(svc).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// buildService wires the curriculum store, the generation gateway, the
// topic guard and the evaluators into the tutor service. Any failure here
// is a startup configuration problem.
func buildService(cfg *config.Config) (*tutor.Service, error) {
	store, err := content.NewStore(cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}

	bands, err := cfg.LevelBands()
	if err != nil {
		return nil, err
	}
	levels, err := eval.NewLevelCalculator(bands)
	if err != nil {
		return nil, err
	}

	gateway := ai.NewGateway(ai.GatewayConfig{
		Provider:    ai.NewGoogleProvider(cfg.AI.APIKey),
		Models:      cfg.AI.Models,
		Backoff:     cfg.AI.Backoff,
		CallTimeout: cfg.AI.CallTimeout,
	})

	explanationCache, err := buildCache(cfg)
	if err != nil {
		return nil, err
	}

	return tutor.New(tutor.Config{
		Store:    store,
		Generate: gateway,
		Router:   guard.NewRouter(store, gateway, nil),
		Cache:    explanationCache,
		CacheTTL: cfg.Cache.TTL,
		Levels:   levels,
	}), nil
}

// buildCache selects the explanation cache: Redis when a URL is configured,
// in-memory otherwise. A configured URL that cannot be reached is fatal
// rather than silently degraded.
func buildCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.Cache.URL == "" {
		slog.Info("using in-memory explanation cache")
		return cache.NewMemory(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedis(ctx, cfg.Cache.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting explanation cache: %w", err)
	}
	slog.Info("using redis explanation cache", "url", cfg.Cache.URL)
	return redisCache, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
