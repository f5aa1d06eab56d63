package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"chatbet/internal/cache"
	"chatbet/internal/config"
	"chatbet/internal/convo"
	"chatbet/internal/handlers"
	"chatbet/internal/metrics"
	"chatbet/internal/nlu"
	"chatbet/internal/session"
	"chatbet/internal/sportsdata"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed loading config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.New(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redis *cache.Redis
	if cfg.RedisAddr != "" {
		redis, err = cache.Connect(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis unavailable, running without cache", "error", err)
			redis = nil
		} else {
			defer redis.Close()
		}
	}

	gemini := nlu.NewGeminiClient(nlu.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	}, logger, m)
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, using deterministic extraction and responses only")
	}

	extractor := nlu.NewChainExtractor(
		nlu.NewGeminiExtractor(gemini, logger),
		nlu.NewKeywordExtractor(time.Now),
		logger,
	)

	sportsClient := sportsdata.New(sportsdata.Config{
		BaseURL:      cfg.SportsAPIBaseURL,
		Timeout:      cfg.SportsAPITimeout,
		ProbeTimeout: cfg.ProbeTimeout,
		CacheTTL:     cfg.CacheTTL,
	}, logger, m, redis)
	reconciler := sportsdata.NewReconciler(sportsClient, logger)

	sessions := session.NewStore(cfg.SessionTTL)
	sessions.StartJanitor(ctx)

	synth := convo.NewSynthesizer(gemini, logger)
	engine := convo.NewEngine(extractor, reconciler, sportsClient, sportsClient, sessions, synth, m, logger)

	api := handlers.NewAPI(engine, cfg.DefaultSessionID, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	api.Mount(router)

	server := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPListenAddr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
