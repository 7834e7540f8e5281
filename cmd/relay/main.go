// Package main is the entry point for the pagegen relay service.
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

	"github.com/gin-gonic/gin"

	"github.com/pagegen/pagegen/internal/adapter"
	"github.com/pagegen/pagegen/internal/relay"
	"github.com/pagegen/pagegen/internal/security"
	"github.com/pagegen/pagegen/internal/ui"
)

const version = "v1.0.0"

func main() {
	logger := setupLogger()

	logger.Info("starting pagegen relay")

	cfg, err := relay.LoadConfig(os.Getenv("PAGEGEN_RELAY_CONFIG"))
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cooldown := time.Duration(cfg.KeyPool.CooldownSeconds) * time.Second
	pools := relay.NewPoolSet(cfg.ProviderKeys, cooldown)
	active, _ := pools.Counts()

	logger.Info("key pools initialized",
		slog.Int("active_keys", active),
		slog.Int("providers", len(pools.Providers())),
		slog.Duration("cooldown", cooldown),
	)

	upstream := adapter.NewTransport(
		adapter.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
		adapter.WithLogger(logger),
	)
	handler := relay.NewHandler(pools, upstream,
		relay.WithMaxRetries(cfg.KeyPool.RetryCount),
		relay.WithHandlerLogger(logger),
	)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(relay.RecoveryMiddleware(logger))
	router.Use(relay.CORSMiddleware())
	router.Use(relay.LoggingMiddleware(logger))

	router.GET("/health", handler.HandleHealth)

	authed := router.Group("/v1/ai-proxy", relay.SessionAuthMiddleware(cfg.Auth.SessionTokens))
	authed.POST("/chat/completions", handler.HandleChat)
	authed.POST("/videos", handler.HandleVideoCreate)
	authed.GET("/videos/*id", handler.HandleVideoPoll)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("relay starting", slog.String("address", addr))

		providers := make([]string, 0)
		for _, id := range pools.Providers() {
			providers = append(providers, string(id))
		}
		ui.PrintBanner(version)
		ui.PrintRelayStartup(cfg.Server.Host, cfg.Server.Port, active, providers)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("relay stopped gracefully")
	ui.PrintGoodbye()
}

// setupLogger creates a structured JSON logger with key redaction.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("PAGEGEN_RELAY_LOGGING_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	inner := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(security.NewRedactedHandler(inner))
	slog.SetDefault(logger)
	return logger
}
