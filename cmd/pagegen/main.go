// Package main is the pagegen command line interface: generate articles
// and product videos from page content using the configured AI provider.
package main

import (
	"log/slog"
	"os"

	"github.com/pagegen/pagegen/internal/security"
)

const version = "v1.0.0"

func main() {
	setupLogger()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger sends structured logs to stderr so command output on
// stdout stays pipeable.
func setupLogger() {
	level := slog.LevelWarn
	switch os.Getenv("PAGEGEN_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	inner := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(security.NewRedactedHandler(inner)))
}
