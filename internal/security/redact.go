// Package security provides data leakage prevention for logs: provider
// keys and session tokens must never reach log output in the clear.
package security

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces sensitive data in log output.
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns covers the key formats of the supported providers
// plus generic token shapes.
var sensitivePatterns = []*regexp.Regexp{
	// OpenAI and compatible keys: sk-...
	regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),
	// Google AI keys: AIza...
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),
	// xAI keys: xai-...
	regexp.MustCompile(`xai-[a-zA-Z0-9_-]{20,}`),
	// Perplexity keys: pplx-...
	regexp.MustCompile(`pplx-[a-zA-Z0-9_-]{20,}`),
	// Bearer tokens embedded in strings
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_.-]{16,}`),
	// Keys in query params: key=...
	regexp.MustCompile(`key=[a-zA-Z0-9_-]{20,}`),
	// Generic long alphanumeric strings that look like keys
	regexp.MustCompile(`[a-zA-Z0-9_-]{40,}`),
}

// Redact scans a string for sensitive patterns and replaces them.
func Redact(s string) string {
	result := s
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// MaskKey returns a partially masked key for logs: first 8 and last 4
// characters, enough to tell keys apart without exposing them.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}

// RedactedHandler wraps an slog.Handler and redacts sensitive data from
// every record before it reaches the inner handler.
type RedactedHandler struct {
	inner slog.Handler
}

// NewRedactedHandler wraps an existing handler.
func NewRedactedHandler(inner slog.Handler) *RedactedHandler {
	return &RedactedHandler{inner: inner}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle processes a log record, redacting message and attributes.
func (h *RedactedHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.Record{
		Time:    r.Time,
		Message: Redact(r.Message),
		Level:   r.Level,
		PC:      r.PC,
	}

	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(redactAttr(a))
		return true
	})

	return h.inner.Handle(ctx, clean)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *RedactedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactedHandler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactedHandler) WithGroup(name string) slog.Handler {
	return &RedactedHandler{inner: h.inner.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if isSensitiveKey(strings.ToLower(a.Key)) {
		return slog.String(a.Key, RedactedPlaceholder)
	}

	switch v := a.Value.Any().(type) {
	case string:
		return slog.String(a.Key, Redact(v))
	case []string:
		redacted := make([]string, len(v))
		for i, s := range v {
			redacted[i] = Redact(s)
		}
		return slog.Any(a.Key, redacted)
	}
	return a
}

func isSensitiveKey(key string) bool {
	sensitiveKeys := []string{
		"authorization",
		"api_key",
		"apikey",
		"api-key",
		"secret",
		"password",
		"token",
		"bearer",
		"credential",
		"session",
	}
	for _, k := range sensitiveKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}
