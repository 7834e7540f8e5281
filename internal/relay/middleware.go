package relay

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagegen/pagegen/internal/security"
	"github.com/pagegen/pagegen/internal/ui"
)

// CORSMiddleware returns a middleware that enables permissive CORS, so
// the panel can call the relay from any page origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SessionAuthMiddleware rejects requests whose bearer token is not one of
// the configured session tokens. Comparison is constant-time.
func SessionAuthMiddleware(tokens []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" || token == auth {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"message": "Missing session token",
					"type":    "authentication_error",
				},
			})
			return
		}

		for _, want := range tokens {
			if subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1 {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"message": "Invalid session token",
				"type":    "authentication_error",
			},
		})
	}
}

// LoggingMiddleware logs request details in JSON format, with the
// upstream key masked. Tracks which key served each request.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		keyUsed, _ := c.Get("key_used")
		keyName, _ := keyUsed.(string)
		attempts, _ := c.Get("attempts")
		attemptCount, _ := attempts.(int)

		logger.Info("request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", latency),
			slog.String("client_ip", c.ClientIP()),
			slog.String("key_used", security.MaskKey(keyName)),
			slog.Int("attempts", attemptCount),
		)
		ui.PrintRequest(c.Request.Method, path, c.Writer.Status(), latency, keyName)
	}
}

// RecoveryMiddleware recovers from panics and answers with the compatible
// error envelope.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"message": "Internal server error",
						"type":    "server_error",
						"code":    "internal_error",
					},
				})
			}
		}()
		c.Next()
	}
}
