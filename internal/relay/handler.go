package relay

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pagegen/pagegen/internal/adapter"
	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/security"
)

// DefaultMaxRetries is how many pooled keys one request may burn through.
const DefaultMaxRetries = 3

// Upstream performs the outbound calls. *adapter.Transport satisfies it;
// tests substitute a fake.
type Upstream interface {
	SendChat(ctx context.Context, req adapter.ChatRequest, rc provider.ResolvedConfig) (adapter.RawResponse, error)
	CreateVideo(ctx context.Context, req adapter.VideoRequest, rc provider.ResolvedConfig) (adapter.RawResponse, error)
	PollVideo(ctx context.Context, handle adapter.TaskHandle, rc provider.ResolvedConfig) (adapter.RawResponse, error)
}

// Handler serves the panel-facing endpoints: it authenticates the
// session, swaps the session token for a pooled upstream key and relays
// the request, rotating keys on retryable upstream failures.
type Handler struct {
	pools      *PoolSet
	upstream   Upstream
	logger     *slog.Logger
	maxRetries int
}

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithMaxRetries sets the per-request key rotation bound.
func WithMaxRetries(max int) HandlerOption {
	return func(h *Handler) {
		if max > 0 {
			h.maxRetries = max
		}
	}
}

// WithHandlerLogger sets a custom logger.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler creates a Handler.
func NewHandler(pools *PoolSet, upstream Upstream, opts ...HandlerOption) *Handler {
	h := &Handler{
		pools:      pools,
		upstream:   upstream,
		logger:     slog.Default(),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleChat handles POST /v1/ai-proxy/chat/completions.
func (h *Handler) HandleChat(c *gin.Context) {
	var req adapter.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "messages array is required")
		return
	}

	prov, ok := h.resolveProvider(req.ProviderHint, req.Model)
	if !ok {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "cannot determine provider for model "+req.Model)
		return
	}

	// The hint is relay-internal; never forward it upstream.
	req.ProviderHint = ""
	req.Model = provider.StripNamespace(req.Model)
	if req.WebSearch != nil && !prov.SupportsWebSearch {
		req.WebSearch = nil
	}

	h.relay(c, prov, func(ctx context.Context, rc provider.ResolvedConfig) (adapter.RawResponse, error) {
		return h.upstream.SendChat(ctx, req, rc)
	})
}

// videoCreateRequest is the panel's unified video submission payload.
type videoCreateRequest struct {
	Model    string `json:"model" binding:"required"`
	Prompt   string `json:"prompt" binding:"required"`
	Duration int    `json:"duration"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Provider string `json:"provider"`
	ImageURL string `json:"image_url"`
}

// HandleVideoCreate handles POST /v1/ai-proxy/videos.
func (h *Handler) HandleVideoCreate(c *gin.Context) {
	var req videoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}

	prov, ok := h.resolveProvider(req.Provider, req.Model)
	if !ok {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "cannot determine provider for model "+req.Model)
		return
	}

	vreq := adapter.VideoRequest{
		Model:             req.Model,
		Prompt:            req.Prompt,
		DurationSeconds:   req.Duration,
		Width:             req.Width,
		Height:            req.Height,
		ReferenceImageURL: req.ImageURL,
	}

	h.relay(c, prov, func(ctx context.Context, rc provider.ResolvedConfig) (adapter.RawResponse, error) {
		return h.upstream.CreateVideo(ctx, vreq, rc)
	})
}

// HandleVideoPoll handles GET /v1/ai-proxy/videos/*id. Operation-shaped
// ids (containing "operations/") are polled against the vendor-native
// endpoint.
func (h *Handler) HandleVideoPoll(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	if id == "" {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "task id is required")
		return
	}

	prov, ok := h.resolveProvider(c.Query("provider"), c.Query("model"))
	if !ok {
		// Operation-shaped ids came from the native branch.
		prov, _ = provider.Lookup(provider.Gemini)
	}

	handle := adapter.TaskHandle{ID: id, Native: strings.Contains(id, "operations/")}
	h.relay(c, prov, func(ctx context.Context, rc provider.ResolvedConfig) (adapter.RawResponse, error) {
		return h.upstream.PollVideo(ctx, handle, rc)
	})
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(c *gin.Context) {
	active, benched := h.pools.Counts()
	status := "healthy"
	if active == 0 {
		status = "degraded"
	}
	providers := make([]string, 0)
	for _, id := range h.pools.Providers() {
		providers = append(providers, string(id))
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"active_keys":  active,
		"benched_keys": benched,
		"providers":    providers,
	})
}

// relay executes one upstream call with key rotation. Retryable upstream
// statuses bench the key and move to the next one; everything else is
// returned to the panel verbatim.
func (h *Handler) relay(c *gin.Context, prov *provider.Adapter, call func(context.Context, provider.ResolvedConfig) (adapter.RawResponse, error)) {
	pool, ok := h.pools.Pool(prov.ID)
	if !ok {
		h.sendError(c, http.StatusBadGateway, "server_error", "no upstream keys configured for provider "+string(prov.ID))
		return
	}

	var lastRaw adapter.RawResponse
	var haveRaw bool
	for attempt := 1; attempt <= h.maxRetries; attempt++ {
		key, err := pool.Next()
		if err != nil {
			h.logger.Warn("no keys available",
				slog.String("provider", string(prov.ID)),
				slog.Int("attempt", attempt),
			)
			break
		}
		c.Set("key_used", key)
		c.Set("attempts", attempt)

		rc := provider.ResolvedConfig{
			Provider: prov,
			Route:    provider.RouteDirect,
			BaseURL:  prov.BaseURL,
			APIKey:   key,
		}

		raw, err := call(c.Request.Context(), rc)
		if err != nil {
			h.logger.Warn("upstream call failed",
				slog.String("provider", string(prov.ID)),
				slog.Int("attempt", attempt),
				slog.String("key", security.MaskKey(key)),
				slog.String("error", err.Error()),
			)
			if adapter.KindOf(err) == adapter.KindNetwork {
				pool.Bench(key)
				continue
			}
			h.sendError(c, http.StatusBadGateway, "server_error", "upstream request failed")
			return
		}

		lastRaw, haveRaw = raw, true
		if raw.Status == http.StatusUnauthorized || raw.Status == http.StatusForbidden ||
			raw.Status == http.StatusTooManyRequests || raw.Status >= 500 {
			h.logger.Warn("upstream rejected key, rotating",
				slog.String("provider", string(prov.ID)),
				slog.Int("status", raw.Status),
				slog.String("key", security.MaskKey(key)),
			)
			pool.Bench(key)
			continue
		}

		h.writeRaw(c, raw)
		return
	}

	if haveRaw {
		// Every key failed the same way: surface the last upstream
		// answer rather than inventing one.
		h.writeRaw(c, lastRaw)
		return
	}
	h.sendError(c, http.StatusServiceUnavailable, "server_error", "Service temporarily unavailable. Please try again later.")
}

// resolveProvider picks the upstream from the explicit hint first, then
// from the model id.
func (h *Handler) resolveProvider(hint, model string) (*provider.Adapter, bool) {
	if hint != "" {
		if p, ok := provider.Lookup(provider.ID(strings.ToLower(hint))); ok {
			return p, true
		}
	}
	if model != "" {
		if p, ok := provider.ForModel(model); ok {
			return p, true
		}
	}
	return nil, false
}

// writeRaw copies an upstream response to the panel verbatim.
func (h *Handler) writeRaw(c *gin.Context, raw adapter.RawResponse) {
	contentType := raw.Headers.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(raw.Status, contentType, raw.Body)
}

// sendError sends an error response in the compatible envelope shape, so
// panels never see upstream-internal formats for relay-origin failures.
func (h *Handler) sendError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"message": message,
			"type":    errType,
			"param":   nil,
			"code":    nil,
		},
	})
}
