package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pagegen/pagegen/internal/provider"
)

const (
	// DefaultTimeout is the HTTP client timeout for a single attempt.
	DefaultTimeout = 60 * time.Second

	relayChatPath  = "/v1/ai-proxy/chat/completions"
	relayVideoPath = "/v1/ai-proxy/videos"
)

// RawResponse is the byte-level outcome of one HTTP attempt: status,
// headers and body verbatim, whether the call went out directly or via a
// privileged forwarder.
type RawResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// ForwardRequest is the transport-agnostic description of one HTTP call,
// handed to a Forwarder when the process cannot perform cross-origin
// fetches itself.
type ForwardRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body,omitempty"`
}

// Forwarder executes a request in a privileged context and returns the
// response verbatim. Transport's contract to its callers is identical with
// or without one; the indirection is invisible above this layer.
type Forwarder interface {
	Forward(ctx context.Context, req ForwardRequest) (RawResponse, error)
}

// Transport performs the HTTP calls. No automatic retries: a single
// request is a single attempt, and every failure surfaces as a classified
// error.
type Transport struct {
	httpClient *http.Client
	forwarder  Forwarder
	logger     *slog.Logger
}

// TransportOption is a functional option for configuring Transport.
type TransportOption func(*Transport)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *Transport) { t.httpClient = c }
}

// WithForwarder routes all calls through a privileged forwarder.
func WithForwarder(f Forwarder) TransportOption {
	return func(t *Transport) { t.forwarder = f }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) TransportOption {
	return func(t *Transport) { t.logger = l }
}

// NewTransport creates a Transport.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SendChat posts a chat-completion request and returns the raw response.
func (t *Transport) SendChat(ctx context.Context, req ChatRequest, rc provider.ResolvedConfig) (RawResponse, error) {
	endpoint := rc.BaseURL + "/chat/completions"
	if rc.Route == provider.RouteRelay {
		endpoint = rc.BaseURL + relayChatPath
	}

	body, err := json.Marshal(req)
	if err != nil {
		return RawResponse{}, &Error{Kind: KindBadRequest, Message: "encode request: " + err.Error(), Err: err}
	}

	t.logger.Debug("sending chat request",
		slog.String("endpoint", endpoint),
		slog.String("model", req.Model),
		slog.String("route", string(rc.Route)),
	)

	return t.do(ctx, ForwardRequest{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: t.authHeaders(rc),
		Body:    body,
	})
}

// CreateVideo submits a video generation request. Three paths:
//   - relay route: unified payload to the relay's video endpoint
//   - native branch: the vendor's generateVideo operation, with the
//     unified config translated to vendor parameter names
//   - default: OpenAI-style /videos payload against the compatible base
func (t *Transport) CreateVideo(ctx context.Context, req VideoRequest, rc provider.ResolvedConfig) (RawResponse, error) {
	if rc.Route == provider.RouteDirect && rc.Provider.IsNativeVideoModel(req.Model) {
		return t.createVideoNative(ctx, req, rc)
	}

	endpoint := rc.BaseURL + "/videos"
	model := req.Model
	if rc.Route == provider.RouteRelay {
		endpoint = rc.BaseURL + relayVideoPath
	} else {
		model = provider.StripNamespace(model)
	}

	payload := map[string]any{
		"model":    model,
		"prompt":   req.Prompt,
		"duration": req.DurationSeconds,
		"width":    req.Width,
		"height":   req.Height,
	}
	if rc.Route == provider.RouteRelay {
		payload["provider"] = string(rc.Provider.ID)
	}
	if req.ReferenceImageURL != "" {
		payload["image_url"] = req.ReferenceImageURL
	}
	body, _ := json.Marshal(payload)

	t.logger.Debug("creating video task",
		slog.String("endpoint", endpoint),
		slog.String("model", req.Model),
	)

	return t.do(ctx, ForwardRequest{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: t.authHeaders(rc),
		Body:    body,
	})
}

// nativeVideoPayload is the vendor-native generateVideo body.
type nativeVideoPayload struct {
	Prompt      string            `json:"prompt"`
	VideoConfig nativeVideoConfig `json:"videoConfig"`
}

type nativeVideoConfig struct {
	AspectRatio     string `json:"aspectRatio"`
	DurationSeconds int    `json:"durationSeconds"`
	ReferenceImage  string `json:"referenceImage,omitempty"`
}

func (t *Transport) createVideoNative(ctx context.Context, req VideoRequest, rc provider.ResolvedConfig) (RawResponse, error) {
	model := provider.StripNamespace(req.Model)
	endpoint := fmt.Sprintf("%s/models/%s:generateVideo?key=%s",
		rc.Provider.NativeVideoBase, model, url.QueryEscape(rc.APIKey))

	payload := nativeVideoPayload{
		Prompt: req.Prompt,
		VideoConfig: nativeVideoConfig{
			AspectRatio:     NearestAspectRatio(req.Width, req.Height),
			DurationSeconds: req.DurationSeconds,
			ReferenceImage:  req.ReferenceImageURL,
		},
	}
	body, _ := json.Marshal(payload)

	t.logger.Debug("creating native video task",
		slog.String("model", model),
		slog.String("aspect_ratio", payload.VideoConfig.AspectRatio),
	)

	return t.do(ctx, ForwardRequest{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
}

// PollVideo fetches the status of an asynchronous video task.
func (t *Transport) PollVideo(ctx context.Context, handle TaskHandle, rc provider.ResolvedConfig) (RawResponse, error) {
	var endpoint string
	headers := t.authHeaders(rc)
	switch {
	case rc.Route == provider.RouteRelay:
		endpoint = rc.BaseURL + relayVideoPath + "/" + url.PathEscape(handle.ID)
	case handle.Native:
		// Operation names are path-shaped ("operations/abc123").
		endpoint = fmt.Sprintf("%s/%s?key=%s",
			rc.Provider.NativeVideoBase, strings.TrimPrefix(handle.ID, "/"), url.QueryEscape(rc.APIKey))
		headers = map[string]string{"Content-Type": "application/json"}
	default:
		endpoint = rc.BaseURL + "/videos/" + url.PathEscape(handle.ID)
	}

	return t.do(ctx, ForwardRequest{
		Method:  http.MethodGet,
		URL:     endpoint,
		Headers: headers,
	})
}

// authHeaders builds the standard header set: bearer auth plus the
// vendor-specific key header where one is declared.
func (t *Transport) authHeaders(rc provider.ResolvedConfig) map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + rc.APIKey,
	}
	if rc.Route == provider.RouteDirect && rc.Provider.ExtraKeyHeader != "" {
		headers[rc.Provider.ExtraKeyHeader] = rc.APIKey
	}
	return headers
}

// do executes one attempt, through the forwarder when one is installed.
func (t *Transport) do(ctx context.Context, req ForwardRequest) (RawResponse, error) {
	if t.forwarder != nil {
		resp, err := t.forwarder.Forward(ctx, req)
		if err != nil {
			return RawResponse{}, classifyTransport(err)
		}
		return resp, nil
	}

	var reader io.Reader
	if len(req.Body) > 0 {
		reader = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reader)
	if err != nil {
		return RawResponse{}, &Error{Kind: KindBadRequest, Message: "build request: " + err.Error(), Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return RawResponse{}, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RawResponse{}, classifyTransport(err)
	}

	return RawResponse{Status: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}

// NearestAspectRatio maps pixel dimensions to the closest standard
// aspect-ratio label vendors accept.
func NearestAspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "16:9"
	}
	ratios := []struct {
		label string
		value float64
	}{
		{"16:9", 16.0 / 9.0},
		{"9:16", 9.0 / 16.0},
		{"1:1", 1.0},
		{"4:3", 4.0 / 3.0},
		{"3:4", 3.0 / 4.0},
	}
	actual := float64(width) / float64(height)
	best := ratios[0]
	bestDiff := diff(actual, best.value)
	for _, r := range ratios[1:] {
		if d := diff(actual, r.value); d < bestDiff {
			best, bestDiff = r, d
		}
	}
	return best.label
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
