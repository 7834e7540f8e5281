package adapter

import (
	"strings"

	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/settings"
)

// AIConfig is the per-step, ephemeral request configuration: the system
// prompt built for this generation step plus the knobs derived from
// Settings. Constructed fresh per call, never persisted.
type AIConfig struct {
	SystemPrompt    string
	ReasoningEffort settings.ReasoningEffort
	EnableWebSearch bool

	// ReferenceImageURL turns the user message multimodal on providers
	// that accept image references.
	ReferenceImageURL string
}

// effortTemperature maps reasoning effort to a sampling temperature.
var effortTemperature = map[settings.ReasoningEffort]float64{
	settings.EffortLow:    0.3,
	settings.EffortMedium: 0.7,
	settings.EffortHigh:   1.0,
}

const defaultTemperature = 0.7

// Build assembles a chat request for the configured provider, resolving
// credentials first so misconfiguration is reported before any network
// I/O. The returned ResolvedConfig carries the route and credential the
// transport must use for this one request.
func Build(userContent string, st settings.Settings, ai AIConfig) (ChatRequest, provider.ResolvedConfig, error) {
	return BuildWithEnv(userContent, st, ai, provider.OSEnv())
}

// BuildWithEnv is Build with an injected environment, for tests.
func BuildWithEnv(userContent string, st settings.Settings, ai AIConfig, env provider.Env) (ChatRequest, provider.ResolvedConfig, error) {
	rc, err := provider.ResolveConfig(st.Provider, st.APIMode, env, st.BaseURL, st.APIKey)
	if err != nil {
		return ChatRequest{}, provider.ResolvedConfig{}, &Error{
			Kind:    KindConfiguration,
			Message: err.Error(),
			Err:     err,
		}
	}

	model := provider.Normalize(st.Model, st.Provider)
	adapter := rc.Provider

	// Gateway-namespace prefixes ("vendor/model") are routing metadata;
	// the vendor's own endpoint expects the bare id.
	if rc.Route == provider.RouteDirect {
		model = provider.StripNamespace(model)
	}

	req := ChatRequest{
		Model:       model,
		Stream:      false,
		Temperature: temperatureFor(ai.ReasoningEffort, adapter, model),
	}

	systemPrompt := strings.TrimSpace(ai.SystemPrompt)
	if systemPrompt != "" && !adapter.SupportsSystemRole {
		// Endpoint rejects a system role: prepend the system text to the
		// user content instead.
		userContent = systemPrompt + "\n\n" + userContent
		systemPrompt = ""
	}

	if systemPrompt != "" {
		req.Messages = append(req.Messages, Message{Role: "system", Content: systemPrompt})
	}
	req.Messages = append(req.Messages, userMessage(userContent, ai, adapter))

	if ai.EnableWebSearch && adapter.SupportsWebSearch {
		enabled := true
		req.WebSearch = &enabled
	}

	if rc.Route == provider.RouteRelay {
		req.ProviderHint = string(adapter.ID)
	}

	return req, rc, nil
}

// temperatureFor maps effort to temperature, except for reasoning-only
// families which reject any value other than 1.
func temperatureFor(effort settings.ReasoningEffort, adapter *provider.Adapter, model string) float64 {
	if adapter.HasFixedTemperature(model) {
		return 1
	}
	if t, ok := effortTemperature[effort]; ok {
		return t
	}
	return defaultTemperature
}

// userMessage builds the user message, multimodal when a reference image
// is configured and the provider accepts image input.
func userMessage(content string, ai AIConfig, adapter *provider.Adapter) Message {
	if ai.ReferenceImageURL != "" && adapter.SupportsImageInput {
		return Message{
			Role: "user",
			Content: []ContentPart{
				{Type: "text", Text: content},
				{Type: "image_url", ImageURL: &ImageRef{URL: ai.ReferenceImageURL}},
			},
		}
	}
	return Message{Role: "user", Content: content}
}
