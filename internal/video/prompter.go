package video

import (
	"context"
	"fmt"

	"github.com/pagegen/pagegen/internal/adapter"
	"github.com/pagegen/pagegen/internal/prompt"
	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/settings"
)

// ChatAPI is the chat slice of the transport.
type ChatAPI interface {
	SendChat(ctx context.Context, req adapter.ChatRequest, rc provider.ResolvedConfig) (adapter.RawResponse, error)
}

// ChatPrompter derives a video prompt from page content by asking the
// configured chat model.
type ChatPrompter struct {
	api      ChatAPI
	settings settings.Settings
	env      provider.Env
}

// NewChatPrompter builds a prompter over the user's current settings.
func NewChatPrompter(api ChatAPI, st settings.Settings, env provider.Env) *ChatPrompter {
	return &ChatPrompter{api: api, settings: st, env: env}
}

// VideoPrompt implements Prompter.
func (p *ChatPrompter) VideoPrompt(ctx context.Context, pageContent string) (string, error) {
	cfg := ConfigFromSettings(p.settings)

	modelName := cfg.Model
	minDur, maxDur := 4, 8
	if opt, ok := LookupModel(cfg.Model); ok {
		modelName = opt.Label
		maxDur = opt.MaxDuration
	}

	system := prompt.BuildVideoSystemPrompt(prompt.VideoPromptConfig{
		ModelName:         modelName,
		MinDuration:       minDur,
		MaxDuration:       maxDur,
		AspectRatio:       adapter.NearestAspectRatio(cfg.Width, cfg.Height),
		BrandName:         p.settings.BrandName,
		BrandURL:          p.settings.BrandURL,
		TargetLanguage:    p.settings.OutputLanguage,
		Style:             p.settings.VideoStyle,
		EnableSound:       cfg.EnableSound,
		ReferenceImageURL: cfg.ReferenceImageURL,
	})

	req, rc, err := adapter.BuildWithEnv(pageContent, p.settings, adapter.AIConfig{
		SystemPrompt:    system,
		ReasoningEffort: p.settings.ReasoningEffort,
	}, p.env)
	if err != nil {
		return "", err
	}

	raw, err := p.api.SendChat(ctx, req, rc)
	if err != nil {
		return "", err
	}
	content, err := adapter.InterpretChat(raw, req.Model)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("model returned an empty video prompt")
	}
	return content, nil
}
