// Package settings holds the operator's persisted configuration: provider
// and model selection, credentials, output preferences and brand metadata.
// Records are stored as JSON and always merged over defaults on read, so
// partial or legacy records degrade gracefully.
package settings

import (
	"time"

	"github.com/pagegen/pagegen/internal/provider"
)

// ReasoningEffort selects how much latitude the model gets.
type ReasoningEffort string

const (
	EffortLow    ReasoningEffort = "low"
	EffortMedium ReasoningEffort = "medium"
	EffortHigh   ReasoningEffort = "high"
)

// Settings is the operator's local profile. It is loaded once at startup,
// mutated through the settings surface and written back on every change.
// No server-side identity is tied to it.
type Settings struct {
	APIKey   string        `json:"api_key"`
	BaseURL  string        `json:"base_url"`
	Model    string        `json:"model"`
	APIMode  provider.Mode `json:"api_mode"`
	Provider provider.ID   `json:"provider"`

	CompanyName string `json:"company_name"`
	BrandName   string `json:"brand_name"`
	BrandURL    string `json:"brand_url"`

	SystemPrompt    string          `json:"system_prompt"`
	OutputLanguage  string          `json:"output_language"`
	OutputFormat    string          `json:"output_format"`
	EnableWebSearch bool            `json:"enable_web_search"`
	ReasoningEffort ReasoningEffort `json:"reasoning_effort"`

	// Video defaults, scoped to the video tab.
	VideoModel     string `json:"video_model"`
	VideoDuration  int    `json:"video_duration"`
	VideoWidth     int    `json:"video_width"`
	VideoHeight    int    `json:"video_height"`
	VideoStyle     string `json:"video_style"`
	VideoSound     bool   `json:"video_sound"`
	VideoReference string `json:"video_reference,omitempty"`

	WordpressAPIURL   string `json:"wordpress_api_url,omitempty"`
	WordpressAPIKey   string `json:"wordpress_api_key,omitempty"`
	WordpressUsername string `json:"wordpress_username,omitempty"`
	WordpressPassword string `json:"wordpress_password,omitempty"`

	DailyUsage DailyUsage `json:"daily_usage"`
}

// DailyUsage tracks per-day generation counts.
type DailyUsage struct {
	Date     string `json:"date"` // YYYY-MM-DD
	TextRuns int    `json:"text_runs"`
	Video    int    `json:"video"`
}

// Defaults returns a fresh Settings record with the shipped defaults.
func Defaults() Settings {
	return Settings{
		BaseURL:         "",
		Model:           "gpt-5.2",
		APIMode:         provider.ModeInternal,
		Provider:        provider.GPT,
		OutputLanguage:  "auto",
		OutputFormat:    "markdown",
		ReasoningEffort: EffortMedium,
		VideoModel:      "gemini/veo-3.1-generate-preview",
		VideoDuration:   5,
		VideoWidth:      1280,
		VideoHeight:     720,
		VideoStyle:      "product-demo",
		VideoSound:      true,
		DailyUsage: DailyUsage{
			Date: time.Now().Format("2006-01-02"),
		},
	}
}

// TouchUsage bumps today's counter for the given kind, resetting stale
// records from a previous day.
func (s *Settings) TouchUsage(kind string) {
	today := time.Now().Format("2006-01-02")
	if s.DailyUsage.Date != today {
		s.DailyUsage = DailyUsage{Date: today}
	}
	switch kind {
	case "video":
		s.DailyUsage.Video++
	default:
		s.DailyUsage.TextRuns++
	}
}

// FormatTemplate is the persisted output-format template record.
type FormatTemplate struct {
	Type    string `json:"type"` // json, xml, custom
	Content string `json:"content"`
}

// DefaultFormatTemplate returns the shipped JSON article template.
func DefaultFormatTemplate() FormatTemplate {
	return FormatTemplate{
		Type: "json",
		Content: `{
  "title": "Article title",
  "summary": "Article summary (100-200 words)",
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "main_points": ["point1", "point2", "point3"],
  "category": "Article category"
}`,
	}
}
