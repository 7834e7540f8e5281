package prompt

import (
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	t.Run("no leftover placeholders", func(t *testing.T) {
		for _, lang := range Languages {
			for _, format := range Formats {
				got := BuildSystemPrompt(lang.Code, format, "medium", true)
				if strings.Contains(got, "{{") {
					t.Errorf("lang=%s format=%s: unfilled placeholder in %q", lang.Code, format, snippet(got))
				}
			}
		}
	})

	t.Run("language instruction included", func(t *testing.T) {
		got := BuildSystemPrompt("ja", "markdown", "medium", false)
		if !strings.Contains(got, "Japanese") {
			t.Error("Japanese instruction missing")
		}
	})

	t.Run("unknown language falls back to auto", func(t *testing.T) {
		got := BuildSystemPrompt("klingon", "markdown", "medium", false)
		want := BuildSystemPrompt("auto", "markdown", "medium", false)
		if got != want {
			t.Error("unknown language should behave like auto")
		}
	})

	t.Run("unknown format falls back to markdown", func(t *testing.T) {
		got := BuildSystemPrompt("en", "yaml", "medium", false)
		want := BuildSystemPrompt("en", "markdown", "medium", false)
		if got != want {
			t.Error("unknown format should behave like markdown")
		}
	})

	t.Run("web search block gated", func(t *testing.T) {
		with := BuildSystemPrompt("en", "markdown", "medium", true)
		without := BuildSystemPrompt("en", "markdown", "medium", false)
		if !strings.Contains(with, "search the web") {
			t.Error("web search instruction missing when enabled")
		}
		if strings.Contains(without, "search the web") {
			t.Error("web search instruction present when disabled")
		}
	})

	t.Run("reasoning effort varies the prompt", func(t *testing.T) {
		low := BuildSystemPrompt("en", "markdown", "low", false)
		medium := BuildSystemPrompt("en", "markdown", "medium", false)
		high := BuildSystemPrompt("en", "markdown", "high", false)
		if low == medium || high == medium {
			t.Error("effort levels should produce different prompts")
		}
		if !strings.Contains(high, "thorough") {
			t.Error("high effort instruction missing")
		}
	})

	t.Run("no triple blank lines", func(t *testing.T) {
		got := BuildSystemPrompt("en", "markdown", "medium", false)
		if strings.Contains(got, "\n\n\n") {
			t.Error("blank-line runs should be collapsed")
		}
		if got != strings.TrimSpace(got) {
			t.Error("prompt should be trimmed")
		}
	})
}

func TestBuildVideoSystemPrompt(t *testing.T) {
	base := VideoPromptConfig{
		ModelName:      "Veo 3.1 (Preview)",
		MinDuration:    4,
		MaxDuration:    8,
		AspectRatio:    "16:9",
		BrandName:      "Acme Store",
		BrandURL:       "https://acme.example.com",
		TargetLanguage: "en",
		Style:          "product-demo",
		EnableSound:    true,
	}

	t.Run("fills model brand and duration", func(t *testing.T) {
		got := BuildVideoSystemPrompt(base)
		for _, want := range []string{"Veo 3.1 (Preview)", "Acme Store", "https://acme.example.com", "16:9"} {
			if !strings.Contains(got, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
		if strings.Contains(got, "{{") {
			t.Errorf("unfilled placeholder in %q", snippet(got))
		}
	})

	t.Run("sound disabled swaps the audio section", func(t *testing.T) {
		cfg := base
		cfg.EnableSound = false
		got := BuildVideoSystemPrompt(cfg)
		if !strings.Contains(got, "does not generate audio") {
			t.Error("disabled-audio instruction missing")
		}
		if strings.Contains(got, "ambient sound") {
			t.Error("enabled-audio instruction should be absent")
		}
	})

	t.Run("reference image section only when set", func(t *testing.T) {
		withRef := base
		withRef.ReferenceImageURL = "https://cdn.example.com/ref.png"
		got := BuildVideoSystemPrompt(withRef)
		if !strings.Contains(got, "https://cdn.example.com/ref.png") {
			t.Error("reference image URL missing")
		}
		if strings.Contains(BuildVideoSystemPrompt(base), "Image Reference") {
			t.Error("reference section should be absent without an image")
		}
	})

	t.Run("unknown style falls back to product demo", func(t *testing.T) {
		cfg := base
		cfg.Style = "vaporwave"
		got := BuildVideoSystemPrompt(cfg)
		if !strings.Contains(got, "conversion-oriented") {
			t.Error("fallback style instruction missing")
		}
	})

	t.Run("target language drives name and text hint", func(t *testing.T) {
		cfg := base
		cfg.TargetLanguage = "zh-CN"
		got := BuildVideoSystemPrompt(cfg)
		if !strings.Contains(got, "Simplified Chinese") {
			t.Error("language name missing")
		}
		if !strings.Contains(got, "Chinese characters") {
			t.Error("text length hint missing")
		}
	})
}

func snippet(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
