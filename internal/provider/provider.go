// Package provider contains the provider registry: the static table of
// supported AI vendors, their endpoints and per-provider quirks, plus
// credential resolution for the two operating modes.
package provider

import "fmt"

// ID identifies a supported AI provider.
type ID string

const (
	GPT        ID = "gpt"
	Gemini     ID = "gemini"
	Grok       ID = "grok"
	Doubao     ID = "doubao"
	Qwen       ID = "qwen"
	Perplexity ID = "perplexity"
)

// Mode selects how credentials are resolved.
type Mode string

const (
	// ModeInternal keeps real provider credentials off the operator's
	// machine: requests go through the relay when one is configured, or
	// fall back to the provider's public endpoint with an ops-injected key.
	ModeInternal Mode = "internal"

	// ModeCustom uses the base URL and API key the operator supplied.
	ModeCustom Mode = "custom"
)

// Adapter describes one provider: its endpoints and the structural quirks
// the request builder and transport have to respect. One coherent unit per
// provider instead of string-keyed conditionals scattered through the
// pipeline.
type Adapter struct {
	ID          ID
	DisplayName string

	// BaseURL is the provider's public OpenAI-compatible endpoint.
	BaseURL string

	// KeyEnvVar names the environment variable holding the ops-injected
	// key used by internal mode when no relay is configured.
	KeyEnvVar string

	// Aliases maps known display labels to official API model ids.
	Aliases map[string]string

	// KnownModels lists canonical ids accepted verbatim by the endpoint.
	KnownModels []string

	// Patterns are tried when neither an alias nor a known id matches.
	Patterns []ModelPattern

	// OpaqueModelIDs marks providers whose model field is a deployment or
	// endpoint identifier that must never be rewritten (e.g. Doubao ep-*).
	OpaqueModelIDs bool

	// SupportsSystemRole is false for endpoints that reject a system-role
	// message; the builder merges system content into the user message.
	SupportsSystemRole bool

	// SupportsWebSearch gates the optional web_search request flag.
	SupportsWebSearch bool

	// SupportsImageInput gates multi-part user messages with image refs.
	SupportsImageInput bool

	// FixedTemperatureModels lists model-id prefixes of reasoning-only
	// families that reject any temperature other than 1.
	FixedTemperatureModels []string

	// ExtraKeyHeader, when set, names a vendor-specific header that
	// carries the API key in addition to the bearer token.
	ExtraKeyHeader string

	// NativeVideoMarker switches video generation to the provider's native
	// endpoint when the normalized model id contains it. Empty disables
	// the native branch. Kept configurable: the trigger is a heuristic,
	// not a stable contract.
	NativeVideoMarker string

	// NativeVideoBase is the native API root for the video branch.
	NativeVideoBase string
}

// registry is the static provider table. Base URLs mirror each vendor's
// published OpenAI-compatible endpoint.
var registry = map[ID]*Adapter{
	GPT: {
		ID:          GPT,
		DisplayName: "OpenAI",
		BaseURL:     "https://api.openai.com/v1",
		KeyEnvVar:   "OPENAI_API_KEY",
		Aliases: map[string]string{
			"GPT-5.2 (Latest)": "gpt-5.2",
			"GPT-4 Turbo":      "gpt-4-turbo",
			"GPT-3.5 Turbo":    "gpt-3.5-turbo",
			"Sora":             "sora-2",
			"Sora-Pro":         "sora-2-pro",
		},
		KnownModels: []string{"gpt-5.2", "gpt-4", "gpt-4-turbo", "gpt-3.5-turbo", "sora-2", "sora-2-pro"},
		Patterns: []ModelPattern{
			{Match: `^gpt[ -]?5`, Canonical: "gpt-5.2"},
			{Match: `^gpt[ -]?4[ -]?turbo`, Canonical: "gpt-4-turbo"},
			{Match: `^gpt[ -]?3\.5`, Canonical: "gpt-3.5-turbo"},
		},
		SupportsSystemRole:     true,
		SupportsImageInput:     true,
		FixedTemperatureModels: []string{"o1", "o3", "o4"},
	},
	Gemini: {
		ID:          Gemini,
		DisplayName: "Google Gemini",
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai",
		KeyEnvVar:   "GEMINI_API_KEY",
		Aliases: map[string]string{
			"Gemini 2.5 Flash Lite": "gemini-2.5-flash-lite",
			"Veo-2":                 "gemini/veo-2.0-generate-001",
			"Veo-3":                 "gemini/veo-3.1-generate-preview",
		},
		KnownModels: []string{
			"gemini-2.5-flash-lite",
			"gemini/veo-3.1-generate-preview",
			"gemini/veo-3.1-fast-generate-preview",
			"gemini/veo-3.0-generate-001",
			"gemini/veo-3.0-fast-generate-001",
			"gemini/veo-2.0-generate-001",
		},
		Patterns: []ModelPattern{
			{Match: `^gemini[ -]?2\.5.*flash`, Canonical: "gemini-2.5-flash-lite"},
			{Match: `^veo[ -]?3`, Canonical: "gemini/veo-3.1-generate-preview"},
			{Match: `^veo[ -]?2`, Canonical: "gemini/veo-2.0-generate-001"},
		},
		SupportsSystemRole: true,
		SupportsImageInput: true,
		ExtraKeyHeader:     "x-goog-api-key",
		NativeVideoMarker:  "veo",
		NativeVideoBase:    "https://generativelanguage.googleapis.com/v1beta",
	},
	Grok: {
		ID:          Grok,
		DisplayName: "xAI Grok",
		BaseURL:     "https://api.x.ai/v1",
		KeyEnvVar:   "GROK_API_KEY",
		Aliases: map[string]string{
			"Grok 4.1 Reasoning": "xai/grok-4-1-fast-reasoning-latest",
		},
		KnownModels: []string{"xai/grok-4-1-fast-reasoning-latest"},
		Patterns: []ModelPattern{
			{Match: `^grok[ -]?4`, Canonical: "xai/grok-4-1-fast-reasoning-latest"},
		},
		SupportsSystemRole:     true,
		SupportsWebSearch:      true,
		FixedTemperatureModels: []string{"xai/grok-4-1-fast-reasoning"},
	},
	Doubao: {
		ID:          Doubao,
		DisplayName: "Doubao",
		BaseURL:     "https://ark.cn-beijing.volces.com/api/v3",
		KeyEnvVar:   "DOUBAO_API_KEY",
		Aliases: map[string]string{
			"Doubao Pro 4K":           "doubao-pro-4k",
			"Doubao Seedance 1.5 Pro": "doubao-seedance-1-5-pro-251215",
		},
		KnownModels:        []string{"doubao-pro-4k", "doubao-seedance-1-5-pro-251215"},
		OpaqueModelIDs:     true,
		SupportsSystemRole: false,
	},
	Qwen: {
		ID:          Qwen,
		DisplayName: "Qwen",
		BaseURL:     "https://dashscope.aliyuncs.com/compatible-mode/v1",
		KeyEnvVar:   "QWEN_API_KEY",
		Aliases: map[string]string{
			"Qwen Turbo":  "qwen-turbo",
			"Wan 2.6 T2V": "wan2.6-t2v",
		},
		KnownModels: []string{"qwen-turbo", "wan2.6-t2v", "wan2.5-t2v-preview", "wan2.2-t2v-plus"},
		Patterns: []ModelPattern{
			{Match: `^wan[ -]?2\.6`, Canonical: "wan2.6-t2v"},
			{Match: `^wan[ -]?2\.5`, Canonical: "wan2.5-t2v-preview"},
			{Match: `^wan[ -]?2\.2`, Canonical: "wan2.2-t2v-plus"},
		},
		SupportsSystemRole: true,
	},
	Perplexity: {
		ID:          Perplexity,
		DisplayName: "Perplexity",
		BaseURL:     "https://api.perplexity.ai",
		KeyEnvVar:   "PERPLEXITY_API_KEY",
		Aliases: map[string]string{
			"Sonar": "sonar",
		},
		KnownModels:        []string{"sonar"},
		SupportsSystemRole: true,
		SupportsWebSearch:  true,
	},
}

// Lookup returns the adapter for a provider id.
func Lookup(id ID) (*Adapter, bool) {
	a, ok := registry[id]
	return a, ok
}

// All returns every registered provider id in a stable order.
func All() []ID {
	return []ID{GPT, Gemini, Grok, Doubao, Qwen, Perplexity}
}

// ForModel finds the provider owning a normalized model id, preferring an
// exact known-model match before falling back to family prefixes. Used by
// the video workflow, where the model id (not the text provider) selects
// the vendor.
func ForModel(model string) (*Adapter, bool) {
	for _, id := range All() {
		a := registry[id]
		for _, known := range a.KnownModels {
			if known == model {
				return a, true
			}
		}
	}
	for prefix, id := range modelFamilies {
		if len(model) >= len(prefix) && model[:len(prefix)] == prefix {
			return registry[id], true
		}
	}
	return nil, false
}

// modelFamilies maps id prefixes to their vendor, covering model versions
// newer than the known-models table.
var modelFamilies = map[string]ID{
	"gpt-":   GPT,
	"sora-":  GPT,
	"o1":     GPT,
	"o3":     GPT,
	"gemini": Gemini,
	"veo":    Gemini,
	"xai/":   Grok,
	"grok":   Grok,
	"doubao": Doubao,
	"wan":    Qwen,
	"qwen":   Qwen,
	"sonar":  Perplexity,
}

func (a *Adapter) String() string {
	return fmt.Sprintf("%s (%s)", a.DisplayName, a.ID)
}
