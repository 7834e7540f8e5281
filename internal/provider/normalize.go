package provider

import (
	"log/slog"
	"regexp"
	"strings"
)

// ModelPattern maps a label pattern to a canonical model id. Patterns are
// matched against the lowercased label after alias lookup fails.
type ModelPattern struct {
	Match     string
	Canonical string

	re *regexp.Regexp
}

func (p *ModelPattern) compiled() *regexp.Regexp {
	if p.re == nil {
		p.re = regexp.MustCompile(p.Match)
	}
	return p.re
}

// Normalize maps a user-facing model label to the provider's official API
// model id. It is pure and total: unknown input degrades to the
// lowercase/hyphenated form rather than failing. Calling it on an
// already-canonical id returns that id unchanged.
//
// Rule order per provider:
//  1. opaque-id passthrough (deployment/endpoint identifiers)
//  2. exact alias table
//  3. lowercase, whitespace to hyphens, then exact known-id match
//  4. provider pattern fallback
//  5. best-effort normalized form
func Normalize(label string, id ID) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}

	adapter, ok := Lookup(id)
	if !ok {
		return fold(label)
	}

	if adapter.OpaqueModelIDs {
		if fold(label) != label {
			slog.Warn("model id left as-is for opaque-id provider",
				slog.String("provider", string(id)),
				slog.String("model", label),
			)
		}
		return label
	}

	if canonical, ok := adapter.Aliases[label]; ok {
		return canonical
	}

	folded := fold(label)
	for _, known := range adapter.KnownModels {
		if known == folded {
			return known
		}
	}

	for i := range adapter.Patterns {
		p := &adapter.Patterns[i]
		if p.compiled().MatchString(folded) {
			return p.Canonical
		}
	}

	return folded
}

var whitespace = regexp.MustCompile(`\s+`)

// fold lowercases a label and collapses whitespace runs to single hyphens.
func fold(label string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "-")
}

// StripNamespace removes a gateway-style "vendor/" prefix from a model id.
// Ids like "gemini/veo-3.1-generate-preview" carry the namespace for
// gateway routing; the vendor's own endpoint expects the bare id.
func StripNamespace(model string) string {
	if i := strings.IndexByte(model, '/'); i >= 0 {
		return model[i+1:]
	}
	return model
}

// HasFixedTemperature reports whether a normalized model id belongs to a
// reasoning-only family that rejects any temperature other than 1.
func (a *Adapter) HasFixedTemperature(model string) bool {
	for _, prefix := range a.FixedTemperatureModels {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// IsNativeVideoModel reports whether the model id triggers the provider's
// native video endpoint rather than the OpenAI-compatible path.
func (a *Adapter) IsNativeVideoModel(model string) bool {
	return a.NativeVideoMarker != "" && strings.Contains(strings.ToLower(model), a.NativeVideoMarker)
}
