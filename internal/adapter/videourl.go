package adapter

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy names the extraction pass that found a video URL. Useful in
// logs when a provider changes its output shape.
type Strategy string

const (
	StrategyJSONField    Strategy = "json_field"
	StrategyFencedJSON   Strategy = "fenced_json"
	StrategyMarkdownLink Strategy = "markdown_link"
	StrategyRawScan      Strategy = "raw_scan"
)

var (
	fencedJSONRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)\)`)
	rawURLRe       = regexp.MustCompile(`https?://[^\s"'<>\)\]]+`)
)

// videoExtensions and hostMarkers are the strong signals that a URL points
// at an actual video rather than documentation or a provider console.
var videoExtensions = []string{".mp4", ".webm", ".mov"}

var hostMarkers = []string{
	"generativelanguage.googleapis.com",
	"storage.googleapis.com",
	"dashscope",
	"aliyuncs.com",
	"volces.com",
	"oaiusercontent.com",
	"videos.openai.com",
	"replicate.delivery",
}

// ExtractVideoURL scans free-form model output for a video URL, trying
// structured shapes before falling back to a raw scan. The first strong
// match wins; no match is not an error, the caller treats the text as a
// prose answer.
func ExtractVideoURL(text string) (string, bool) {
	u, _, ok := ExtractVideoURLStrategy(text)
	return u, ok
}

// ExtractVideoURLStrategy is ExtractVideoURL reporting which pass matched.
func ExtractVideoURLStrategy(text string) (string, Strategy, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", "", false
	}

	// Whole message is a JSON object with a URL field.
	if strings.HasPrefix(trimmed, "{") {
		if u := urlFromJSON(trimmed); u != "" {
			return u, StrategyJSONField, true
		}
	}

	// JSON object inside a fenced code block.
	for _, m := range fencedJSONRe.FindAllStringSubmatch(trimmed, -1) {
		if u := urlFromJSON(m[1]); u != "" {
			return u, StrategyFencedJSON, true
		}
	}

	// Markdown link whose target looks like a video.
	for _, m := range markdownLinkRe.FindAllStringSubmatch(trimmed, -1) {
		if isVideoURL(m[1]) {
			return m[1], StrategyMarkdownLink, true
		}
	}

	// Last resort: any bare URL with a strong video signal.
	for _, u := range rawURLRe.FindAllString(trimmed, -1) {
		u = strings.TrimRight(u, ".,;:")
		if isVideoURL(u) {
			return u, StrategyRawScan, true
		}
	}
	return "", "", false
}

// urlFromJSON pulls a video URL out of a JSON object, checking the field
// names providers actually use.
func urlFromJSON(s string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return ""
	}
	for _, key := range []string{"video_url", "videoUrl", "url", "uri", "output_url"} {
		if v, ok := obj[key].(string); ok && strings.HasPrefix(v, "http") {
			return v
		}
	}
	// One level of nesting covers {"data": {"video_url": ...}} shapes.
	for _, v := range obj {
		if nested, ok := v.(map[string]any); ok {
			for _, key := range []string{"video_url", "videoUrl", "url", "uri"} {
				if u, ok := nested[key].(string); ok && strings.HasPrefix(u, "http") {
					return u
				}
			}
		}
	}
	return ""
}

// isVideoURL reports whether a URL carries a strong video signal: a known
// file extension or a video-hosting domain marker.
func isVideoURL(u string) bool {
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http") {
		return false
	}
	base := lower
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	for _, marker := range hostMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
