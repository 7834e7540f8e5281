// Package adapter shapes, sends and interprets requests against AI
// provider HTTP APIs. It speaks the OpenAI-compatible chat-completions
// wire format by default and branches to a vendor's native endpoint where
// the compatible surface cannot express a feature (long-running video
// jobs).
package adapter

// Chat wire types. These mirror the OpenAI API format for maximum
// compatibility across providers.

// ChatRequest is an OpenAI-compatible chat completion request.
type ChatRequest struct {
	// Model is the normalized API model id.
	Model string `json:"model"`

	// Messages contains the conversation. For this panel it is at most a
	// system message followed by one user message.
	Messages []Message `json:"messages"`

	// Temperature controls randomness. Always set explicitly.
	Temperature float64 `json:"temperature"`

	// Stream is always false; the panel renders complete responses.
	Stream bool `json:"stream"`

	// WebSearch is attached only for providers that support the flag.
	WebSearch *bool `json:"web_search,omitempty"`

	// ProviderHint names the provider on the relay route so the relay can
	// select the matching server-held key. Never sent to providers.
	ProviderHint string `json:"provider,omitempty"`
}

// Message is a single chat message. Content is either a plain string or a
// []ContentPart for multimodal user messages.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one part of a multimodal user message.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageRef `json:"image_url,omitempty"`
}

// ImageRef points at a reference image by URL.
type ImageRef struct {
	URL string `json:"url"`
}

// TextOf returns the plain-text content of a message, flattening
// multimodal parts.
func TextOf(m Message) string {
	switch c := m.Content.(type) {
	case string:
		return c
	case []ContentPart:
		var out string
		for _, p := range c {
			if p.Type == "text" {
				out += p.Text
			}
		}
		return out
	default:
		return ""
	}
}

// ChatResponse is the standard chat completion response envelope.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage carries the generated content.
type ChoiceMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url,omitempty"`
}

// ErrorEnvelope is the error shape shared by OpenAI-compatible APIs.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the provider's error description.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}

// VideoRequest is the unified video-generation request the transport
// translates per route: the OpenAI-style /videos payload on the
// compatible path, vendor parameter names on the native path.
type VideoRequest struct {
	Model             string
	Prompt            string
	DurationSeconds   int
	Width             int
	Height            int
	ReferenceImageURL string
	EnableSound       bool
}

// TaskHandle identifies an asynchronous video job for status polling.
type TaskHandle struct {
	// ID is the task id (compatible path) or operation name (native path).
	ID string

	// Native marks handles that must be polled against the vendor's
	// native operation-status endpoint.
	Native bool
}
