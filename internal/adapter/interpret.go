package adapter

import (
	"encoding/json"
	"strings"
)

// InterpretChat extracts the completion text from a raw response, or
// returns a classified error. Missing fields never panic: a 2xx response
// without content yields the empty string.
func InterpretChat(raw RawResponse, model string) (string, error) {
	if raw.Status < 200 || raw.Status > 299 {
		return "", interpretFailure(raw, model)
	}

	var resp ChatResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return "", &Error{
			Kind:       KindParse,
			StatusCode: raw.Status,
			Message:    "response was not valid JSON",
			Err:        err,
		}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// interpretFailure parses whatever error envelope the provider sent and
// classifies the outcome.
func interpretFailure(raw RawResponse, model string) *Error {
	message := ""
	var envelope ErrorEnvelope
	if err := json.Unmarshal(raw.Body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	} else {
		// Some gateways return {"message": ...} or plain text.
		var flat struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(raw.Body, &flat); err == nil {
			if flat.Message != "" {
				message = flat.Message
			} else if flat.Detail != "" {
				message = flat.Detail
			}
		}
		if message == "" {
			message = strings.TrimSpace(string(raw.Body))
			if len(message) > 300 {
				message = message[:300]
			}
		}
	}
	return classifyStatus(raw.Status, message, model)
}

// VideoOutcome is the interpreted result of a video create or poll call.
// Exactly one of VideoURL, Handle or Text is meaningful for successful
// outcomes; Err is set for failures.
type VideoOutcome struct {
	// VideoURL is set when the provider returned a playable result.
	VideoURL string

	// Handle is set when the provider returned an asynchronous task to
	// poll.
	Handle *TaskHandle

	// Text is set when the model legitimately answered with prose
	// instead of a video or task handle. Not an error.
	Text string

	// Status is the provider-reported job status, normalized lowercase.
	Status string

	// Progress is a 0-100 percentage when the provider reports one.
	Progress int

	Err *Error
}

// Terminal reports whether the outcome ends the workflow.
func (o VideoOutcome) Terminal() bool {
	return o.Err != nil || o.VideoURL != "" || o.Status == "failed" || o.Status == "cancelled"
}

// videoCreateBody covers the response shapes seen across compatible
// gateways and native endpoints.
type videoCreateBody struct {
	VideoURL string `json:"video_url"`
	URL      string `json:"url"`
	TaskID   string `json:"task_id"`
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`

	// Native operation shape.
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response *struct {
		VideoURL string `json:"videoUrl"`
		URI      string `json:"uri"`
	} `json:"response"`

	Choices []Choice     `json:"choices"`
	Error   *ErrorDetail `json:"error"`
}

// InterpretVideoCreate interprets the response to a video-generation
// submission: a direct URL, an asynchronous task handle, plain prose, or a
// classified error.
func InterpretVideoCreate(raw RawResponse) VideoOutcome {
	if raw.Status < 200 || raw.Status > 299 {
		return VideoOutcome{Err: interpretFailure(raw, "")}
	}

	var body videoCreateBody
	if err := json.Unmarshal(raw.Body, &body); err != nil {
		// Not JSON at all: fall back to scanning the raw text.
		return outcomeFromText(string(raw.Body))
	}

	if body.Error != nil && body.Error.Message != "" {
		return VideoOutcome{Err: &Error{Kind: KindVideoFailed, Message: body.Error.Message}}
	}

	// Direct URL fields first.
	if body.VideoURL != "" {
		return VideoOutcome{VideoURL: body.VideoURL, Status: "completed", Progress: 100}
	}
	if body.URL != "" {
		return VideoOutcome{VideoURL: body.URL, Status: "completed", Progress: 100}
	}
	if body.Response != nil {
		if u := firstNonEmpty(body.Response.VideoURL, body.Response.URI); u != "" {
			return VideoOutcome{VideoURL: u, Status: "completed", Progress: 100}
		}
	}

	// Chat-shaped response: the URL, if any, hides in message content.
	if len(body.Choices) > 0 {
		msg := body.Choices[0].Message
		if msg.VideoURL != "" {
			return VideoOutcome{VideoURL: msg.VideoURL, Status: "completed", Progress: 100}
		}
		return outcomeFromText(msg.Content)
	}

	// Native operation handle.
	if body.Name != "" && !body.Done {
		return VideoOutcome{
			Handle: &TaskHandle{ID: body.Name, Native: true},
			Status: "pending",
		}
	}

	// Compatible-path task handle.
	if id := firstNonEmpty(body.TaskID, body.ID); id != "" {
		status := strings.ToLower(body.Status)
		if status == "" {
			status = "pending"
		}
		return VideoOutcome{
			Handle:   &TaskHandle{ID: id},
			Status:   status,
			Progress: body.Progress,
		}
	}

	return outcomeFromText(string(raw.Body))
}

// outcomeFromText runs the URL extraction strategies over free-form model
// output. No URL is not an error: the model may have returned prose.
func outcomeFromText(text string) VideoOutcome {
	if u, ok := ExtractVideoURL(text); ok {
		return VideoOutcome{VideoURL: u, Status: "completed", Progress: 100}
	}
	return VideoOutcome{Text: text, Status: "completed"}
}

// videoPollBody is the status-fetch response on both poll paths.
type videoPollBody struct {
	Status   string          `json:"status"`
	VideoURL string          `json:"video_url"`
	Progress int             `json:"progress"`
	Error    json.RawMessage `json:"error"`

	// Native operation shape.
	Done     bool `json:"done"`
	Response *struct {
		VideoURL string `json:"videoUrl"`
		URI      string `json:"uri"`
	} `json:"response"`
}

// errorText flattens the error field, which arrives as a plain string on
// the compatible path and as an object on the native operation path.
func (b videoPollBody) errorText() string {
	if len(b.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Error, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Error, &obj); err == nil {
		return obj.Message
	}
	return string(b.Error)
}

// InterpretVideoPoll interprets one status-fetch tick.
func InterpretVideoPoll(raw RawResponse) VideoOutcome {
	if raw.Status < 200 || raw.Status > 299 {
		return VideoOutcome{Err: interpretFailure(raw, "")}
	}

	var body videoPollBody
	if err := json.Unmarshal(raw.Body, &body); err != nil {
		return VideoOutcome{Err: &Error{Kind: KindParse, Message: "poll response was not valid JSON", Err: err}}
	}

	// Native operation: done + response carries the result, done + error
	// a terminal failure.
	if body.Done {
		if body.Response != nil {
			if u := firstNonEmpty(body.Response.VideoURL, body.Response.URI); u != "" {
				return VideoOutcome{VideoURL: u, Status: "completed", Progress: 100}
			}
		}
		if msg := body.errorText(); msg != "" {
			return VideoOutcome{Status: "failed", Err: &Error{Kind: KindVideoFailed, Message: msg}}
		}
		// Finished, but the result sits in a shape we do not model:
		// scan the whole body for a URL before declaring the job lost.
		// A done operation must never report as still processing.
		if u, ok := ExtractVideoURL(string(raw.Body)); ok {
			return VideoOutcome{VideoURL: u, Status: "completed", Progress: 100}
		}
		return VideoOutcome{Status: "failed", Err: &Error{Kind: KindVideoFailed, Message: "operation finished without a video result"}}
	}

	status := strings.ToLower(body.Status)
	switch status {
	case "completed", "success", "succeeded":
		if body.VideoURL != "" {
			return VideoOutcome{VideoURL: body.VideoURL, Status: "completed", Progress: 100}
		}
		// Completed without a URL: scan the body for one before giving
		// up on this tick.
		if u, ok := ExtractVideoURL(string(raw.Body)); ok {
			return VideoOutcome{VideoURL: u, Status: "completed", Progress: 100}
		}
		return VideoOutcome{Status: "processing", Progress: body.Progress}
	case "failed", "cancelled":
		msg := body.errorText()
		if msg == "" {
			msg = "video generation failed"
		}
		return VideoOutcome{Status: status, Err: &Error{Kind: KindVideoFailed, Message: msg}}
	case "":
		return VideoOutcome{Status: "processing", Progress: body.Progress}
	default:
		return VideoOutcome{Status: status, Progress: body.Progress}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
