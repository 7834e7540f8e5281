package adapter

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed request into a machine-checkable category. The
// UI renders the message and offers a retry; it never re-classifies.
type Kind string

const (
	// KindConfiguration is a missing key or base URL. Raised before any
	// network I/O.
	KindConfiguration Kind = "configuration"

	// KindAuth is a 401/403 with an invalid or expired credential.
	KindAuth Kind = "auth"

	// KindKeyLeaked is a 401/403 whose message suggests the key was
	// flagged or revoked for exposure.
	KindKeyLeaked Kind = "key_leaked"

	// KindNotFound is a 404: unknown model or wrong endpoint.
	KindNotFound Kind = "not_found"

	// KindRateLimit is a 429.
	KindRateLimit Kind = "rate_limit"

	// KindBadRequest is a 400.
	KindBadRequest Kind = "bad_request"

	// KindUnsupportedParam is a 400 mentioning a rejected parameter, most
	// commonly temperature on reasoning-only models.
	KindUnsupportedParam Kind = "unsupported_parameter"

	// KindServer is any 5xx.
	KindServer Kind = "server"

	// KindNetwork is a transport-level failure with no HTTP status.
	KindNetwork Kind = "network"

	// KindOriginBlocked is a network failure that looks like a
	// cross-origin rejection rather than an unreachable host.
	KindOriginBlocked Kind = "origin_blocked"

	// KindParse means the response body was not valid JSON where JSON was
	// expected.
	KindParse Kind = "parse"

	// KindVideoTimeout means the poll ceiling was reached without a
	// terminal state.
	KindVideoTimeout Kind = "video_timeout"

	// KindVideoFailed means the provider reported a terminal failure for
	// a video task.
	KindVideoFailed Kind = "video_failed"
)

// Error is a classified request failure. Every failure path in this
// package returns one as a value; nothing here is fatal to the process.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string

	// Hint carries an optional actionable suggestion, e.g. a model-name
	// casing warning on 404.
	Hint string

	Err error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return e.Message + " (" + e.Hint + ")"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether a poll loop may keep going after this error.
// Only transport-level and server-side trouble is transient.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindServer, KindRateLimit, KindParse:
		return true
	}
	return false
}

// KindOf extracts the Kind from any error, defaulting to KindNetwork for
// unclassified failures.
func KindOf(err error) Kind {
	if ce, ok := err.(*Error); ok {
		return ce.Kind
	}
	return KindNetwork
}

// classifyStatus maps a non-2xx response to a classified error. The
// provider message (from the JSON error envelope when parseable) is kept
// verbatim; classification adds the category and hints.
func classifyStatus(status int, message, model string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	lower := strings.ToLower(message)

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		if strings.Contains(lower, "leak") || strings.Contains(lower, "exposed") ||
			strings.Contains(lower, "disabled") || strings.Contains(lower, "flagged") {
			return &Error{
				Kind:       KindKeyLeaked,
				StatusCode: status,
				Message:    "API key was flagged or revoked: " + message,
				Hint:       "rotate the key at the provider dashboard",
			}
		}
		return &Error{
			Kind:       KindAuth,
			StatusCode: status,
			Message:    "authentication failed: " + message,
		}

	case status == http.StatusNotFound:
		e := &Error{
			Kind:       KindNotFound,
			StatusCode: status,
			Message:    fmt.Sprintf("model or endpoint not found: %s", message),
		}
		if model != "" && model != strings.ToLower(model) {
			e.Hint = fmt.Sprintf("model id %q contains uppercase characters; most APIs expect lowercase ids", model)
		}
		return e

	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, StatusCode: status, Message: "rate limited: " + message}

	case status == http.StatusBadRequest:
		if strings.Contains(lower, "unsupported") && strings.Contains(lower, "param") ||
			strings.Contains(lower, "temperature") {
			return &Error{
				Kind:       KindUnsupportedParam,
				StatusCode: status,
				Message:    "unsupported request parameter: " + message,
			}
		}
		return &Error{Kind: KindBadRequest, StatusCode: status, Message: "bad request: " + message}

	case status >= 500:
		return &Error{Kind: KindServer, StatusCode: status, Message: fmt.Sprintf("provider server error (%d): %s", status, message)}

	default:
		return &Error{Kind: KindBadRequest, StatusCode: status, Message: message}
	}
}

// classifyTransport turns a transport-level failure into a classified
// error, splitting cross-origin rejections from plain connectivity loss by
// message content.
func classifyTransport(err error) *Error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "cors") || strings.Contains(lower, "cross-origin") ||
		strings.Contains(lower, "origin") && strings.Contains(lower, "block") {
		return &Error{
			Kind:    KindOriginBlocked,
			Message: "request blocked by the origin policy; route it through the relay",
			Err:     err,
		}
	}
	return &Error{
		Kind:    KindNetwork,
		Message: "network error: " + msg,
		Err:     err,
	}
}
