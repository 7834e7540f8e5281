package bridge

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pagegen/pagegen/internal/adapter"
)

// forwardReply is the wire shape of a forwarded response. The body rides
// base64-encoded so binary payloads survive the JSON channel.
type forwardReply struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Forwarder executes HTTP requests over the bus, on the privileged side.
// It satisfies adapter.Forwarder, so a Transport built with it routes
// every call through the channel.
type Forwarder struct {
	bus *Bus
	typ Type
}

// NewForwarder creates a Forwarder using the standard forward channel.
func NewForwarder(bus *Bus) *Forwarder {
	return &Forwarder{bus: bus, typ: TypeForward}
}

// NewVideoForwarder creates a Forwarder on the dedicated video channel,
// which the privileged side may grant a longer deadline.
func NewVideoForwarder(bus *Bus) *Forwarder {
	return &Forwarder{bus: bus, typ: TypeVideoForward}
}

// Forward implements adapter.Forwarder.
func (f *Forwarder) Forward(ctx context.Context, req adapter.ForwardRequest) (adapter.RawResponse, error) {
	var reply forwardReply
	if err := f.bus.Request(ctx, f.typ, req, &reply); err != nil {
		return adapter.RawResponse{}, err
	}

	body, err := base64.StdEncoding.DecodeString(reply.Body)
	if err != nil {
		// Older privileged sides sent plain text.
		body = []byte(reply.Body)
	}

	headers := make(http.Header, len(reply.Headers))
	for k, v := range reply.Headers {
		headers.Set(k, v)
	}
	return adapter.RawResponse{Status: reply.Status, Headers: headers, Body: body}, nil
}

// RegisterHTTPHandlers installs the privileged-side handlers that perform
// the actual HTTP calls for both forward channels.
func RegisterHTTPHandlers(bus *Bus, client *http.Client) {
	h := httpForwardHandler(client)
	bus.Register(TypeForward, h)
	bus.Register(TypeVideoForward, h)
}

func httpForwardHandler(client *http.Client) Handler {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req adapter.ForwardRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, err
		}

		var reader io.Reader
		if len(req.Body) > 0 {
			reader = bytes.NewReader(req.Body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reader)
		if err != nil {
			return nil, err
		}
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		headers := make(map[string]string, len(resp.Header))
		for k := range resp.Header {
			headers[k] = resp.Header.Get(k)
		}
		return forwardReply{
			Status:  resp.StatusCode,
			Headers: headers,
			Body:    base64.StdEncoding.EncodeToString(body),
		}, nil
	}
}
