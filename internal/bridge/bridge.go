// Package bridge is the typed message channel between the panel surface
// and the privileged host process. Callers send request messages with
// correlation ids and wait for matched replies; handlers run on the
// privileged side where cross-origin fetches and settings storage live.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type enumerates the message kinds on the channel.
type Type string

const (
	TypeGetSettings    Type = "GET_SETTINGS"
	TypeSaveSettings   Type = "SAVE_SETTINGS"
	TypeGetPageContent Type = "GET_PAGE_CONTENT"
	TypeForward        Type = "FORWARD_REQUEST"
	TypeVideoForward   Type = "VIDEO_REQUEST"
)

// Message is one request on the channel.
type Message struct {
	ID      string          `json:"id"`
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply is the matched response to a Message.
type Reply struct {
	ID      string          `json:"id"`
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler processes one message type on the privileged side. The returned
// value is marshaled into the reply payload.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// ErrNoHandler is returned when no handler is registered for a type.
var ErrNoHandler = errors.New("no handler registered for message type")

// DefaultRequestTimeout bounds one round trip on the bus.
const DefaultRequestTimeout = 90 * time.Second

// Bus dispatches messages to registered handlers. Handlers run on the
// caller's goroutine; the bus only provides typing, correlation and
// timeout discipline.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type]Handler
	timeout  time.Duration
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type]Handler),
		timeout:  DefaultRequestTimeout,
	}
}

// SetTimeout overrides the per-request timeout.
func (b *Bus) SetTimeout(d time.Duration) {
	if d > 0 {
		b.timeout = d
	}
}

// Register installs the handler for a message type, replacing any
// previous one.
func (b *Bus) Register(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = h
}

// Request sends one message and waits for its reply. The payload is
// marshaled in, the reply payload decoded into out when out is non-nil.
func (b *Bus) Request(ctx context.Context, t Type, payload any, out any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", t, err)
		}
		raw = data
	}

	msg := Message{ID: uuid.NewString(), Type: t, Payload: raw}
	reply := b.dispatch(ctx, msg)
	if !reply.OK {
		return fmt.Errorf("%s: %s", t, reply.Error)
	}
	if out != nil && len(reply.Payload) > 0 {
		if err := json.Unmarshal(reply.Payload, out); err != nil {
			return fmt.Errorf("decode %s reply: %w", t, err)
		}
	}
	return nil
}

func (b *Bus) dispatch(ctx context.Context, msg Message) Reply {
	b.mu.RLock()
	h, ok := b.handlers[msg.Type]
	b.mu.RUnlock()
	if !ok {
		return Reply{ID: msg.ID, Error: ErrNoHandler.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := h(ctx, msg.Payload)
		done <- outcome{v, err}
	}()

	select {
	case <-ctx.Done():
		return Reply{ID: msg.ID, Error: ctx.Err().Error()}
	case o := <-done:
		if o.err != nil {
			return Reply{ID: msg.ID, Error: o.err.Error()}
		}
		payload, err := json.Marshal(o.value)
		if err != nil {
			return Reply{ID: msg.ID, Error: "encode reply: " + err.Error()}
		}
		return Reply{ID: msg.ID, OK: true, Payload: payload}
	}
}
