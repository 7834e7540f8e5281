package adapter

import (
	"strings"
	"testing"
)

func raw(status int, body string) RawResponse {
	return RawResponse{Status: status, Body: []byte(body)}
}

func TestInterpretChat(t *testing.T) {
	t.Run("extracts content", func(t *testing.T) {
		got, err := InterpretChat(raw(200, `{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`), "gpt-4-turbo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "hello there" {
			t.Errorf("content = %q, want %q", got, "hello there")
		}
	})

	t.Run("empty choices yields empty string", func(t *testing.T) {
		got, err := InterpretChat(raw(200, `{"choices":[]}`), "gpt-4-turbo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("content = %q, want empty", got)
		}
	})

	t.Run("invalid JSON on success status", func(t *testing.T) {
		_, err := InterpretChat(raw(200, `<html>gateway`), "gpt-4-turbo")
		if KindOf(err) != KindParse {
			t.Errorf("kind = %q, want %q", KindOf(err), KindParse)
		}
	})
}

func TestInterpretChatFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantIn   string
	}{
		{
			name:     "auth failure with envelope",
			status:   401,
			body:     `{"error":{"message":"Incorrect API key provided"}}`,
			wantKind: KindAuth,
			wantIn:   "Incorrect API key provided",
		},
		{
			name:     "flagged key",
			status:   403,
			body:     `{"error":{"message":"This key has been disabled because it was exposed"}}`,
			wantKind: KindKeyLeaked,
			wantIn:   "exposed",
		},
		{
			name:     "model not found",
			status:   404,
			body:     `{"error":{"message":"The model does not exist"}}`,
			wantKind: KindNotFound,
			wantIn:   "does not exist",
		},
		{
			name:     "rate limited",
			status:   429,
			body:     `{"error":{"message":"Rate limit reached"}}`,
			wantKind: KindRateLimit,
			wantIn:   "Rate limit reached",
		},
		{
			name:     "unsupported temperature",
			status:   400,
			body:     `{"error":{"message":"Unsupported value: temperature does not support 0.3 with this model"}}`,
			wantKind: KindUnsupportedParam,
			wantIn:   "temperature",
		},
		{
			name:     "plain bad request",
			status:   400,
			body:     `{"error":{"message":"messages is required"}}`,
			wantKind: KindBadRequest,
			wantIn:   "messages is required",
		},
		{
			name:     "server error",
			status:   503,
			body:     `{"error":{"message":"overloaded"}}`,
			wantKind: KindServer,
			wantIn:   "overloaded",
		},
		{
			name:     "flat message shape",
			status:   400,
			body:     `{"message":"bad payload"}`,
			wantKind: KindBadRequest,
			wantIn:   "bad payload",
		},
		{
			name:     "plain text body",
			status:   502,
			body:     "Bad Gateway",
			wantKind: KindServer,
			wantIn:   "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InterpretChat(raw(tt.status, tt.body), "gpt-4-turbo")
			if err == nil {
				t.Fatal("expected an error")
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("kind = %q, want %q", KindOf(err), tt.wantKind)
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("message %q should contain %q", err.Error(), tt.wantIn)
			}
		})
	}
}

func TestInterpretChatUppercaseModelHint(t *testing.T) {
	_, err := InterpretChat(raw(404, `{"error":{"message":"not found"}}`), "GPT-4-Turbo")
	ae, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(ae.Hint, "lowercase") {
		t.Errorf("hint = %q, expected a casing suggestion", ae.Hint)
	}
}

func TestInterpretVideoCreate(t *testing.T) {
	t.Run("direct url", func(t *testing.T) {
		o := InterpretVideoCreate(raw(200, `{"video_url":"https://cdn.example.com/out.mp4"}`))
		if o.VideoURL != "https://cdn.example.com/out.mp4" || o.Status != "completed" {
			t.Errorf("unexpected outcome: %+v", o)
		}
		if !o.Terminal() {
			t.Error("url outcome must be terminal")
		}
	})

	t.Run("task handle", func(t *testing.T) {
		o := InterpretVideoCreate(raw(200, `{"task_id":"task-42","status":"queued"}`))
		if o.Handle == nil || o.Handle.ID != "task-42" || o.Handle.Native {
			t.Fatalf("unexpected handle: %+v", o.Handle)
		}
		if o.Status != "queued" {
			t.Errorf("status = %q, want queued", o.Status)
		}
		if o.Terminal() {
			t.Error("a pending handle is not terminal")
		}
	})

	t.Run("native operation handle", func(t *testing.T) {
		o := InterpretVideoCreate(raw(200, `{"name":"operations/abc123","done":false}`))
		if o.Handle == nil || o.Handle.ID != "operations/abc123" || !o.Handle.Native {
			t.Fatalf("unexpected handle: %+v", o.Handle)
		}
		if o.Status != "pending" {
			t.Errorf("status = %q, want pending", o.Status)
		}
	})

	t.Run("chat shaped with embedded url", func(t *testing.T) {
		o := InterpretVideoCreate(raw(200, `{"choices":[{"message":{"content":"Here you go: https://storage.googleapis.com/v/out.mp4"}}]}`))
		if o.VideoURL != "https://storage.googleapis.com/v/out.mp4" {
			t.Errorf("url = %q, expected extraction from content", o.VideoURL)
		}
	})

	t.Run("chat shaped prose is not an error", func(t *testing.T) {
		o := InterpretVideoCreate(raw(200, `{"choices":[{"message":{"content":"I cannot generate videos."}}]}`))
		if o.Err != nil {
			t.Fatalf("unexpected error: %v", o.Err)
		}
		if o.Text != "I cannot generate videos." {
			t.Errorf("text = %q, expected the prose answer", o.Text)
		}
	})

	t.Run("error detail", func(t *testing.T) {
		o := InterpretVideoCreate(raw(200, `{"error":{"message":"prompt rejected"}}`))
		if o.Err == nil || o.Err.Kind != KindVideoFailed {
			t.Fatalf("expected a video failure, got %+v", o)
		}
	})

	t.Run("http failure", func(t *testing.T) {
		o := InterpretVideoCreate(raw(429, `{"error":{"message":"quota"}}`))
		if o.Err == nil || o.Err.Kind != KindRateLimit {
			t.Fatalf("expected rate-limit classification, got %+v", o)
		}
	})
}

func TestInterpretVideoPoll(t *testing.T) {
	t.Run("processing", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"status":"processing","progress":40}`))
		if o.Terminal() {
			t.Error("processing is not terminal")
		}
		if o.Progress != 40 {
			t.Errorf("progress = %d, want 40", o.Progress)
		}
	})

	t.Run("empty status means still working", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{}`))
		if o.Status != "processing" || o.Terminal() {
			t.Errorf("unexpected outcome: %+v", o)
		}
	})

	t.Run("completed with url", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"status":"completed","video_url":"https://cdn.example.com/out.mp4"}`))
		if o.VideoURL != "https://cdn.example.com/out.mp4" || o.Progress != 100 {
			t.Errorf("unexpected outcome: %+v", o)
		}
	})

	t.Run("succeeded alias", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"status":"succeeded","video_url":"https://cdn.example.com/out.mp4"}`))
		if o.VideoURL == "" {
			t.Errorf("succeeded should complete: %+v", o)
		}
	})

	t.Run("completed without url keeps polling", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"status":"completed"}`))
		if o.Status != "processing" || o.Terminal() {
			t.Errorf("completed without a URL must not end the loop: %+v", o)
		}
	})

	t.Run("failed with string error", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"status":"failed","error":"content policy violation"}`))
		if o.Err == nil || o.Err.Kind != KindVideoFailed {
			t.Fatalf("expected video failure, got %+v", o)
		}
		if !strings.Contains(o.Err.Message, "content policy violation") {
			t.Errorf("message = %q", o.Err.Message)
		}
	})

	t.Run("native done with object error", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"done":true,"error":{"code":3,"message":"unsafe prompt"}}`))
		if o.Err == nil || o.Err.Kind != KindVideoFailed {
			t.Fatalf("expected video failure, got %+v", o)
		}
		if !strings.Contains(o.Err.Message, "unsafe prompt") {
			t.Errorf("message = %q", o.Err.Message)
		}
	})

	t.Run("native done with result", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"done":true,"response":{"videoUrl":"https://storage.googleapis.com/v/out.mp4"}}`))
		if o.VideoURL != "https://storage.googleapis.com/v/out.mp4" {
			t.Errorf("url = %q", o.VideoURL)
		}
	})

	t.Run("native done with unmodeled result nesting", func(t *testing.T) {
		body := `{"done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":"https://storage.googleapis.com/v/out.mp4"}}]}}}`
		o := InterpretVideoPoll(raw(200, body))
		if o.VideoURL != "https://storage.googleapis.com/v/out.mp4" {
			t.Errorf("url = %q, want the URL dug out of the nested result", o.VideoURL)
		}
		if o.Status != "completed" || o.Progress != 100 {
			t.Errorf("unexpected outcome: %+v", o)
		}
	})

	t.Run("native done without any result is terminal", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `{"done":true,"response":{"raiMediaFilteredCount":1}}`))
		if o.Err == nil || o.Err.Kind != KindVideoFailed {
			t.Fatalf("a finished operation without a video must fail, got %+v", o)
		}
		if !o.Terminal() {
			t.Error("a done operation must not keep the poll loop alive")
		}
	})

	t.Run("invalid JSON is a parse error", func(t *testing.T) {
		o := InterpretVideoPoll(raw(200, `not json`))
		if o.Err == nil || o.Err.Kind != KindParse {
			t.Fatalf("expected parse error, got %+v", o)
		}
		if !o.Err.Retryable() {
			t.Error("a parse error on one tick should be retryable")
		}
	})
}
