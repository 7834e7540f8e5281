package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pagegen/pagegen/internal/provider"
)

func mustAdapter(t *testing.T, id provider.ID) *provider.Adapter {
	t.Helper()
	a, ok := provider.Lookup(id)
	if !ok {
		t.Fatalf("provider %q not registered", id)
	}
	return a
}

func TestSendChatDirect(t *testing.T) {
	var gotPath, gotAuth, gotExtra string
	var gotReq ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotExtra = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	rc := provider.ResolvedConfig{
		Provider: mustAdapter(t, provider.Gemini),
		Route:    provider.RouteDirect,
		BaseURL:  srv.URL,
		APIKey:   "AIza-test-key",
	}
	tr := NewTransport()

	raw, err := tr.SendChat(context.Background(), ChatRequest{
		Model:    "gemini-2.5-flash-lite",
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, rc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Status != http.StatusOK {
		t.Errorf("status = %d", raw.Status)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", gotPath)
	}
	if gotAuth != "Bearer AIza-test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotExtra != "AIza-test-key" {
		t.Errorf("vendor key header = %q, want the key", gotExtra)
	}
	if gotReq.Model != "gemini-2.5-flash-lite" {
		t.Errorf("model = %q", gotReq.Model)
	}
}

func TestSendChatRelayPath(t *testing.T) {
	var gotPath, gotAuth, gotExtra string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotExtra = r.Header.Get("x-goog-api-key")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	rc := provider.ResolvedConfig{
		Provider: mustAdapter(t, provider.Gemini),
		Route:    provider.RouteRelay,
		BaseURL:  srv.URL,
		APIKey:   "tok-session",
	}

	_, err := NewTransport().SendChat(context.Background(), ChatRequest{Model: "gemini-2.5-flash-lite"}, rc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/ai-proxy/chat/completions" {
		t.Errorf("path = %q, want the relay chat path", gotPath)
	}
	if gotAuth != "Bearer tok-session" {
		t.Errorf("authorization = %q, want the session token", gotAuth)
	}
	if gotExtra != "" {
		t.Errorf("vendor key header = %q, must not leak to the relay", gotExtra)
	}
}

func TestCreateVideoNativeBranch(t *testing.T) {
	var gotPath, gotKey string
	var gotBody nativeVideoPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"name":"operations/abc","done":false}`))
	}))
	defer srv.Close()

	gemini := mustAdapter(t, provider.Gemini)
	native := *gemini
	native.NativeVideoBase = srv.URL

	rc := provider.ResolvedConfig{
		Provider: &native,
		Route:    provider.RouteDirect,
		BaseURL:  "https://unused.example.com",
		APIKey:   "AIza-test",
	}

	req := VideoRequest{
		Model:           "gemini/veo-3.1-generate-preview",
		Prompt:          "a fox in the snow",
		DurationSeconds: 5,
		Width:           720,
		Height:          1280,
	}
	raw, err := NewTransport().CreateVideo(context.Background(), req, rc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/models/veo-3.1-generate-preview:generateVideo" {
		t.Errorf("path = %q, namespace must be stripped for the vendor endpoint", gotPath)
	}
	if gotKey != "AIza-test" {
		t.Errorf("key query = %q", gotKey)
	}
	if gotBody.Prompt != "a fox in the snow" {
		t.Errorf("prompt = %q", gotBody.Prompt)
	}
	if gotBody.VideoConfig.AspectRatio != "9:16" {
		t.Errorf("aspect ratio = %q, want 9:16 for 720x1280", gotBody.VideoConfig.AspectRatio)
	}
	if gotBody.VideoConfig.DurationSeconds != 5 {
		t.Errorf("duration = %d", gotBody.VideoConfig.DurationSeconds)
	}

	o := InterpretVideoCreate(raw)
	if o.Handle == nil || !o.Handle.Native {
		t.Fatalf("expected a native handle, got %+v", o)
	}
}

func TestCreateVideoCompatiblePath(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"task_id":"t-1","status":"queued"}`))
	}))
	defer srv.Close()

	rc := provider.ResolvedConfig{
		Provider: mustAdapter(t, provider.Qwen),
		Route:    provider.RouteDirect,
		BaseURL:  srv.URL,
		APIKey:   "qwen-key",
	}

	req := VideoRequest{Model: "wan2.2-t2v-plus", Prompt: "p", DurationSeconds: 5, Width: 1280, Height: 720}
	if _, err := NewTransport().CreateVideo(context.Background(), req, rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/videos" {
		t.Errorf("path = %q, want /videos", gotPath)
	}
	if gotBody["model"] != "wan2.2-t2v-plus" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if _, present := gotBody["provider"]; present {
		t.Error("provider hint must not appear on the direct route")
	}
}

func TestCreateVideoRelayRoute(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"task_id":"t-2"}`))
	}))
	defer srv.Close()

	rc := provider.ResolvedConfig{
		Provider: mustAdapter(t, provider.Gemini),
		Route:    provider.RouteRelay,
		BaseURL:  srv.URL,
		APIKey:   "tok-session",
	}

	// The relay route never goes native, even for a native-video model:
	// the client holds only a session token.
	req := VideoRequest{Model: "gemini/veo-3.1-generate-preview", Prompt: "p", DurationSeconds: 5, Width: 1280, Height: 720}
	if _, err := NewTransport().CreateVideo(context.Background(), req, rc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/ai-proxy/videos" {
		t.Errorf("path = %q, want the relay video path", gotPath)
	}
	if gotBody["provider"] != "gemini" {
		t.Errorf("provider = %v, relays need the hint to pick a key pool", gotBody["provider"])
	}
	if gotBody["model"] != "gemini/veo-3.1-generate-preview" {
		t.Errorf("model = %v, namespace must survive to the relay", gotBody["model"])
	}
}

func TestPollVideoPaths(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"status":"processing"}`))
	}))
	defer srv.Close()

	gemini := mustAdapter(t, provider.Gemini)
	native := *gemini
	native.NativeVideoBase = srv.URL

	t.Run("relay route wins over native", func(t *testing.T) {
		rc := provider.ResolvedConfig{Provider: &native, Route: provider.RouteRelay, BaseURL: srv.URL, APIKey: "tok"}
		if _, err := NewTransport().PollVideo(context.Background(), TaskHandle{ID: "task-9", Native: true}, rc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/v1/ai-proxy/videos/task-9" {
			t.Errorf("path = %q, relay route must poll through the relay", gotPath)
		}
	})

	t.Run("native operation path", func(t *testing.T) {
		rc := provider.ResolvedConfig{Provider: &native, Route: provider.RouteDirect, BaseURL: "https://unused.example.com", APIKey: "AIza-test"}
		if _, err := NewTransport().PollVideo(context.Background(), TaskHandle{ID: "operations/abc", Native: true}, rc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/operations/abc" {
			t.Errorf("path = %q, want /operations/abc", gotPath)
		}
		if gotKey != "AIza-test" {
			t.Errorf("key query = %q", gotKey)
		}
	})

	t.Run("compatible task path", func(t *testing.T) {
		rc := provider.ResolvedConfig{Provider: mustAdapter(t, provider.Qwen), Route: provider.RouteDirect, BaseURL: srv.URL, APIKey: "k"}
		if _, err := NewTransport().PollVideo(context.Background(), TaskHandle{ID: "t-42"}, rc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/videos/t-42" {
			t.Errorf("path = %q, want /videos/t-42", gotPath)
		}
	})
}

type fakeForwarder struct {
	got  ForwardRequest
	resp RawResponse
	err  error
}

func (f *fakeForwarder) Forward(_ context.Context, req ForwardRequest) (RawResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestTransportUsesForwarder(t *testing.T) {
	fwd := &fakeForwarder{resp: RawResponse{Status: 200, Body: []byte(`{"choices":[{"message":{"content":"via forwarder"}}]}`)}}
	tr := NewTransport(WithForwarder(fwd))

	rc := provider.ResolvedConfig{
		Provider: mustAdapter(t, provider.GPT),
		Route:    provider.RouteDirect,
		BaseURL:  "https://api.openai.com/v1",
		APIKey:   "sk-test",
	}
	raw, err := tr.SendChat(context.Background(), ChatRequest{Model: "gpt-4-turbo"}, rc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fwd.got.URL != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("forwarded URL = %q", fwd.got.URL)
	}
	if fwd.got.Headers["Authorization"] != "Bearer sk-test" {
		t.Errorf("forwarded auth = %q", fwd.got.Headers["Authorization"])
	}
	got, err := InterpretChat(raw, "gpt-4-turbo")
	if err != nil || got != "via forwarder" {
		t.Errorf("content = %q, err = %v", got, err)
	}
}

func TestTransportNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately dead

	rc := provider.ResolvedConfig{
		Provider: mustAdapter(t, provider.GPT),
		Route:    provider.RouteDirect,
		BaseURL:  srv.URL,
		APIKey:   "sk-test",
	}
	_, err := NewTransport().SendChat(context.Background(), ChatRequest{Model: "gpt-4"}, rc)
	if err == nil {
		t.Fatal("expected a network error")
	}
	if KindOf(err) != KindNetwork {
		t.Errorf("kind = %q, want %q", KindOf(err), KindNetwork)
	}
}

func TestNearestAspectRatio(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{1280, 720, "16:9"},
		{1920, 1080, "16:9"},
		{720, 1280, "9:16"},
		{1080, 1080, "1:1"},
		{800, 600, "4:3"},
		{600, 800, "3:4"},
		{0, 0, "16:9"},
	}
	for _, tt := range tests {
		if got := NearestAspectRatio(tt.w, tt.h); got != tt.want {
			t.Errorf("NearestAspectRatio(%d, %d) = %q, want %q", tt.w, tt.h, got, tt.want)
		}
	}
}
