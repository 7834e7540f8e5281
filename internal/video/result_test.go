package video

import (
	"testing"

	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/settings"
)

func TestAdvanceForwardOnly(t *testing.T) {
	r := Result{Type: TypePending, Status: StatusProcessing, Progress: 60, TaskID: "t-1", Prompt: "p"}

	// A stale snapshot from an earlier stage is dropped.
	r.advance(Result{Type: TypePending, Status: StatusQueued, Progress: 10})
	if r.Status != StatusProcessing || r.Progress != 60 {
		t.Errorf("stale update applied: %+v", r)
	}

	// A same-stage dip in progress is clamped.
	r.advance(Result{Type: TypePending, Status: StatusProcessing, Progress: 40})
	if r.Progress != 60 {
		t.Errorf("progress moved backwards: %d", r.Progress)
	}

	// Moving forward works and preserves the prompt and task id.
	r.advance(Result{Type: TypeVideo, Status: StatusCompleted, VideoURL: "https://cdn.example.com/v.mp4", Progress: 100})
	if r.Status != StatusCompleted || r.VideoURL == "" {
		t.Errorf("forward update dropped: %+v", r)
	}
	if r.Prompt != "p" || r.TaskID != "t-1" {
		t.Errorf("prompt or task id lost: %+v", r)
	}
}

func TestAdvanceTerminalKeepsReportedProgress(t *testing.T) {
	r := Result{Status: StatusProcessing, Progress: 80}
	r.advance(Result{Status: StatusFailed, Progress: 0, Message: "boom"})
	if r.Status != StatusFailed {
		t.Errorf("terminal update dropped: %+v", r)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"processing", StatusProcessing},
		{"queued", StatusQueued},
		{"succeeded", StatusCompleted},
		{"success", StatusCompleted},
		{"", StatusPending},
		{"rendering", StatusProcessing},
		{"failed", StatusFailed},
	}
	for _, tt := range tests {
		if got := normalizeStatus(tt.in); got != tt.want {
			t.Errorf("normalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%q should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusQueued, StatusInProgress, StatusProcessing} {
		if s.Terminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestConfigFromSettings(t *testing.T) {
	t.Run("empty record falls back to defaults", func(t *testing.T) {
		cfg := ConfigFromSettings(settings.Settings{})
		if cfg.Model == "" || cfg.DurationSeconds <= 0 || cfg.Width <= 0 || cfg.Height <= 0 {
			t.Errorf("empty settings must fall back to defaults: %+v", cfg)
		}
	})

	t.Run("stored preferences win", func(t *testing.T) {
		st := settings.Defaults()
		st.VideoModel = "sora-2"
		st.VideoDuration = 12
		st.VideoWidth = 1080
		st.VideoHeight = 1080
		st.VideoReference = "https://cdn.example.com/ref.png"
		cfg := ConfigFromSettings(st)
		if cfg.Model != "sora-2" || cfg.DurationSeconds != 12 {
			t.Errorf("stored fields not applied: %+v", cfg)
		}
		if cfg.Width != 1080 || cfg.Height != 1080 {
			t.Errorf("dimensions not applied: %+v", cfg)
		}
		if cfg.ReferenceImageURL != st.VideoReference {
			t.Errorf("reference image lost: %+v", cfg)
		}
	})
}

func TestLookupModel(t *testing.T) {
	m, ok := LookupModel("gemini/veo-3.1-generate-preview")
	if !ok || m.Provider != provider.Gemini {
		t.Fatalf("lookup failed: %+v ok=%v", m, ok)
	}
	if _, ok := LookupModel("nope"); ok {
		t.Error("unknown id should not resolve")
	}
}
