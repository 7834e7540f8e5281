package adapter

import "testing"

func TestExtractVideoURLStrategy(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantURL      string
		wantStrategy Strategy
		wantOK       bool
	}{
		{
			name:         "json field",
			text:         `{"video_url": "https://cdn.example.com/clip.mp4", "duration": 5}`,
			wantURL:      "https://cdn.example.com/clip.mp4",
			wantStrategy: StrategyJSONField,
			wantOK:       true,
		},
		{
			name:         "camel case json field",
			text:         `{"videoUrl": "https://cdn.example.com/clip.webm"}`,
			wantURL:      "https://cdn.example.com/clip.webm",
			wantStrategy: StrategyJSONField,
			wantOK:       true,
		},
		{
			name:         "nested json field",
			text:         `{"data": {"video_url": "https://cdn.example.com/clip.mp4"}}`,
			wantURL:      "https://cdn.example.com/clip.mp4",
			wantStrategy: StrategyJSONField,
			wantOK:       true,
		},
		{
			name:         "fenced json block",
			text:         "Here is your video:\n```json\n{\"url\": \"https://cdn.example.com/clip.mp4\"}\n```\nEnjoy!",
			wantURL:      "https://cdn.example.com/clip.mp4",
			wantStrategy: StrategyFencedJSON,
			wantOK:       true,
		},
		{
			name:         "markdown link",
			text:         "Your video is ready: [watch it](https://storage.googleapis.com/vids/out.mp4)",
			wantURL:      "https://storage.googleapis.com/vids/out.mp4",
			wantStrategy: StrategyMarkdownLink,
			wantOK:       true,
		},
		{
			name:         "raw url with extension",
			text:         "Done! https://cdn.example.com/render/final.mov.",
			wantURL:      "https://cdn.example.com/render/final.mov",
			wantStrategy: StrategyRawScan,
			wantOK:       true,
		},
		{
			name:         "raw url with hosting marker and query",
			text:         "Download from https://dashscope-result.oss.aliyuncs.com/video?Expires=123&sig=abc",
			wantURL:      "https://dashscope-result.oss.aliyuncs.com/video?Expires=123&sig=abc",
			wantStrategy: StrategyRawScan,
			wantOK:       true,
		},
		{
			name:         "extension hidden behind query string",
			text:         "https://videos.openai.com/v/abc/content.mp4?st=tok",
			wantURL:      "https://videos.openai.com/v/abc/content.mp4?st=tok",
			wantStrategy: StrategyRawScan,
			wantOK:       true,
		},
		{
			name:   "documentation link is not a video",
			text:   "See https://example.com/docs/video-api for details.",
			wantOK: false,
		},
		{
			name:   "prose without urls",
			text:   "I am unable to generate a video for this request.",
			wantOK: false,
		},
		{
			name:   "empty",
			text:   "   ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, strategy, ok := ExtractVideoURLStrategy(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (url=%q)", ok, tt.wantOK, url)
			}
			if !ok {
				return
			}
			if url != tt.wantURL {
				t.Errorf("url = %q, want %q", url, tt.wantURL)
			}
			if strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", strategy, tt.wantStrategy)
			}
		})
	}
}

func TestExtractVideoURLOrder(t *testing.T) {
	// A structured field wins over a bare URL elsewhere in the text.
	text := `{"video_url": "https://cdn.example.com/right.mp4", "note": "see also https://cdn.example.com/wrong.mp4"}`
	url, strategy, ok := ExtractVideoURLStrategy(text)
	if !ok || url != "https://cdn.example.com/right.mp4" {
		t.Fatalf("got %q (ok=%v)", url, ok)
	}
	if strategy != StrategyJSONField {
		t.Errorf("strategy = %q, want %q", strategy, StrategyJSONField)
	}
}
