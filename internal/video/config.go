package video

import (
	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/settings"
)

// Config carries the per-run generation parameters.
type Config struct {
	Model             string
	DurationSeconds   int
	Width             int
	Height            int
	ReferenceImageURL string
	EnableSound       bool
}

// ConfigFromSettings lifts the persisted video preferences into a run
// config, falling back to defaults for unset fields.
func ConfigFromSettings(st settings.Settings) Config {
	cfg := Config{
		Model:             st.VideoModel,
		DurationSeconds:   st.VideoDuration,
		Width:             st.VideoWidth,
		Height:            st.VideoHeight,
		ReferenceImageURL: st.VideoReference,
		EnableSound:       st.VideoSound,
	}
	def := settings.Defaults()
	if cfg.Model == "" {
		cfg.Model = def.VideoModel
	}
	if cfg.DurationSeconds <= 0 {
		cfg.DurationSeconds = def.VideoDuration
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width = def.VideoWidth
		cfg.Height = def.VideoHeight
	}
	return cfg
}

// ModelOption describes one selectable video model.
type ModelOption struct {
	ID          string
	Label       string
	Provider    provider.ID
	MaxDuration int
	Audio       bool
}

// ModelOptions lists the video models the panel offers. Order matters:
// the first entry is the suggested default.
var ModelOptions = []ModelOption{
	{ID: "gemini/veo-3.1-generate-preview", Label: "Veo 3.1 (Preview)", Provider: provider.Gemini, MaxDuration: 8, Audio: true},
	{ID: "gemini/veo-3.0-generate-001", Label: "Veo 3.0", Provider: provider.Gemini, MaxDuration: 8, Audio: true},
	{ID: "sora-2", Label: "Sora 2", Provider: provider.GPT, MaxDuration: 20, Audio: true},
	{ID: "wan2.2-t2v-plus", Label: "Wan 2.2 T2V Plus", Provider: provider.Qwen, MaxDuration: 10, Audio: false},
	{ID: "doubao-seedance-1-0-pro", Label: "Seedance 1.0 Pro", Provider: provider.Doubao, MaxDuration: 10, Audio: false},
}

// LookupModel finds a model option by id.
func LookupModel(id string) (ModelOption, bool) {
	for _, m := range ModelOptions {
		if m.ID == id {
			return m, true
		}
	}
	return ModelOption{}, false
}
