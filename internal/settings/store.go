package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	settingsFile = "settings.json"
	templateFile = "format_template.json"
)

// Store persists settings and the format template as JSON files in a
// single directory. Reads never replace the default schema: stored records
// are unmarshalled over a defaults copy, so fields absent from old records
// keep their default values.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the per-user settings directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pagegen"
	}
	return filepath.Join(home, ".pagegen")
}

// Load reads the settings record merged over defaults. A missing or
// corrupt file yields plain defaults, never an error the caller has to
// special-case.
func (s *Store) Load() Settings {
	out := Defaults()
	data, err := os.ReadFile(filepath.Join(s.dir, settingsFile))
	if err != nil {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return Defaults()
	}
	return out
}

// Save writes the full settings record.
func (s *Store) Save(cfg Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, settingsFile), data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Update applies fn to the current record and persists the result.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	cfg := s.Load()
	fn(&cfg)
	if err := s.Save(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadTemplate reads the format template, falling back to the default.
func (s *Store) LoadTemplate() FormatTemplate {
	out := DefaultFormatTemplate()
	data, err := os.ReadFile(filepath.Join(s.dir, templateFile))
	if err != nil {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return DefaultFormatTemplate()
	}
	return out
}

// SaveTemplate writes the format template record.
func (s *Store) SaveTemplate(t FormatTemplate) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, templateFile), data, 0o600); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}
