package bridge

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pagegen/pagegen/internal/settings"
)

// RegisterSettingsHandlers installs the privileged-side settings access:
// the panel never touches the store directly.
func RegisterSettingsHandlers(bus *Bus, store *settings.Store) {
	bus.Register(TypeGetSettings, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return store.Load(), nil
	})
	bus.Register(TypeSaveSettings, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var st settings.Settings
		if err := json.Unmarshal(payload, &st); err != nil {
			return nil, err
		}
		if err := store.Save(st); err != nil {
			return nil, err
		}
		return st, nil
	})
}

// PageContentFunc supplies the current page's extracted content.
type PageContentFunc func(ctx context.Context) (string, error)

// RegisterPageContentHandler installs the page-content source.
func RegisterPageContentHandler(bus *Bus, fn PageContentFunc) {
	bus.Register(TypeGetPageContent, func(ctx context.Context, _ json.RawMessage) (any, error) {
		if fn == nil {
			return nil, errors.New("no page content source configured")
		}
		content, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"content": content}, nil
	})
}

// GetSettings fetches the settings over the bus.
func GetSettings(ctx context.Context, bus *Bus) (settings.Settings, error) {
	var st settings.Settings
	err := bus.Request(ctx, TypeGetSettings, nil, &st)
	return st, err
}

// SaveSettings persists the settings over the bus.
func SaveSettings(ctx context.Context, bus *Bus, st settings.Settings) error {
	return bus.Request(ctx, TypeSaveSettings, st, nil)
}
