// Package preferences stores per-session display preferences.
package preferences

import (
	"context"
	"sync"

	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
)

const storeName = "theme_preference"

type Params struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// Store holds the theme preference. Unknown stored values read as light.
type Store struct {
	mu      sync.Mutex
	slot    *storage.Slot[enums.Theme]
	metrics *metrics.StorefrontMetrics
	theme   enums.Theme
}

func NewStore(ctx context.Context, params Params) *Store {
	slot := storage.NewSlot[enums.Theme](storage.SlotParams{
		KV:      params.KV,
		Key:     storage.KeyThemePreference,
		Store:   storeName,
		Logger:  params.Logger,
		Metrics: params.Metrics,
	})
	theme := slot.Load(ctx)
	if !theme.IsValid() {
		theme = enums.DefaultTheme
	}
	return &Store{slot: slot, metrics: params.Metrics, theme: theme}
}

func (s *Store) Theme() enums.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme persists theme. Invalid values are rejected without touching state.
func (s *Store) SetTheme(ctx context.Context, theme enums.Theme) error {
	if _, err := enums.ParseTheme(string(theme)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.metrics.IncMutation(storeName, "set")
	return s.slot.Save(ctx, theme)
}

// Toggle flips between light and dark and returns the new theme.
func (s *Store) Toggle(ctx context.Context) (enums.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := enums.ThemeDark
	if s.theme == enums.ThemeDark {
		next = enums.ThemeLight
	}
	s.theme = next
	s.metrics.IncMutation(storeName, "toggle")
	return next, s.slot.Save(ctx, next)
}
