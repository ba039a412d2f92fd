package services

import (
	"log/slog"
	"sync"

	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/settings"
	"github.com/adampresley/sundayalbum/pkg/store"
)

type SettingsServicer interface {
	Load() models.SiteState
	Save(state models.SiteState)
	Flush()
}

type SettingsServiceConfig struct {
	Durable store.Store
	Mirror  store.SettingsStore
}

/*
SettingsService loads and persists the settings document. Reads prefer
the mirror, falling back to the durable store. Writes go to the mirror
synchronously and to the durable store in the background; persistence
failures are logged and swallowed so editing always proceeds.
*/
type SettingsService struct {
	durable store.Store
	mirror  store.SettingsStore
	wg      sync.WaitGroup
}

func NewSettingsService(config SettingsServiceConfig) *SettingsService {
	return &SettingsService{
		durable: config.Durable,
		mirror:  config.Mirror,
	}
}

/*
Load reads the settings document, preferring the mirror and falling back
to the durable store when the mirror is absent or unreadable. No usable
document anywhere yields the seeded defaults.
*/
func (s *SettingsService) Load() models.SiteState {
	var (
		err error
		raw []byte
	)

	state := models.NewSiteState()

	if s.mirror != nil {
		if raw, err = s.mirror.GetSettings(); err != nil {
			slog.Error("error reading settings mirror", "error", err)
		}

		if doc, ok := settings.Parse(raw); ok {
			settings.Apply(doc, &state)
			return state
		}
	}

	if raw, err = s.durable.GetSettings(); err != nil {
		slog.Error("error reading settings", "error", err)
		return state
	}

	if doc, ok := settings.Parse(raw); ok {
		settings.Apply(doc, &state)
	}

	return state
}

func (s *SettingsService) Save(state models.SiteState) {
	var (
		err error
		raw []byte
	)

	if raw, err = settings.Marshal(settings.Encode(state)); err != nil {
		slog.Error("error encoding settings", "error", err)
		return
	}

	if s.mirror != nil {
		if err = s.mirror.PutSettings(raw); err != nil {
			slog.Error("error writing settings mirror", "error", err)
		}
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		if err := s.durable.PutSettings(raw); err != nil {
			slog.Error("error writing settings", "error", err)
		}
	}()
}

// Flush waits for in-flight durable writes. Shutdown and tests.
func (s *SettingsService) Flush() {
	s.wg.Wait()
}
