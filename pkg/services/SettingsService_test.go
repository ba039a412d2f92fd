package services

import (
	"path/filepath"
	"testing"

	"github.com/adampresley/sundayalbum/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettings(t *testing.T) (*SettingsService, store.Store, store.SettingsStore) {
	t.Helper()

	durable := store.NewMemoryStore()
	mirror := store.NewMirrorStore(filepath.Join(t.TempDir(), "settings.json"))

	service := NewSettingsService(SettingsServiceConfig{
		Durable: durable,
		Mirror:  mirror,
	})

	return service, durable, mirror
}

func TestSettingsService(t *testing.T) {
	t.Run("LoadWithoutSavedSettingsSeedsDefaults", func(t *testing.T) {
		service, _, _ := newTestSettings(t)

		state := service.Load()
		assert.Equal(t, "Sunday Album", state.Content.SiteTitle)
		assert.Len(t, state.Albums, 4)
		assert.Equal(t, state.Albums[0].ID, state.SelectedAlbumID)
	})

	t.Run("SaveThenLoadRoundTrips", func(t *testing.T) {
		service, _, _ := newTestSettings(t)

		state := service.Load()
		state.Content.SiteTitle = "Renamed"
		state.HeroHeight = 320

		service.Save(state)
		service.Flush()

		loaded := service.Load()
		assert.Equal(t, "Renamed", loaded.Content.SiteTitle)
		assert.Equal(t, float64(320), loaded.HeroHeight)
	})

	t.Run("SaveWritesBothBackends", func(t *testing.T) {
		service, durable, mirror := newTestSettings(t)

		service.Save(service.Load())
		service.Flush()

		fromMirror, err := mirror.GetSettings()
		require.NoError(t, err)
		assert.NotEmpty(t, fromMirror)

		fromDurable, err := durable.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, string(fromMirror), string(fromDurable))
	})

	t.Run("MirrorIsPreferredOnLoad", func(t *testing.T) {
		service, durable, mirror := newTestSettings(t)

		require.NoError(t, durable.PutSettings([]byte(`{"version":1,"heroHeight":100}`)))
		require.NoError(t, mirror.PutSettings([]byte(`{"version":1,"heroHeight":200}`)))

		state := service.Load()
		assert.Equal(t, float64(200), state.HeroHeight)
	})

	t.Run("FallsBackToDurableWhenMirrorEmpty", func(t *testing.T) {
		service, durable, _ := newTestSettings(t)

		require.NoError(t, durable.PutSettings([]byte(`{"version":1,"heroHeight":100}`)))

		state := service.Load()
		assert.Equal(t, float64(100), state.HeroHeight)
	})

	t.Run("CorruptMirrorFallsBackToDurable", func(t *testing.T) {
		service, durable, mirror := newTestSettings(t)

		require.NoError(t, durable.PutSettings([]byte(`{"version":1,"heroHeight":100}`)))
		require.NoError(t, mirror.PutSettings([]byte(`{{{not json`)))

		state := service.Load()
		assert.Equal(t, float64(100), state.HeroHeight)
	})

	t.Run("CorruptSettingsFallBackToDefaults", func(t *testing.T) {
		service, durable, _ := newTestSettings(t)

		require.NoError(t, durable.PutSettings([]byte(`{{{not json`)))

		state := service.Load()
		assert.Equal(t, "Sunday Album", state.Content.SiteTitle)
	})
}
