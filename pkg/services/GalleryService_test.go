package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	state models.SiteState
}

func (f *fakeState) Current() models.SiteState {
	return f.state.Clone()
}

type fakeUploadReader struct {
	items []models.GalleryItem
}

func (f *fakeUploadReader) All() []models.GalleryItem {
	return f.items
}

func (f *fakeUploadReader) ListByAlbum(albumID string) []models.GalleryItem {
	result := []models.GalleryItem{}

	for _, item := range f.items {
		if item.AlbumID == albumID {
			result = append(result, item)
		}
	}

	return result
}

func newTestGallery(uploads ...models.GalleryItem) (GalleryService, *fakeState, *fakeUploadReader) {
	state := &fakeState{state: models.NewSiteState()}
	reader := &fakeUploadReader{items: uploads}

	service := NewGalleryService(GalleryServiceConfig{
		State:   state,
		Uploads: reader,
	})

	return service, state, reader
}

func upload(id, albumID string, timestamp int64) models.GalleryItem {
	return models.GalleryItem{
		ID:        id,
		Title:     id,
		Src:       "/media/" + id,
		Type:      models.MediaTypeImage,
		AlbumID:   albumID,
		Timestamp: timestamp,
	}
}

func TestHeroResolution(t *testing.T) {
	t.Run("DefaultHeroWhenNoSource", func(t *testing.T) {
		service, _, _ := newTestGallery()

		hero := service.Hero()
		assert.Equal(t, "hero-default", hero.ID)
		assert.Equal(t, models.DefaultHeroSrc, hero.Src)
	})

	t.Run("AlbumFallbackCoverWhenNoUploads", func(t *testing.T) {
		service, state, _ := newTestGallery()
		state.state.HeroSourceID = "album-snow-walks"

		hero := service.Hero()
		assert.Equal(t, "hero-album-snow-walks", hero.ID)
		assert.Equal(t, "/static/media/album-snow-walks.svg", hero.Src)
	})

	t.Run("CardTextComesFromContent", func(t *testing.T) {
		service, state, _ := newTestGallery(upload("u1", "album-snow-walks", 1))
		state.state.HeroSourceID = "album-snow-walks"
		state.state.Content.HeroCardTitle = "Sunday light"
		state.state.Content.HeroCardDetail = "7:06 AM · 4 photos"

		hero := service.Hero()
		assert.Equal(t, "Sunday light", hero.Title)
		assert.Equal(t, "7:06 AM · 4 photos", hero.Detail)
	})

	t.Run("FirstUploadWhenNoCoverSet", func(t *testing.T) {
		service, state, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
			upload("u2", "album-snow-walks", 2),
		)
		state.state.HeroSourceID = "album-snow-walks"

		hero := service.Hero()
		assert.Equal(t, "hero-u1", hero.ID)
		assert.Equal(t, "u1", hero.MediaID)
	})

	t.Run("CoverUploadWins", func(t *testing.T) {
		service, state, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
			upload("u2", "album-snow-walks", 2),
		)
		state.state.HeroSourceID = "album-snow-walks"
		state.state.FindAlbum("album-snow-walks").CoverID = "u2"

		hero := service.Hero()
		assert.Equal(t, "hero-u2", hero.ID)
	})

	t.Run("UnknownSourceFallsBackToDefault", func(t *testing.T) {
		service, state, _ := newTestGallery()
		state.state.HeroSourceID = "album-gone"

		assert.Equal(t, "hero-default", service.Hero().ID)
	})
}

func TestGalleryFeed(t *testing.T) {
	t.Run("HeroIsAlwaysFirst", func(t *testing.T) {
		service, _, _ := newTestGallery(upload("u1", "album-snow-walks", 1))

		feed := service.GalleryFeed()
		require.NotEmpty(t, feed)
		assert.Equal(t, "hero-default", feed[0].ID)
	})

	t.Run("FeedIsDeterministic", func(t *testing.T) {
		uploads := []models.GalleryItem{}

		for i := 0; i < 8; i++ {
			uploads = append(uploads, upload(fmt.Sprintf("u%d", i), "album-snow-walks", int64(i)))
			uploads = append(uploads, upload(fmt.Sprintf("v%d", i), "album-winter-kitchen", int64(i)))
		}

		service, _, _ := newTestGallery(uploads...)

		first := service.GalleryFeed()
		second := service.GalleryFeed()
		assert.Equal(t, first, second)
	})

	t.Run("QuotaSpreadsAcrossAlbums", func(t *testing.T) {
		uploads := []models.GalleryItem{}

		for album := 0; album < 2; album++ {
			albumID := []string{"album-snow-walks", "album-winter-kitchen"}[album]

			for i := 0; i < 15; i++ {
				uploads = append(uploads, upload(fmt.Sprintf("a%d-u%02d", album, i), albumID, int64(i)))
			}
		}

		service, _, _ := newTestGallery(uploads...)

		// 2 albums with uploads, quota ceil(20/2)=10, plus the hero.
		feed := service.GalleryFeed()
		assert.Len(t, feed, 21)
	})

	t.Run("ManyAlbumsFloorAtMinimum", func(t *testing.T) {
		uploads := []models.GalleryItem{}
		state := models.NewSiteState()
		state.Albums = nil

		for album := 0; album < 7; album++ {
			albumID := fmt.Sprintf("album-%d", album)
			state.Albums = append(state.Albums, models.Album{ID: albumID, Title: albumID})

			for i := 0; i < 5; i++ {
				uploads = append(uploads, upload(fmt.Sprintf("a%d-u%d", album, i), albumID, int64(i)))
			}
		}

		service, fake, _ := newTestGallery(uploads...)
		fake.state = state

		// 7 albums * min 3 = 21 >= 20, so quota stays at 3.
		feed := service.GalleryFeed()
		assert.Len(t, feed, 22)
	})

	t.Run("HeroSourceAlbumStaysOutOfTheMix", func(t *testing.T) {
		service, state, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
			upload("u2", "album-snow-walks", 2),
			upload("v1", "album-winter-kitchen", 1),
		)
		state.state.HeroSourceID = "album-snow-walks"

		feed := service.GalleryFeed()

		for _, item := range feed[1:] {
			assert.Equal(t, "album-winter-kitchen", item.AlbumID)
		}
	})

	t.Run("AlbumsStayGroupedInConfiguredOrder", func(t *testing.T) {
		service, _, _ := newTestGallery(
			upload("v1", "album-winter-kitchen", 1),
			upload("u1", "album-snow-walks", 1),
			upload("v2", "album-winter-kitchen", 2),
			upload("u2", "album-snow-walks", 2),
		)

		feed := service.GalleryFeed()
		require.Len(t, feed, 5)

		// album-winter-kitchen is first in the seeded album list.
		assert.Equal(t, "album-winter-kitchen", feed[1].AlbumID)
		assert.Equal(t, "album-winter-kitchen", feed[2].AlbumID)
		assert.Equal(t, "album-snow-walks", feed[3].AlbumID)
		assert.Equal(t, "album-snow-walks", feed[4].AlbumID)
	})

	t.Run("FeedItemsCarryAlbumTitle", func(t *testing.T) {
		service, _, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
		)

		feed := service.GalleryFeed()
		require.Len(t, feed, 2)
		assert.Equal(t, "Snow Walks", feed[1].Title)
		assert.Equal(t, "Dec 2025", feed[1].Detail)
	})
}

func TestCoverReordering(t *testing.T) {
	t.Run("CoverMovesToFrontOthersKeepOrder", func(t *testing.T) {
		service, state, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
			upload("u2", "album-snow-walks", 2),
			upload("u3", "album-snow-walks", 3),
		)
		state.state.FindAlbum("album-snow-walks").CoverID = "u3"

		uploads := service.UploadsByAlbum("album-snow-walks")
		require.Len(t, uploads, 3)
		assert.Equal(t, "u3", uploads[0].ID)
		assert.Equal(t, "u1", uploads[1].ID)
		assert.Equal(t, "u2", uploads[2].ID)
	})

	t.Run("UnknownCoverLeavesOrderAlone", func(t *testing.T) {
		service, state, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
			upload("u2", "album-snow-walks", 2),
		)
		state.state.FindAlbum("album-snow-walks").CoverID = "gone"

		uploads := service.UploadsByAlbum("album-snow-walks")
		assert.Equal(t, "u1", uploads[0].ID)
	})
}

func TestAlbumCounts(t *testing.T) {
	t.Run("LiveCountsForAlbumsWithUploads", func(t *testing.T) {
		service, _, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
			upload("u2", "album-snow-walks", 2),
			models.GalleryItem{ID: "v1", AlbumID: "album-snow-walks", Type: models.MediaTypeVideo},
		)

		albums := service.Albums()

		var snowWalks *models.Album

		for i := range albums {
			if albums[i].ID == "album-snow-walks" {
				snowWalks = &albums[i]
			}
		}

		require.NotNil(t, snowWalks)
		assert.Equal(t, "2 photos · 1 videos", snowWalks.Count)
	})

	t.Run("SeededCountKeptForEmptyAlbums", func(t *testing.T) {
		service, _, _ := newTestGallery()

		albums := service.Albums()
		assert.Equal(t, "18 photos", albums[0].Count)
	})
}

func TestVisibleTimeline(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.Local)

	t.Run("CuratedListWhenFewUploads", func(t *testing.T) {
		service, _, _ := newTestGallery(
			upload("u1", "album-snow-walks", 1),
			upload("u2", "album-snow-walks", 2),
		)

		timeline := service.VisibleTimeline(now)
		require.Len(t, timeline, 3)
		assert.Equal(t, "moment-snow-window", timeline[0].ID)
		assert.False(t, timeline[0].IsGenerated)
	})

	t.Run("GeneratedFeedWhenEnoughUploads", func(t *testing.T) {
		today := now.Add(-2 * time.Hour).UnixMilli()
		yesterday := now.Add(-26 * time.Hour).UnixMilli()
		older := now.Add(-5 * 24 * time.Hour).UnixMilli()
		oldest := now.Add(-9 * 24 * time.Hour).UnixMilli()

		service, _, _ := newTestGallery(
			upload("u-old", "album-snow-walks", oldest),
			upload("u-today", "album-snow-walks", today),
			upload("u-older", "album-snow-walks", older),
			upload("u-yesterday", "album-snow-walks", yesterday),
		)

		timeline := service.VisibleTimeline(now)
		require.Len(t, timeline, 3)

		assert.Equal(t, "moment-u-today", timeline[0].ID)
		assert.Equal(t, "Today", timeline[0].Date)
		assert.Equal(t, "Yesterday", timeline[1].Date)
		assert.Equal(t, "Feb 5", timeline[2].Date)

		for _, item := range timeline {
			assert.True(t, item.IsGenerated)
			assert.Equal(t, "Snow Walks", item.Title)
			assert.Equal(t, "Dec 2025", item.Detail)
		}
	})

	t.Run("GeneratedEntriesLabelUploadsFromUnknownAlbumsByFile", func(t *testing.T) {
		item := upload("u1", "album-gone", now.UnixMilli())
		item.FileSize = "2.0 MB"

		service, _, _ := newTestGallery(
			item,
			upload("u2", "album-gone", now.UnixMilli()),
			upload("u3", "album-gone", now.UnixMilli()),
		)

		timeline := service.VisibleTimeline(now)
		require.Len(t, timeline, 3)
		assert.Equal(t, "u1", timeline[0].Title)
		assert.Equal(t, "2.0 MB", timeline[0].Detail)
	})
}
