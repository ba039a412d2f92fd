package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/adampresley/sundayalbum/pkg/models"
)

const (
	galleryTargetTotal = 20
	galleryMinPerAlbum = 3
	timelineFeedSize   = 3
)

// StateReader is the read side of the editor state.
type StateReader interface {
	Current() models.SiteState
}

// UploadReader is the read side of the upload list.
type UploadReader interface {
	All() []models.GalleryItem
	ListByAlbum(albumID string) []models.GalleryItem
}

type GalleryServicer interface {
	Hero() models.GalleryItem
	GalleryFeed() []models.GalleryItem
	UploadsByAlbum(albumID string) []models.GalleryItem
	Albums() []models.Album
	VisibleTimeline(now time.Time) []models.TimelineItem
}

type GalleryServiceConfig struct {
	State   StateReader
	Uploads UploadReader
}

/*
GalleryService derives the read models the pages render: the hero item,
the mixed gallery feed, per-album upload lists, and the timeline. It
holds no state of its own; every call derives from current state.
*/
type GalleryService struct {
	state   StateReader
	uploads UploadReader
}

func NewGalleryService(config GalleryServiceConfig) GalleryService {
	return GalleryService{
		state:   config.State,
		uploads: config.Uploads,
	}
}

/*
Hero resolves the featured item: the hero source album's cover upload,
or its first upload, or its static fallback cover, or the built-in
default when no hero source is selected. The card text always comes
from the editable content, never from the album.
*/
func (s GalleryService) Hero() models.GalleryItem {
	state := s.state.Current()

	if state.HeroSourceID != "" {
		if album := state.FindAlbum(state.HeroSourceID); album != nil {
			uploads := coverFirst(s.uploads.ListByAlbum(album.ID), album.CoverID)

			if len(uploads) > 0 {
				hero := uploads[0]
				hero.MediaID = hero.MediaKey()
				hero.ID = "hero-" + hero.ID
				hero.Title = state.Content.HeroCardTitle
				hero.Detail = state.Content.HeroCardDetail
				return hero
			}

			return models.GalleryItem{
				ID:     "hero-" + album.ID,
				Title:  state.Content.HeroCardTitle,
				Detail: state.Content.HeroCardDetail,
				Src:    album.Src,
				Alt:    album.Alt,
				Type:   album.Type,
			}
		}
	}

	return models.GalleryItem{
		ID:     "hero-default",
		Title:  state.Content.HeroCardTitle,
		Detail: state.Content.HeroCardDetail,
		Src:    models.DefaultHeroSrc,
		Alt:    models.DefaultHeroAlt,
		Type:   models.MediaTypeImage,
	}
}

/*
GalleryFeed builds the mixed feed: hero first, then a deterministic
subset drawn evenly from every album that has uploads. The hero source
album is left out entirely, so its items never show twice. Within each
album the subset is ordered by a stable key over the item's identity,
and albums keep their configured order, so the same inputs always
produce the same feed.
*/
func (s GalleryService) GalleryFeed() []models.GalleryItem {
	state := s.state.Current()

	withUploads := [][]models.GalleryItem{}

	for _, album := range state.Albums {
		if album.ID == state.HeroSourceID {
			continue
		}

		uploads := coverFirst(s.uploads.ListByAlbum(album.ID), album.CoverID)

		if len(uploads) == 0 {
			continue
		}

		for i := range uploads {
			uploads[i].Title = album.Title
			uploads[i].Detail = album.Date
		}

		withUploads = append(withUploads, uploads)
	}

	feed := []models.GalleryItem{s.Hero()}

	if len(withUploads) == 0 {
		return feed
	}

	quota := galleryMinPerAlbum

	if len(withUploads)*galleryMinPerAlbum < galleryTargetTotal {
		quota = (galleryTargetTotal + len(withUploads) - 1) / len(withUploads)
	}

	mixed := []models.GalleryItem{}

	for _, uploads := range withUploads {
		subset := make([]models.GalleryItem, len(uploads))
		copy(subset, uploads)

		sort.SliceStable(subset, func(i, j int) bool {
			return mixKey(subset[i].ID) < mixKey(subset[j].ID)
		})

		if len(subset) > quota {
			subset = subset[:quota]
		}

		mixed = append(mixed, subset...)
	}

	return append(feed, mixed...)
}

/*
mixKey is the stable ordering key for gallery mixing: the code point of
the identity's last character plus its length. Deterministic and cheap;
reproducibility is the goal, not distribution quality.
*/
func mixKey(id string) int {
	if id == "" {
		return 0
	}

	runes := []rune(id)
	return int(runes[len(runes)-1]) + len(id)
}

// UploadsByAlbum returns an album's uploads with its cover first.
func (s GalleryService) UploadsByAlbum(albumID string) []models.GalleryItem {
	state := s.state.Current()
	coverID := ""

	if album := state.FindAlbum(albumID); album != nil {
		coverID = album.CoverID
	}

	return coverFirst(s.uploads.ListByAlbum(albumID), coverID)
}

/*
coverFirst moves the cover upload to index 0, keeping the relative
order of everything else.
*/
func coverFirst(uploads []models.GalleryItem, coverID string) []models.GalleryItem {
	if coverID == "" {
		return uploads
	}

	for i := range uploads {
		if uploads[i].ID != coverID {
			continue
		}

		result := make([]models.GalleryItem, 0, len(uploads))
		result = append(result, uploads[i])
		result = append(result, uploads[:i]...)
		result = append(result, uploads[i+1:]...)
		return result
	}

	return uploads
}

/*
Albums returns the album list with live counts: albums holding uploads
report their actual photo and video totals instead of the seeded text.
*/
func (s GalleryService) Albums() []models.Album {
	state := s.state.Current()
	result := make([]models.Album, len(state.Albums))
	copy(result, state.Albums)

	for i := range result {
		uploads := s.uploads.ListByAlbum(result[i].ID)

		if len(uploads) == 0 {
			continue
		}

		photos := 0
		videos := 0

		for _, upload := range uploads {
			if upload.Type == models.MediaTypeVideo {
				videos++
			} else {
				photos++
			}
		}

		result[i].Count = formatCount(photos, videos)
	}

	return result
}

func formatCount(photos, videos int) string {
	switch {
	case photos > 0 && videos > 0:
		return fmt.Sprintf("%d photos · %d videos", photos, videos)
	case videos > 0:
		return fmt.Sprintf("%d videos", videos)
	default:
		return fmt.Sprintf("%d photos", photos)
	}
}

/*
VisibleTimeline returns the curated timeline verbatim until enough
uploads exist, then switches to a generated feed of the three most
recent uploads. Generated entries are views over uploads, never
editable or deletable.
*/
func (s GalleryService) VisibleTimeline(now time.Time) []models.TimelineItem {
	state := s.state.Current()
	uploads := s.uploads.All()

	if len(uploads) < timelineFeedSize {
		return state.Timeline
	}

	sorted := make([]models.GalleryItem, len(uploads))
	copy(sorted, uploads)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	result := make([]models.TimelineItem, 0, timelineFeedSize)

	for _, upload := range sorted[:timelineFeedSize] {
		title := upload.Title
		detail := upload.FileSize

		if album := state.FindAlbum(upload.AlbumID); album != nil {
			title = album.Title
			detail = album.Date
		}

		result = append(result, models.TimelineItem{
			ID:          "moment-" + upload.ID,
			Date:        dateLabel(time.UnixMilli(upload.Timestamp), now),
			Title:       title,
			Detail:      detail,
			Src:         upload.Src,
			Alt:         upload.Alt,
			Type:        upload.Type,
			VideoSrc:    upload.VideoSrc,
			IsGenerated: true,
		})
	}

	return result
}

// dateLabel renders Today, Yesterday, or a short date.
func dateLabel(when, now time.Time) string {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch day(now).Sub(day(when)) / (24 * time.Hour) {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return when.Format("Jan 2")
	}
}
