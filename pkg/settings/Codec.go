package settings

import (
	"encoding/json"

	"github.com/adampresley/sundayalbum/pkg/models"
)

/*
Encode produces a complete document from the current state. It is cheap,
synchronous, and safe to call on every state change.
*/
func Encode(state models.SiteState) Document {
	s := state.Clone()

	return Document{
		Version:          CurrentVersion,
		Content:          &s.Content,
		HeroHeight:       &s.HeroHeight,
		HeroScale:        &s.HeroScale,
		AlbumImageHeight: &s.AlbumImageHeight,
		GalleryScale:     &s.GalleryScale,
		HeroSourceID:     &s.HeroSourceID,
		ImageEdits:       s.ImageEdits,
		ImageNotes:       s.ImageNotes,
		Albums:           s.Albums,
		SelectedAlbumID:  &s.SelectedAlbumID,
		Timeline:         s.Timeline,
		TextOverrides:    s.TextOverrides,
		GlobalTheme:      &s.GlobalTheme,
		AlbumThemes:      s.AlbumThemes,
	}
}

// Marshal renders the document as JSON.
func Marshal(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

/*
Parse reads a persisted document. Malformed or empty input is treated as
"no settings found" and reported through ok, never as an error.
*/
func Parse(raw []byte) (Document, bool) {
	var doc Document

	if len(raw) == 0 {
		return doc, false
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, false
	}

	return doc, true
}

/*
Apply copies only the fields present in the document onto the state.
Absent fields keep their current values. A persisted empty timeline
never replaces the seeded one.
*/
func Apply(doc Document, state *models.SiteState) {
	if doc.Content != nil {
		state.Content = *doc.Content
	}

	if doc.HeroHeight != nil {
		state.HeroHeight = *doc.HeroHeight
	}

	if doc.HeroScale != nil {
		state.HeroScale = *doc.HeroScale
	}

	if doc.AlbumImageHeight != nil {
		state.AlbumImageHeight = *doc.AlbumImageHeight
	}

	if doc.GalleryScale != nil {
		state.GalleryScale = *doc.GalleryScale
	}

	if doc.HeroSourceID != nil {
		state.HeroSourceID = *doc.HeroSourceID
	}

	if doc.ImageEdits != nil {
		state.ImageEdits = models.CopyImageEditMap(doc.ImageEdits)
	}

	if doc.ImageNotes != nil {
		state.ImageNotes = models.CopyStringMap(doc.ImageNotes)
	}

	if doc.Albums != nil {
		state.Albums = make([]models.Album, len(doc.Albums))
		copy(state.Albums, doc.Albums)
	}

	if doc.SelectedAlbumID != nil {
		state.SelectedAlbumID = *doc.SelectedAlbumID
	}

	if len(doc.Timeline) > 0 {
		state.Timeline = make([]models.TimelineItem, len(doc.Timeline))
		copy(state.Timeline, doc.Timeline)
	}

	if doc.TextOverrides != nil {
		state.TextOverrides = models.CopyStringMap(doc.TextOverrides)
	}

	if doc.GlobalTheme != nil {
		state.GlobalTheme = *doc.GlobalTheme
	}

	if doc.AlbumThemes != nil {
		state.AlbumThemes = models.CopyThemeMap(doc.AlbumThemes)
	}

	if doc.Version < CurrentVersion {
		migrate(state)
	}
}

/*
migrate normalizes state loaded from pre-versioned documents, which
could omit enum fields added after the document was written.
*/
func migrate(state *models.SiteState) {
	state.GlobalTheme.Normalize()

	for id, theme := range state.AlbumThemes {
		theme.Normalize()
		state.AlbumThemes[id] = theme
	}
}
