package models

/*
SiteState is the aggregate editable state of the site. Its encoded form
is the settings document, written as a whole on every relevant change
and read as a whole at startup.
*/
type SiteState struct {
	Content          Content
	TextOverrides    map[string]string
	GlobalTheme      Theme
	AlbumThemes      map[string]Theme
	HeroHeight       float64
	HeroScale        float64
	AlbumImageHeight float64
	GalleryScale     float64
	HeroSourceID     string
	ImageEdits       map[string]ImageEdit
	ImageNotes       map[string]string
	Albums           []Album
	SelectedAlbumID  string
	Timeline         []TimelineItem
}

// NewSiteState returns the state seeded at first load.
func NewSiteState() SiteState {
	albums := SeedAlbums()

	selected := ""

	if len(albums) > 0 {
		selected = albums[0].ID
	}

	return SiteState{
		Content:          DefaultContent(),
		TextOverrides:    map[string]string{},
		GlobalTheme:      DefaultTheme(),
		AlbumThemes:      map[string]Theme{},
		HeroHeight:       256,
		HeroScale:        1,
		AlbumImageHeight: 160,
		GalleryScale:     1,
		HeroSourceID:     "",
		ImageEdits:       map[string]ImageEdit{},
		ImageNotes:       map[string]string{},
		Albums:           albums,
		SelectedAlbumID:  selected,
		Timeline:         SeedTimeline(),
	}
}

// Clone returns a deep copy safe to mutate independently.
func (s SiteState) Clone() SiteState {
	result := s
	result.TextOverrides = CopyStringMap(s.TextOverrides)
	result.AlbumThemes = CopyThemeMap(s.AlbumThemes)
	result.ImageEdits = CopyImageEditMap(s.ImageEdits)
	result.ImageNotes = CopyStringMap(s.ImageNotes)

	result.Albums = make([]Album, len(s.Albums))
	copy(result.Albums, s.Albums)

	result.Timeline = make([]TimelineItem, len(s.Timeline))
	copy(result.Timeline, s.Timeline)

	return result
}

// FindAlbum returns the album with the given ID, or nil.
func (s *SiteState) FindAlbum(id string) *Album {
	for i := range s.Albums {
		if s.Albums[i].ID == id {
			return &s.Albums[i]
		}
	}

	return nil
}
