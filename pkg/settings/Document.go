package settings

import (
	"github.com/adampresley/sundayalbum/pkg/models"
)

// CurrentVersion is stamped on every encoded document. Documents with a
// lower (or absent) version pass through a normalization step on apply.
const CurrentVersion = 1

/*
Document is the persisted settings payload. Every field is optional:
absent keys on read mean "use the current in-memory default," never an
error. Encode always produces a complete document.
*/
type Document struct {
	Version          int                         `json:"version,omitempty"`
	Content          *models.Content             `json:"content,omitempty"`
	HeroHeight       *float64                    `json:"heroHeight,omitempty"`
	HeroScale        *float64                    `json:"heroScale,omitempty"`
	AlbumImageHeight *float64                    `json:"albumImageHeight,omitempty"`
	GalleryScale     *float64                    `json:"galleryScale,omitempty"`
	HeroSourceID     *string                     `json:"heroSourceId,omitempty"`
	ImageEdits       map[string]models.ImageEdit `json:"imageEdits,omitempty"`
	ImageNotes       map[string]string           `json:"imageNotes,omitempty"`
	Albums           []models.Album              `json:"albums,omitempty"`
	SelectedAlbumID  *string                     `json:"selectedAlbumId,omitempty"`
	Timeline         []models.TimelineItem       `json:"timeline,omitempty"`
	TextOverrides    map[string]string           `json:"textOverrides,omitempty"`
	GlobalTheme      *models.Theme               `json:"globalTheme,omitempty"`
	AlbumThemes      map[string]models.Theme     `json:"albumThemes,omitempty"`
}
