package viewmodels

import (
	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/services"
)

type EditorPage struct {
	BaseViewModel
	Access          services.AccessState
	AuthError       string
	Content         models.Content
	TextOverrides   map[string]string
	GlobalTheme     models.Theme
	AlbumThemes     map[string]models.Theme
	Albums          []models.Album
	SelectedAlbumID string
	HeroSourceID    string
	HeroHeight      float64
	HeroScale       float64
	AlbumHeight     float64
	GalleryScale    float64
	Timeline        []models.TimelineItem
	CanUndo         bool
	CanRedo         bool
}
