package viewmodels

import (
	"html/template"

	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/services"
)

type HomePage struct {
	BaseViewModel
	Access        services.AccessState
	Content       models.Content
	TextOverrides map[string]string
	Theme         models.Theme
	ThemeCSS      template.CSS
	Hero          models.GalleryItem
	HeroHeight    float64
	HeroScale     float64
	Gallery       []models.GalleryItem
	GalleryScale  float64
	Albums        []AlbumCard
	AlbumHeight   float64
	Timeline      []models.TimelineItem
	TotalSizeMB   float64
}

/*
AlbumCard is one album tile: the album record plus its derived cover
and theme override, resolved for display.
*/
type AlbumCard struct {
	Album      models.Album
	CoverSrc   string
	CoverType  models.MediaType
	Theme      *models.Theme
	IsSelected bool
	Uploads    []models.GalleryItem
}
