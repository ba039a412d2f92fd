package home

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/sundayalbum/cmd/website/internal/viewmodels"
	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/services"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	Editor   services.EditorServicer
	Gallery  services.GalleryServicer
	Renderer rendering.TemplateRenderer
	Uploads  services.UploadServicer
}

type HomeController struct {
	editor   services.EditorServicer
	gallery  services.GalleryServicer
	renderer rendering.TemplateRenderer
	uploads  services.UploadServicer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		editor:   config.Editor,
		gallery:  config.Gallery,
		renderer: config.Renderer,
		uploads:  config.Uploads,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"
	state := c.editor.Current()

	content := state.Content
	content.Merge(state.TextOverrides)

	theme := state.GlobalTheme

	if override, ok := state.AlbumThemes[state.SelectedAlbumID]; ok {
		theme = override
	}

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/pages/home.js"},
			},
		},
		Access:        c.editor.Access(),
		Content:       content,
		TextOverrides: state.TextOverrides,
		Theme:         theme,
		ThemeCSS:      themeCSS(theme, state),
		Hero:          c.gallery.Hero(),
		HeroHeight:    state.HeroHeight,
		HeroScale:     state.HeroScale,
		Gallery:       c.gallery.GalleryFeed(),
		GalleryScale:  state.GalleryScale,
		AlbumHeight:   state.AlbumImageHeight,
		Timeline:      c.gallery.VisibleTimeline(time.Now()),
		TotalSizeMB:   c.uploads.TotalSizeMB(),
	}

	for _, album := range c.gallery.Albums() {
		viewData.Albums = append(viewData.Albums, c.albumCard(state, album))
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
albumCard resolves the album's display cover: the cover upload, or its
first upload, or the album's static fallback image.
*/
func (c HomeController) albumCard(state models.SiteState, album models.Album) viewmodels.AlbumCard {
	card := viewmodels.AlbumCard{
		Album:      album,
		CoverSrc:   album.Src,
		CoverType:  album.Type,
		IsSelected: album.ID == state.SelectedAlbumID,
		Uploads:    c.gallery.UploadsByAlbum(album.ID),
	}

	if len(card.Uploads) > 0 {
		card.CoverSrc = card.Uploads[0].Src
		card.CoverType = card.Uploads[0].Type
	}

	if theme, ok := state.AlbumThemes[album.ID]; ok {
		card.Theme = &theme
	}

	return card
}

/*
themeCSS renders the active theme as a :root custom property block. The
result is marked safe so the quoted font stacks survive template
escaping.
*/
func themeCSS(theme models.Theme, state models.SiteState) template.CSS {
	css := fmt.Sprintf(`:root {
   --paper: %s;
   --paper-2: %s;
   --ink: %s;
   --accent: %s;
   --muted: %s;
   --olive: %s;
   --shadow: %s;
   --font-display: %s;
   --font-body: %s;
   --hero-height: %gpx;
   --album-height: %gpx;
}`,
		theme.Palette.Paper,
		theme.Palette.Paper2,
		theme.Palette.Ink,
		theme.Palette.Accent,
		theme.Palette.Muted,
		theme.Palette.Olive,
		theme.Palette.Shadow,
		theme.Fonts.Display,
		theme.Fonts.Body,
		state.HeroHeight,
		state.AlbumImageHeight,
	)

	return template.CSS(css)
}
