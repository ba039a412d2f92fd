package editing

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/sundayalbum/cmd/website/internal/viewmodels"
	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/services"
)

type EditorControllerConfig struct {
	Editor   services.EditorServicer
	Renderer rendering.TemplateRenderer
}

/*
EditorController exposes the editing surface: the editor page itself
plus the mutation endpoints it posts to. Every mutation lands in the
editor service, which owns history, persistence, and broadcasting.
*/
type EditorController struct {
	editor   services.EditorServicer
	renderer rendering.TemplateRenderer
}

func NewEditorController(config EditorControllerConfig) EditorController {
	return EditorController{
		editor:   config.Editor,
		renderer: config.Renderer,
	}
}

/*
GET /editor
*/
func (c EditorController) EditorPage(w http.ResponseWriter, r *http.Request) {
	state := c.editor.Current()

	viewData := viewmodels.EditorPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/pages/editor.js"},
			},
		},
		Access:          c.editor.Access(),
		AuthError:       c.editor.AuthError(),
		Content:         state.Content,
		TextOverrides:   state.TextOverrides,
		GlobalTheme:     state.GlobalTheme,
		AlbumThemes:     state.AlbumThemes,
		Albums:          state.Albums,
		SelectedAlbumID: state.SelectedAlbumID,
		HeroSourceID:    state.HeroSourceID,
		HeroHeight:      state.HeroHeight,
		HeroScale:       state.HeroScale,
		AlbumHeight:     state.AlbumImageHeight,
		GalleryScale:    state.GalleryScale,
		Timeline:        state.Timeline,
		CanUndo:         c.editor.CanUndo(),
		CanRedo:         c.editor.CanRedo(),
	}

	c.renderer.Render("pages/editor", viewData, w)
}

/*
POST /editor/request
*/
func (c EditorController) RequestEdit(w http.ResponseWriter, r *http.Request) {
	c.editor.RequestEdit()
	c.writeAccess(w)
}

/*
POST /editor/password
*/
func (c EditorController) SubmitPassword(w http.ResponseWriter, r *http.Request) {
	password := httphelpers.GetFromRequest[string](r, "password")

	if !c.editor.SubmitPassword(password) {
		slog.Info("edit password rejected")
	}

	c.writeAccess(w)
}

/*
POST /editor/cancel
*/
func (c EditorController) CancelAuth(w http.ResponseWriter, r *http.Request) {
	c.editor.CancelAuth()
	c.writeAccess(w)
}

/*
POST /editor/close

The confirmed flag carries the user's answer to the unsaved-changes
prompt. Without it, a close with history pending is refused and the
client shows the prompt.
*/
func (c EditorController) CloseEditor(w http.ResponseWriter, r *http.Request) {
	confirmed := httphelpers.GetFromRequest[string](r, "confirmed") == "true"

	closed := c.editor.CloseEditor(func() bool {
		return confirmed
	})

	if !closed && c.editor.HasHistory() {
		httphelpers.WriteText(w, http.StatusConflict, "unsaved changes")
		return
	}

	c.writeAccess(w)
}

/*
POST /editor/surface-closed
*/
func (c EditorController) SurfaceClosed(w http.ResponseWriter, r *http.Request) {
	c.editor.SurfaceClosed()
	c.writeAccess(w)
}

/*
POST /editor/undo
*/
func (c EditorController) Undo(w http.ResponseWriter, r *http.Request) {
	c.editor.Undo()
	c.writeHistory(w)
}

/*
POST /editor/redo
*/
func (c EditorController) Redo(w http.ResponseWriter, r *http.Request) {
	c.editor.Redo()
	c.writeHistory(w)
}

/*
POST /editor/session/begin
*/
func (c EditorController) BeginSession(w http.ResponseWriter, r *http.Request) {
	c.editor.BeginSession()
	httphelpers.TextOK(w, "OK")
}

/*
POST /editor/session/end
*/
func (c EditorController) EndSession(w http.ResponseWriter, r *http.Request) {
	c.editor.EndSession()
	c.writeHistory(w)
}

/*
PUT /editor/content

Body is a JSON object of content field names to new values. Only the
named fields change.
*/
func (c EditorController) SetContent(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		fields map[string]string
	)

	if err = json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid content payload")
		return
	}

	c.editor.SetContent(fields)
	httphelpers.TextOK(w, "OK")
}

/*
PUT /editor/override/{key}
*/
func (c EditorController) SetTextOverride(w http.ResponseWriter, r *http.Request) {
	key := httphelpers.GetFromRequest[string](r, "key")
	value := httphelpers.GetFromRequest[string](r, "value")

	c.editor.SetTextOverride(key, value)
	httphelpers.TextOK(w, "OK")
}

/*
PUT /editor/theme
*/
func (c EditorController) SetGlobalTheme(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		theme models.Theme
	)

	if err = json.NewDecoder(r.Body).Decode(&theme); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid theme payload")
		return
	}

	c.editor.SetGlobalTheme(theme)
	httphelpers.TextOK(w, "OK")
}

/*
PUT /editor/theme/album/{id}
*/
func (c EditorController) SetAlbumTheme(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		theme models.Theme
	)

	id := httphelpers.GetFromRequest[string](r, "id")

	if err = json.NewDecoder(r.Body).Decode(&theme); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid theme payload")
		return
	}

	c.editor.SetAlbumTheme(id, theme)
	httphelpers.TextOK(w, "OK")
}

/*
DELETE /editor/theme/album/{id}
*/
func (c EditorController) ClearAlbumTheme(w http.ResponseWriter, r *http.Request) {
	c.editor.ClearAlbumTheme(httphelpers.GetFromRequest[string](r, "id"))
	httphelpers.TextOK(w, "OK")
}

/*
PUT /editor/layout
*/
func (c EditorController) SetLayout(w http.ResponseWriter, r *http.Request) {
	patch := services.LayoutPatch{}

	if value, ok := floatField(r, "heroHeight"); ok {
		patch.HeroHeight = &value
	}

	if value, ok := floatField(r, "heroScale"); ok {
		patch.HeroScale = &value
	}

	if value, ok := floatField(r, "albumImageHeight"); ok {
		patch.AlbumImageHeight = &value
	}

	if value, ok := floatField(r, "galleryScale"); ok {
		patch.GalleryScale = &value
	}

	c.editor.SetLayout(patch)
	httphelpers.TextOK(w, "OK")
}

/*
PUT /editor/hero-source
*/
func (c EditorController) SetHeroSource(w http.ResponseWriter, r *http.Request) {
	c.editor.SetHeroSource(httphelpers.GetFromRequest[string](r, "id"))
	httphelpers.TextOK(w, "OK")
}

/*
POST /albums
*/
func (c EditorController) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	title := httphelpers.GetFromRequest[string](r, "title")

	if title == "" {
		httphelpers.WriteText(w, http.StatusBadRequest, "album title is required")
		return
	}

	album := c.editor.CreateAlbum(title)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(album)
}

/*
PUT /albums/{id}
*/
func (c EditorController) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		patch models.AlbumPatch
	)

	id := httphelpers.GetFromRequest[string](r, "id")

	if err = json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid album payload")
		return
	}

	if !c.editor.UpdateAlbum(id, patch) {
		httphelpers.WriteText(w, http.StatusNotFound, "album not found")
		return
	}

	httphelpers.TextOK(w, "OK")
}

/*
DELETE /albums/{id}
*/
func (c EditorController) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id := httphelpers.GetFromRequest[string](r, "id")
	confirmed := httphelpers.GetFromRequest[string](r, "confirmed") == "true"

	deleted := c.editor.DeleteAlbum(id, func() bool {
		return confirmed
	})

	if !deleted {
		httphelpers.WriteText(w, http.StatusConflict, "album not deleted")
		return
	}

	httphelpers.TextOK(w, "OK")
}

/*
PUT /albums/{id}/select
*/
func (c EditorController) SelectAlbum(w http.ResponseWriter, r *http.Request) {
	c.editor.SelectAlbum(httphelpers.GetFromRequest[string](r, "id"))
	httphelpers.TextOK(w, "OK")
}

/*
PUT /timeline/{id}
*/
func (c EditorController) PatchTimeline(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		patch models.TimelineItemPatch
	)

	id := httphelpers.GetFromRequest[string](r, "id")

	if err = json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid timeline payload")
		return
	}

	if !c.editor.PatchTimeline(id, patch) {
		httphelpers.WriteText(w, http.StatusNotFound, "timeline item not found")
		return
	}

	httphelpers.TextOK(w, "OK")
}

/*
DELETE /timeline/{id}
*/
func (c EditorController) DeleteTimelineItem(w http.ResponseWriter, r *http.Request) {
	if !c.editor.DeleteTimelineItem(httphelpers.GetFromRequest[string](r, "id")) {
		httphelpers.WriteText(w, http.StatusNotFound, "timeline item not found")
		return
	}

	httphelpers.TextOK(w, "OK")
}

/*
PUT /editor/image-edit/{key}
*/
func (c EditorController) SetImageEdit(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		patch models.ImageEditPatch
	)

	key := httphelpers.GetFromRequest[string](r, "key")

	if err = json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid image edit payload")
		return
	}

	c.editor.SetImageEdit(key, patch)
	httphelpers.TextOK(w, "OK")
}

/*
DELETE /editor/image-edit/{key}
*/
func (c EditorController) ClearImageEdit(w http.ResponseWriter, r *http.Request) {
	c.editor.ClearImageEdit(httphelpers.GetFromRequest[string](r, "key"))
	httphelpers.TextOK(w, "OK")
}

/*
PUT /editor/image-note/{key}
*/
func (c EditorController) SetImageNote(w http.ResponseWriter, r *http.Request) {
	key := httphelpers.GetFromRequest[string](r, "key")
	note := httphelpers.GetFromRequest[string](r, "note")

	c.editor.SetImageNote(key, note)
	httphelpers.TextOK(w, "OK")
}

func (c EditorController) writeAccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(map[string]string{
		"access":    string(c.editor.Access()),
		"authError": c.editor.AuthError(),
	})
}

func (c EditorController) writeHistory(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(map[string]bool{
		"canUndo": c.editor.CanUndo(),
		"canRedo": c.editor.CanRedo(),
	})
}

func floatField(r *http.Request, name string) (float64, bool) {
	raw := httphelpers.GetFromRequest[string](r, name)

	if raw == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)

	if err != nil {
		return 0, false
	}

	return value, true
}
