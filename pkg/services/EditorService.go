package services

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/pubsub"
)

type AccessState string

const (
	AccessView           AccessState = "view"
	AccessAuthenticating AccessState = "authenticating"
	AccessEdit           AccessState = "edit"
)

/*
EditorSurface is the detached editor window. Its lifecycle is tied to
edit mode: entering edit opens it, leaving edit closes it.
*/
type EditorSurface interface {
	Open()
	Close()
}

// EditorUploads is the slice of the upload service the editor needs.
type EditorUploads interface {
	Remove(id string) bool
	ListByAlbum(albumID string) []models.GalleryItem
}

type EditorServicer interface {
	Access() AccessState
	AuthError() string
	RequestEdit()
	SubmitPassword(password string) bool
	CancelAuth()
	CloseEditor(confirm func() bool) bool
	SurfaceClosed()

	Current() models.SiteState
	CanUndo() bool
	CanRedo() bool
	Undo() bool
	Redo() bool
	BeginSession()
	EndSession()
	HasHistory() bool

	SetContent(fields map[string]string)
	MergeRemoteContent(fields map[string]string)
	SetTextOverride(key, value string)
	SetGlobalTheme(theme models.Theme)
	SetAlbumTheme(albumID string, theme models.Theme)
	ClearAlbumTheme(albumID string)
	SetLayout(patch LayoutPatch)
	SetHeroSource(id string)
	CreateAlbum(title string) models.Album
	UpdateAlbum(id string, patch models.AlbumPatch) bool
	DeleteAlbum(id string, confirm func() bool) bool
	SelectAlbum(id string)
	PatchTimeline(id string, patch models.TimelineItemPatch) bool
	DeleteTimelineItem(id string) bool
	SetImageEdit(key string, patch models.ImageEditPatch)
	ClearImageEdit(key string)
	SetImageNote(key, note string)
	RemoveUpload(id string) bool
}

// LayoutPatch carries the layout sliders. Nil fields are unchanged.
type LayoutPatch struct {
	HeroHeight       *float64 `json:"heroHeight,omitempty"`
	HeroScale        *float64 `json:"heroScale,omitempty"`
	AlbumImageHeight *float64 `json:"albumImageHeight,omitempty"`
	GalleryScale     *float64 `json:"galleryScale,omitempty"`
}

type EditorServiceConfig struct {
	EditPassword string
	Settings     SettingsServicer
	Broker       *pubsub.Broker
	Surface      EditorSurface
	Uploads      EditorUploads
}

/*
EditorService owns the editable site state, the view/edit access
machine, and the undo/redo history. Every mutation records a snapshot,
persists the new state, and broadcasts a change message.
*/
type EditorService struct {
	editPassword string
	settings     SettingsServicer
	broker       *pubsub.Broker
	surface      EditorSurface
	uploads      EditorUploads

	mu        sync.Mutex
	state     models.SiteState
	access    AccessState
	authError string

	past   []models.EditorSnapshot
	future []models.EditorSnapshot

	sessionDepth    int
	sessionSnapshot models.EditorSnapshot
	sessionDirty    bool
}

func NewEditorService(config EditorServiceConfig) *EditorService {
	return &EditorService{
		editPassword: config.EditPassword,
		settings:     config.Settings,
		broker:       config.Broker,
		surface:      config.Surface,
		uploads:      config.Uploads,
		state:        config.Settings.Load(),
		access:       AccessView,
	}
}

/*
Access machine
*/

func (s *EditorService) Access() AccessState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.access
}

func (s *EditorService) AuthError() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authError
}

func (s *EditorService) RequestEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access == AccessEdit {
		if s.surface != nil {
			s.surface.Open()
		}

		return
	}

	s.access = AccessAuthenticating
	s.authError = ""
}

/*
SubmitPassword checks the edit credential. A match enters edit mode and
opens the editor surface. A mismatch stays in authenticating with an
error message so the prompt can be retried.
*/
func (s *EditorService) SubmitPassword(password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access != AccessAuthenticating {
		return false
	}

	if password != s.editPassword {
		s.authError = "That password doesn't match. Try again."
		return false
	}

	s.access = AccessEdit
	s.authError = ""

	if s.surface != nil {
		s.surface.Open()
	}

	s.publish(pubsub.KindEditor, map[string]string{"access": string(AccessEdit)})
	return true
}

func (s *EditorService) CancelAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access == AccessAuthenticating {
		s.access = AccessView
		s.authError = ""
	}
}

/*
CloseEditor leaves edit mode. While the history stack is non-empty the
confirm callback decides whether to proceed; declining keeps the editor
open. History survives the close so re-entering edit can still undo.
*/
func (s *EditorService) CloseEditor(confirm func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access != AccessEdit {
		return false
	}

	if len(s.past) > 0 && confirm != nil && !confirm() {
		return false
	}

	s.access = AccessView

	if s.surface != nil {
		s.surface.Close()
	}

	s.publish(pubsub.KindEditor, map[string]string{"access": string(AccessView)})
	return true
}

/*
SurfaceClosed reacts to the detached editor surface being closed by the
user. The machine follows it back to view without a prompt.
*/
func (s *EditorService) SurfaceClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access != AccessEdit {
		return
	}

	s.access = AccessView
	s.publish(pubsub.KindEditor, map[string]string{"access": string(AccessView)})
}

/*
State access and history
*/

// Current returns a deep copy of the site state.
func (s *EditorService) Current() models.SiteState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

func (s *EditorService) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.past) > 0
}

func (s *EditorService) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.future) > 0
}

func (s *EditorService) HasHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.past) > 0
}

/*
Undo restores the most recent snapshot, pushing the current state onto
the front of the redo stack.
*/
func (s *EditorService) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.past) == 0 {
		return false
	}

	snapshot := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append([]models.EditorSnapshot{s.snapshot()}, s.future...)

	s.applySnapshot(snapshot)
	s.persist()
	s.publish(pubsub.KindContent, s.state.Content.Fields())
	return true
}

// Redo is the mirror of Undo.
func (s *EditorService) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.future) == 0 {
		return false
	}

	snapshot := s.future[0]
	s.future = s.future[1:]
	s.past = append(s.past, s.snapshot())

	s.applySnapshot(snapshot)
	s.persist()
	s.publish(pubsub.KindContent, s.state.Content.Fields())
	return true
}

/*
BeginSession starts a coalescing window: the snapshot is captured once,
and however many mutations happen before EndSession, a single history
entry is recorded. Nested sessions share the outermost capture.
*/
func (s *EditorService) BeginSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionDepth == 0 {
		s.sessionSnapshot = s.snapshot()
		s.sessionDirty = false
	}

	s.sessionDepth++
}

func (s *EditorService) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionDepth == 0 {
		return
	}

	s.sessionDepth--

	if s.sessionDepth == 0 && s.sessionDirty {
		s.past = append(s.past, s.sessionSnapshot)
		s.future = nil
	}
}

// snapshot captures the history-tracked fields. Caller holds the lock.
func (s *EditorService) snapshot() models.EditorSnapshot {
	return models.EditorSnapshot{
		Content:          s.state.Content,
		TextOverrides:    models.CopyStringMap(s.state.TextOverrides),
		GlobalTheme:      s.state.GlobalTheme,
		AlbumThemes:      models.CopyThemeMap(s.state.AlbumThemes),
		HeroHeight:       s.state.HeroHeight,
		HeroScale:        s.state.HeroScale,
		AlbumImageHeight: s.state.AlbumImageHeight,
		GalleryScale:     s.state.GalleryScale,
	}
}

func (s *EditorService) applySnapshot(snapshot models.EditorSnapshot) {
	s.state.Content = snapshot.Content
	s.state.TextOverrides = models.CopyStringMap(snapshot.TextOverrides)
	s.state.GlobalTheme = snapshot.GlobalTheme
	s.state.AlbumThemes = models.CopyThemeMap(snapshot.AlbumThemes)
	s.state.HeroHeight = snapshot.HeroHeight
	s.state.HeroScale = snapshot.HeroScale
	s.state.AlbumImageHeight = snapshot.AlbumImageHeight
	s.state.GalleryScale = snapshot.GalleryScale
}

/*
pushHistory records the pre-mutation snapshot and clears the redo
stack. Inside a session it only marks the session dirty; the single
entry is written at EndSession. Caller holds the lock.
*/
func (s *EditorService) pushHistory() {
	if s.sessionDepth > 0 {
		s.sessionDirty = true
		return
	}

	s.past = append(s.past, s.snapshot())
	s.future = nil
}

func (s *EditorService) persist() {
	s.settings.Save(s.state)
}

func (s *EditorService) publish(kind pubsub.MessageKind, fields map[string]string) {
	if s.broker != nil {
		s.broker.Publish(pubsub.Message{Kind: kind, Fields: fields})
	}
}

/*
Mutators. Each one records history, applies the change, persists the
whole document, and broadcasts the changed fields.
*/

func (s *EditorService) SetContent(fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(fields) == 0 {
		return
	}

	s.pushHistory()
	s.state.Content.Merge(fields)
	s.persist()
	s.publish(pubsub.KindContent, fields)
}

/*
MergeRemoteContent folds content fields broadcast by another window into
local state. No history entry, no persistence, no re-broadcast; the
originating window already did all three.
*/
func (s *EditorService) MergeRemoteContent(fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Content.Merge(fields)
}

// SetTextOverride sets a per-element text override. Empty value clears.
func (s *EditorService) SetTextOverride(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()

	if value == "" {
		delete(s.state.TextOverrides, key)
	} else {
		s.state.TextOverrides[key] = value
	}

	s.persist()
	s.publish(pubsub.KindContent, map[string]string{key: value})
}

func (s *EditorService) SetGlobalTheme(theme models.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()
	theme.Normalize()
	s.state.GlobalTheme = theme
	s.persist()
	s.publish(pubsub.KindTheme, nil)
}

func (s *EditorService) SetAlbumTheme(albumID string, theme models.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()
	theme.Normalize()
	s.state.AlbumThemes[albumID] = theme
	s.persist()
	s.publish(pubsub.KindTheme, map[string]string{"albumId": albumID})
}

func (s *EditorService) ClearAlbumTheme(albumID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.AlbumThemes[albumID]; !ok {
		return
	}

	s.pushHistory()
	delete(s.state.AlbumThemes, albumID)
	s.persist()
	s.publish(pubsub.KindTheme, map[string]string{"albumId": albumID})
}

func (s *EditorService) SetLayout(patch LayoutPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()

	fields := map[string]string{}

	if patch.HeroHeight != nil {
		s.state.HeroHeight = *patch.HeroHeight
		fields["heroHeight"] = fmt.Sprintf("%g", *patch.HeroHeight)
	}

	if patch.HeroScale != nil {
		s.state.HeroScale = *patch.HeroScale
		fields["heroScale"] = fmt.Sprintf("%g", *patch.HeroScale)
	}

	if patch.AlbumImageHeight != nil {
		s.state.AlbumImageHeight = *patch.AlbumImageHeight
		fields["albumImageHeight"] = fmt.Sprintf("%g", *patch.AlbumImageHeight)
	}

	if patch.GalleryScale != nil {
		s.state.GalleryScale = *patch.GalleryScale
		fields["galleryScale"] = fmt.Sprintf("%g", *patch.GalleryScale)
	}

	s.persist()
	s.publish(pubsub.KindLayout, fields)
}

// SetHeroSource selects the album driving the hero. Empty clears it.
func (s *EditorService) SetHeroSource(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()
	s.state.HeroSourceID = id
	s.persist()
	s.publish(pubsub.KindLayout, map[string]string{"heroSourceId": id})
}

/*
CreateAlbum prepends a new album and selects it. The id embeds a slug
of the title and the creation time so collisions across sessions are
practically impossible.
*/
func (s *EditorService) CreateAlbum(title string) models.Album {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()

	album := models.Album{
		ID:      fmt.Sprintf("album-%s-%d", slugify(title), time.Now().UnixMilli()),
		Title:   title,
		Count:   "0 photos",
		Date:    time.Now().Format("Jan 2006"),
		Mood:    "A fresh page.",
		Privacy: "Private link",
		Src:     models.DefaultAlbumCoverSrc,
		Alt:     title,
		Type:    models.MediaTypeImage,
	}

	s.state.Albums = append([]models.Album{album}, s.state.Albums...)
	s.state.SelectedAlbumID = album.ID

	s.persist()
	s.publish(pubsub.KindAlbums, map[string]string{"created": album.ID})
	return album
}

func (s *EditorService) UpdateAlbum(id string, patch models.AlbumPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	album := s.state.FindAlbum(id)

	if album == nil {
		return false
	}

	s.pushHistory()
	album.Apply(patch)
	s.persist()
	s.publish(pubsub.KindAlbums, map[string]string{"updated": id})
	return true
}

/*
DeleteAlbum removes an album and everything hanging off it: its
uploads, their image edits and notes, its theme override, and a hero
source pointing into it. Selection moves to the first remaining album.
*/
func (s *EditorService) DeleteAlbum(id string, confirm func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FindAlbum(id) == nil {
		return false
	}

	if confirm != nil && !confirm() {
		return false
	}

	s.pushHistory()

	if s.uploads != nil {
		for _, item := range s.uploads.ListByAlbum(id) {
			s.uploads.Remove(item.ID)
			s.clearImageMeta(item.MediaKey())

			if s.state.HeroSourceID == item.ID {
				s.state.HeroSourceID = ""
			}
		}
	}

	if s.state.HeroSourceID == id {
		s.state.HeroSourceID = ""
	}

	remaining := make([]models.Album, 0, len(s.state.Albums))

	for _, album := range s.state.Albums {
		if album.ID != id {
			remaining = append(remaining, album)
		}
	}

	s.state.Albums = remaining
	delete(s.state.AlbumThemes, id)

	if s.state.SelectedAlbumID == id {
		s.state.SelectedAlbumID = ""

		if len(remaining) > 0 {
			s.state.SelectedAlbumID = remaining[0].ID
		}
	}

	s.persist()
	s.publish(pubsub.KindAlbums, map[string]string{"deleted": id})

	slog.Info("album deleted", "id", id)
	return true
}

func (s *EditorService) SelectAlbum(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FindAlbum(id) == nil {
		return
	}

	s.state.SelectedAlbumID = id
	s.persist()
	s.publish(pubsub.KindAlbums, map[string]string{"selected": id})
}

// PatchTimeline edits a curated timeline entry. Generated entries are
// derived on read and never reach this path.
func (s *EditorService) PatchTimeline(id string, patch models.TimelineItemPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Timeline {
		if s.state.Timeline[i].ID != id {
			continue
		}

		s.pushHistory()
		s.state.Timeline[i].Apply(patch)
		s.persist()
		s.publish(pubsub.KindTimeline, map[string]string{"updated": id})
		return true
	}

	return false
}

func (s *EditorService) DeleteTimelineItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Timeline {
		if s.state.Timeline[i].ID != id {
			continue
		}

		s.pushHistory()
		s.state.Timeline = append(s.state.Timeline[:i], s.state.Timeline[i+1:]...)
		s.persist()
		s.publish(pubsub.KindTimeline, map[string]string{"deleted": id})
		return true
	}

	return false
}

func (s *EditorService) SetImageEdit(key string, patch models.ImageEditPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()

	edit, ok := s.state.ImageEdits[key]

	if !ok {
		edit = models.DefaultImageEdit()
	}

	edit.Apply(patch)
	s.state.ImageEdits[key] = edit
	s.persist()
	s.publish(pubsub.KindLayout, map[string]string{"imageEdit": key})
}

func (s *EditorService) ClearImageEdit(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.ImageEdits[key]; !ok {
		return
	}

	s.pushHistory()
	delete(s.state.ImageEdits, key)
	s.persist()
	s.publish(pubsub.KindLayout, map[string]string{"imageEdit": key})
}

// SetImageNote attaches a caption note to a media key. Empty clears.
func (s *EditorService) SetImageNote(key, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()

	if note == "" {
		delete(s.state.ImageNotes, key)
	} else {
		s.state.ImageNotes[key] = note
	}

	s.persist()
	s.publish(pubsub.KindContent, map[string]string{"imageNote:" + key: note})
}

/*
RemoveUpload deletes one upload and scrubs the editor state that
referenced it: image edits, notes, and the hero source.
*/
func (s *EditorService) RemoveUpload(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploads == nil || !s.uploads.Remove(id) {
		return false
	}

	s.clearImageMeta(id)

	if s.state.HeroSourceID == id {
		s.state.HeroSourceID = ""
	}

	for i := range s.state.Albums {
		if s.state.Albums[i].CoverID == id {
			s.state.Albums[i].CoverID = ""
		}
	}

	s.persist()
	s.publish(pubsub.KindUploads, map[string]string{"deleted": id})
	return true
}

func (s *EditorService) clearImageMeta(key string) {
	delete(s.state.ImageEdits, key)
	delete(s.state.ImageNotes, key)
}

func slugify(value string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}

	if b.Len() == 0 {
		return "untitled"
	}

	return b.String()
}
