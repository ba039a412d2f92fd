package services

import (
	"testing"

	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	saved int
	last  models.SiteState
}

func (f *fakeSettings) Load() models.SiteState {
	return models.NewSiteState()
}

func (f *fakeSettings) Save(state models.SiteState) {
	f.saved++
	f.last = state
}

func (f *fakeSettings) Flush() {}

type fakeSurface struct {
	opens  int
	closes int
}

func (f *fakeSurface) Open()  { f.opens++ }
func (f *fakeSurface) Close() { f.closes++ }

type fakeUploads struct {
	items   map[string][]models.GalleryItem
	removed []string
}

func (f *fakeUploads) Remove(id string) bool {
	f.removed = append(f.removed, id)
	return true
}

func (f *fakeUploads) ListByAlbum(albumID string) []models.GalleryItem {
	return f.items[albumID]
}

func newTestEditor(t *testing.T) (*EditorService, *fakeSettings, *fakeSurface, *fakeUploads) {
	t.Helper()

	settings := &fakeSettings{}
	surface := &fakeSurface{}
	uploads := &fakeUploads{items: map[string][]models.GalleryItem{}}

	editor := NewEditorService(EditorServiceConfig{
		EditPassword: "Bluesky",
		Settings:     settings,
		Broker:       pubsub.NewBroker(),
		Surface:      surface,
		Uploads:      uploads,
	})

	return editor, settings, surface, uploads
}

func TestEditorAccess(t *testing.T) {
	t.Run("StartsInView", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)
		assert.Equal(t, AccessView, editor.Access())
	})

	t.Run("RequestEditEntersAuthenticating", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.RequestEdit()
		assert.Equal(t, AccessAuthenticating, editor.Access())
	})

	t.Run("CorrectPasswordEntersEditAndOpensSurface", func(t *testing.T) {
		editor, _, surface, _ := newTestEditor(t)

		editor.RequestEdit()
		require.True(t, editor.SubmitPassword("Bluesky"))
		assert.Equal(t, AccessEdit, editor.Access())
		assert.Equal(t, 1, surface.opens)
	})

	t.Run("WrongPasswordStaysAuthenticatingWithError", func(t *testing.T) {
		editor, _, surface, _ := newTestEditor(t)

		editor.RequestEdit()
		require.False(t, editor.SubmitPassword("nope"))
		assert.Equal(t, AccessAuthenticating, editor.Access())
		assert.NotEmpty(t, editor.AuthError())
		assert.Equal(t, 0, surface.opens)
	})

	t.Run("CancelReturnsToView", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.RequestEdit()
		editor.CancelAuth()
		assert.Equal(t, AccessView, editor.Access())
	})

	t.Run("CloseWithoutHistorySkipsConfirm", func(t *testing.T) {
		editor, _, surface, _ := newTestEditor(t)

		editor.RequestEdit()
		editor.SubmitPassword("Bluesky")

		confirmCalled := false
		require.True(t, editor.CloseEditor(func() bool {
			confirmCalled = true
			return false
		}))

		assert.False(t, confirmCalled)
		assert.Equal(t, AccessView, editor.Access())
		assert.Equal(t, 1, surface.closes)
	})

	t.Run("DeclinedConfirmKeepsEditing", func(t *testing.T) {
		editor, _, surface, _ := newTestEditor(t)

		editor.RequestEdit()
		editor.SubmitPassword("Bluesky")
		editor.SetContent(map[string]string{"siteTitle": "Changed"})

		require.False(t, editor.CloseEditor(func() bool { return false }))
		assert.Equal(t, AccessEdit, editor.Access())
		assert.Equal(t, 0, surface.closes)
	})

	t.Run("HistorySurvivesClose", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.RequestEdit()
		editor.SubmitPassword("Bluesky")
		editor.SetContent(map[string]string{"siteTitle": "Changed"})

		require.True(t, editor.CloseEditor(func() bool { return true }))
		assert.True(t, editor.CanUndo())
	})

	t.Run("SurfaceClosedForcesView", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.RequestEdit()
		editor.SubmitPassword("Bluesky")
		editor.SurfaceClosed()
		assert.Equal(t, AccessView, editor.Access())
	})
}

func TestEditorHistory(t *testing.T) {
	t.Run("UndoRestoresPreviousState", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)
		original := editor.Current().Content.SiteTitle

		editor.SetContent(map[string]string{"siteTitle": "Changed"})
		require.Equal(t, "Changed", editor.Current().Content.SiteTitle)

		require.True(t, editor.Undo())
		assert.Equal(t, original, editor.Current().Content.SiteTitle)
	})

	t.Run("RedoReappliesUndoneState", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.SetContent(map[string]string{"siteTitle": "Changed"})
		editor.Undo()

		require.True(t, editor.Redo())
		assert.Equal(t, "Changed", editor.Current().Content.SiteTitle)
	})

	t.Run("NewMutationClearsRedo", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.SetContent(map[string]string{"siteTitle": "First"})
		editor.Undo()
		require.True(t, editor.CanRedo())

		editor.SetContent(map[string]string{"siteTitle": "Second"})
		assert.False(t, editor.CanRedo())
	})

	t.Run("UndoOnEmptyHistoryIsNoOp", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		assert.False(t, editor.Undo())
		assert.False(t, editor.Redo())
	})

	t.Run("UndoRedoRoundTripIsLossless", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.SetContent(map[string]string{"siteTitle": "One"})
		editor.SetTextOverride("about", "custom about")
		editor.SetLayout(LayoutPatch{HeroHeight: float64Ptr(320)})

		before := editor.Current()

		editor.Undo()
		editor.Undo()
		editor.Undo()
		editor.Redo()
		editor.Redo()
		editor.Redo()

		after := editor.Current()
		assert.Equal(t, before.Content, after.Content)
		assert.Equal(t, before.TextOverrides, after.TextOverrides)
		assert.Equal(t, before.HeroHeight, after.HeroHeight)
	})

	t.Run("SessionCoalescesIntoOneEntry", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)
		original := editor.Current().HeroHeight

		editor.BeginSession()
		editor.SetLayout(LayoutPatch{HeroHeight: float64Ptr(300)})
		editor.SetLayout(LayoutPatch{HeroHeight: float64Ptr(310)})
		editor.SetLayout(LayoutPatch{HeroHeight: float64Ptr(320)})
		editor.EndSession()

		require.True(t, editor.Undo())
		assert.Equal(t, original, editor.Current().HeroHeight)
		assert.False(t, editor.CanUndo())
	})

	t.Run("EmptySessionRecordsNothing", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.BeginSession()
		editor.EndSession()
		assert.False(t, editor.CanUndo())
	})
}

func TestEditorMutators(t *testing.T) {
	t.Run("EveryMutationPersists", func(t *testing.T) {
		editor, settings, _, _ := newTestEditor(t)

		editor.SetContent(map[string]string{"siteTitle": "Changed"})
		editor.SetTextOverride("label", "value")
		editor.SetHeroSource("album-snow-walks")

		assert.Equal(t, 3, settings.saved)
		assert.Equal(t, "Changed", settings.last.Content.SiteTitle)
	})

	t.Run("CreateAlbumPrependsAndSelects", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		album := editor.CreateAlbum("Spring Garden")
		state := editor.Current()

		assert.Equal(t, album.ID, state.Albums[0].ID)
		assert.Equal(t, album.ID, state.SelectedAlbumID)
		assert.Contains(t, album.ID, "album-spring-garden-")
	})

	t.Run("UpdateAlbumPatchesOnlyNamedFields", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		title := "Renamed"
		require.True(t, editor.UpdateAlbum("album-snow-walks", models.AlbumPatch{Title: &title}))

		state := editor.Current()
		album := state.FindAlbum("album-snow-walks")
		require.NotNil(t, album)
		assert.Equal(t, "Renamed", album.Title)
		assert.Equal(t, "Dec 2025", album.Date)
	})

	t.Run("DeleteAlbumCascades", func(t *testing.T) {
		editor, _, _, uploads := newTestEditor(t)

		uploads.items["album-winter-kitchen"] = []models.GalleryItem{
			{ID: "upload-1", AlbumID: "album-winter-kitchen"},
			{ID: "upload-2", AlbumID: "album-winter-kitchen"},
		}

		editor.SetImageEdit("upload-1", models.ImageEditPatch{Scale: float64Ptr(2)})
		editor.SetImageNote("upload-2", "a note")

		require.True(t, editor.DeleteAlbum("album-winter-kitchen", func() bool { return true }))

		state := editor.Current()
		assert.Nil(t, state.FindAlbum("album-winter-kitchen"))
		assert.ElementsMatch(t, []string{"upload-1", "upload-2"}, uploads.removed)
		assert.NotContains(t, state.ImageEdits, "upload-1")
		assert.NotContains(t, state.ImageNotes, "upload-2")
		assert.Equal(t, state.Albums[0].ID, state.SelectedAlbumID)
	})

	t.Run("DeleteAlbumDeclinedConfirmKeepsIt", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		require.False(t, editor.DeleteAlbum("album-winter-kitchen", func() bool { return false }))

		state := editor.Current()
		assert.NotNil(t, state.FindAlbum("album-winter-kitchen"))
	})

	t.Run("DeleteAlbumClearsDanglingHeroSource", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.SetHeroSource("album-snow-walks")
		require.True(t, editor.DeleteAlbum("album-snow-walks", func() bool { return true }))
		assert.Empty(t, editor.Current().HeroSourceID)
	})

	t.Run("TimelinePatchAndDelete", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		title := "Renamed moment"
		require.True(t, editor.PatchTimeline("moment-market", models.TimelineItemPatch{Title: &title}))
		require.True(t, editor.DeleteTimelineItem("moment-candlelight"))

		state := editor.Current()
		assert.Len(t, state.Timeline, 2)
		assert.Equal(t, "Renamed moment", state.Timeline[1].Title)
	})

	t.Run("MergeRemoteContentSkipsHistoryAndPersistence", func(t *testing.T) {
		editor, settings, _, _ := newTestEditor(t)

		editor.MergeRemoteContent(map[string]string{"siteTitle": "From another window"})

		assert.Equal(t, "From another window", editor.Current().Content.SiteTitle)
		assert.False(t, editor.CanUndo())
		assert.Equal(t, 0, settings.saved)
	})

	t.Run("RemoveUploadScrubsReferences", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		editor.SetImageEdit("upload-1", models.ImageEditPatch{Scale: float64Ptr(1.5)})
		editor.SetImageNote("upload-1", "note")
		editor.SetHeroSource("upload-1")

		require.True(t, editor.RemoveUpload("upload-1"))

		state := editor.Current()
		assert.NotContains(t, state.ImageEdits, "upload-1")
		assert.NotContains(t, state.ImageNotes, "upload-1")
		assert.Empty(t, state.HeroSourceID)
	})

	t.Run("MutationsBroadcastToSubscribers", func(t *testing.T) {
		editor, _, _, _ := newTestEditor(t)

		broker := pubsub.NewBroker()
		editor.broker = broker

		messages, cancel := broker.Subscribe()
		defer cancel()

		editor.SetContent(map[string]string{"siteTitle": "Broadcast"})

		message := <-messages
		assert.Equal(t, pubsub.KindContent, message.Kind)
		assert.Equal(t, "Broadcast", message.Fields["siteTitle"])
	})
}

func float64Ptr(v float64) *float64 {
	return &v
}
