package services

import (
	"testing"
	"time"

	"github.com/adampresley/sundayalbum/pkg/mediaref"
	"github.com/adampresley/sundayalbum/pkg/store"
	"github.com/alitto/pond/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploadService(t *testing.T) (*UploadService, *mediaref.Registry, store.Store) {
	t.Helper()

	registry := mediaref.NewRegistry()
	memoryStore := store.NewMemoryStore()

	service := NewUploadService(UploadServiceConfig{
		Store:    memoryStore,
		Registry: registry,
		Prober:   NewMp4DurationProber(),
		Pool:     pond.NewPool(2),
	})

	return service, registry, memoryStore
}

func jpegFile(name string) IncomingFile {
	return IncomingFile{
		Name:         name,
		Size:         2 * 1024 * 1024,
		LastModified: 1700000000000,
		ContentType:  "image/jpeg",
		Data:         []byte{0xff, 0xd8, 0xff},
	}
}

func TestUploadAddFiles(t *testing.T) {
	t.Run("ClassifiesImagesAndVideos", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		added, skipped := service.AddFiles([]IncomingFile{
			jpegFile("kitchen.jpg"),
			{Name: "walk.mp4", Size: 1024, ContentType: "video/mp4"},
		}, "album-winter-kitchen")

		assert.Equal(t, 2, added)
		assert.Equal(t, 0, skipped)

		items := service.ListByAlbum("album-winter-kitchen")
		require.Len(t, items, 2)
	})

	t.Run("RejectsHeicWithSkippedCount", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		added, skipped := service.AddFiles([]IncomingFile{
			jpegFile("keep.jpg"),
			{Name: "phone.heic", ContentType: "image/heic"},
			{Name: "phone2.HEIF", ContentType: "application/octet-stream"},
		}, "album-winter-kitchen")

		assert.Equal(t, 1, added)
		assert.Equal(t, 2, skipped)
	})

	t.Run("RejectsUnknownFormats", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		added, skipped := service.AddFiles([]IncomingFile{
			{Name: "notes.txt", ContentType: "text/plain"},
		}, "album-winter-kitchen")

		assert.Equal(t, 0, added)
		assert.Equal(t, 1, skipped)
	})

	t.Run("VideoByExtensionWhenMimeIsGeneric", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		added, _ := service.AddFiles([]IncomingFile{
			{Name: "clip.MOV", ContentType: "application/octet-stream"},
		}, "album-winter-kitchen")

		require.Equal(t, 1, added)
		items := service.All()
		assert.Equal(t, "video", string(items[0].Type))
		assert.NotEmpty(t, items[0].VideoSrc)
	})

	t.Run("NewestFirstWithSizeDetail", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("first.jpg")}, "album-winter-kitchen")
		service.AddFiles([]IncomingFile{jpegFile("second.jpg")}, "album-winter-kitchen")

		items := service.All()
		require.Len(t, items, 2)
		assert.Equal(t, "second", items[0].Title)
		assert.Equal(t, "2.0 MB", items[0].Detail)
	})

	t.Run("TimestampComesFromFileModificationTime", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("kitchen.jpg")}, "album-winter-kitchen")

		items := service.All()
		require.Len(t, items, 1)
		assert.Equal(t, int64(1700000000000), items[0].Timestamp)
	})

	t.Run("TimestampFallsBackToNowWhenUnknown", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		before := time.Now().UnixMilli()
		service.AddFiles([]IncomingFile{{Name: "scan.jpg", ContentType: "image/jpeg"}}, "album-winter-kitchen")
		after := time.Now().UnixMilli()

		items := service.All()
		require.Len(t, items, 1)
		assert.GreaterOrEqual(t, items[0].Timestamp, before)
		assert.LessOrEqual(t, items[0].Timestamp, after)
	})

	t.Run("PersistsDurably", func(t *testing.T) {
		service, _, memoryStore := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("kitchen.jpg")}, "album-winter-kitchen")
		service.Flush()

		records, err := memoryStore.ListUploads()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "image/jpeg", records[0].BlobType)
		assert.Equal(t, "album-winter-kitchen", records[0].AlbumID)
	})

	t.Run("AllocatesEphemeralReferences", func(t *testing.T) {
		service, registry, _ := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("kitchen.jpg")}, "album-winter-kitchen")
		assert.Equal(t, 1, registry.Active())
	})
}

func TestUploadLifecycle(t *testing.T) {
	t.Run("RemoveReleasesReferenceAndDeletesRecord", func(t *testing.T) {
		service, registry, memoryStore := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("kitchen.jpg")}, "album-winter-kitchen")
		service.Flush()

		id := service.All()[0].ID
		require.True(t, service.Remove(id))
		service.Flush()

		assert.Equal(t, 0, registry.Active())
		assert.Empty(t, service.All())

		record, err := memoryStore.GetUpload(id)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("RemoveUnknownReturnsFalse", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)
		assert.False(t, service.Remove("nope"))
	})

	t.Run("UpdateWritesThrough", func(t *testing.T) {
		service, _, memoryStore := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("kitchen.jpg")}, "album-winter-kitchen")
		service.Flush()

		id := service.All()[0].ID
		title := "Morning tea"
		album := "album-sunday-tables"

		require.True(t, service.Update(id, store.UploadPatch{Title: &title, AlbumID: &album}))
		service.Flush()

		assert.Equal(t, "Morning tea", service.All()[0].Title)
		assert.Len(t, service.ListByAlbum("album-sunday-tables"), 1)

		record, err := memoryStore.GetUpload(id)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "Morning tea", record.Title)
	})

	t.Run("RestoreRebuildsNewestFirst", func(t *testing.T) {
		service, registry, memoryStore := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("old.jpg")}, "album-winter-kitchen")
		service.AddFiles([]IncomingFile{jpegFile("new.jpg")}, "album-winter-kitchen")
		service.Flush()

		restored := NewUploadService(UploadServiceConfig{
			Store:    memoryStore,
			Registry: registry,
			Pool:     pond.NewPool(2),
		})

		require.NoError(t, restored.Restore())

		items := restored.All()
		require.Len(t, items, 2)
		assert.True(t, items[0].Timestamp >= items[1].Timestamp)
		assert.True(t, items[0].IsLocal)
		assert.NotEmpty(t, items[0].Src)
	})

	t.Run("ResolveServesDurableBytes", func(t *testing.T) {
		service, registry, _ := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("kitchen.jpg")}, "album-winter-kitchen")
		service.Flush()

		item := service.All()[0]
		token := item.Src[len("/media/"):]

		_, ok := registry.Resolve(token)
		require.True(t, ok)

		record, ok := service.Resolve(token)
		require.True(t, ok)
		assert.Equal(t, item.ID, record.ID)
		assert.NotEmpty(t, record.Blob)
	})

	t.Run("CloseRevokesEverything", func(t *testing.T) {
		service, registry, _ := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("a.jpg"), jpegFile("b.jpg")}, "album-winter-kitchen")
		service.Close()

		assert.Equal(t, 0, registry.Active())
	})
}

func TestUploadReorder(t *testing.T) {
	t.Run("ReordersWithinAlbumContiguously", func(t *testing.T) {
		service, _, _ := newTestUploadService(t)

		service.AddFiles([]IncomingFile{jpegFile("a.jpg")}, "album-a")
		service.AddFiles([]IncomingFile{jpegFile("b.jpg")}, "album-b")
		service.AddFiles([]IncomingFile{jpegFile("c.jpg")}, "album-a")

		albumA := service.ListByAlbum("album-a")
		require.Len(t, albumA, 2)

		service.Reorder("album-a", []string{albumA[1].ID, albumA[0].ID})

		reordered := service.ListByAlbum("album-a")
		assert.Equal(t, albumA[1].ID, reordered[0].ID)
		assert.Equal(t, albumA[0].ID, reordered[1].ID)

		assert.Len(t, service.ListByAlbum("album-b"), 1)
	})
}

func TestMp4DurationProber(t *testing.T) {
	t.Run("ReadsMvhdVersion0", func(t *testing.T) {
		prober := NewMp4DurationProber()

		mvhd := make([]byte, 20)
		mvhd[12], mvhd[13], mvhd[14], mvhd[15] = 0, 0, 0x03, 0xe8 // timescale 1000
		mvhd[16], mvhd[17], mvhd[18], mvhd[19] = 0, 0x01, 0x38, 0x80 // duration 80000

		data := box("moov", box("mvhd", mvhd))

		duration, ok := prober.Probe(data, "video/mp4")
		require.True(t, ok)
		assert.Equal(t, "1:20", duration)
	})

	t.Run("GarbageYieldsNothing", func(t *testing.T) {
		prober := NewMp4DurationProber()

		_, ok := prober.Probe([]byte("not a video"), "video/mp4")
		assert.False(t, ok)
	})
}

func box(name string, payload []byte) []byte {
	result := make([]byte, 0, 8+len(payload))
	size := 8 + len(payload)
	result = append(result, byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	result = append(result, name...)
	return append(result, payload...)
}
