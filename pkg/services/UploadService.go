package services

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/sundayalbum/pkg/mediaref"
	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/store"
	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
)

var videoExtension = regexp.MustCompile(`(?i)\.(mp4|mov|webm|mkv|avi)$`)

// IncomingFile is one dropped or picked file.
type IncomingFile struct {
	Name         string
	Size         int64
	LastModified int64
	ContentType  string
	Data         []byte
}

type UploadServicer interface {
	AddFiles(files []IncomingFile, albumID string) (int, int)
	Restore() error
	Update(id string, patch store.UploadPatch) bool
	Remove(id string) bool
	Reorder(albumID string, orderedIDs []string)
	All() []models.GalleryItem
	ListByAlbum(albumID string) []models.GalleryItem
	Resolve(token string) (*models.StoredUpload, bool)
	TotalSizeMB() float64
	Flush()
	Close()
}

type UploadServiceConfig struct {
	Store    store.Store
	Registry *mediaref.Registry
	Prober   DurationProber
	Pool     pond.Pool
}

/*
UploadService owns the in-memory upload list and its durable records.
Adds are optimistic: the item is visible immediately and the durable
write happens on the worker pool; a failed write logs and leaves the
item in place for the session.
*/
type UploadService struct {
	store    store.Store
	registry *mediaref.Registry
	prober   DurationProber
	pool     pond.Pool

	mu      sync.Mutex
	entries []uploadEntry
	wg      sync.WaitGroup
}

type uploadEntry struct {
	item   models.GalleryItem
	handle *mediaref.Handle
	size   int64
}

func NewUploadService(config UploadServiceConfig) *UploadService {
	return &UploadService{
		store:    config.Store,
		registry: config.Registry,
		prober:   config.Prober,
		pool:     config.Pool,
	}
}

/*
AddFiles classifies and adds a batch of files to the given album. It
returns how many were added and how many were skipped for format
reasons, so the caller can show a single summary notice.
*/
func (s *UploadService) AddFiles(files []IncomingFile, albumID string) (int, int) {
	var (
		added   int
		skipped int
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, file := range files {
		mediaType, ok := classify(file)

		if !ok {
			skipped++
			continue
		}

		item := s.buildItem(file, mediaType, albumID)
		handle := s.registry.Allocate(item.ID)

		item.Src = handle.URL()

		if mediaType == models.MediaTypeVideo {
			item.VideoSrc = handle.URL()
		}

		s.entries = append([]uploadEntry{{item: item, handle: handle, size: file.Size}}, s.entries...)
		added++

		s.persistAsync(item, file.Data, file.ContentType)
	}

	return added, skipped
}

func (s *UploadService) buildItem(file IncomingFile, mediaType models.MediaType, albumID string) models.GalleryItem {
	timestamp := file.LastModified

	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	item := models.GalleryItem{
		ID:        fmt.Sprintf("%s-%d-%s", file.Name, file.LastModified, uuid.NewString()),
		Title:     strings.TrimSuffix(file.Name, filepath.Ext(file.Name)),
		Detail:    formatSize(file.Size),
		Alt:       file.Name,
		Type:      mediaType,
		IsLocal:   true,
		AlbumID:   albumID,
		FileSize:  formatSize(file.Size),
		MimeType:  file.ContentType,
		Timestamp: timestamp,
	}

	if mediaType == models.MediaTypeVideo && s.prober != nil {
		if duration, ok := s.prober.Probe(file.Data, file.ContentType); ok {
			item.Duration = duration
		}
	}

	return item
}

func (s *UploadService) persistAsync(item models.GalleryItem, data []byte, contentType string) {
	record := models.StoredUpload{
		ID:        item.ID,
		Title:     item.Title,
		Detail:    item.Detail,
		Alt:       item.Alt,
		Type:      item.Type,
		AlbumID:   item.AlbumID,
		Blob:      data,
		BlobType:  contentType,
		Duration:  item.Duration,
		Timestamp: item.Timestamp,
	}

	s.wg.Add(1)

	s.pool.Submit(func() {
		defer s.wg.Done()

		if err := s.store.PutUpload(record); err != nil {
			slog.Error("error persisting upload. item remains for this session", "id", record.ID, "error", err)
		}
	})
}

/*
Restore loads durable uploads at startup, newest first, allocating a
fresh ephemeral reference for each.
*/
func (s *UploadService) Restore() error {
	records, err := s.store.ListUploads()

	if err != nil {
		return fmt.Errorf("error restoring uploads: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]uploadEntry, 0, len(records))

	for _, record := range records {
		handle := s.registry.Allocate(record.ID)

		item := models.GalleryItem{
			ID:        record.ID,
			Title:     record.Title,
			Detail:    record.Detail,
			Src:       handle.URL(),
			Alt:       record.Alt,
			Type:      record.Type,
			IsLocal:   true,
			AlbumID:   record.AlbumID,
			FileSize:  record.Detail,
			MimeType:  record.BlobType,
			Duration:  record.Duration,
			Timestamp: record.Timestamp,
		}

		if record.Type == models.MediaTypeVideo {
			item.VideoSrc = handle.URL()
		}

		s.entries = append(s.entries, uploadEntry{
			item:   item,
			handle: handle,
			size:   int64(len(record.Blob)),
		})
	}

	return nil
}

// Update patches an upload in memory and writes the patch through.
func (s *UploadService) Update(id string, patch store.UploadPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].item.ID != id {
			continue
		}

		if patch.Title != nil {
			s.entries[i].item.Title = *patch.Title
		}

		if patch.Detail != nil {
			s.entries[i].item.Detail = *patch.Detail
		}

		if patch.Alt != nil {
			s.entries[i].item.Alt = *patch.Alt
		}

		if patch.AlbumID != nil {
			s.entries[i].item.AlbumID = *patch.AlbumID
		}

		if patch.Duration != nil {
			s.entries[i].item.Duration = *patch.Duration
		}

		s.wg.Add(1)

		s.pool.Submit(func() {
			defer s.wg.Done()

			if err := s.store.PatchUpload(id, patch); err != nil {
				slog.Error("error patching upload", "id", id, "error", err)
			}
		})

		return true
	}

	return false
}

/*
Remove drops an upload from memory, releases its ephemeral reference
exactly once, and deletes the durable record in the background.
*/
func (s *UploadService) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].item.ID != id {
			continue
		}

		s.entries[i].handle.Release()
		s.entries = append(s.entries[:i], s.entries[i+1:]...)

		s.wg.Add(1)

		s.pool.Submit(func() {
			defer s.wg.Done()

			if err := s.store.DeleteUpload(id); err != nil {
				slog.Error("error deleting upload", "id", id, "error", err)
			}
		})

		return true
	}

	return false
}

/*
Reorder rewrites the relative order of one album's uploads. The album's
items are reinserted contiguously at the position of the first of them;
items of other albums keep their positions relative to each other.
*/
func (s *UploadService) Reorder(albumID string, orderedIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position := map[string]int{}

	for i, id := range orderedIDs {
		position[id] = i
	}

	insertAt := -1
	albumEntries := []uploadEntry{}
	rest := []uploadEntry{}

	for _, entry := range s.entries {
		if entry.item.AlbumID == albumID {
			if insertAt == -1 {
				insertAt = len(rest)
			}

			albumEntries = append(albumEntries, entry)
			continue
		}

		rest = append(rest, entry)
	}

	if insertAt == -1 {
		return
	}

	sort.SliceStable(albumEntries, func(i, j int) bool {
		left, leftOK := position[albumEntries[i].item.ID]
		right, rightOK := position[albumEntries[j].item.ID]

		if !leftOK || !rightOK {
			return false
		}

		return left < right
	})

	result := make([]uploadEntry, 0, len(s.entries))
	result = append(result, rest[:insertAt]...)
	result = append(result, albumEntries...)
	result = append(result, rest[insertAt:]...)

	s.entries = result
}

// All returns every upload, newest first.
func (s *UploadService) All() []models.GalleryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.GalleryItem, 0, len(s.entries))

	for _, entry := range s.entries {
		result = append(result, entry.item)
	}

	return result
}

func (s *UploadService) ListByAlbum(albumID string) []models.GalleryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.GalleryItem{}

	for _, entry := range s.entries {
		if entry.item.AlbumID == albumID {
			result = append(result, entry.item)
		}
	}

	return result
}

/*
Resolve maps an ephemeral reference token to the durable record behind
it, for serving the media bytes.
*/
func (s *UploadService) Resolve(token string) (*models.StoredUpload, bool) {
	uploadID, ok := s.registry.Resolve(token)

	if !ok {
		return nil, false
	}

	record, err := s.store.GetUpload(uploadID)

	if err != nil {
		slog.Error("error reading upload", "id", uploadID, "error", err)
		return nil, false
	}

	if record == nil {
		return nil, false
	}

	return record, true
}

func (s *UploadService) TotalSizeMB() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64

	for _, entry := range s.entries {
		total += entry.size
	}

	return float64(total) / (1024 * 1024)
}

// Flush waits for in-flight durable writes. Shutdown and tests.
func (s *UploadService) Flush() {
	s.wg.Wait()
}

// Close flushes writes and revokes every ephemeral reference.
func (s *UploadService) Close() {
	s.Flush()
	s.registry.ReleaseAll()
}

/*
classify decides image vs video. HEIC/HEIF is not displayable in this
environment and is rejected; anything that is neither an image nor a
recognized video container is rejected too.
*/
func classify(file IncomingFile) (models.MediaType, bool) {
	name := strings.ToLower(file.Name)
	contentType := strings.ToLower(file.ContentType)

	if strings.Contains(contentType, "heic") || strings.Contains(contentType, "heif") {
		return "", false
	}

	if strings.HasSuffix(name, ".heic") || strings.HasSuffix(name, ".heif") {
		return "", false
	}

	if strings.HasPrefix(contentType, "video/") || videoExtension.MatchString(name) {
		return models.MediaTypeVideo, true
	}

	if strings.HasPrefix(contentType, "image/") {
		return models.MediaTypeImage, true
	}

	return "", false
}

func formatSize(size int64) string {
	return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
}
