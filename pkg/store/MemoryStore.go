package store

import (
	"sync"

	"github.com/adampresley/sundayalbum/pkg/models"
)

/*
MemoryStore is the no-database fallback: same shape as the durable
store, but nothing survives a restart. Every operation succeeds so
callers degrade to session-only persistence without special cases.
*/
type MemoryStore struct {
	mu       sync.RWMutex
	uploads  map[string]models.StoredUpload
	settings []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		uploads: map[string]models.StoredUpload{},
	}
}

func (m *MemoryStore) GetSettings() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return nil, nil
	}

	result := make([]byte, len(m.settings))
	copy(result, m.settings)
	return result, nil
}

func (m *MemoryStore) PutSettings(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = make([]byte, len(payload))
	copy(m.settings, payload)
	return nil
}

func (m *MemoryStore) ListUploads() ([]models.StoredUpload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.StoredUpload, 0, len(m.uploads))

	for _, upload := range m.uploads {
		result = append(result, upload)
	}

	return result, nil
}

func (m *MemoryStore) GetUpload(id string) (*models.StoredUpload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	upload, ok := m.uploads[id]

	if !ok {
		return nil, nil
	}

	return &upload, nil
}

func (m *MemoryStore) PutUpload(upload models.StoredUpload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.uploads[upload.ID] = upload
	return nil
}

func (m *MemoryStore) DeleteUpload(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.uploads, id)
	return nil
}

func (m *MemoryStore) PatchUpload(id string, patch UploadPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	upload, ok := m.uploads[id]

	if !ok {
		return nil
	}

	if patch.Title != nil {
		upload.Title = *patch.Title
	}

	if patch.Detail != nil {
		upload.Detail = *patch.Detail
	}

	if patch.Alt != nil {
		upload.Alt = *patch.Alt
	}

	if patch.AlbumID != nil {
		upload.AlbumID = *patch.AlbumID
	}

	if patch.Duration != nil {
		upload.Duration = *patch.Duration
	}

	if patch.Thumb != nil {
		upload.Thumb = patch.Thumb
	}

	m.uploads[id] = upload
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
