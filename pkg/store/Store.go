package store

import (
	"log/slog"

	"github.com/adampresley/sundayalbum/pkg/models"
)

// SettingsKey is the single fixed key the settings document lives under.
const SettingsKey = "sunday-album-settings"

/*
SettingsStore reads and writes the one settings record. GetSettings
returns nil bytes (and no error) when no document has been written yet.
*/
type SettingsStore interface {
	GetSettings() ([]byte, error)
	PutSettings(payload []byte) error
}

/*
UploadStore holds durable upload records keyed by id. Listing carries no
ordering guarantee; ordering is a presentation concern. PatchUpload is a
no-op when the record does not exist.
*/
type UploadStore interface {
	ListUploads() ([]models.StoredUpload, error)
	GetUpload(id string) (*models.StoredUpload, error)
	PutUpload(upload models.StoredUpload) error
	DeleteUpload(id string) error
	PatchUpload(id string, patch UploadPatch) error
}

// Store is the durable persistence surface for the whole application.
type Store interface {
	SettingsStore
	UploadStore
	Close() error
}

// UploadPatch names the fields a patch may change. Nil fields are kept.
type UploadPatch struct {
	Title    *string
	Detail   *string
	Alt      *string
	AlbumID  *string
	Duration *string
	Thumb    []byte
}

/*
Probe opens the durable store for the given DSN, degrading to a
memory-only store when the environment has no database capability.
Callers treat the result as "maybe no persistence," never as an error.
*/
func Probe(dsn string) Store {
	sqliteStore, err := OpenSqliteStore(dsn)

	if err != nil {
		slog.Warn("durable store unavailable. continuing without persistence", "dsn", dsn, "error", err)
		return NewMemoryStore()
	}

	return sqliteStore
}
