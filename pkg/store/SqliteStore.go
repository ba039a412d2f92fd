package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/sundayalbum/pkg/models"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

//go:embed sql-migrations
var sqlMigrationsFs embed.FS

var registerBindsOnce sync.Once

/*
SqliteStore is the durable store: one table of upload records (metadata
plus the binary payload), one table holding the single settings record.
Every write is a single statement, so a failed write cannot leave a
record half-updated.
*/
type SqliteStore struct {
	db *sqlz.DB
}

func OpenSqliteStore(dsn string) (*SqliteStore, error) {
	var (
		err error
		db  *sqlz.DB
	)

	registerBindsOnce.Do(func() {
		binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	})

	if db, err = sqlz.Connect("sqlite", dsn); err != nil {
		return nil, fmt.Errorf("error opening database '%s': %w", dsn, err)
	}

	result := &SqliteStore{db: db}

	if err = result.migrate(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SqliteStore) migrate() error {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}

	for _, d := range dirs {
		if d.IsDir() {
			continue
		}

		if !strings.HasPrefix(d.Name(), "commit") {
			continue
		}

		if b, err = fs.ReadFile(sqlMigrationsFs, filepath.Join("sql-migrations", d.Name())); err != nil {
			return fmt.Errorf("error reading migration '%s': %w", d.Name(), err)
		}

		if err = s.runSqlScript(b); err != nil {
			if !isIgnorableError(err) {
				return fmt.Errorf("error running migration '%s': %w", d.Name(), err)
			}
		}
	}

	return nil
}

func (s *SqliteStore) runSqlScript(script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := s.db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column")
}

func (s *SqliteStore) GetSettings() ([]byte, error) {
	var (
		err error
	)

	result := struct {
		Payload string `db:"payload"`
	}{}

	sql := `
SELECT
   s.payload
FROM settings AS s
WHERE 1=1
   AND s.id=?
   `

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &result, sql, SettingsKey); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("error querying for settings: %w", err)
	}

	return []byte(result.Payload), nil
}

func (s *SqliteStore) PutSettings(payload []byte) error {
	var (
		err error
	)

	sql := `
INSERT INTO settings (
   id
   , payload
) VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET payload=excluded.payload
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, SettingsKey, string(payload)); err != nil {
		return fmt.Errorf("error writing settings: %w", err)
	}

	return nil
}

func (s *SqliteStore) ListUploads() ([]models.StoredUpload, error) {
	var (
		err error
	)

	result := []models.StoredUpload{}

	sql := `
SELECT
   u.id
   , u.title
   , u.detail
   , u.alt
   , u."type"
   , u.album_id
   , u.blob
   , u.blob_type
   , u.duration
   , u."timestamp"
   , u.thumb
FROM uploads AS u
   `

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil {
		return nil, fmt.Errorf("error querying for uploads: %w", err)
	}

	return result, nil
}

func (s *SqliteStore) GetUpload(id string) (*models.StoredUpload, error) {
	var (
		err error
	)

	result := &models.StoredUpload{}

	sql := `
SELECT
   u.id
   , u.title
   , u.detail
   , u.alt
   , u."type"
   , u.album_id
   , u.blob
   , u.blob_type
   , u.duration
   , u."timestamp"
   , u.thumb
FROM uploads AS u
WHERE 1=1
   AND u.id=?
   `

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, id); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("error querying for upload '%s': %w", id, err)
	}

	return result, nil
}

func (s *SqliteStore) PutUpload(upload models.StoredUpload) error {
	var (
		err error
	)

	sql := `
INSERT INTO uploads (
   id
   , title
   , detail
   , alt
   , "type"
   , album_id
   , blob
   , blob_type
   , duration
   , "timestamp"
   , thumb
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
   title=excluded.title
   , detail=excluded.detail
   , alt=excluded.alt
   , "type"=excluded."type"
   , album_id=excluded.album_id
   , blob=excluded.blob
   , blob_type=excluded.blob_type
   , duration=excluded.duration
   , "timestamp"=excluded."timestamp"
   , thumb=excluded.thumb
`

	params := []any{
		upload.ID,
		upload.Title,
		upload.Detail,
		upload.Alt,
		string(upload.Type),
		upload.AlbumID,
		upload.Blob,
		upload.BlobType,
		upload.Duration,
		upload.Timestamp,
		upload.Thumb,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error writing upload '%s': %w", upload.ID, err)
	}

	return nil
}

func (s *SqliteStore) DeleteUpload(id string) error {
	var (
		err error
	)

	sql := `
DELETE FROM uploads
WHERE 1=1
   AND id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("error deleting upload '%s': %w", id, err)
	}

	return nil
}

/*
PatchUpload updates only the fields named by the patch. A missing record
is a no-op, not an error.
*/
func (s *SqliteStore) PatchUpload(id string, patch UploadPatch) error {
	var (
		err error
	)

	sql := `
UPDATE uploads SET
   title=COALESCE(?, title)
   , detail=COALESCE(?, detail)
   , alt=COALESCE(?, alt)
   , album_id=COALESCE(?, album_id)
   , duration=COALESCE(?, duration)
   , thumb=COALESCE(?, thumb)
WHERE 1=1
   AND id=?
`

	params := []any{
		patch.Title,
		patch.Detail,
		patch.Alt,
		patch.AlbumID,
		patch.Duration,
		patch.Thumb,
		id,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error patching upload '%s': %w", id, err)
	}

	return nil
}

func (s *SqliteStore) Close() error {
	return s.db.Pool().Close()
}
