package services

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/store"
)

type ZipServicer interface {
	WriteAlbumZip(w io.Writer, albumID string) error
}

type ZipServiceConfig struct {
	State   StateReader
	Store   store.Store
	Uploads UploadReader
}

/*
ZipService streams an album's media as a zip archive, for the "download
this album" action shared over a private link.
*/
type ZipService struct {
	state   StateReader
	store   store.Store
	uploads UploadReader
}

func NewZipService(config ZipServiceConfig) ZipService {
	return ZipService{
		state:   config.State,
		store:   config.Store,
		uploads: config.Uploads,
	}
}

/*
WriteAlbumZip writes every upload of the album into w as a zip. Entries
that fail to read are skipped, so a single bad record never breaks the
whole download.
*/
func (s ZipService) WriteAlbumZip(w io.Writer, albumID string) error {
	var (
		err    error
		record *models.StoredUpload
	)

	state := s.state.Current()
	album := state.FindAlbum(albumID)

	if album == nil {
		return fmt.Errorf("no album %s", albumID)
	}

	l := slog.With("albumId", albumID)
	l.Info("starting album zip")

	zipWriter := zip.NewWriter(w)
	written := 0

	for _, item := range s.uploads.ListByAlbum(albumID) {
		if record, err = s.store.GetUpload(item.ID); err != nil || record == nil {
			l.Error("skipping unreadable upload", "id", item.ID, "error", err)
			continue
		}

		dest, err := zipWriter.Create(entryName(*record, written))

		if err != nil {
			l.Error("failed to create zip entry", "id", item.ID, "error", err)
			continue
		}

		if _, err = dest.Write(record.Blob); err != nil {
			return fmt.Errorf("error writing zip entry for %s: %w", item.ID, err)
		}

		written++
	}

	if err = zipWriter.Close(); err != nil {
		return fmt.Errorf("error closing zip: %w", err)
	}

	l.Info("finished album zip", "entries", written)
	return nil
}

/*
entryName builds a readable, unique file name inside the archive from
the upload's title and MIME type.
*/
func entryName(record models.StoredUpload, index int) string {
	ext := ""

	if exts, err := mime.ExtensionsByType(record.BlobType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}

	title := strings.TrimSpace(record.Title)

	if title == "" {
		title = record.ID
	}

	title = strings.ReplaceAll(title, string(filepath.Separator), "-")
	return fmt.Sprintf("%03d-%s%s", index+1, title, ext)
}
