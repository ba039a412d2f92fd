package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/sundayalbum/pkg/services"
	"github.com/adampresley/sundayalbum/pkg/store"
)

// maxUploadMemory bounds multipart form parsing at 512MB.
const maxUploadMemory = 512 << 20

type MediaControllerConfig struct {
	Editor  services.EditorServicer
	Uploads services.UploadServicer
	Zips    services.ZipServicer
}

/*
MediaController handles the upload endpoints and serves media bytes
addressed by ephemeral reference tokens.
*/
type MediaController struct {
	editor  services.EditorServicer
	uploads services.UploadServicer
	zips    services.ZipServicer
}

func NewMediaController(config MediaControllerConfig) MediaController {
	return MediaController{
		editor:  config.Editor,
		uploads: config.Uploads,
		zips:    config.Zips,
	}
}

/*
POST /uploads

Multipart form: "files" entries plus an "albumId" field. Responds with
how many files were added and how many were skipped so the page can
show a single summary notice.
*/
func (c MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	if err = r.ParseMultipartForm(maxUploadMemory); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid upload")
		return
	}

	albumID := r.FormValue("albumId")
	incoming := []services.IncomingFile{}

	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()

		if err != nil {
			slog.Error("error opening uploaded file", "name", header.Filename, "error", err)
			continue
		}

		data, err := io.ReadAll(file)
		file.Close()

		if err != nil {
			slog.Error("error reading uploaded file", "name", header.Filename, "error", err)
			continue
		}

		lastModified := int64(0)
		fmt.Sscanf(r.FormValue("lastModified-"+header.Filename), "%d", &lastModified)

		incoming = append(incoming, services.IncomingFile{
			Name:         header.Filename,
			Size:         header.Size,
			LastModified: lastModified,
			ContentType:  header.Header.Get("Content-Type"),
			Data:         data,
		})
	}

	added, skipped := c.uploads.AddFiles(incoming, albumID)

	if skipped > 0 {
		slog.Info("some files were skipped for format reasons", "added", added, "skipped", skipped)
	}

	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(map[string]int{
		"added":   added,
		"skipped": skipped,
	})
}

/*
PUT /uploads/{id}
*/
func (c MediaController) UpdateUpload(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		patch store.UploadPatch
	)

	id := httphelpers.GetFromRequest[string](r, "id")

	if err = json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid upload payload")
		return
	}

	if !c.uploads.Update(id, patch) {
		httphelpers.WriteText(w, http.StatusNotFound, "upload not found")
		return
	}

	httphelpers.TextOK(w, "OK")
}

/*
DELETE /uploads/{id}

Deletion goes through the editor so edits, notes, and hero references
to the upload are scrubbed with it.
*/
func (c MediaController) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	id := httphelpers.GetFromRequest[string](r, "id")

	if !c.editor.RemoveUpload(id) {
		httphelpers.WriteText(w, http.StatusNotFound, "upload not found")
		return
	}

	httphelpers.TextOK(w, "OK")
}

/*
PUT /albums/{id}/uploads/order

Body is a JSON array of upload ids in their new order.
*/
func (c MediaController) ReorderUploads(w http.ResponseWriter, r *http.Request) {
	var (
		err error
		ids []string
	)

	albumID := httphelpers.GetFromRequest[string](r, "id")

	if err = json.NewDecoder(r.Body).Decode(&ids); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid order payload")
		return
	}

	c.uploads.Reorder(albumID, ids)
	httphelpers.TextOK(w, "OK")
}

/*
GET /media/{token}

Serves the media bytes behind an ephemeral reference. A revoked or
unknown token is a 404; tokens die with the session that made them.
*/
func (c MediaController) ServeMedia(w http.ResponseWriter, r *http.Request) {
	token := httphelpers.GetFromRequest[string](r, "token")
	record, ok := c.uploads.Resolve(token)

	if !ok {
		httphelpers.WriteText(w, http.StatusNotFound, "media not found")
		return
	}

	w.Header().Set("Content-Type", record.BlobType)
	w.Header().Set("Cache-Control", "private, max-age=0, no-store")
	http.ServeContent(w, r, record.ID, modTime(record.Timestamp), bytes.NewReader(record.Blob))
}

/*
GET /media/{token}/thumb

Serves the stored thumbnail, falling back to the original when the
thumbnail job has not reached this upload yet.
*/
func (c MediaController) ServeThumb(w http.ResponseWriter, r *http.Request) {
	token := httphelpers.GetFromRequest[string](r, "token")
	record, ok := c.uploads.Resolve(token)

	if !ok {
		httphelpers.WriteText(w, http.StatusNotFound, "media not found")
		return
	}

	if len(record.Thumb) > 0 {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Cache-Control", "private, max-age=0, no-store")
		http.ServeContent(w, r, record.ID+"-thumb", modTime(record.Timestamp), bytes.NewReader(record.Thumb))
		return
	}

	w.Header().Set("Content-Type", record.BlobType)
	http.ServeContent(w, r, record.ID, modTime(record.Timestamp), bytes.NewReader(record.Blob))
}

/*
GET /albums/{id}/download
*/
func (c MediaController) DownloadAlbum(w http.ResponseWriter, r *http.Request) {
	albumID := httphelpers.GetFromRequest[string](r, "id")
	filename := strings.TrimPrefix(albumID, "album-") + ".zip"

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := c.zips.WriteAlbumZip(w, albumID); err != nil {
		slog.Error("error streaming album zip", "albumId", albumID, "error", err)
	}
}

func modTime(timestampMillis int64) time.Time {
	return time.UnixMilli(timestampMillis)
}
