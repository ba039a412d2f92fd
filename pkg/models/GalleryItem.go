package models

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

/*
GalleryItem is an in-memory media item. Src (and VideoSrc for videos)
point at a session-local ephemeral reference; items restored from or
written to the durable store carry IsLocal and must release that
reference exactly once when they are removed.
*/
type GalleryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	Src       string    `json:"src"`
	Alt       string    `json:"alt"`
	Type      MediaType `json:"type"`
	VideoSrc  string    `json:"videoSrc,omitempty"`
	IsLocal   bool      `json:"isLocal,omitempty"`
	AlbumID   string    `json:"albumId,omitempty"`
	MediaID   string    `json:"mediaId,omitempty"`
	FileSize  string    `json:"fileSize,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
	Duration  string    `json:"duration,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
}

/*
MediaKey is the stable key used for image edits and notes. It survives
hero/gallery re-derivation, where an item may be shown under a
different identity than the upload that backs it.
*/
func (g GalleryItem) MediaKey() string {
	if g.MediaID != "" {
		return g.MediaID
	}

	return g.ID
}
