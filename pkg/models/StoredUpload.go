package models

/*
StoredUpload is the durable counterpart of a GalleryItem: the same
identity and descriptive fields plus the raw payload and its MIME type.
Ephemeral reference fields are omitted and regenerated on load. Thumb
holds a JPEG thumbnail filled in by the thumbnail creator job.
*/
type StoredUpload struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Detail    string    `db:"detail"`
	Alt       string    `db:"alt"`
	Type      MediaType `db:"type"`
	AlbumID   string    `db:"album_id"`
	Blob      []byte    `db:"blob"`
	BlobType  string    `db:"blob_type"`
	Duration  string    `db:"duration"`
	Timestamp int64     `db:"timestamp"`
	Thumb     []byte    `db:"thumb"`
}
