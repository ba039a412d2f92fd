package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/adampresley/sundayalbum/pkg/models"
	"github.com/adampresley/sundayalbum/pkg/store"
	"github.com/alitto/pond/v2"
	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/png"
)

type ThumbCreator interface {
	CreateThumbs()
}

type ThumbCreatorConfig struct {
	MaxThumbWorkers int
	Store           store.Store
	ShutdownCtx     context.Context
}

/*
ThumbCreatorService fills in the thumbnail column for image uploads
that do not have one yet. It runs on a timer so uploads added during a
session get their thumbnails on the next sweep.
*/
type ThumbCreatorService struct {
	maxThumbWorkers int
	store           store.Store
	shutdownCtx     context.Context
}

func NewThumbCreatorService(config ThumbCreatorConfig) ThumbCreatorService {
	return ThumbCreatorService{
		maxThumbWorkers: config.MaxThumbWorkers,
		store:           config.Store,
		shutdownCtx:     config.ShutdownCtx,
	}
}

func (c ThumbCreatorService) CreateThumbs() {
	var (
		err     error
		records []models.StoredUpload
	)

	slog.Info("starting thumbnail sweep...")

	if records, err = c.store.ListUploads(); err != nil {
		slog.Error("error listing uploads for thumbnails", "error", err)
		return
	}

	pool := pond.NewPool(c.maxThumbWorkers, pond.WithContext(c.shutdownCtx))

	var created atomic.Int64

	for _, record := range records {
		if !c.needsThumbnail(record) {
			continue
		}

		pool.Submit(func() {
			if err := c.createThumbnail(record); err != nil {
				slog.Error("error creating thumbnail", "id", record.ID, "error", err)
				return
			}

			created.Add(1)
		})
	}

	_ = pool.Stop().Wait()
	slog.Info("thumbnail sweep finished.", "created", created.Load())
}

/*
needsThumbnail skips videos and anything already holding a thumbnail.
Non-decodable image formats fail in createThumbnail and are retried on
the next sweep, which is harmless.
*/
func (c ThumbCreatorService) needsThumbnail(record models.StoredUpload) bool {
	if record.Type != models.MediaTypeImage {
		return false
	}

	if len(record.Thumb) > 0 {
		return false
	}

	return strings.HasPrefix(record.BlobType, "image/")
}

func (c ThumbCreatorService) createThumbnail(record models.StoredUpload) error {
	var (
		err     error
		img     image.Image
		maxSize uint = 400
		buf     bytes.Buffer
	)

	if img, err = c.resizeReader(bytes.NewReader(record.Blob), maxSize); err != nil {
		return fmt.Errorf("error resizing image: %w", err)
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("error encoding thumbnail: %w", err)
	}

	if err = c.store.PatchUpload(record.ID, store.UploadPatch{Thumb: buf.Bytes()}); err != nil {
		return fmt.Errorf("error storing thumbnail: %w", err)
	}

	slog.Info("created thumbnail", "id", record.ID, "bytes", buf.Len())
	return nil
}

func (c ThumbCreatorService) resizeReader(r io.Reader, maxSize uint) (image.Image, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	resizedImage := c.resize(img, maxSize)
	return resizedImage, nil
}

func (c ThumbCreatorService) resize(img image.Image, maxSize uint) image.Image {
	var (
		resizedImage image.Image
	)

	/*
	 * Determine which dimension to resize based on the longest edge
	 */
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	var newWidth, newHeight uint
	if width > height {
		// Landscape orientation
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		// Portrait orientation or square
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	resizedImage = resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
	return resizedImage
}
