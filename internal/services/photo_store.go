package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/weddingmatch/backend/internal/models"
)

// PhotoStore hosts participant photos. Delete takes the PublicID returned by
// Upload and treats a missing object as success.
type PhotoStore interface {
	Upload(ctx context.Context, photo *PhotoUpload) (*models.Photo, error)
	Delete(ctx context.Context, publicID string) error
}

// PhotoUpload is an inspected photo ready to be handed to a PhotoStore.
type PhotoUpload struct {
	OriginalName string
	Size         int64
	ContentType  string
	// Format is the short extension without the dot: jpg, png, gif or webp.
	Format string
	Body   io.Reader
}

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

// InspectPhoto enforces the size ceiling and sniffs the content type from the
// first bytes of body. The returned upload replays the sniffed bytes.
func InspectPhoto(originalName string, size int64, body io.Reader, maxBytes int64) (*PhotoUpload, error) {
	if maxBytes > 0 && size > maxBytes {
		return nil, ErrPhotoTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrUnsupportedPhoto
	}

	mt := mimetype.Detect(head)
	allowed := false
	for _, t := range allowedPhotoTypes {
		if mt.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrUnsupportedPhoto
	}

	return &PhotoUpload{
		OriginalName: originalName,
		Size:         size,
		ContentType:  mt.String(),
		Format:       strings.TrimPrefix(mt.Extension(), "."),
		Body:         io.MultiReader(bytes.NewReader(head), body),
	}, nil
}

// photoObjectName is the store-relative name of a new photo.
func photoObjectName(id, format string) string {
	return "photos/photo_" + id + "." + format
}
