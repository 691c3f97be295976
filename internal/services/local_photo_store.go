package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/weddingmatch/backend/internal/models"
)

// LocalPhotoStore writes photos under uploadDir and serves them from
// baseURL + "/uploads/".
type LocalPhotoStore struct {
	uploadDir string
	baseURL   string
}

func NewLocalPhotoStore(uploadDir, baseURL string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(filepath.Join(uploadDir, "photos"), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalPhotoStore{
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalPhotoStore) Upload(ctx context.Context, photo *PhotoUpload) (*models.Photo, error) {
	name := photoObjectName(uuid.New().String(), photo.Format)
	filePath := filepath.Join(s.uploadDir, filepath.FromSlash(name))

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, photo.Body)
	if err != nil {
		os.Remove(filePath) // Clean up on error
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &models.Photo{
		URL:          s.baseURL + "/uploads/" + name,
		PublicID:     name,
		OriginalName: photo.OriginalName,
		Size:         written,
		Format:       photo.Format,
	}, nil
}

func (s *LocalPhotoStore) Delete(ctx context.Context, publicID string) error {
	clean := filepath.ToSlash(filepath.Clean(publicID))
	if !strings.HasPrefix(clean, "photos/") || strings.Contains(clean, "..") {
		return fmt.Errorf("refusing to delete %q outside the photo directory", publicID)
	}
	if err := os.Remove(filepath.Join(s.uploadDir, filepath.FromSlash(clean))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
