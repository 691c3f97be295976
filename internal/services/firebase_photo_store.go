package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/weddingmatch/backend/internal/models"
)

const pendingPrefix = "pending/"

// FirebasePhotoStore keeps photos in a Firebase Storage bucket and hands out
// token download URLs. With moderation on, each upload lands under pending/,
// goes through SafeSearch and is promoted only when safe.
type FirebasePhotoStore struct {
	bucket     *storage.BucketHandle
	bucketName string
	moderate   bool
	detect     func(ctx context.Context, gcsURI string) (*SafeSearchResult, error)
	logger     *slog.Logger
}

type FirebasePhotoConfig struct {
	Bucket          string
	CredentialsJSON string
	Moderate        bool
}

func NewFirebasePhotoStore(ctx context.Context, cfg FirebasePhotoConfig, logger *slog.Logger) (*FirebasePhotoStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("firebase: storage bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: cfg.Bucket}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: storage client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("firebase: bucket: %w", err)
	}

	store := &FirebasePhotoStore{
		bucket:     bucket,
		bucketName: cfg.Bucket,
		moderate:   cfg.Moderate,
		logger:     logger,
	}
	if cfg.Moderate {
		detector, err := NewSafeSearchDetector(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("firebase: %w", err)
		}
		store.detect = detector.Detect
	}
	return store, nil
}

func (s *FirebasePhotoStore) Upload(ctx context.Context, photo *PhotoUpload) (*models.Photo, error) {
	name := photoObjectName(uuid.New().String(), photo.Format)
	token := newToken()

	target := name
	if s.moderate {
		target = pendingPrefix + name
	}

	w := s.bucket.Object(target).NewWriter(ctx)
	w.ContentType = photo.ContentType
	meta := map[string]string{
		"originalName":                  photo.OriginalName,
		"firebaseStorageDownloadTokens": token,
	}
	w.Metadata = meta
	written, err := io.Copy(w, photo.Body)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("firebase: write %s: %w", target, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("firebase: finalize %s: %w", target, err)
	}

	if s.moderate {
		if err := s.moderateAndPromote(ctx, target, name, photo.ContentType, meta); err != nil {
			return nil, err
		}
	}

	return &models.Photo{
		URL:          firebaseDownloadURL(s.bucketName, name, token),
		PublicID:     name,
		OriginalName: photo.OriginalName,
		Size:         written,
		Format:       photo.Format,
	}, nil
}

func (s *FirebasePhotoStore) Delete(ctx context.Context, publicID string) error {
	err := s.bucket.Object(publicID).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("firebase: delete %s: %w", publicID, err)
	}
	return nil
}

// moderateAndPromote runs SafeSearch on a pending object. Unsafe objects are
// deleted and ErrPhotoRejected is returned; safe ones are copied to their
// final name with the upload's metadata and the pending copy removed.
func (s *FirebasePhotoStore) moderateAndPromote(ctx context.Context, pendingPath, finalName, contentType string, meta map[string]string) error {
	gcsURI := fmt.Sprintf("gs://%s/%s", s.bucketName, pendingPath)

	ss, err := s.detect(ctx, gcsURI)
	if err != nil {
		s.logger.Error("[moderation] SafeSearch failed", "path", pendingPath, "err", err)
		s.deleteQuietly(ctx, pendingPath)
		return fmt.Errorf("moderation: safesearch: %w", err)
	}

	s.logger.Info("[moderation] SafeSearch result",
		"path", pendingPath, "adult", ss.Adult, "violence", ss.Violence, "racy", ss.Racy, "unsafe", ss.IsUnsafe())

	if ss.IsUnsafe() {
		s.deleteQuietly(ctx, pendingPath)
		return ErrPhotoRejected
	}

	src := s.bucket.Object(pendingPath)
	copier := s.bucket.Object(finalName).CopierFrom(src)
	copier.ContentType = contentType
	copier.Metadata = promotedMetadata(meta)
	if _, err := copier.Run(ctx); err != nil {
		s.deleteQuietly(ctx, pendingPath)
		return fmt.Errorf("moderation: promote: %w", err)
	}
	s.deleteQuietly(ctx, pendingPath)
	return nil
}

func (s *FirebasePhotoStore) deleteQuietly(ctx context.Context, name string) {
	if err := s.bucket.Object(name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		s.logger.Warn("[moderation] delete failed", "path", name, "err", err)
	}
}

// promotedMetadata is the pending object's metadata marked as approved. The
// download token must survive the copy or the stored URL stops resolving.
func promotedMetadata(pending map[string]string) map[string]string {
	out := make(map[string]string, len(pending)+1)
	for k, v := range pending {
		out[k] = v
	}
	out["moderation"] = "approved"
	return out
}

func newToken() string {
	return uuid.New().String()
}

func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}
