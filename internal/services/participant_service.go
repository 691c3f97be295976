package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weddingmatch/backend/internal/models"
)

// ParticipantRepository persists participants. Delete returns the removed
// record, or ErrNotFound.
type ParticipantRepository interface {
	Insert(ctx context.Context, p *models.Participant) error
	ListByGender(ctx context.Context, gender string) ([]*models.Participant, error)
	CountByGender(ctx context.Context, gender string) (int64, error)
	Delete(ctx context.Context, id string) (*models.Participant, error)
}

type ParticipantService struct {
	repo   ParticipantRepository
	photos PhotoStore
	logger *slog.Logger
	now    func() time.Time
}

// NewParticipantService wires the participant use cases. photos may be nil, in
// which case submissions carrying a photo fail with ErrPhotoStoreUnavailable.
func NewParticipantService(repo ParticipantRepository, photos PhotoStore, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{
		repo:   repo,
		photos: photos,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates the submission, uploads the photo if one was sent, then
// stores the record. Nothing is stored unless every step before it succeeded.
func (s *ParticipantService) Create(ctx context.Context, in *models.ParticipantInput, photo *PhotoUpload) (*models.Participant, error) {
	p, err := ValidateParticipant(in)
	if err != nil {
		return nil, err
	}

	if photo != nil {
		if s.photos == nil {
			return nil, ErrPhotoStoreUnavailable
		}
		stored, err := s.photos.Upload(ctx, photo)
		if err != nil {
			return nil, fmt.Errorf("upload photo: %w", err)
		}
		p.Photo = stored
	}

	p.ID = models.NewID()
	// Mongo keeps millisecond precision; truncate so the echoed time matches storage.
	p.SubmittedAt = s.now().UTC().Truncate(time.Millisecond)

	if err := s.repo.Insert(ctx, p); err != nil {
		if p.Photo != nil {
			s.discardPhoto(ctx, p.Photo.PublicID)
		}
		return nil, fmt.Errorf("insert participant: %w", err)
	}

	s.logger.Info("participant created", "id", p.ID, "list", p.List, "has_photo", p.Photo != nil)
	return p, nil
}

// ListByGender returns the gender's participants, newest first.
func (s *ParticipantService) ListByGender(ctx context.Context, gender string) ([]*models.Participant, error) {
	list, err := s.repo.ListByGender(ctx, gender)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Participant{}
	}
	return list, nil
}

func (s *ParticipantService) Stats(ctx context.Context) (*models.ParticipantStats, error) {
	males, err := s.repo.CountByGender(ctx, models.GenderMale)
	if err != nil {
		return nil, err
	}
	females, err := s.repo.CountByGender(ctx, models.GenderFemale)
	if err != nil {
		return nil, err
	}
	return &models.ParticipantStats{
		TotalParticipants: males + females,
		Males:             males,
		Females:           females,
	}, nil
}

// Delete removes a participant. A malformed id fails with ErrInvalidID before
// the repository is touched.
func (s *ParticipantService) Delete(ctx context.Context, id string) (*models.DeletedParticipant, error) {
	if !models.IsValidID(id) {
		return nil, ErrInvalidID
	}
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Photo != nil && p.Photo.PublicID != "" {
		s.discardPhoto(ctx, p.Photo.PublicID)
	}
	s.logger.Info("participant deleted", "id", p.ID, "list", p.List)
	return &models.DeletedParticipant{ID: p.ID, Name: p.Name, List: p.List}, nil
}

func (s *ParticipantService) discardPhoto(ctx context.Context, publicID string) {
	if s.photos == nil {
		return
	}
	if err := s.photos.Delete(ctx, publicID); err != nil {
		s.logger.Warn("photo cleanup failed", "public_id", publicID, "err", err)
	}
}
