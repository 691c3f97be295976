package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weddingmatch/backend/internal/models"
)

type SearchRequestRepository interface {
	Insert(ctx context.Context, sr *models.SearchRequest) error
	ListAll(ctx context.Context) ([]*models.SearchRequest, error)
	Delete(ctx context.Context, id string) (*models.SearchRequest, error)
}

// SearchRequestNotifier is told about every stored search request.
type SearchRequestNotifier interface {
	NotifySearchRequest(ctx context.Context, sr *models.SearchRequest) error
}

type SearchRequestService struct {
	repo     SearchRequestRepository
	notifier SearchRequestNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewSearchRequestService wires the search request use cases; notifier may be nil.
func NewSearchRequestService(repo SearchRequestRepository, notifier SearchRequestNotifier, logger *slog.Logger) *SearchRequestService {
	return &SearchRequestService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SearchRequestService) Create(ctx context.Context, in *models.SearchRequestInput) (*models.SearchRequest, error) {
	sr, err := ValidateSearchRequest(in)
	if err != nil {
		return nil, err
	}
	sr.ID = models.NewID()
	sr.SubmittedAt = s.now().UTC().Truncate(time.Millisecond)

	if err := s.repo.Insert(ctx, sr); err != nil {
		return nil, fmt.Errorf("insert search request: %w", err)
	}
	s.logger.Info("search request created", "id", sr.ID, "target_gender", sr.TargetGender)

	if s.notifier != nil {
		if err := s.notifier.NotifySearchRequest(ctx, sr); err != nil {
			s.logger.Warn("search request notification failed", "id", sr.ID, "err", err)
		}
	}
	return sr, nil
}

// ListAll returns every search request, newest first.
func (s *SearchRequestService) ListAll(ctx context.Context) ([]*models.SearchRequest, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.SearchRequest{}
	}
	return list, nil
}

func (s *SearchRequestService) Delete(ctx context.Context, id string) (*models.DeletedSearchRequest, error) {
	if !models.IsValidID(id) {
		return nil, ErrInvalidID
	}
	sr, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("search request deleted", "id", sr.ID)
	return &models.DeletedSearchRequest{ID: sr.ID, Name: sr.Searcher.Name}, nil
}
