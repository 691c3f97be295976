package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/weddingmatch/backend/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeParticipantRepo struct {
	mu          sync.Mutex
	items       map[string]*models.Participant
	insertErr   error
	listErr     error
	insertCalls int
	deleteCalls int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{items: map[string]*models.Participant{}}
}

func (f *fakeParticipantRepo) Insert(_ context.Context, p *models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeParticipantRepo) ListByGender(_ context.Context, gender string) ([]*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Participant
	for _, p := range f.items {
		if p.Gender == gender {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeParticipantRepo) CountByGender(_ context.Context, gender string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.items {
		if p.Gender == gender {
			n++
		}
	}
	return n, nil
}

func (f *fakeParticipantRepo) Delete(_ context.Context, id string) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	p, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(f.items, id)
	return p, nil
}

type fakePhotoStore struct {
	mu        sync.Mutex
	uploadErr error
	uploads   int
	deleted   []string
}

func (f *fakePhotoStore) Upload(_ context.Context, photo *PhotoUpload) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	body, _ := io.ReadAll(photo.Body)
	return &models.Photo{
		URL:          "https://photos.test/photo.jpg",
		PublicID:     "photos/photo_test.jpg",
		OriginalName: photo.OriginalName,
		Size:         int64(len(body)),
		Format:       photo.Format,
	}, nil
}

func (f *fakePhotoStore) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

type fakeSearchRequestRepo struct {
	mu          sync.Mutex
	items       map[string]*models.SearchRequest
	insertErr   error
	deleteCalls int
}

func newFakeSearchRequestRepo() *fakeSearchRequestRepo {
	return &fakeSearchRequestRepo{items: map[string]*models.SearchRequest{}}
}

func (f *fakeSearchRequestRepo) Insert(_ context.Context, sr *models.SearchRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *sr
	f.items[sr.ID] = &cp
	return nil
}

func (f *fakeSearchRequestRepo) ListAll(_ context.Context) ([]*models.SearchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SearchRequest
	for _, sr := range f.items {
		cp := *sr
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeSearchRequestRepo) Delete(_ context.Context, id string) (*models.SearchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	sr, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(f.items, id)
	return sr, nil
}

type fakeNotifier struct {
	err  error
	sent []*models.SearchRequest
}

func (f *fakeNotifier) NotifySearchRequest(_ context.Context, sr *models.SearchRequest) error {
	f.sent = append(f.sent, sr)
	return f.err
}
