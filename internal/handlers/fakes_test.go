package handlers

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/weddingmatch/backend/internal/models"
	"github.com/weddingmatch/backend/internal/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memParticipants struct {
	mu    sync.Mutex
	items map[string]*models.Participant
}

func newMemParticipants() *memParticipants {
	return &memParticipants{items: map[string]*models.Participant{}}
}

func (m *memParticipants) Insert(_ context.Context, p *models.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memParticipants) ListByGender(_ context.Context, gender string) ([]*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Participant{}
	for _, p := range m.items {
		if p.Gender == gender {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (m *memParticipants) CountByGender(ctx context.Context, gender string) (int64, error) {
	list, _ := m.ListByGender(ctx, gender)
	return int64(len(list)), nil
}

func (m *memParticipants) Delete(_ context.Context, id string) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	delete(m.items, id)
	return p, nil
}

type memSearchRequests struct {
	mu    sync.Mutex
	items map[string]*models.SearchRequest
}

func newMemSearchRequests() *memSearchRequests {
	return &memSearchRequests{items: map[string]*models.SearchRequest{}}
}

func (m *memSearchRequests) Insert(_ context.Context, sr *models.SearchRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sr
	m.items[sr.ID] = &cp
	return nil
}

func (m *memSearchRequests) ListAll(_ context.Context) ([]*models.SearchRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.SearchRequest{}
	for _, sr := range m.items {
		cp := *sr
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSearchRequests) Delete(_ context.Context, id string) (*models.SearchRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sr, ok := m.items[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	delete(m.items, id)
	return sr, nil
}

type memPhotos struct {
	mu      sync.Mutex
	uploads []string
}

func (m *memPhotos) Upload(_ context.Context, photo *services.PhotoUpload) (*models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, err := io.ReadAll(photo.Body)
	if err != nil {
		return nil, err
	}
	name := "photos/photo_test." + photo.Format
	m.uploads = append(m.uploads, name)
	return &models.Photo{
		URL:          "http://localhost:3001/uploads/" + name,
		PublicID:     name,
		OriginalName: photo.OriginalName,
		Size:         int64(len(body)),
		Format:       photo.Format,
	}, nil
}

func (m *memPhotos) Delete(_ context.Context, _ string) error { return nil }
