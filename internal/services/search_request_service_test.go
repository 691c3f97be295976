package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weddingmatch/backend/internal/models"
)

func TestSearchRequestService_Create(t *testing.T) {
	repo := newFakeSearchRequestRepo()
	notifier := &fakeNotifier{}
	svc := NewSearchRequestService(repo, notifier, discardLogger())

	sr, err := svc.Create(context.Background(), validSearchRequestInput())
	require.NoError(t, err)

	assert.True(t, models.IsValidID(sr.ID))
	assert.Len(t, repo.items, 1)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, sr.ID, notifier.sent[0].ID)
}

func TestSearchRequestService_NotifierFailureIgnored(t *testing.T) {
	repo := newFakeSearchRequestRepo()
	svc := NewSearchRequestService(repo, &fakeNotifier{err: errors.New("sendgrid down")}, discardLogger())

	_, err := svc.Create(context.Background(), validSearchRequestInput())

	require.NoError(t, err)
	assert.Len(t, repo.items, 1)
}

func TestSearchRequestService_RejectsLongAboutMe(t *testing.T) {
	repo := newFakeSearchRequestRepo()
	notifier := &fakeNotifier{}
	svc := NewSearchRequestService(repo, notifier, discardLogger())

	in := validSearchRequestInput()
	about := models.FlexString(strings.Repeat("x", 501))
	in.Searcher.AboutMe = &about

	_, err := svc.Create(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("searcher.aboutMe"))
	assert.Empty(t, repo.items)
	assert.Empty(t, notifier.sent)
}

func TestSearchRequestService_InsertFailure(t *testing.T) {
	repo := newFakeSearchRequestRepo()
	repo.insertErr = errors.New("write concern error")
	notifier := &fakeNotifier{}
	svc := NewSearchRequestService(repo, notifier, discardLogger())

	_, err := svc.Create(context.Background(), validSearchRequestInput())

	assert.ErrorIs(t, err, repo.insertErr)
	assert.Empty(t, notifier.sent)
}

func TestSearchRequestService_ListAllEmpty(t *testing.T) {
	svc := NewSearchRequestService(newFakeSearchRequestRepo(), nil, discardLogger())

	list, err := svc.ListAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSearchRequestService_Delete(t *testing.T) {
	repo := newFakeSearchRequestRepo()
	svc := NewSearchRequestService(repo, nil, discardLogger())
	ctx := context.Background()

	_, err := svc.Delete(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Zero(t, repo.deleteCalls)

	sr, err := svc.Create(ctx, validSearchRequestInput())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, sr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeletedSearchRequest{ID: sr.ID, Name: "Yael"}, *deleted)

	_, err = svc.Delete(ctx, sr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
