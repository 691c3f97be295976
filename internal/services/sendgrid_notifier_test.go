package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weddingmatch/backend/internal/models"
)

func TestSendGridNotifier(t *testing.T) {
	var got mailMessage
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewSendGridNotifier(" key ", "bot@wedding.test", "organizer@wedding.test")
	n.Endpoint = srv.URL

	err := n.NotifySearchRequest(context.Background(), &models.SearchRequest{
		ID:           "665f1c2e9b1e8a3d4c5b6a79",
		TargetGender: "female",
		Description:  models.TargetDescription{Clothing: "blue suit"},
		Searcher:     models.Searcher{Name: "Avi", Phone: "054-1111111"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer key", auth)
	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "organizer@wedding.test", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "665f1c2e9b1e8a3d4c5b6a79", got.Personalizations[0].CustomArgs["searchRequestId"])
	assert.Equal(t, "bot@wedding.test", got.From.Email)
	require.Len(t, got.Content, 1)
	assert.Contains(t, got.Content[0].Value, "Clothing: blue suit")
	assert.Contains(t, got.Content[0].Value, "Avi (054-1111111)")
	assert.NotContains(t, got.Content[0].Value, "Hair color")
	assert.Equal(t, []string{"search-request"}, got.Categories)
}

func TestSendGridNotifier_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	sr := &models.SearchRequest{Searcher: models.Searcher{Name: "Avi"}}

	n := NewSendGridNotifier("key", "bot@wedding.test", "organizer@wedding.test")
	n.Endpoint = srv.URL
	err := n.NotifySearchRequest(context.Background(), sr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 401")
	assert.Contains(t, err.Error(), "bad key")

	missing := NewSendGridNotifier("", "", "organizer@wedding.test")
	assert.EqualError(t, missing.NotifySearchRequest(context.Background(), sr), "sendgrid: missing SENDGRID_API_KEY, NOTIFY_FROM_EMAIL")

	var unset *SendGridNotifier
	assert.Error(t, unset.NotifySearchRequest(context.Background(), sr))
}
