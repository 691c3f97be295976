package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weddingmatch/backend/internal/models"
	"github.com/weddingmatch/backend/internal/services"
)

type SearchRequestService interface {
	Create(ctx context.Context, in *models.SearchRequestInput) (*models.SearchRequest, error)
	ListAll(ctx context.Context) ([]*models.SearchRequest, error)
	Delete(ctx context.Context, id string) (*models.DeletedSearchRequest, error)
}

type SearchRequestHandler struct {
	responder
	searchRequests SearchRequestService
}

func NewSearchRequestHandler(searchRequests SearchRequestService, rs responder) *SearchRequestHandler {
	return &SearchRequestHandler{
		responder:      rs,
		searchRequests: searchRequests,
	}
}

// Create accepts the nested JSON body, or the flat form keys as JSON or as
// url-encoded/multipart form values.
func (h *SearchRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := &models.SearchRequestInput{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data", "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			h.fail(w, r, http.StatusBadRequest, "request.invalid_body", nil)
			return
		}
		form := func(key string) models.FlexString { return models.FlexString(r.FormValue(key)) }
		in = &models.SearchRequestInput{
			TargetGender:      form("targetGender"),
			ConnectionToEvent: form("connectionToEvent"),
			Height:            form("height"),
			HairColor:         form("hairColor"),
			Clothing:          form("clothing"),
			SpecialFeatures:   form("specialFeatures"),
			SearcherName:      form("searcherName"),
			SearcherPhone:     form("searcherPhone"),
			AboutMe:           form("aboutMe"),
		}
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := decodeJSON(r, in); err != nil {
			h.fail(w, r, http.StatusBadRequest, "request.invalid_body", nil)
			return
		}
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sr, err := h.searchRequests.Create(ctx, in)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.validationFailed(w, r, "search_request.validation_failed", verr)
			return
		}
		h.serverError(w, r, "CreateSearchRequest", "search_request.create_failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, models.SearchRequestCreatedResponse{
		Success: true,
		Message: h.message(r, "search_request.created", nil),
		SearchRequest: models.SearchRequestSummary{
			ID:           sr.ID,
			SearcherName: sr.Searcher.Name,
			SubmittedAt:  sr.SubmittedAt,
		},
	})
}

func (h *SearchRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.searchRequests.ListAll(ctx)
	if err != nil {
		h.serverError(w, r, "ListSearchRequests", "search_request.list_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, models.SearchRequestListResponse{
		Success:        true,
		Count:          len(list),
		SearchRequests: list,
	})
}

func (h *SearchRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.searchRequests.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			h.fail(w, r, http.StatusBadRequest, "search_request.invalid_id", nil)
		case errors.Is(err, services.ErrNotFound):
			h.fail(w, r, http.StatusNotFound, "search_request.not_found", nil)
		default:
			h.serverError(w, r, "DeleteSearchRequest", "search_request.delete_failed", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, models.SearchRequestDeletedResponse{
		Success:              true,
		Message:              h.message(r, "search_request.deleted", nil),
		DeletedSearchRequest: *deleted,
	})
}
