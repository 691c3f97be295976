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

// multipartMemory is how much of a multipart body is kept in memory; the
// rest spills to temp files.
const (
	multipartMemory = 1 << 20
	maxJSONBody     = 1 << 20
)

type ParticipantService interface {
	Create(ctx context.Context, in *models.ParticipantInput, photo *services.PhotoUpload) (*models.Participant, error)
	ListByGender(ctx context.Context, gender string) ([]*models.Participant, error)
	Stats(ctx context.Context) (*models.ParticipantStats, error)
	Delete(ctx context.Context, id string) (*models.DeletedParticipant, error)
}

type ParticipantHandler struct {
	responder
	participants ParticipantService
	maxPhotoMB   int64
}

func NewParticipantHandler(participants ParticipantService, maxPhotoMB int64, rs responder) *ParticipantHandler {
	return &ParticipantHandler{
		responder:    rs,
		participants: participants,
		maxPhotoMB:   maxPhotoMB,
	}
}

func (h *ParticipantHandler) maxPhotoBytes() int64 {
	return h.maxPhotoMB << 20
}

// Create accepts multipart/form-data (optional file field "photo") or JSON.
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		in    *models.ParticipantInput
		photo *services.PhotoUpload
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		// Room for the text fields on top of the photo.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes()+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.photoError(w, r, services.ErrPhotoTooLarge, h.maxPhotoMB)
				return
			}
			h.fail(w, r, http.StatusBadRequest, "request.invalid_body", nil)
			return
		}
		defer r.MultipartForm.RemoveAll()

		in = models.ParticipantInputFromForm(r.FormValue)

		file, header, err := r.FormFile("photo")
		switch {
		case err == nil:
			defer file.Close()
			photo, err = services.InspectPhoto(header.Filename, header.Size, file, h.maxPhotoBytes())
			if err != nil {
				if !h.photoError(w, r, err, h.maxPhotoMB) {
					h.serverError(w, r, "CreateParticipant", "participant.create_failed", err)
				}
				return
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			h.fail(w, r, http.StatusBadRequest, "request.invalid_body", nil)
			return
		}

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			h.fail(w, r, http.StatusBadRequest, "request.invalid_body", nil)
			return
		}
		in = models.ParticipantInputFromForm(r.PostFormValue)

	default:
		in = &models.ParticipantInput{}
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := decodeJSON(r, in); err != nil {
			h.fail(w, r, http.StatusBadRequest, "request.invalid_body", nil)
			return
		}
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.participants.Create(ctx, in, photo)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.validationFailed(w, r, "validation.failed", verr)
			return
		}
		if h.photoError(w, r, err, h.maxPhotoMB) {
			return
		}
		h.serverError(w, r, "CreateParticipant", "participant.create_failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, models.ParticipantCreatedResponse{
		Success: true,
		Message: h.message(r, "participant.created", map[string]any{"List": p.List}),
		Participant: models.ParticipantSummary{
			ID:          p.ID,
			Name:        p.Name,
			List:        p.List,
			SubmittedAt: p.SubmittedAt,
		},
	})
}

func (h *ParticipantHandler) ListMales(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.GenderMale)
}

func (h *ParticipantHandler) ListFemales(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.GenderFemale)
}

func (h *ParticipantHandler) list(w http.ResponseWriter, r *http.Request, gender string) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.participants.ListByGender(ctx, gender)
	if err != nil {
		h.serverError(w, r, "ListParticipants", "participant.list_failed."+gender, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ParticipantListResponse{
		Success:      true,
		Count:        len(list),
		Participants: list,
	})
}

func (h *ParticipantHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := h.participants.Stats(ctx)
	if err != nil {
		h.serverError(w, r, "ParticipantStats", "participant.stats_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, models.ParticipantStatsResponse{
		Success: true,
		Stats:   *stats,
	})
}

func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.participants.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			h.fail(w, r, http.StatusBadRequest, "participant.invalid_id", nil)
		case errors.Is(err, services.ErrNotFound):
			h.fail(w, r, http.StatusNotFound, "participant.not_found", nil)
		default:
			h.serverError(w, r, "DeleteParticipant", "participant.delete_failed", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, models.ParticipantDeletedResponse{
		Success:            true,
		Message:            h.message(r, "participant.deleted", map[string]any{"Name": deleted.Name}),
		DeletedParticipant: *deleted,
	})
}
