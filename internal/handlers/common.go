package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/weddingmatch/backend/internal/models"
	"github.com/weddingmatch/backend/internal/services"
)

// requestTimeout bounds every store call made on behalf of a request.
const requestTimeout = 10 * time.Second

// Translator renders message ids for a request locale.
type Translator interface {
	T(locale, key string, data map[string]any) string
	Lookup(locale, key string, data map[string]any) (string, bool)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a JSON object into dst. encoding/json skips a field whose
// value does not fit its Go type and keeps going, so such a field is left
// zero for validation to report rather than failing the whole body.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return nil
	}
	return err
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}

func locale(r *http.Request) string {
	return r.Header.Get("Accept-Language")
}

// responder writes localized envelopes. Every handler embeds one.
type responder struct {
	tr          Translator
	logger      *slog.Logger
	exposeStack bool
}

func (rs responder) message(r *http.Request, key string, data map[string]any) string {
	return rs.tr.T(locale(r), key, data)
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, status int, key string, data map[string]any) {
	writeJSON(w, status, models.NewErrorResponse(rs.message(r, key, data)))
}

// serverError logs err under tag and writes a 500 with the localized key.
// The error text reaches the client only when stacks are exposed.
func (rs responder) serverError(w http.ResponseWriter, r *http.Request, tag string, key string, err error) {
	rs.logger.Error("["+tag+"] request failed", "err", err, "path", r.URL.Path)
	resp := models.NewErrorResponse(rs.message(r, key, nil))
	if rs.exposeStack {
		resp.Stack = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

// validationFailed reports every violation. Each field message is looked up
// as field.<name>.<kind>, then field.<name>.invalid, then a generic message.
func (rs responder) validationFailed(w http.ResponseWriter, r *http.Request, key string, verr *services.ValidationError) {
	loc := locale(r)
	list := make([]string, 0, len(verr.Violations))
	byField := make(map[string]string, len(verr.Violations))
	for _, v := range verr.Violations {
		msg, ok := rs.tr.Lookup(loc, v.MessageID(), nil)
		if !ok {
			msg, ok = rs.tr.Lookup(loc, "field."+v.Field+".invalid", nil)
		}
		if !ok {
			msg = rs.tr.T(loc, "validation.field_invalid", map[string]any{"Field": v.Field})
		}
		list = append(list, msg)
		byField[v.Field] = msg
	}
	writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(rs.message(r, key, nil), list, byField))
}

// photoError maps a photo pipeline failure to a response. It reports false
// when err is not a photo error.
func (rs responder) photoError(w http.ResponseWriter, r *http.Request, err error, maxMB int64) bool {
	switch {
	case errors.Is(err, services.ErrPhotoTooLarge):
		rs.fail(w, r, http.StatusBadRequest, "photo.too_large", map[string]any{"MaxMB": maxMB})
	case errors.Is(err, services.ErrUnsupportedPhoto):
		rs.fail(w, r, http.StatusBadRequest, "photo.unsupported", nil)
	case errors.Is(err, services.ErrPhotoRejected):
		rs.fail(w, r, http.StatusBadRequest, "photo.rejected", nil)
	case errors.Is(err, services.ErrPhotoStoreUnavailable):
		rs.fail(w, r, http.StatusServiceUnavailable, "photo.unavailable", nil)
	default:
		return false
	}
	return true
}
