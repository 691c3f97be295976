package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/weddingmatch/backend/internal/middleware"
	"github.com/weddingmatch/backend/internal/models"
)

type AdminHandler struct {
	responder
	jwtSecret    string
	passwordHash []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

func NewAdminHandler(jwtSecret, passwordHash string, tokenTTL time.Duration, rs responder) *AdminHandler {
	return &AdminHandler{
		responder:    rs,
		jwtSecret:    jwtSecret,
		passwordHash: []byte(passwordHash),
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

// Login exchanges the organizer password for a bearer token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.jwtSecret == "" {
		h.fail(w, r, http.StatusNotFound, "admin.disabled", nil)
		return
	}

	var req models.AdminLoginRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		h.fail(w, r, http.StatusBadRequest, "request.invalid_body", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
		h.logger.Warn("[AdminLogin] rejected login", "remote", r.RemoteAddr)
		h.fail(w, r, http.StatusUnauthorized, "admin.invalid_credentials", nil)
		return
	}

	token, expiresAt, err := middleware.IssueAdminToken(h.jwtSecret, h.tokenTTL, h.now())
	if err != nil {
		h.serverError(w, r, "AdminLogin", "server.error", err)
		return
	}

	writeJSON(w, http.StatusOK, models.AdminLoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	})
}
