package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/weddingmatch/backend/internal/middleware"
)

// RouterConfig carries everything NewRouter wires together. Nil limiters and
// an empty AdminJWTSecret leave the corresponding guard off.
type RouterConfig struct {
	Participants   ParticipantService
	SearchRequests SearchRequestService
	Translator     Translator
	Logger         *slog.Logger
	Ping           Pinger

	Environment string
	ExposeStack bool
	CORSOrigins []string
	MaxPhotoMB  int64
	// UploadDir, when set, is served under /uploads/.
	UploadDir string

	AdminJWTSecret    string
	AdminPasswordHash string
	AdminTokenTTL     time.Duration

	GlobalLimiter *middleware.RateLimiter
	SubmitLimiter *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) http.Handler {
	rs := responder{tr: cfg.Translator, logger: cfg.Logger, exposeStack: cfg.ExposeStack}

	participantHandler := NewParticipantHandler(cfg.Participants, cfg.MaxPhotoMB, rs)
	searchRequestHandler := NewSearchRequestHandler(cfg.SearchRequests, rs)
	adminHandler := NewAdminHandler(cfg.AdminJWTSecret, cfg.AdminPasswordHash, cfg.AdminTokenTTL, rs)
	healthHandler := NewHealthHandler(cfg.Ping, cfg.Environment)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.Translator, cfg.ExposeStack))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rs.fail(w, r, http.StatusNotFound, "route.not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rs.fail(w, r, http.StatusMethodNotAllowed, "route.not_found", nil)
	})

	// Health check
	r.Get("/health", healthHandler.Health)

	submitLimit := middleware.Limit(cfg.SubmitLimiter, cfg.Translator, "rate_limit.submit")
	adminOnly := middleware.AdminAuth(cfg.AdminJWTSecret, cfg.Translator)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Limit(cfg.GlobalLimiter, cfg.Translator, "rate_limit.global"))

		r.Get("/health", healthHandler.Health)

		r.Route("/participants", func(r chi.Router) {
			r.With(submitLimit).Post("/", participantHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/males", participantHandler.ListMales)
				r.Get("/females", participantHandler.ListFemales)
				r.Get("/stats", participantHandler.Stats)
				r.Delete("/{id}", participantHandler.Delete)
			})
		})

		r.Route("/search-requests", func(r chi.Router) {
			r.With(submitLimit).Post("/", searchRequestHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", searchRequestHandler.List)
				r.Delete("/{id}", searchRequestHandler.Delete)
			})
		})

		r.With(submitLimit).Post("/admin/login", adminHandler.Login)
	})

	// Serve uploaded files
	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	return r
}
