package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/weddingmatch/backend/internal/config"
	"github.com/weddingmatch/backend/internal/handlers"
	"github.com/weddingmatch/backend/internal/i18n"
	"github.com/weddingmatch/backend/internal/middleware"
	"github.com/weddingmatch/backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	client, db, err := services.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		logger.Error("MongoDB connection failed", "err", err)
		os.Exit(1)
	}
	logger.Info("MongoDB connected", "db", cfg.MongoDB)

	participantRepo := services.NewMongoParticipantRepository(db)
	searchRequestRepo := services.NewMongoSearchRequestRepository(db)

	// Best-effort indexes.
	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := participantRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("participant indexes not created", "err", err)
	}
	if err := searchRequestRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("search request indexes not created", "err", err)
	}
	cancel()

	photos, uploadDir, err := newPhotoStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("photo store init failed", "backend", cfg.PhotoBackend, "err", err)
		os.Exit(1)
	}

	var notifier services.SearchRequestNotifier
	if cfg.NotifyEnabled() {
		notifier = services.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.NotifyFromEmail, cfg.NotifyToEmail)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Participants:   services.NewParticipantService(participantRepo, photos, logger),
		SearchRequests: services.NewSearchRequestService(searchRequestRepo, notifier, logger),
		Translator:     i18n.NewTranslator(cfg.DefaultLocale),
		Logger:         logger,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Environment:       cfg.Environment,
		ExposeStack:       !cfg.IsProduction(),
		CORSOrigins:       cfg.CORSOrigins,
		MaxPhotoMB:        cfg.MaxPhotoSizeMB,
		UploadDir:         uploadDir,
		AdminJWTSecret:    cfg.AdminJWTSecret,
		AdminPasswordHash: cfg.AdminPasswordHash,
		AdminTokenTTL:     cfg.AdminTokenTTL,
		GlobalLimiter:     middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax, cfg.TrustedProxyHops),
		SubmitLimiter:     middleware.NewRateLimiter(cfg.SubmitLimitWindow, cfg.SubmitLimitMax, cfg.TrustedProxyHops),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.ServerAddress, "env", cfg.Environment, "photos", cfg.PhotoBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("server failed", "err", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
		exitCode = 1
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("MongoDB disconnect failed", "err", err)
		exitCode = 1
	}
	logger.Info("server stopped")
	if exitCode != 0 {
		cancel()
		stop()
		os.Exit(exitCode)
	}
}

// newPhotoStore builds the configured backend. The returned directory is
// non-empty only for the local backend, whose files the router serves.
func newPhotoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.PhotoStore, string, error) {
	switch cfg.PhotoBackend {
	case config.PhotoBackendFirebase:
		store, err := services.NewFirebasePhotoStore(ctx, services.FirebasePhotoConfig{
			Bucket:          cfg.FirebaseBucket,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
			Moderate:        cfg.PhotoModeration,
		}, logger)
		return store, "", err
	case config.PhotoBackendLocal:
		store, err := services.NewLocalPhotoStore(cfg.UploadDir, cfg.PublicBaseURL)
		return store, cfg.UploadDir, err
	}
	return nil, "", nil
}
