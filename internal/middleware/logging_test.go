package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name          string
		handlerStatus int
		path          string
		method        string
		wantLevel     slog.Level
	}{
		{"ok status", http.StatusOK, "/api/participants/males", http.MethodGet, slog.LevelInfo},
		{"created", http.StatusCreated, "/api/participants", http.MethodPost, slog.LevelInfo},
		{"not found", http.StatusNotFound, "/api/participants/665f1c2e9b1e8a3d4c5b6a79", http.MethodDelete, slog.LevelInfo},
		{"server error", http.StatusInternalServerError, "/api/search-requests", http.MethodPost, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h capturingHandler
			logger := slog.New(&h)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				_, _ = w.Write([]byte("{}"))
			})
			handler := chimw.RequestID(RequestLogger(logger)(next))
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, "request", h.record.Message)
			require.Equal(t, tt.wantLevel, h.record.Level)
			attrs := h.attrs()
			require.Equal(t, tt.method, attrs["method"].String())
			require.Equal(t, tt.path, attrs["path"].String())
			require.Equal(t, int64(tt.handlerStatus), attrs["status"].Int64())
			require.Equal(t, int64(2), attrs["bytes"].Int64())
			require.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
			require.NotEmpty(t, attrs["request_id"].String())
			require.Equal(t, tt.handlerStatus, rr.Code)
		})
	}
}

func TestRequestLogger_ImplicitOK(t *testing.T) {
	var h capturingHandler
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	RequestLogger(slog.New(&h))(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, int64(http.StatusOK), h.attrs()["status"].Int64())
}
