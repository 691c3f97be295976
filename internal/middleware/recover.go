package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/weddingmatch/backend/internal/models"
)

// Recoverer turns a panic into a JSON 500. The stack is logged always and
// returned to the client only when exposeStack is set.
func Recoverer(logger *slog.Logger, tr Localizer, exposeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				stack := string(debug.Stack())
				logger.Error("[Recoverer] panic serving request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", stack,
				)

				resp := models.NewErrorResponse(tr.T(r.Header.Get("Accept-Language"), "server.error", nil))
				if exposeStack {
					resp.Stack = fmt.Sprintf("%v\n%s", rec, stack)
				}
				writeJSON(w, http.StatusInternalServerError, resp)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
