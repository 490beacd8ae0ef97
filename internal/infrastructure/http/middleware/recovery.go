package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/flashmart/flashmart-service/internal/infrastructure/http/response"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

// NewRecoveryMiddleware turns a handler panic into a 500 envelope so one
// bad request cannot take the listener down.
func NewRecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Recovered from handler panic",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					response.WriteError(w, http.StatusInternalServerError,
						response.StatusInternalError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
