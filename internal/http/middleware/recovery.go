package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"go.uber.org/zap"
)

// Recovery converts panics into 500 responses instead of dropping the connection
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/problem+json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(&domain.APIError{
						Type:     domain.ErrorTypeInternal,
						Title:    "Internal Server Error",
						Status:   http.StatusInternalServerError,
						Detail:   "An unexpected error occurred",
						Instance: r.URL.Path,
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
