// Package errors provides HTTP error-handling helpers for the affine
// bounding service.
package errors

import (
	"net/http"
	"runtime/debug"

	"github.com/affinebound/affinebound/internal/logging"
)

// RecoveryMiddleware returns a middleware that recovers from panics, logs the
// stack trace and returns a 500 to the client.
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					fields := map[string]interface{}{
						"error": rec,
						"stack": string(debug.Stack()),
					}
					if r != nil {
						fields["method"] = r.Method
						fields["path"] = r.URL.Path
					}
					logger.Error("Recovered from panic", fields)

					http.Error(w, http.StatusText(http.StatusInternalServerError),
						http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
