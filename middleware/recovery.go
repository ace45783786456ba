// middleware/recovery.go
package middleware

import (
	"log"
	"net/http"

	"github.com/YugalRajVimal/dairy-management-server-sub000/utils"
)

// RecoveryMiddleware turns a handler panic into a 500 JSON response so a
// single bad request cannot take the worker down with it.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in %s %s: %v", r.Method, r.URL.Path, rec)
				utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
