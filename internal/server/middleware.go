package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	applog "winecalc/internal/log"
)

const requestIDHeader = "X-Request-ID"

// withRequestID tags every request with an identifier, reusing the caller's
// header when it is a valid UUID, and adds it to the request's log fields.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := applog.WithFields(r.Context(), "requestID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
