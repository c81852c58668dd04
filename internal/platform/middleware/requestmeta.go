// Package middleware provides the HTTP middleware chain: request metadata
// stamping and admin authentication.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"fraudgate/pkg/requestcontext"
)

// RequestMeta stamps every request with a request ID and the request arrival
// time. Downstream code reads both through pkg/requestcontext, which keeps
// window arithmetic pinnable in tests.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
