package middleware

import (
	"context"
	"net/http"
	"strings"

	jwttoken "fraudgate/internal/jwt_token"
	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/platform/httputil"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

type contextKeyAdminSubject struct{}

// AdminSubject returns the authenticated admin subject, or "" when the
// request did not pass through RequireAdmin.
func AdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(contextKeyAdminSubject{}).(string)
	return subject
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyAdminSubject{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
