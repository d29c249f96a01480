package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/security"

	"github.com/gorilla/mux"
)

type contextKey string

const claimsContextKey contextKey = "user_claims"

// ClaimsFromContext extracts the authenticated caller's claims.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*security.UserClaims)
	return claims, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs every request once at the boundary.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// NewAuthMiddleware validates the Bearer token and places the claims in the
// request context. Applied once on the API subrouter, never per handler.
func NewAuthMiddleware(tokenManager security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, Response{
					Success:   false,
					Message:   "missing or malformed authorization header",
					ErrorType: string(domain.ErrorTypeAuthorization),
				})
				return
			}

			claims, err := tokenManager.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, Response{
					Success:   false,
					Message:   err.Error(),
					ErrorType: string(domain.ErrorTypeAuthorization),
				})
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards the admin subrouter with the role claim.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.HasRole(security.RoleAdmin) {
			writeJSON(w, http.StatusForbidden, Response{
				Success:   false,
				Message:   "admin role required",
				ErrorType: string(domain.ErrorTypeAuthorization),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
