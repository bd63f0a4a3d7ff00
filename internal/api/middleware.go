package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/repurpose/repurpose/internal/auth"
	"github.com/repurpose/repurpose/internal/model"
	"github.com/repurpose/repurpose/internal/store"
)

type contextKey string

const principalKey contextKey = "principal"

// resolvePrincipal validates the bearer token and returns the principal, or
// nil if the request carries no usable credentials.
func resolvePrincipal(r *http.Request, secret string, db *sql.DB) *model.Principal {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}

	claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil
	}

	revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
	if err != nil || revoked {
		return nil
	}

	principal, err := claims.Principal()
	if err != nil {
		return nil
	}
	return &principal
}

// AuthMiddleware requires a valid, unrevoked bearer token and adds the
// resolved principal to the request context.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := resolvePrincipal(r, secret, db)
			if principal == nil {
				jsonError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a principal when credentials are present but lets
// anonymous requests through. Handlers for public endpoints with
// role-restricted views check the principal themselves.
func OptionalAuth(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principal := resolvePrincipal(r, secret, db); principal != nil {
				r = r.WithContext(context.WithValue(r.Context(), principalKey, principal))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects non-admin principals.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())
		if principal == nil {
			jsonError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if !principal.IsAdmin() {
			jsonError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal retrieves the authenticated principal from the context, or
// nil for anonymous requests.
func GetPrincipal(ctx context.Context) *model.Principal {
	principal, _ := ctx.Value(principalKey).(*model.Principal)
	return principal
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request", "method", r.Method, "path", r.URL.RequestURI(),
			"status", rec.status, "duration", time.Since(start).Round(time.Millisecond))
	})
}
