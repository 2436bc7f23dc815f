package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/model"
)

// TokenValidator checks bearer tokens against the blacklist and verifies
// their signature and expiry. Satisfied by service.AuthService.
type TokenValidator interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	ValidateAccessToken(token string) (*model.Identity, error)
}

// Auth returns the bearer guard. It extracts the Authorization token,
// rejects revoked or invalid tokens, and injects the caller's identity into
// the request context. Revoked tokens get the same message as expired ones.
func Auth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "Authentication required")
				return
			}

			// A failed blacklist lookup is an infrastructure fault, not a
			// statement about the token. Do not fail open or masquerade it
			// as an auth rejection.
			revoked, err := validator.IsBlacklisted(r.Context(), token)
			if err != nil {
				logger.Error("blacklist check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeServerError(w)
				return
			}
			if revoked {
				logger.Warn("authentication failed",
					slog.String("reason", "revoked_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "Expired token")
				return
			}

			identity, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "Expired token")
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"UNAUTHORIZED"}`))
}

// writeServerError writes a 500 Internal Server Error response.
func writeServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"Internal server error","code":"INTERNAL_ERROR"}`))
}
