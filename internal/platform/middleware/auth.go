package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"decisio/internal/platform/metrics"
)

// TokenVerifier validates bearer tokens presented to the API.
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// Claims carries the verified identity of a caller. Tokens identify calling
// services, not end users; the subject is the service name.
type Claims struct {
	Subject string
	JTI     string
}

type subjectKey struct{}

// GetSubject retrieves the authenticated caller from the context.
func GetSubject(ctx context.Context) string {
	if subject, ok := ctx.Value(subjectKey{}).(string); ok {
		return subject
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token. The verified
// subject is stored in the context for handlers and logs.
func RequireAuth(verifier TokenVerifier, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, m, "Missing or invalid Authorization header")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, m, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, subjectKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, m *metrics.Metrics, description string) {
	if m != nil {
		m.IncrementAuthFailures()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
