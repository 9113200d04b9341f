package middleware

import (
	"log/slog"
	"net/http"

	"decisio/internal/platform/metrics"
	"decisio/pkg/secrets"
)

// RequireAdmin guards operational endpoints with a shared admin token.
// Only the bcrypt hash of the token is configured on the server; the
// plaintext travels in the X-Admin-Token header. An empty hash disables the
// surface entirely rather than leaving it open.
func RequireAdmin(tokenHash string, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			if tokenHash == "" {
				logger.WarnContext(ctx, "admin endpoint hit with no admin token configured",
					"request_id", requestID,
				)
				writeUnauthorized(w, m, "admin access not configured")
				return
			}

			token := r.Header.Get("X-Admin-Token")
			if err := secrets.Verify(token, tokenHash); err != nil {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestID,
				)
				writeUnauthorized(w, m, "admin token required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
