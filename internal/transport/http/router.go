// Package httptransport assembles the HTTP routers. It wires middleware and
// mounts handlers without embedding business logic, so transport concerns
// stay isolated from the decision engine.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	decisionhandler "decisio/internal/decision/handler"
	"decisio/internal/platform/health"
	"decisio/internal/platform/metrics"
	"decisio/internal/platform/middleware"
	"decisio/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// NewRouter wires the public decision API with the full middleware stack.
// Every route behind it requires a valid service token.
func NewRouter(
	decisions *decisionhandler.Handler,
	verifier middleware.TokenVerifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Channel(m))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(verifier, m, logger))
		decisions.Register(r)
	})

	return r
}

// CachePurger invalidates cached segment profiles.
type CachePurger interface {
	PurgeCache(ctx context.Context) (int, error)
}

// NewOpsRouter wires the operational surface: health probes, Prometheus
// metrics, and the admin-guarded cache purge. It listens on a separate port
// so the probes stay reachable without a service token.
func NewOpsRouter(
	healthHandler *health.Handler,
	purger CachePurger,
	adminTokenHash string,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)

	healthHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(adminTokenHash, m, logger))
		r.Post("/ops/registry/cache/purge", handleCachePurge(purger, logger))
	})

	return r
}

// PurgeResponse reports how many cached profiles a purge dropped.
type PurgeResponse struct {
	Purged int `json:"purged"`
}

func handleCachePurge(purger CachePurger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dropped, err := purger.PurgeCache(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "cache purge failed",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, PurgeResponse{Purged: dropped})
	}
}
