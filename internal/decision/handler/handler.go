// Package handler exposes the loan decision API over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"decisio/internal/decision"
	"decisio/internal/platform/middleware"
	"decisio/pkg/platform/httputil"
)

// Service defines the decision operations the transport layer depends on.
type Service interface {
	Evaluate(ctx context.Context, req decision.DecisionRequest) (decision.Decision, error)
}

// Handler handles loan decision endpoints.
type Handler struct {
	logger    *slog.Logger
	decisions Service
}

// New creates a new decision Handler.
func New(decisions Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		decisions: decisions,
	}
}

// Register registers the decision routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/decisions", h.handleEvaluate)
}

// handleEvaluate evaluates a loan application. Business rejections are
// successful responses carrying a rejected decision document; only malformed
// requests and infrastructure failures map to error statuses.
func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.decisions.Evaluate(ctx, req.toDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "decision evaluation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(d))
}
