package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"decisio/internal/decision"
	"decisio/internal/decision/handler/mocks"
	"decisio/internal/decision/ports"
	id "decisio/pkg/domain"
	dErrors "decisio/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/decision-mocks.go -package=mocks Service

type DecisionHandlerSuite struct {
	suite.Suite
}

func TestDecisionHandlerSuite(t *testing.T) {
	suite.Run(t, new(DecisionHandlerSuite))
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(mockService, logger)
	r := chi.NewRouter()
	handler.Register(r)
	return handler, mockService
}

func newDecisionRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/api/v1/decisions", bytes.NewReader(bodyBytes))
}

// assertErrorResponse unmarshals the response body and asserts the error code.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, expectedCode, resp["error"])
}

func approvedDecision() decision.Decision {
	return decision.Decision{
		ID:           id.NewDecisionID(),
		Outcome:      decision.OutcomeApproved,
		Amount:       3600,
		PeriodMonths: 12,
		Evidence: decision.Evidence{
			Segment:        ports.SegmentMid,
			CreditModifier: 300,
			CreditScore:    decimal.RequireFromString("1.8"),
			RegistrySource: "mock",
		},
		EvaluatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (s *DecisionHandlerSuite) TestHandleEvaluate() {
	s.T().Run("200 - approved decision document", func(t *testing.T) {
		handler, mockService := newTestHandler(t)
		mockService.EXPECT().Evaluate(gomock.Any(), decision.DecisionRequest{
			PersonalCode: "39005106001",
			Amount:       2000,
			PeriodMonths: 12,
		}).Return(approvedDecision(), nil)

		req := newDecisionRequest(t, EvaluateRequest{
			PersonalCode: "39005106001",
			Amount:       2000,
			PeriodMonths: 12,
		})
		w := httptest.NewRecorder()
		handler.handleEvaluate(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "approved", resp["outcome"])
		assert.Equal(t, float64(3600), resp["approved_amount"])
		assert.Equal(t, float64(12), resp["approved_period_months"])

		_, err := id.ParseDecisionID(resp["decision_id"].(string))
		assert.NoError(t, err)

		evidence := resp["evidence"].(map[string]any)
		assert.Equal(t, "mid_risk", evidence["segment"])
		assert.Equal(t, float64(300), evidence["credit_modifier"])
		assert.Equal(t, "1.8", evidence["credit_score"])
	})

	s.T().Run("200 - rejection is a decision document, not an error", func(t *testing.T) {
		handler, mockService := newTestHandler(t)
		mockService.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(decision.Decision{
			ID:      id.NewDecisionID(),
			Outcome: decision.OutcomeRejected,
			Reason:  decision.ReasonDebt,
			Evidence: decision.Evidence{
				Segment:        ports.SegmentDebt,
				RegistrySource: "mock",
			},
			EvaluatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		}, nil)

		req := newDecisionRequest(t, EvaluateRequest{
			PersonalCode: "37603141200",
			Amount:       4000,
			PeriodMonths: 24,
		})
		w := httptest.NewRecorder()
		handler.handleEvaluate(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "rejected", resp["outcome"])
		assert.Equal(t, "debt", resp["reason"])
		_, hasAmount := resp["approved_amount"]
		assert.False(t, hasAmount, "rejected decisions carry no offer")
	})

	s.T().Run("200 - out-of-policy amounts reach the engine", func(t *testing.T) {
		handler, mockService := newTestHandler(t)
		mockService.EXPECT().Evaluate(gomock.Any(), decision.DecisionRequest{
			PersonalCode: "39005106001",
			Amount:       50,
			PeriodMonths: 12,
		}).Return(decision.Decision{
			ID:          id.NewDecisionID(),
			Outcome:     decision.OutcomeRejected,
			Reason:      decision.ReasonInvalidAmount,
			EvaluatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		}, nil)

		req := newDecisionRequest(t, EvaluateRequest{
			PersonalCode: "39005106001",
			Amount:       50,
			PeriodMonths: 12,
		})
		w := httptest.NewRecorder()
		handler.handleEvaluate(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid loan amount", resp["reason"])
	})

	s.T().Run("400 bad request - malformed JSON body", func(t *testing.T) {
		handler, _ := newTestHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", strings.NewReader("{"))

		w := httptest.NewRecorder()
		handler.handleEvaluate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorResponse(t, w, "bad_request")
	})

	s.T().Run("400 bad request - missing personal code", func(t *testing.T) {
		handler, _ := newTestHandler(t)
		req := newDecisionRequest(t, map[string]any{
			"amount":        4000,
			"period_months": 12,
		})

		w := httptest.NewRecorder()
		handler.handleEvaluate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorResponse(t, w, "validation_error")
	})

	s.T().Run("503 service unavailable - registry down", func(t *testing.T) {
		handler, mockService := newTestHandler(t)
		mockService.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
			Return(decision.Decision{}, dErrors.New(dErrors.CodeRegistryUnavailable, "credit registry unreachable"))

		req := newDecisionRequest(t, EvaluateRequest{
			PersonalCode: "39005106001",
			Amount:       4000,
			PeriodMonths: 12,
		})
		w := httptest.NewRecorder()
		handler.handleEvaluate(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assertErrorResponse(t, w, "registry_unavailable")
	})

	s.T().Run("personal code is trimmed before dispatch", func(t *testing.T) {
		handler, mockService := newTestHandler(t)
		mockService.EXPECT().Evaluate(gomock.Any(), decision.DecisionRequest{
			PersonalCode: "39005106001",
			Amount:       2000,
			PeriodMonths: 12,
		}).Return(approvedDecision(), nil)

		req := newDecisionRequest(t, map[string]any{
			"personal_code": "  39005106001  ",
			"amount":        2000,
			"period_months": 12,
		})
		w := httptest.NewRecorder()
		handler.handleEvaluate(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
