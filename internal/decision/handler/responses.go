package handler

import (
	"time"

	"decisio/internal/decision"
)

// DecisionResponse is the wire form of a decision document. Rejected
// decisions omit the offer fields; approved decisions omit the reason.
type DecisionResponse struct {
	DecisionID           string            `json:"decision_id"`
	Outcome              string            `json:"outcome"`
	ApprovedAmount       int               `json:"approved_amount,omitempty"`
	ApprovedPeriodMonths int               `json:"approved_period_months,omitempty"`
	Reason               string            `json:"reason,omitempty"`
	Evidence             *EvidenceResponse `json:"evidence,omitempty"`
	EvaluatedAt          time.Time         `json:"evaluated_at"`
}

// EvidenceResponse carries the registry-derived inputs behind a decision.
// Decisions rejected before segmentation have no evidence to show.
type EvidenceResponse struct {
	Segment        string `json:"segment"`
	CreditModifier int    `json:"credit_modifier"`
	CreditScore    string `json:"credit_score,omitempty"`
}

func toDecisionResponse(d decision.Decision) DecisionResponse {
	resp := DecisionResponse{
		DecisionID:           d.ID.String(),
		Outcome:              string(d.Outcome),
		ApprovedAmount:       d.Amount,
		ApprovedPeriodMonths: d.PeriodMonths,
		Reason:               string(d.Reason),
		EvaluatedAt:          d.EvaluatedAt,
	}

	if d.Evidence.Segment != "" {
		evidence := &EvidenceResponse{
			Segment:        string(d.Evidence.Segment),
			CreditModifier: d.Evidence.CreditModifier,
		}
		if !d.Evidence.CreditScore.IsZero() {
			evidence.CreditScore = d.Evidence.CreditScore.String()
		}
		resp.Evidence = evidence
	}

	return resp
}
