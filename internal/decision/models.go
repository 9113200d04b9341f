package decision

import (
	"time"

	"github.com/shopspring/decimal"

	"decisio/internal/decision/ports"
	id "decisio/pkg/domain"
)

// Outcome enumerates the possible loan decisions.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// RejectionReason encodes why a loan was rejected. The values are the
// human-readable categories surfaced to applicants, so they are part of
// the API contract and must stay stable.
type RejectionReason string

const (
	ReasonInvalidPersonalCode RejectionReason = "invalid personal code"
	ReasonInvalidAmount       RejectionReason = "invalid loan amount"
	ReasonInvalidPeriod       RejectionReason = "invalid loan period"
	ReasonAgeNotAllowed       RejectionReason = "age not allowed"
	ReasonDebt                RejectionReason = "debt"
	ReasonBadCreditScore      RejectionReason = "bad credit score"
)

// DecisionRequest is the domain-level input for one loan evaluation.
// Amounts are whole euros, periods whole months. Nothing here outlives
// the call.
type DecisionRequest struct {
	PersonalCode string
	Amount       int
	PeriodMonths int
}

// Decision is the structured outcome of a loan evaluation. Exactly one
// variant is populated: an approved decision carries an amount and period
// and no reason, a rejected one carries a reason and zero amount/period.
type Decision struct {
	ID           id.DecisionID
	Outcome      Outcome
	Amount       int
	PeriodMonths int
	Reason       RejectionReason
	Evidence     Evidence
	EvaluatedAt  time.Time
}

// Approved reports whether the loan was approved.
func (d Decision) Approved() bool { return d.Outcome == OutcomeApproved }

// Evidence captures the non-PII signals behind a decision. Requests
// rejected before the registry lookup carry no segment or score.
type Evidence struct {
	Segment        ports.RiskSegment
	CreditModifier int
	CreditScore    decimal.Decimal
	RegistrySource string
}

// rejected builds the terminal rejection variant.
func rejected(reason RejectionReason, evidence Evidence, evalTime time.Time) Decision {
	return Decision{
		Outcome:     OutcomeRejected,
		Reason:      reason,
		Evidence:    evidence,
		EvaluatedAt: evalTime,
	}
}

// approved builds the approval variant.
func approved(amount, periodMonths int, evidence Evidence, evalTime time.Time) Decision {
	return Decision{
		Outcome:      OutcomeApproved,
		Amount:       amount,
		PeriodMonths: periodMonths,
		Evidence:     evidence,
		EvaluatedAt:  evalTime,
	}
}
