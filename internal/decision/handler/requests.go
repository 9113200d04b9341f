package handler

import (
	"decisio/internal/decision"
	s "decisio/pkg/string"
	"decisio/pkg/validation"
)

// EvaluateRequest is the wire shape of a loan application.
//
// Only the presence of the personal code is checked at the transport layer.
// Out-of-policy amounts, periods, and malformed codes are business rejections
// with their own reason strings, so they pass through to the engine untouched.
type EvaluateRequest struct {
	PersonalCode string `json:"personal_code" validate:"required,notblank"`
	Amount       int    `json:"amount"`
	PeriodMonths int    `json:"period_months"`
}

func (r *EvaluateRequest) Sanitize() {
	s.TrimStrings(&r.PersonalCode)
}

func (r *EvaluateRequest) Validate() error {
	return validation.Validate(r)
}

func (r *EvaluateRequest) toDomain() decision.DecisionRequest {
	return decision.DecisionRequest{
		PersonalCode: r.PersonalCode,
		Amount:       r.Amount,
		PeriodMonths: r.PeriodMonths,
	}
}
