// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "decisio/pkg/domain-errors"
)

// DecisionID identifies a single evaluated decision. Every evaluation gets a
// fresh one so approvals and rejections alike can be correlated across logs,
// traces and the response body.
type DecisionID uuid.UUID

// NewDecisionID generates a random decision identifier.
func NewDecisionID() DecisionID {
	return DecisionID(uuid.New())
}

// ParseDecisionID validates an incoming decision ID string.
// Use at trust boundaries (handlers, API inputs).
func ParseDecisionID(s string) (DecisionID, error) {
	if s == "" {
		return DecisionID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "decision ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return DecisionID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "invalid decision ID format")
	}
	return DecisionID(id), nil
}

func (id DecisionID) String() string { return uuid.UUID(id).String() }

func (id DecisionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
