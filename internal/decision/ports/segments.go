// Package ports defines the interfaces the decision engine consumes.
// Ports keep the engine free of transport and registry implementation
// details; in-process adapters satisfy them today, and a remote client
// could replace those adapters without touching the decision domain.
package ports

import "context"

// RiskSegment is the risk category the credit registry assigns to a person.
type RiskSegment string

const (
	// SegmentDebt marks an active payment default and is a terminal
	// rejection marker, never a usable modifier.
	SegmentDebt RiskSegment = "debt"
	SegmentLow  RiskSegment = "low_risk"
	SegmentMid  RiskSegment = "mid_risk"
	SegmentHigh RiskSegment = "high_risk"
)

// SegmentRecord is the minimal registry answer the engine needs: the
// segment and the credit modifier it carries. No PII crosses this boundary.
type SegmentRecord struct {
	Segment  RiskSegment
	Modifier int
	Source   string
}

// InDebt reports whether the record marks an active payment default.
func (r SegmentRecord) InDebt() bool { return r.Segment == SegmentDebt }

// SegmentSource fetches the risk segment for a personal code.
// The production adapter delegates to the registry service; tests stub it.
type SegmentSource interface {
	Profile(ctx context.Context, personalCode string) (SegmentRecord, error)
}
