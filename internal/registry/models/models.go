// Package models holds the credit registry's record types and the
// deterministic segment partition used by the mock registry.
package models

import "time"

// Segment is the risk segment a credit registry assigns to a person.
type Segment string

const (
	// SegmentDebt marks an active payment default. No credit modifier applies.
	SegmentDebt Segment = "debt"
	// SegmentLow is the lowest creditworthiness band above debt.
	SegmentLow Segment = "low_risk"
	// SegmentMid is the middle creditworthiness band.
	SegmentMid Segment = "mid_risk"
	// SegmentHigh is the highest creditworthiness band.
	SegmentHigh Segment = "high_risk"
)

// Credit modifiers per segment. Debt has none.
const (
	ModifierLow  = 100
	ModifierMid  = 300
	ModifierHigh = 500
)

// SegmentProfile is a single registry answer for one person.
type SegmentProfile struct {
	PersonalCode string    `json:"personal_code"`
	Segment      Segment   `json:"segment"`
	Modifier     int       `json:"credit_modifier"`
	Source       string    `json:"source"`
	CheckedAt    time.Time `json:"checked_at"`
}

// InDebt reports whether the profile carries an active payment default.
func (p SegmentProfile) InDebt() bool {
	return p.Segment == SegmentDebt
}

// Suffix bands of the deterministic partition. The mock registry derives a
// person's segment from the last four digits of the personal code, so test
// identities are stable without any shared fixture data.
const (
	debtBandMax = 2499
	lowBandMax  = 4999
	midBandMax  = 7499
)

// SegmentForSuffix maps a personal code suffix (0..9999) onto a segment and
// its credit modifier.
func SegmentForSuffix(suffix int) (Segment, int) {
	switch {
	case suffix <= debtBandMax:
		return SegmentDebt, 0
	case suffix <= lowBandMax:
		return SegmentLow, ModifierLow
	case suffix <= midBandMax:
		return SegmentMid, ModifierMid
	default:
		return SegmentHigh, ModifierHigh
	}
}
