// Package testutil provides shared helpers and fixture data for tests.
package testutil

// TestCodes provides valid personal codes with known properties.
// Use these for deterministic test data: the birth date is embedded in the
// code and the last four digits select a known registry segment band.
var TestCodes = struct {
	Debt string // born 1976-03-14, suffix 1200
	Low  string // born 1985-12-03, suffix 3507
	Mid  string // born 1990-05-10, suffix 6001
	High string // born 2002-07-21, suffix 8008

	// Age boundary codes, all in the mid band. Ages are relative to a
	// reference clock of 2025-06-15.
	MidTurned18 string // born 2007-06-15, 18 that day
	MidStill17  string // born 2007-06-16, 17 until the next day
	MidAge75    string // born 1950-06-15, 75 that day
	MidAge76    string // born 1949-06-15, already 76

	// MidSecondRound has a check digit from the second checksum round.
	MidSecondRound string // born 1990-05-10, suffix 6108

	// BadChecksum fails validation; its first ten digits match Mid.
	BadChecksum string
	// ImpossibleDate passes the checksum but encodes February 30th.
	ImpossibleDate string
}{
	Debt:           "37603141200",
	Low:            "48512033507",
	Mid:            "39005106001",
	High:           "50207218008",
	MidTurned18:    "50706156002",
	MidStill17:     "50706166009",
	MidAge75:       "35006156000",
	MidAge76:       "34906156003",
	MidSecondRound: "39005106108",
	BadChecksum:    "39005106002",
	ImpossibleDate: "39002306009",
}
