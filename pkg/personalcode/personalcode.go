// Package personalcode parses and validates Estonian personal identity codes
// (isikukood). A code is 11 digits: a century/gender digit, a six-digit birth
// date (YYMMDD), a three-digit serial, and a mod-11 check digit.
//
// The decision engine consumes this package only through its well-formedness
// oracle and birth-date accessor; segment derivation uses the numeric suffix.
package personalcode

import (
	"errors"
	"fmt"
	"time"
)

const codeLength = 11

// ErrInvalid is returned for any code that fails structural validation.
// Callers that need the detail can inspect the wrapped message.
var ErrInvalid = errors.New("invalid personal code")

// checksum weight rounds per the national standard. If the first round
// yields remainder 10 the second round applies; a second remainder 10
// means the check digit is 0.
var (
	weightsRound1 = [10]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1}
	weightsRound2 = [10]int{3, 4, 5, 6, 7, 8, 9, 1, 2, 3}
)

// Valid reports whether code is a well-formed personal code: correct length,
// all digits, and a matching check digit. Whether the embedded birth date is
// a real calendar date is deliberately not checked here; BirthDate reports
// that separately so callers can distinguish a garbled code from a
// well-formed one carrying an impossible date.
//
// Example:
//
//	Valid("39005106001") // true
//	Valid("39005106002") // false (check digit mismatch)
func Valid(code string) bool {
	digits, err := digitsOf(code)
	if err != nil {
		return false
	}
	return digits[10] == checkDigit(digits)
}

// BirthDate extracts the embedded birth date. Only the 1900s and 2000s
// century bands are modeled: digits 5 and 6 mark the 2000s, digits 1
// through 4 the 1900s. Impossible calendar dates are an error, never a
// normalized substitute.
func BirthDate(code string) (time.Time, error) {
	digits, err := digitsOf(code)
	if err != nil {
		return time.Time{}, err
	}
	return birthDateFromDigits(digits)
}

// Suffix returns the numeric value of the code's trailing four digits
// (serial plus check digit), the input to risk segment derivation.
func Suffix(code string) (int, error) {
	digits, err := digitsOf(code)
	if err != nil {
		return 0, err
	}
	return digits[7]*1000 + digits[8]*100 + digits[9]*10 + digits[10], nil
}

// Age returns the whole-year age at the reference time, accounting for
// whether the birthday has occurred yet that year.
func Age(birth, now time.Time) int {
	b, n := birth.UTC(), now.UTC()
	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}
	return years
}

// Redact masks a personal code for logs, keeping only the trailing four
// digits. Codes shorter than four characters redact entirely.
func Redact(code string) string {
	if len(code) < 4 {
		return "****"
	}
	return "****" + code[len(code)-4:]
}

func digitsOf(code string) ([codeLength]int, error) {
	var digits [codeLength]int
	if len(code) != codeLength {
		return digits, fmt.Errorf("%w: length %d, want %d", ErrInvalid, len(code), codeLength)
	}
	for i, r := range code {
		if r < '0' || r > '9' {
			return digits, fmt.Errorf("%w: non-digit at position %d", ErrInvalid, i)
		}
		digits[i] = int(r - '0')
	}
	return digits, nil
}

func birthDateFromDigits(digits [codeLength]int) (time.Time, error) {
	var century int
	switch digits[0] {
	case 1, 2, 3, 4:
		century = 1900
	case 5, 6:
		century = 2000
	default:
		return time.Time{}, fmt.Errorf("%w: unrecognized century digit %d", ErrInvalid, digits[0])
	}

	year := century + digits[1]*10 + digits[2]
	month := digits[3]*10 + digits[4]
	day := digits[5]*10 + digits[6]

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %02d out of range", ErrInvalid, month)
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 2); a changed
	// component means the embedded date never existed.
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: impossible date %04d-%02d-%02d", ErrInvalid, year, month, day)
	}
	return date, nil
}

func checkDigit(digits [codeLength]int) int {
	sum := 0
	for i, w := range weightsRound1 {
		sum += digits[i] * w
	}
	if rem := sum % 11; rem < 10 {
		return rem
	}

	sum = 0
	for i, w := range weightsRound2 {
		sum += digits[i] * w
	}
	if rem := sum % 11; rem < 10 {
		return rem
	}
	return 0
}
