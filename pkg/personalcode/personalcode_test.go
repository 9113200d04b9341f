package personalcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// PersonalCodeSuite tests identity code parsing and validation. The oracle
// guards every decision request, so checksum and date edge cases must hold
// exactly.
type PersonalCodeSuite struct {
	suite.Suite
}

func TestPersonalCodeSuite(t *testing.T) {
	suite.Run(t, new(PersonalCodeSuite))
}

func (s *PersonalCodeSuite) TestValid() {
	s.Run("accepts well-formed codes", func() {
		for _, code := range []string{
			"39005106001", // male, 1990-05-10
			"48512033507", // female, 1985-12-03
			"50207218008", // male, 2002-07-21
			"37603141200", // male, 1976-03-14
		} {
			s.True(Valid(code), "expected %s to validate", code)
		}
	})

	s.Run("accepts codes whose checksum needs the second weight round", func() {
		// First-round remainder is 10 for this code; the check digit
		// comes from the second round.
		s.True(Valid("39005106108"))
	})

	s.Run("rejects flipped check digit", func() {
		s.False(Valid("39005106002"))
	})

	s.Run("rejects wrong length", func() {
		s.False(Valid("3900510600"))
		s.False(Valid("390051060011"))
		s.False(Valid(""))
	})

	s.Run("rejects non-digit characters", func() {
		s.False(Valid("3900510600a"))
		s.False(Valid("39005 06001"))
	})

	s.Run("does not judge the embedded date", func() {
		// 1990-02-30 never existed, but the checksum holds; date
		// plausibility is BirthDate's concern.
		s.True(Valid("39002306009"))
		s.True(Valid("79005106005"))
	})
}

func (s *PersonalCodeSuite) TestBirthDate() {
	s.Run("derives 1900s band", func() {
		date, err := BirthDate("39005106001")
		s.Require().NoError(err)
		s.Equal(time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC), date)
	})

	s.Run("derives 2000s band", func() {
		date, err := BirthDate("50207218008")
		s.Require().NoError(err)
		s.Equal(time.Date(2002, 7, 21, 0, 0, 0, 0, time.UTC), date)
	})

	s.Run("female century digits map to the same bands", func() {
		date, err := BirthDate("48512033507")
		s.Require().NoError(err)
		s.Equal(1985, date.Year())
	})

	s.Run("errors on impossible date instead of normalizing", func() {
		_, err := BirthDate("39002306009")
		s.Require().Error(err)
		s.ErrorIs(err, ErrInvalid)
	})

	s.Run("errors on month out of range", func() {
		_, err := BirthDate("39113106009")
		s.Require().Error(err)
		s.ErrorIs(err, ErrInvalid)
	})

	s.Run("errors on unrecognized century digit", func() {
		_, err := BirthDate("79005106005")
		s.Require().Error(err)
		s.ErrorIs(err, ErrInvalid)
	})
}

func (s *PersonalCodeSuite) TestSuffix() {
	s.Run("returns trailing four digits as a number", func() {
		suffix, err := Suffix("39005106001")
		s.Require().NoError(err)
		s.Equal(6001, suffix)
	})

	s.Run("preserves leading zeros in the suffix", func() {
		suffix, err := Suffix("37603141200")
		s.Require().NoError(err)
		s.Equal(1200, suffix)
	})

	s.Run("errors on malformed code", func() {
		_, err := Suffix("not-a-code")
		s.ErrorIs(err, ErrInvalid)
	})
}

func (s *PersonalCodeSuite) TestAge() {
	s.Run("birthday today counts the full year", func() {
		birth := time.Date(2007, 6, 15, 0, 0, 0, 0, time.UTC)
		now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		s.Equal(18, Age(birth, now))
	})

	s.Run("day before birthday is one year less", func() {
		birth := time.Date(2007, 6, 16, 0, 0, 0, 0, time.UTC)
		now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		s.Equal(17, Age(birth, now))
	})

	s.Run("earlier month is one year less", func() {
		birth := time.Date(1990, 12, 1, 0, 0, 0, 0, time.UTC)
		now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		s.Equal(33, Age(birth, now))
	})

	s.Run("leap day birthday completes the year on March 1", func() {
		birth := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
		s.Equal(17, Age(birth, time.Date(2018, 2, 28, 0, 0, 0, 0, time.UTC)))
		s.Equal(18, Age(birth, time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func (s *PersonalCodeSuite) TestRedact() {
	s.Run("keeps only the trailing four digits", func() {
		s.Equal("****6001", Redact("39005106001"))
	})

	s.Run("masks short input entirely", func() {
		s.Equal("****", Redact("12"))
		s.Equal("****", Redact(""))
	})
}
