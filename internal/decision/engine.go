package decision

import (
	"time"

	"github.com/shopspring/decimal"

	"decisio/internal/decision/ports"
	"decisio/pkg/personalcode"
)

// Loan policy. These are fixed constants of the product, not runtime-tunable
// inputs; amounts are whole euros, periods whole months.
const (
	MinLoanAmount = 2_000
	MaxLoanAmount = 10_000

	MinLoanPeriodMonths = 12
	MaxLoanPeriodMonths = 60

	MinAge = 18

	// The oldest eligible age is tied to the longest loan term so that no
	// applicant can be required to repay past the repayment age cap.
	repaymentAgeCap = 80
	MaxAge          = repaymentAgeCap - MaxLoanPeriodMonths/12
)

// minCreditScore is the viability threshold. A score below 1 means the
// requested amount is not serviceable within the chosen period.
var minCreditScore = decimal.NewFromInt(1)

// WellFormedFunc reports whether a personal code is syntactically valid.
// The engine treats code validity as an oracle so the checksum scheme
// stays swappable.
type WellFormedFunc func(personalCode string) bool

// EvaluateDecision runs the full rule pipeline over a request and an
// already-fetched segment record: input validation, age gate, debt gate,
// approval search, credit score gate. It is pure and deterministic for a
// fixed clock; every path terminates in a Decision value, never a fault.
func EvaluateDecision(req DecisionRequest, record ports.SegmentRecord, wellFormed WellFormedFunc, now time.Time) Decision {
	if reason, ok := validateRequest(req, wellFormed); !ok {
		return rejected(reason, Evidence{}, now)
	}
	if reason, ok := verifyAge(req.PersonalCode, now); !ok {
		return rejected(reason, Evidence{}, now)
	}
	return resolveApproval(req, record, now)
}

// validateRequest checks code well-formedness and request bounds.
// Check order is code, amount, period; the first failing check determines
// the reported reason. Checks are not aggregated.
func validateRequest(req DecisionRequest, wellFormed WellFormedFunc) (RejectionReason, bool) {
	if !wellFormed(req.PersonalCode) {
		return ReasonInvalidPersonalCode, false
	}
	if req.Amount < MinLoanAmount || req.Amount > MaxLoanAmount {
		return ReasonInvalidAmount, false
	}
	if req.PeriodMonths < MinLoanPeriodMonths || req.PeriodMonths > MaxLoanPeriodMonths {
		return ReasonInvalidPeriod, false
	}
	return "", true
}

// verifyAge derives the applicant's age from the personal code's embedded
// birth date and applies the allowed band. A well-formed code carrying an
// impossible birth date is detected here and rejected under the same
// category, never parsed into a neighboring date.
func verifyAge(personalCode string, now time.Time) (RejectionReason, bool) {
	birth, err := personalcode.BirthDate(personalCode)
	if err != nil {
		return ReasonAgeNotAllowed, false
	}
	age := personalcode.Age(birth, now)
	if age < MinAge || age > MaxAge {
		return ReasonAgeNotAllowed, false
	}
	return "", true
}

// resolveApproval applies the post-registry stages: debt gate, approval
// search, and credit score gate.
func resolveApproval(req DecisionRequest, record ports.SegmentRecord, evalTime time.Time) Decision {
	evidence := Evidence{
		Segment:        record.Segment,
		CreditModifier: record.Modifier,
		RegistrySource: record.Source,
	}

	if record.InDebt() {
		return rejected(ReasonDebt, evidence, evalTime)
	}

	amount, period := searchApproval(record.Modifier, req.PeriodMonths)
	score := creditScore(record.Modifier, req.Amount, period)
	evidence.CreditScore = score

	if score.LessThan(minCreditScore) {
		return rejected(ReasonBadCreditScore, evidence, evalTime)
	}
	return approved(amount, period, evidence, evalTime)
}

// searchApproval finds the shortest period in [requestedPeriod, maximum]
// at which modifier*period reaches the minimum loan amount. The loop bound
// is explicit: if no period qualifies the search settles on the maximum
// period rather than failing, and the credit score gate downstream owns the
// final rejection. The returned amount is capped at the maximum loan amount.
func searchApproval(modifier, requestedPeriod int) (amount, periodMonths int) {
	period := requestedPeriod
	for modifier*period < MinLoanAmount && period < MaxLoanPeriodMonths {
		period++
	}

	amount = modifier * period
	if amount > MaxLoanAmount {
		amount = MaxLoanAmount
	}
	return amount, period
}

// creditScore computes (modifier / requestedAmount) * chosenPeriod against
// the originally requested amount, not the capped offer. The factors are
// multiplied before dividing so an exact boundary stays exact under decimal
// arithmetic.
func creditScore(modifier, requestedAmount, chosenPeriod int) decimal.Decimal {
	return decimal.NewFromInt(int64(modifier)).
		Mul(decimal.NewFromInt(int64(chosenPeriod))).
		Div(decimal.NewFromInt(int64(requestedAmount)))
}
