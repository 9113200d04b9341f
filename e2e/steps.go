package e2e

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

const decisionsPath = "/api/v1/decisions"

// RegisterSteps registers all step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the decision service is running$`, tc.decisionServiceIsRunning)
	ctx.Step(`^I have a valid service token$`, tc.haveValidServiceToken)
	ctx.Step(`^I have no service token$`, tc.haveNoServiceToken)
	ctx.Step(`^I present the service token "([^"]*)"$`, tc.presentServiceToken)

	// Request steps
	ctx.Step(`^I apply for a loan with personal code "([^"]*)", amount (\d+) and period (\d+) months$`, tc.applyForLoan)
	ctx.Step(`^I submit a loan application with body:$`, tc.submitRawApplication)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the loan should be approved for (\d+) over (\d+) months$`, tc.loanShouldBeApproved)
	ctx.Step(`^the loan should be rejected with reason "([^"]*)"$`, tc.loanShouldBeRejected)
	ctx.Step(`^the decision evidence should show segment "([^"]*)" with modifier (\d+)$`, tc.evidenceShouldShowSegment)
	ctx.Step(`^the decision should carry no evidence$`, tc.decisionShouldCarryNoEvidence)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
}

func (tc *TestContext) decisionServiceIsRunning(ctx context.Context) error {
	if tc.BaseURL == "" {
		return fmt.Errorf("decision service is not reachable")
	}
	return nil
}

func (tc *TestContext) haveValidServiceToken(ctx context.Context) error {
	signed, err := mintServiceToken()
	if err != nil {
		return fmt.Errorf("failed to mint service token: %w", err)
	}
	tc.Token = signed
	return nil
}

func (tc *TestContext) haveNoServiceToken(ctx context.Context) error {
	tc.Token = ""
	return nil
}

func (tc *TestContext) presentServiceToken(ctx context.Context, tokenString string) error {
	tc.Token = tokenString
	return nil
}

func (tc *TestContext) applyForLoan(ctx context.Context, personalCode string, amount, periodMonths int) error {
	body := map[string]interface{}{
		"personal_code": personalCode,
		"amount":        amount,
		"period_months": periodMonths,
	}
	return tc.POST(decisionsPath, body)
}

func (tc *TestContext) submitRawApplication(ctx context.Context, body *godog.DocString) error {
	return tc.POSTRaw(decisionsPath, body.Content)
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	if tc.LastResponse == nil {
		return fmt.Errorf("no response recorded")
	}
	if tc.LastResponse.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s",
			expectedStatus, tc.LastResponse.StatusCode, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) loanShouldBeApproved(ctx context.Context, amount, periodMonths int) error {
	if err := tc.outcomeShouldBe("approved"); err != nil {
		return err
	}

	gotAmount, err := tc.GetResponseField("approved_amount")
	if err != nil {
		return err
	}
	if int(gotAmount.(float64)) != amount {
		return fmt.Errorf("expected approved amount %d but got %v", amount, gotAmount)
	}

	gotPeriod, err := tc.GetResponseField("approved_period_months")
	if err != nil {
		return err
	}
	if int(gotPeriod.(float64)) != periodMonths {
		return fmt.Errorf("expected approved period %d but got %v", periodMonths, gotPeriod)
	}

	return nil
}

func (tc *TestContext) loanShouldBeRejected(ctx context.Context, reason string) error {
	if err := tc.outcomeShouldBe("rejected"); err != nil {
		return err
	}

	gotReason, err := tc.GetResponseField("reason")
	if err != nil {
		return err
	}
	if gotReason != reason {
		return fmt.Errorf("expected rejection reason %q but got %q", reason, gotReason)
	}

	return nil
}

func (tc *TestContext) outcomeShouldBe(outcome string) error {
	got, err := tc.GetResponseField("outcome")
	if err != nil {
		return err
	}
	if got != outcome {
		return fmt.Errorf("expected outcome %q but got %q\nResponse: %s",
			outcome, got, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) evidenceShouldShowSegment(ctx context.Context, segment string, modifier int) error {
	var resp struct {
		Evidence *struct {
			Segment        string `json:"segment"`
			CreditModifier int    `json:"credit_modifier"`
		} `json:"evidence"`
	}
	if err := json.Unmarshal(tc.LastResponseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Evidence == nil {
		return fmt.Errorf("decision carries no evidence\nResponse: %s", string(tc.LastResponseBody))
	}
	if resp.Evidence.Segment != segment {
		return fmt.Errorf("expected segment %q but got %q", segment, resp.Evidence.Segment)
	}
	if resp.Evidence.CreditModifier != modifier {
		return fmt.Errorf("expected credit modifier %d but got %d", modifier, resp.Evidence.CreditModifier)
	}
	return nil
}

func (tc *TestContext) decisionShouldCarryNoEvidence(ctx context.Context) error {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if _, ok := data["evidence"]; ok {
		return fmt.Errorf("expected no evidence in response: %s", string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseShouldContain(ctx context.Context, text string) error {
	if !tc.ResponseContains(text) {
		return fmt.Errorf("response does not contain %q\nResponse: %s", text, string(tc.LastResponseBody))
	}
	return nil
}
