package steps

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// registerSeedSteps registers steps that build fixtures through the API.
func registerSeedSteps(ctx *godog.ScenarioContext) {
	ctx.Given(`^a project "([^"]*)" with a quarterly tranche "([^"]*)" exists$`, aProjectWithAQuarterlyTrancheExists)
	ctx.Given(`^the tranche has the subscribers:$`, theTrancheHasTheSubscribers)
	ctx.Given(`^the schedule of the tranche is generated$`, theScheduleOfTheTrancheIsGenerated)
}

// seed sends a JSON request and fails unless the API answers with want.
func (tc *TestContext) seed(method, endpoint, body string, want int) error {
	if err := tc.executeRequest(method, endpoint, strings.NewReader(tc.replacePlaceholders(body)), "application/json"); err != nil {
		return err
	}
	if tc.response.StatusCode != want {
		return fmt.Errorf("%s %s: expected status %d, got %d. Body: %s", method, endpoint, want, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func aProjectWithAQuarterlyTrancheExists(ctx context.Context, projectName, trancheName string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	if err := tc.seed(http.MethodPost, "/api/v1/projects", fmt.Sprintf(`{"name": %q, "issuer": "Helios SAS"}`, projectName), http.StatusCreated); err != nil {
		return err
	}
	if err := iStoreTheResponseFieldAs(ctx, "id", "project_id"); err != nil {
		return err
	}

	body := fmt.Sprintf(`{"name": %q, "annual_rate": 8, "periodicity": "trimestriel", "duration_months": 12, "issue_date": "2025-01-15", "target_amount": 100000}`, trancheName)
	if err := tc.seed(http.MethodPost, "/api/v1/projects/{project_id}/tranches", body, http.StatusCreated); err != nil {
		return err
	}
	return iStoreTheResponseFieldAs(ctx, "id", "tranche_id")
}

// theTrancheHasTheSubscribers reads a table with the columns type, name,
// email and amount. Individuals are named "First Last".
func theTrancheHasTheSubscribers(ctx context.Context, table *godog.Table) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if len(table.Rows) < 2 {
		return fmt.Errorf("the subscribers table needs a header and at least one row")
	}

	for _, row := range table.Rows[1:] {
		if len(row.Cells) < 4 {
			return fmt.Errorf("expected 4 columns, got %d", len(row.Cells))
		}
		investorType := strings.TrimSpace(row.Cells[0].Value)
		name := strings.TrimSpace(row.Cells[1].Value)
		email := strings.TrimSpace(row.Cells[2].Value)
		amount := strings.TrimSpace(row.Cells[3].Value)

		var investor string
		if investorType == "personne_physique" {
			first, last, _ := strings.Cut(name, " ")
			investor = fmt.Sprintf(`{"type": %q, "first_name": %q, "last_name": %q, "email": %q}`, investorType, first, last, email)
		} else {
			investor = fmt.Sprintf(`{"type": %q, "company_name": %q, "email": %q}`, investorType, name, email)
		}

		body := fmt.Sprintf(`{"investor": %s, "amount": %s, "subscribed_at": "2025-01-15"}`, investor, amount)
		if err := tc.seed(http.MethodPost, "/api/v1/tranches/{tranche_id}/subscriptions", body, http.StatusCreated); err != nil {
			return err
		}
	}
	return nil
}

func theScheduleOfTheTrancheIsGenerated(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	return tc.seed(http.MethodPost, "/api/v1/tranches/{tranche_id}/schedule", "", http.StatusCreated)
}
