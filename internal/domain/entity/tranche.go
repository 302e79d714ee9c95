package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// TrancheStatus represents the lifecycle status of a tranche.
type TrancheStatus string

const (
	TrancheStatusDraft  TrancheStatus = "draft"
	TrancheStatusActive TrancheStatus = "active" // schedule generated, coupons running
	TrancheStatusRepaid TrancheStatus = "repaid"
)

// Tranche represents a sub-issuance of a project with its own rate and coupon schedule.
type Tranche struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	Name           string
	AnnualRate     decimal.Decimal // percent, 8.5 = 8.5%
	Periodicity    valueobject.Periodicity
	DurationMonths int
	IssueDate      time.Time
	TargetAmount   decimal.Decimal
	Status         TrancheStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTranche creates a new draft Tranche.
func NewTranche(
	projectID uuid.UUID,
	name string,
	annualRate decimal.Decimal,
	periodicity valueobject.Periodicity,
	durationMonths int,
	issueDate time.Time,
	targetAmount decimal.Decimal,
) *Tranche {
	now := time.Now().UTC()

	return &Tranche{
		ID:             uuid.New(),
		ProjectID:      projectID,
		Name:           name,
		AnnualRate:     annualRate,
		Periodicity:    periodicity,
		DurationMonths: durationMonths,
		IssueDate:      issueDate,
		TargetAmount:   targetAmount,
		Status:         TrancheStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// PeriodCount returns the number of coupons paid over the life of the tranche.
func (t *Tranche) PeriodCount() int {
	months := t.Periodicity.MonthsPerPeriod()
	if months == 0 {
		return 0
	}
	return t.DurationMonths / months
}

// DueDates returns the coupon dates, one period apart starting one period after issue.
func (t *Tranche) DueDates() []time.Time {
	months := t.Periodicity.MonthsPerPeriod()
	n := t.PeriodCount()

	dates := make([]time.Time, 0, n)
	for k := 1; k <= n; k++ {
		dates = append(dates, AddMonths(t.IssueDate, k*months))
	}
	return dates
}

// Activate marks the tranche as running once its schedule exists.
func (t *Tranche) Activate() {
	t.Status = TrancheStatusActive
	t.UpdatedAt = time.Now().UTC()
}

// AddMonths adds months to a date, clamping to the last day of the target month
// (31 January + 1 month is 28 or 29 February).
func AddMonths(date time.Time, months int) time.Time {
	year, month, day := date.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, date.Location())
}
