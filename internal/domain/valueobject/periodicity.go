package valueobject

// Periodicity is the coupon payment frequency of a tranche.
type Periodicity string

const (
	PeriodicityMonthly    Periodicity = "mensuel"
	PeriodicityQuarterly  Periodicity = "trimestriel"
	PeriodicitySemiannual Periodicity = "semestriel"
	PeriodicityAnnual     Periodicity = "annuel"
)

var periodsPerYear = map[Periodicity]int{
	PeriodicityMonthly:    12,
	PeriodicityQuarterly:  4,
	PeriodicitySemiannual: 2,
	PeriodicityAnnual:     1,
}

// IsValid checks if the periodicity is valid.
func (p Periodicity) IsValid() bool {
	_, ok := periodsPerYear[p]
	return ok
}

// PeriodsPerYear returns the number of coupons paid per year, 0 if invalid.
func (p Periodicity) PeriodsPerYear() int {
	return periodsPerYear[p]
}

// MonthsPerPeriod returns the number of months between two coupons, 0 if invalid.
func (p Periodicity) MonthsPerPeriod() int {
	n := periodsPerYear[p]
	if n == 0 {
		return 0
	}
	return 12 / n
}
