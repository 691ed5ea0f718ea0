package finance

import (
	"github.com/shopspring/decimal"
)

// MaxAnnualRatePercent is the hard upper bound accepted for an annual rate.
// Rates above WarnAnnualRatePercent are accepted but flagged by callers.
var (
	MaxAnnualRatePercent  = decimal.NewFromInt(100)
	WarnAnnualRatePercent = decimal.NewFromInt(25)
)

// MaxAmortizationMonths bounds the term accepted by the engine (50 years).
// It applies to interest-only terms too, since their schedules still run
// month by month.
const MaxAmortizationMonths = 600

// LoanTerms describes a loan's payment terms. When IsInterestOnly is set,
// AmortizationMonths does not affect the payment.
type LoanTerms struct {
	Principal          decimal.Decimal
	AnnualRatePercent  decimal.Decimal
	AmortizationMonths int
	IsInterestOnly     bool
}

// Validate checks the terms against the amortization engine's input domain
func (t LoanTerms) Validate() error {
	return validateTerms(t.Principal, t.AnnualRatePercent, t.AmortizationMonths, t.IsInterestOnly)
}

func validateTerms(principal, annualRatePercent decimal.Decimal, amortizationMonths int, isInterestOnly bool) error {
	if !principal.IsPositive() {
		return invalidInput("principal", "must be greater than zero")
	}
	if annualRatePercent.IsNegative() {
		return invalidInput("annualRatePercent", "must not be negative")
	}
	if annualRatePercent.GreaterThan(MaxAnnualRatePercent) {
		return invalidInput("annualRatePercent", "must not exceed 100")
	}
	if !isInterestOnly && amortizationMonths <= 0 {
		return invalidInput("amortizationMonths", "must be at least 1")
	}
	if amortizationMonths > MaxAmortizationMonths {
		return invalidInput("amortizationMonths", "must not exceed 600")
	}
	return nil
}

// MonthlyPI returns the monthly principal and interest payment, rounded half
// up to cents.
//
//	interest-only:  P * r
//	zero rate:      P / n
//	otherwise:      P * r(1+r)^n / ((1+r)^n - 1)
//
// where r is the annual rate divided by 1200.
func (c *Calculator) MonthlyPI(principal, annualRatePercent decimal.Decimal, amortizationMonths int, isInterestOnly bool) (decimal.Decimal, error) {
	if err := validateTerms(principal, annualRatePercent, amortizationMonths, isInterestOnly); err != nil {
		return decimal.Zero, err
	}
	return c.money(c.payment(principal, annualRatePercent, amortizationMonths, isInterestOnly)), nil
}

// TermsPI is MonthlyPI for a LoanTerms value
func (c *Calculator) TermsPI(terms LoanTerms) (decimal.Decimal, error) {
	return c.MonthlyPI(terms.Principal, terms.AnnualRatePercent, terms.AmortizationMonths, terms.IsInterestOnly)
}

func (c *Calculator) monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return c.div(annualRatePercent, monthsPerRate)
}

// payment is the unrounded payment for already validated inputs
func (c *Calculator) payment(principal, annualRatePercent decimal.Decimal, months int, isInterestOnly bool) decimal.Decimal {
	r := c.monthlyRate(annualRatePercent)
	if isInterestOnly {
		return principal.Mul(r)
	}
	if r.IsZero() {
		return c.div(principal, decimal.NewFromInt(int64(months)))
	}
	factor := c.pow(decimal.NewFromInt(1).Add(r), months)
	return c.div(principal.Mul(r).Mul(factor), factor.Sub(decimal.NewFromInt(1)))
}

// ScheduleEntry is one month of an amortization schedule
type ScheduleEntry struct {
	Period           int
	Payment          decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	RemainingBalance decimal.Decimal
}

// AmortizationSchedule builds the month-by-month schedule for terms. Interest
// is charged on the outstanding balance and rounded to cents each month; the
// final period absorbs rounding so the balance ends at exactly zero.
// Interest-only schedules run AmortizationMonths periods and repay the whole
// principal as a balloon in the last one.
func (c *Calculator) AmortizationSchedule(terms LoanTerms) ([]ScheduleEntry, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if terms.AmortizationMonths <= 0 {
		return nil, invalidInput("amortizationMonths", "must be at least 1")
	}

	payment, err := c.TermsPI(terms)
	if err != nil {
		return nil, err
	}

	r := c.monthlyRate(terms.AnnualRatePercent)
	balance := terms.Principal
	schedule := make([]ScheduleEntry, 0, terms.AmortizationMonths)

	for period := 1; period <= terms.AmortizationMonths; period++ {
		interest := c.money(balance.Mul(r))

		var principal decimal.Decimal
		switch {
		case terms.IsInterestOnly && period < terms.AmortizationMonths:
			principal = decimal.Zero
		case period == terms.AmortizationMonths:
			principal = balance
		default:
			principal = payment.Sub(interest)
		}

		// Early payoff when rounding has already covered the balance
		if principal.GreaterThanOrEqual(balance) {
			principal = balance
		}

		balance = balance.Sub(principal)
		schedule = append(schedule, ScheduleEntry{
			Period:           period,
			Payment:          principal.Add(interest),
			Interest:         interest,
			Principal:        principal,
			RemainingBalance: balance,
		})

		if balance.IsZero() {
			break
		}
	}

	return schedule, nil
}

// ScheduleTotals sums the payments and interest of a schedule
func ScheduleTotals(schedule []ScheduleEntry) (totalPaid, totalInterest decimal.Decimal) {
	totalPaid = decimal.Zero
	totalInterest = decimal.Zero
	for _, entry := range schedule {
		totalPaid = totalPaid.Add(entry.Payment)
		totalInterest = totalInterest.Add(entry.Interest)
	}
	return totalPaid, totalInterest
}
