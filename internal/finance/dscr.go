package finance

import (
	"github.com/shopspring/decimal"
)

// Coverage thresholds. MinimumDSCR is the floor for aggressive products,
// StandardDSCR the conventional DSCR-product requirement.
var (
	MinimumDSCR  = decimal.NewFromInt(1)
	StandardDSCR = decimal.New(125, -2)
)

// PropertyExpenses are the non-loan carrying costs of a property. Annual
// figures are spread over twelve months; HOA dues are already monthly.
type PropertyExpenses struct {
	PropertyTaxesAnnual  decimal.Decimal
	InsuranceAnnual      decimal.Decimal
	FloodInsuranceAnnual decimal.Decimal
	HOADuesMonthly       decimal.Decimal
}

// Validate rejects negative expense values. Zero values are valid.
func (e PropertyExpenses) Validate() error {
	if e.PropertyTaxesAnnual.IsNegative() {
		return invalidInput("propertyTaxesAnnual", "must not be negative")
	}
	if e.InsuranceAnnual.IsNegative() {
		return invalidInput("insuranceAnnual", "must not be negative")
	}
	if e.FloodInsuranceAnnual.IsNegative() {
		return invalidInput("floodInsuranceAnnual", "must not be negative")
	}
	if e.HOADuesMonthly.IsNegative() {
		return invalidInput("hoaDuesMonthly", "must not be negative")
	}
	return nil
}

// DSCRResult is the monthly obligation breakdown for one property. Each
// monetary field is rounded on its own, so MonthlyPITIA can differ by a cent
// from the sum of the displayed components.
type DSCRResult struct {
	MonthlyPI         decimal.Decimal
	MonthlyTaxes      decimal.Decimal
	MonthlyInsurance  decimal.Decimal
	MonthlyFlood      decimal.Decimal
	MonthlyHOA        decimal.Decimal
	MonthlyPITIA      decimal.Decimal
	MonthlyRent       decimal.Decimal
	DSCRRatio         decimal.Decimal
	Qualifies         bool
	QualifiesStandard bool
}

// DSCR computes PITIA and the coverage ratio of monthlyRent against it.
// monthlyRent is used as given; apply UnderwritingRent beforehand when both a
// lease and a market figure are known.
func (c *Calculator) DSCR(terms LoanTerms, expenses PropertyExpenses, monthlyRent decimal.Decimal) (DSCRResult, error) {
	pi, err := c.TermsPI(terms)
	if err != nil {
		return DSCRResult{}, err
	}
	result, _, err := c.coverage(pi, expenses, monthlyRent)
	return result, err
}

// coverage evaluates a property given its monthly PI. The unrounded PITIA is
// returned alongside for portfolio aggregation.
func (c *Calculator) coverage(monthlyPI decimal.Decimal, expenses PropertyExpenses, monthlyRent decimal.Decimal) (DSCRResult, decimal.Decimal, error) {
	if err := expenses.Validate(); err != nil {
		return DSCRResult{}, decimal.Zero, err
	}
	if monthlyRent.IsNegative() {
		return DSCRResult{}, decimal.Zero, invalidInput("monthlyRent", "must not be negative")
	}

	taxes := c.div(expenses.PropertyTaxesAnnual, twelve)
	insurance := c.div(expenses.InsuranceAnnual, twelve)
	flood := c.div(expenses.FloodInsuranceAnnual, twelve)
	hoa := expenses.HOADuesMonthly

	pitia := monthlyPI.Add(taxes).Add(insurance).Add(flood).Add(hoa)

	ratio := decimal.Zero
	if pitia.IsPositive() {
		ratio = c.ratio(c.div(monthlyRent, pitia))
	}

	return DSCRResult{
		MonthlyPI:         c.money(monthlyPI),
		MonthlyTaxes:      c.money(taxes),
		MonthlyInsurance:  c.money(insurance),
		MonthlyFlood:      c.money(flood),
		MonthlyHOA:        c.money(hoa),
		MonthlyPITIA:      c.money(pitia),
		MonthlyRent:       monthlyRent,
		DSCRRatio:         ratio,
		Qualifies:         ratio.GreaterThanOrEqual(MinimumDSCR),
		QualifiesStandard: ratio.GreaterThanOrEqual(StandardDSCR),
	}, pitia, nil
}

// UnderwritingRent returns the rent used for underwriting: the lesser of the
// current lease and market rent. A zero lease (vacant unit) uses market rent.
func UnderwritingRent(currentLeaseRent, marketRent decimal.Decimal) decimal.Decimal {
	if !currentLeaseRent.IsPositive() {
		return marketRent
	}
	if !marketRent.IsPositive() {
		return currentLeaseRent
	}
	return decimal.Min(currentLeaseRent, marketRent)
}
