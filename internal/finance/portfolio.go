package finance

import (
	"github.com/shopspring/decimal"
)

// BalanceWarningThreshold is the absolute balance difference above which a
// manual allocation should be flagged to the user.
var BalanceWarningThreshold = decimal.NewFromInt(1)

// PropertyInput is one collateral property of a blanket loan
type PropertyInput struct {
	PropertyID    string
	PropertyValue decimal.Decimal
	Expenses      PropertyExpenses
	MonthlyRent   decimal.Decimal
}

// AllocationStrategy decides how much of a blanket loan each property carries
type AllocationStrategy interface {
	allocate(c *Calculator, total decimal.Decimal, count int) ([]decimal.Decimal, error)
}

// EvenSplit gives every property total/N. By default the division is carried
// at working precision and any sub-cent remainder is left unreconciled. With
// ReconcileRemainder each share is cut to whole cents and the last property
// takes what is left, so the shares sum to the total exactly.
type EvenSplit struct {
	ReconcileRemainder bool
}

func (s EvenSplit) allocate(c *Calculator, total decimal.Decimal, count int) ([]decimal.Decimal, error) {
	n := decimal.NewFromInt(int64(count))
	shares := make([]decimal.Decimal, count)

	if !s.ReconcileRemainder {
		share := c.div(total, n)
		for i := range shares {
			shares[i] = share
		}
		return shares, nil
	}

	share := total.Div(n).Truncate(c.cfg.MoneyPlaces)
	assigned := decimal.Zero
	for i := 0; i < count-1; i++ {
		shares[i] = share
		assigned = assigned.Add(share)
	}
	shares[count-1] = total.Sub(assigned)
	return shares, nil
}

// Manual uses caller-supplied amounts, one per property in input order. The
// amounts need not sum to the loan total; see PortfolioMetrics.BalanceDifference.
type Manual struct {
	Allocations []decimal.Decimal
}

func (s Manual) allocate(_ *Calculator, _ decimal.Decimal, count int) ([]decimal.Decimal, error) {
	if len(s.Allocations) != count {
		return nil, invalidInput("allocations", "must have one amount per property")
	}
	shares := make([]decimal.Decimal, count)
	for i, amount := range s.Allocations {
		if amount.IsNegative() {
			return nil, invalidInput("allocations", "must not be negative")
		}
		shares[i] = amount
	}
	return shares, nil
}

// PropertyAllocation is the per-property slice of a blanket loan
type PropertyAllocation struct {
	PropertyID          string
	AllocatedLoanAmount decimal.Decimal
	PropertyValue       decimal.Decimal
	LTVRatio            decimal.Decimal
	DSCRRatio           decimal.Decimal
	DSCR                DSCRResult
}

// PortfolioMetrics aggregates a blanket loan. PropertyBreakdowns[i]
// corresponds to the i-th input property.
type PortfolioMetrics struct {
	AggregateDSCR              decimal.Decimal
	AggregateLTV               decimal.Decimal
	AggregateQualifies         bool
	AggregateQualifiesStandard bool
	TotalMonthlyPI             decimal.Decimal
	TotalMonthlyPITIA          decimal.Decimal
	TotalMonthlyRent           decimal.Decimal
	TotalPropertyValue         decimal.Decimal
	TotalLoanAmount            decimal.Decimal
	TotalAllocated             decimal.Decimal
	BalanceDifference          decimal.Decimal
	PropertyBreakdowns         []PropertyAllocation
}

// HasBalanceWarning reports whether the allocations miss the loan total by
// more than BalanceWarningThreshold
func (m PortfolioMetrics) HasBalanceWarning() bool {
	return m.BalanceDifference.Abs().GreaterThan(BalanceWarningThreshold)
}

// AllocateBlanketLoan spreads totalLoanAmount over properties using strategy
// and evaluates each slice as if it were its own loan on the shared terms.
// terms.Principal is ignored; each property's allocation is its principal.
func (c *Calculator) AllocateBlanketLoan(properties []PropertyInput, totalLoanAmount decimal.Decimal, terms LoanTerms, strategy AllocationStrategy) (PortfolioMetrics, error) {
	if len(properties) == 0 {
		return PortfolioMetrics{}, invalidInput("properties", "must contain at least one property")
	}
	if !totalLoanAmount.IsPositive() {
		return PortfolioMetrics{}, invalidInput("totalLoanAmount", "must be greater than zero")
	}
	if strategy == nil {
		strategy = EvenSplit{}
	}

	shares, err := strategy.allocate(c, totalLoanAmount, len(properties))
	if err != nil {
		return PortfolioMetrics{}, err
	}

	var (
		totalPI    = decimal.Zero
		totalPITIA = decimal.Zero
		totalRent  = decimal.Zero
		totalValue = decimal.Zero
		totalAlloc = decimal.Zero
	)
	breakdowns := make([]PropertyAllocation, len(properties))

	for i, property := range properties {
		share := shares[i]

		pi := decimal.Zero
		if share.IsPositive() {
			if err := validateTerms(share, terms.AnnualRatePercent, terms.AmortizationMonths, terms.IsInterestOnly); err != nil {
				return PortfolioMetrics{}, err
			}
			pi = c.money(c.payment(share, terms.AnnualRatePercent, terms.AmortizationMonths, terms.IsInterestOnly))
		}

		result, pitia, err := c.coverage(pi, property.Expenses, property.MonthlyRent)
		if err != nil {
			return PortfolioMetrics{}, err
		}

		breakdowns[i] = PropertyAllocation{
			PropertyID:          property.PropertyID,
			AllocatedLoanAmount: c.money(share),
			PropertyValue:       property.PropertyValue,
			LTVRatio:            c.ratio(c.ltv(share, property.PropertyValue)),
			DSCRRatio:           result.DSCRRatio,
			DSCR:                result,
		}

		totalPI = totalPI.Add(pi)
		totalPITIA = totalPITIA.Add(pitia)
		totalRent = totalRent.Add(property.MonthlyRent)
		if property.PropertyValue.IsPositive() {
			totalValue = totalValue.Add(property.PropertyValue)
		}
		totalAlloc = totalAlloc.Add(share)
	}

	aggregateDSCR := decimal.Zero
	if totalPITIA.IsPositive() {
		aggregateDSCR = c.ratio(c.div(totalRent, totalPITIA))
	}

	return PortfolioMetrics{
		AggregateDSCR:              aggregateDSCR,
		AggregateLTV:               c.ratio(c.ltv(totalAlloc, totalValue)),
		AggregateQualifies:         aggregateDSCR.GreaterThanOrEqual(MinimumDSCR),
		AggregateQualifiesStandard: aggregateDSCR.GreaterThanOrEqual(StandardDSCR),
		TotalMonthlyPI:             c.money(totalPI),
		TotalMonthlyPITIA:          c.money(totalPITIA),
		TotalMonthlyRent:           c.money(totalRent),
		TotalPropertyValue:         c.money(totalValue),
		TotalLoanAmount:            totalLoanAmount,
		TotalAllocated:             c.money(totalAlloc),
		BalanceDifference:          c.money(totalLoanAmount.Sub(totalAlloc)),
		PropertyBreakdowns:         breakdowns,
	}, nil
}
