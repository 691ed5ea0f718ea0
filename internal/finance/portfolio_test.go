package finance

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identicalProperties(n int) []PropertyInput {
	properties := make([]PropertyInput, n)
	for i := range properties {
		properties[i] = PropertyInput{
			PropertyID:    fmt.Sprintf("prop-%d", i+1),
			PropertyValue: d("300000"),
			Expenses: PropertyExpenses{
				PropertyTaxesAnnual: d("3000"),
				InsuranceAnnual:     d("1200"),
			},
			MonthlyRent: d("2200"),
		}
	}
	return properties
}

func TestLTV(t *testing.T) {
	ltv, err := LTV(d("375000"), d("500000"))
	require.NoError(t, err)
	assertMoney(t, "75.00", ltv)

	ltv, err = LTV(d("200000"), d("300000"))
	require.NoError(t, err)
	assertMoney(t, "66.67", ltv)
}

func TestLTV_RoundTrip(t *testing.T) {
	cases := [][2]string{
		{"375000", "500000"},
		{"412345.67", "550000"},
		{"1", "3"},
		{"80000", "95000"},
	}
	for _, tc := range cases {
		loan, value := d(tc[0]), d(tc[1])
		ltv, err := LTV(loan, value)
		require.NoError(t, err)

		back := ltv.Div(hundred).Mul(value)
		// Two-place percentage bounds the error to 0.005% of the value
		tolerance := value.Mul(d("0.00005"))
		assert.True(t, back.Sub(loan).Abs().LessThanOrEqual(tolerance), "%s/%s round-tripped to %s", tc[0], tc[1], back)
	}
}

func TestLTV_ZeroValueSentinel(t *testing.T) {
	ltv, err := LTV(d("100000"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, ltv.IsZero())

	ltv, err = LTV(d("100000"), d("-5"))
	require.NoError(t, err)
	assert.True(t, ltv.IsZero())
}

func TestLTV_NegativeLoan(t *testing.T) {
	_, err := LTV(d("-1"), d("100"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "loanAmount", FieldOf(err))
}

func TestAllocateBlanketLoan_EvenSplit(t *testing.T) {
	properties := identicalProperties(2)
	metrics, err := AllocateBlanketLoan(properties, d("400000"), thirtyYearTerms(), EvenSplit{})
	require.NoError(t, err)
	require.Len(t, metrics.PropertyBreakdowns, 2)

	for i, breakdown := range metrics.PropertyBreakdowns {
		assert.Equal(t, properties[i].PropertyID, breakdown.PropertyID)
		assertMoney(t, "200000.00", breakdown.AllocatedLoanAmount)
		assertMoney(t, "66.67", breakdown.LTVRatio)
		assertMoney(t, "1398.43", breakdown.DSCR.MonthlyPI)
	}

	assertMoney(t, "66.67", metrics.AggregateLTV)
	assertMoney(t, "2796.86", metrics.TotalMonthlyPI)
	assertMoney(t, "3496.86", metrics.TotalMonthlyPITIA)
	assertMoney(t, "0.00", metrics.BalanceDifference)
	assert.False(t, metrics.HasBalanceWarning())
}

func TestAllocateBlanketLoan_IdenticalPropertiesIdenticalBreakdowns(t *testing.T) {
	metrics, err := AllocateBlanketLoan(identicalProperties(5), d("1000000"), thirtyYearTerms(), EvenSplit{})
	require.NoError(t, err)

	first := metrics.PropertyBreakdowns[0]
	for _, breakdown := range metrics.PropertyBreakdowns[1:] {
		assert.True(t, first.AllocatedLoanAmount.Equal(breakdown.AllocatedLoanAmount))
		assert.True(t, first.LTVRatio.Equal(breakdown.LTVRatio))
		assert.True(t, first.DSCRRatio.Equal(breakdown.DSCRRatio))
		assert.True(t, first.DSCR.MonthlyPITIA.Equal(breakdown.DSCR.MonthlyPITIA))
	}
}

func TestAllocateBlanketLoan_EvenSplitRemainder(t *testing.T) {
	properties := identicalProperties(3)

	unreconciled, err := AllocateBlanketLoan(properties, d("100000"), thirtyYearTerms(), EvenSplit{})
	require.NoError(t, err)
	for _, breakdown := range unreconciled.PropertyBreakdowns {
		assertMoney(t, "33333.33", breakdown.AllocatedLoanAmount)
	}
	assertMoney(t, "0.00", unreconciled.BalanceDifference)

	reconciled, err := AllocateBlanketLoan(properties, d("100000"), thirtyYearTerms(), EvenSplit{ReconcileRemainder: true})
	require.NoError(t, err)
	assertMoney(t, "33333.33", reconciled.PropertyBreakdowns[0].AllocatedLoanAmount)
	assertMoney(t, "33333.33", reconciled.PropertyBreakdowns[1].AllocatedLoanAmount)
	assertMoney(t, "33333.34", reconciled.PropertyBreakdowns[2].AllocatedLoanAmount)
	assert.True(t, reconciled.TotalAllocated.Equal(d("100000")))
	assert.True(t, reconciled.BalanceDifference.IsZero())
}

func TestAllocateBlanketLoan_Manual(t *testing.T) {
	properties := []PropertyInput{
		{PropertyID: "a", PropertyValue: d("250000"), MonthlyRent: d("2100"), Expenses: PropertyExpenses{PropertyTaxesAnnual: d("2400")}},
		{PropertyID: "b", PropertyValue: d("400000"), MonthlyRent: d("3300"), Expenses: PropertyExpenses{InsuranceAnnual: d("1800")}},
	}

	metrics, err := AllocateBlanketLoan(properties, d("400000"), thirtyYearTerms(), Manual{
		Allocations: []decimal.Decimal{d("150000"), d("240000")},
	})
	require.NoError(t, err)

	assert.Equal(t, "a", metrics.PropertyBreakdowns[0].PropertyID)
	assert.Equal(t, "b", metrics.PropertyBreakdowns[1].PropertyID)
	assertMoney(t, "60.00", metrics.PropertyBreakdowns[0].LTVRatio)
	assertMoney(t, "60.00", metrics.PropertyBreakdowns[1].LTVRatio)
	assertMoney(t, "60.00", metrics.AggregateLTV)
	assertMoney(t, "390000.00", metrics.TotalAllocated)
	assertMoney(t, "10000.00", metrics.BalanceDifference)
	assert.True(t, metrics.HasBalanceWarning())
}

func TestAllocateBlanketLoan_ManualWithinTolerance(t *testing.T) {
	metrics, err := AllocateBlanketLoan(identicalProperties(2), d("400000"), thirtyYearTerms(), Manual{
		Allocations: []decimal.Decimal{d("200000"), d("199999.50")},
	})
	require.NoError(t, err)
	assertMoney(t, "0.50", metrics.BalanceDifference)
	assert.False(t, metrics.HasBalanceWarning())
}

func TestAllocateBlanketLoan_OverAllocationRoundsAwayFromZero(t *testing.T) {
	metrics, err := AllocateBlanketLoan(identicalProperties(2), d("400000"), thirtyYearTerms(), Manual{
		Allocations: []decimal.Decimal{d("200000"), d("200000.005")},
	})
	require.NoError(t, err)
	assert.True(t, metrics.BalanceDifference.Equal(d("-0.01")), "got %s", metrics.BalanceDifference)
	assert.False(t, metrics.HasBalanceWarning())
}

func TestAllocateBlanketLoan_AggregateDSCR(t *testing.T) {
	properties := []PropertyInput{
		{PropertyID: "a", PropertyValue: d("300000"), MonthlyRent: d("3000")},
		{PropertyID: "b", PropertyValue: d("300000"), MonthlyRent: d("1000")},
	}
	metrics, err := AllocateBlanketLoan(properties, d("400000"), LoanTerms{
		AnnualRatePercent: d("6"),
		IsInterestOnly:    true,
	}, EvenSplit{})
	require.NoError(t, err)

	// Each slice pays 1,000 interest-only; rent 4,000 over PITIA 2,000
	assertMoney(t, "3.00", metrics.PropertyBreakdowns[0].DSCRRatio)
	assertMoney(t, "1.00", metrics.PropertyBreakdowns[1].DSCRRatio)
	assertMoney(t, "2.00", metrics.AggregateDSCR)
	assert.True(t, metrics.AggregateQualifies)
	assert.True(t, metrics.AggregateQualifiesStandard)
	assertMoney(t, "4000.00", metrics.TotalMonthlyRent)
}

func TestAllocateBlanketLoan_ZeroValueProperty(t *testing.T) {
	properties := identicalProperties(2)
	properties[1].PropertyValue = decimal.Zero

	metrics, err := AllocateBlanketLoan(properties, d("400000"), thirtyYearTerms(), EvenSplit{})
	require.NoError(t, err)
	assert.True(t, metrics.PropertyBreakdowns[1].LTVRatio.IsZero())
	assertMoney(t, "66.67", metrics.PropertyBreakdowns[0].LTVRatio)
	// Only valued properties count toward aggregate value
	assertMoney(t, "133.33", metrics.AggregateLTV)
}

func TestAllocateBlanketLoan_ZeroAllocation(t *testing.T) {
	metrics, err := AllocateBlanketLoan(identicalProperties(2), d("400000"), thirtyYearTerms(), Manual{
		Allocations: []decimal.Decimal{d("400000"), decimal.Zero},
	})
	require.NoError(t, err)
	second := metrics.PropertyBreakdowns[1]
	assert.True(t, second.DSCR.MonthlyPI.IsZero())
	assert.True(t, second.LTVRatio.IsZero())
	assertMoney(t, "350.00", second.DSCR.MonthlyPITIA)
}

func TestAllocateBlanketLoan_InvalidInputs(t *testing.T) {
	terms := thirtyYearTerms()

	_, err := AllocateBlanketLoan(nil, d("400000"), terms, EvenSplit{})
	assert.Equal(t, "properties", FieldOf(err))

	_, err = AllocateBlanketLoan(identicalProperties(2), decimal.Zero, terms, EvenSplit{})
	assert.Equal(t, "totalLoanAmount", FieldOf(err))

	_, err = AllocateBlanketLoan(identicalProperties(2), d("400000"), terms, Manual{
		Allocations: []decimal.Decimal{d("400000")},
	})
	assert.Equal(t, "allocations", FieldOf(err))

	_, err = AllocateBlanketLoan(identicalProperties(2), d("400000"), terms, Manual{
		Allocations: []decimal.Decimal{d("500000"), d("-100000")},
	})
	assert.Equal(t, "allocations", FieldOf(err))

	badTerms := terms
	badTerms.AmortizationMonths = 0
	_, err = AllocateBlanketLoan(identicalProperties(2), d("400000"), badTerms, EvenSplit{})
	assert.Equal(t, "amortizationMonths", FieldOf(err))

	properties := identicalProperties(2)
	properties[0].MonthlyRent = d("-1")
	_, err = AllocateBlanketLoan(properties, d("400000"), terms, EvenSplit{})
	assert.Equal(t, "monthlyRent", FieldOf(err))
}

func TestAllocateBlanketLoan_NilStrategyIsEvenSplit(t *testing.T) {
	metrics, err := AllocateBlanketLoan(identicalProperties(2), d("400000"), thirtyYearTerms(), nil)
	require.NoError(t, err)
	assertMoney(t, "200000.00", metrics.PropertyBreakdowns[0].AllocatedLoanAmount)
}

func TestCalculator_ConcurrentUse(t *testing.T) {
	calc := Default()
	expected, err := calc.AllocateBlanketLoan(identicalProperties(4), d("900000"), thirtyYearTerms(), EvenSplit{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]PortfolioMetrics, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := calc.AllocateBlanketLoan(identicalProperties(4), d("900000"), thirtyYearTerms(), EvenSplit{})
			if err == nil {
				results[i] = m
			}
		}(i)
	}
	wg.Wait()

	for _, m := range results {
		assert.Equal(t, expected.AggregateDSCR.String(), m.AggregateDSCR.String())
		assert.Equal(t, expected.TotalMonthlyPITIA.String(), m.TotalMonthlyPITIA.String())
	}
}
