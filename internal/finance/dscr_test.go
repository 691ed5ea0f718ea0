package finance

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thirtyYearTerms() LoanTerms {
	return LoanTerms{
		Principal:          d("500000"),
		AnnualRatePercent:  d("7.5"),
		AmortizationMonths: 360,
	}
}

func TestDSCR_WorkedExample(t *testing.T) {
	result, err := DSCR(thirtyYearTerms(), PropertyExpenses{
		PropertyTaxesAnnual: d("4200"),
		InsuranceAnnual:     d("1800"),
	}, d("4500"))
	require.NoError(t, err)

	assertMoney(t, "3496.07", result.MonthlyPI)
	assertMoney(t, "350.00", result.MonthlyTaxes)
	assertMoney(t, "150.00", result.MonthlyInsurance)
	assertMoney(t, "0.00", result.MonthlyFlood)
	assertMoney(t, "0.00", result.MonthlyHOA)
	assertMoney(t, "3996.07", result.MonthlyPITIA)
	assertMoney(t, "4500.00", result.MonthlyRent)
	assertMoney(t, "1.13", result.DSCRRatio)
	assert.True(t, result.Qualifies)
	assert.False(t, result.QualifiesStandard)
}

func TestDSCR_QualifiesStandard(t *testing.T) {
	result, err := DSCR(thirtyYearTerms(), PropertyExpenses{
		PropertyTaxesAnnual:  d("4200"),
		InsuranceAnnual:      d("1800"),
		FloodInsuranceAnnual: d("600"),
		HOADuesMonthly:       d("75"),
	}, d("5200"))
	require.NoError(t, err)

	assertMoney(t, "50.00", result.MonthlyFlood)
	assertMoney(t, "75.00", result.MonthlyHOA)
	assertMoney(t, "4121.07", result.MonthlyPITIA)
	assertMoney(t, "1.26", result.DSCRRatio)
	assert.True(t, result.Qualifies)
	assert.True(t, result.QualifiesStandard)
}

func TestDSCR_BelowMinimum(t *testing.T) {
	result, err := DSCR(thirtyYearTerms(), PropertyExpenses{}, d("3000"))
	require.NoError(t, err)
	assertMoney(t, "0.86", result.DSCRRatio)
	assert.False(t, result.Qualifies)
	assert.False(t, result.QualifiesStandard)
}

func TestDSCR_ThresholdsUseRoundedRatio(t *testing.T) {
	// 0.996 rounds to 1.00 and therefore qualifies
	result, err := DSCR(LoanTerms{
		Principal:         d("100000"),
		AnnualRatePercent: d("12"),
		IsInterestOnly:    true,
	}, PropertyExpenses{}, d("996"))
	require.NoError(t, err)
	assertMoney(t, "1000.00", result.MonthlyPITIA)
	assertMoney(t, "1.00", result.DSCRRatio)
	assert.True(t, result.Qualifies)
}

func TestDSCR_RoundsEachFieldIndependently(t *testing.T) {
	// Zero-rate interest-only loan has no PI; each expense is 83.333...
	result, err := DSCR(LoanTerms{
		Principal:         d("100000"),
		AnnualRatePercent: decimal.Zero,
		IsInterestOnly:    true,
	}, PropertyExpenses{
		PropertyTaxesAnnual:  d("1000"),
		InsuranceAnnual:      d("1000"),
		FloodInsuranceAnnual: d("1000"),
	}, d("500"))
	require.NoError(t, err)

	assertMoney(t, "83.33", result.MonthlyTaxes)
	assertMoney(t, "83.33", result.MonthlyInsurance)
	assertMoney(t, "83.33", result.MonthlyFlood)

	partsSum := result.MonthlyPI.Add(result.MonthlyTaxes).Add(result.MonthlyInsurance).
		Add(result.MonthlyFlood).Add(result.MonthlyHOA)
	assertMoney(t, "249.99", partsSum)
	assertMoney(t, "250.00", result.MonthlyPITIA)
	assertMoney(t, "2.00", result.DSCRRatio)
}

func TestDSCR_ZeroPITIAGivesZeroRatio(t *testing.T) {
	result, err := DSCR(LoanTerms{
		Principal:         d("100000"),
		AnnualRatePercent: decimal.Zero,
		IsInterestOnly:    true,
	}, PropertyExpenses{}, d("2000"))
	require.NoError(t, err)
	assert.True(t, result.MonthlyPITIA.IsZero())
	assert.True(t, result.DSCRRatio.IsZero())
	assert.False(t, result.Qualifies)
}

func TestDSCR_MonotonicInRent(t *testing.T) {
	expenses := PropertyExpenses{PropertyTaxesAnnual: d("4200"), InsuranceAnnual: d("1800")}
	previous := decimal.Zero
	for rent := int64(0); rent <= 8000; rent += 250 {
		result, err := DSCR(thirtyYearTerms(), expenses, decimal.NewFromInt(rent))
		require.NoError(t, err)
		assert.True(t, result.DSCRRatio.GreaterThanOrEqual(previous), "rent %d decreased ratio", rent)
		previous = result.DSCRRatio
	}
}

func TestDSCR_MonotonicInExpenses(t *testing.T) {
	previous := decimal.NewFromInt(1 << 30)
	for taxes := int64(0); taxes <= 24000; taxes += 1000 {
		result, err := DSCR(thirtyYearTerms(), PropertyExpenses{
			PropertyTaxesAnnual: decimal.NewFromInt(taxes),
			HOADuesMonthly:      d("50"),
		}, d("4500"))
		require.NoError(t, err)
		assert.True(t, result.DSCRRatio.LessThanOrEqual(previous), "taxes %d increased ratio", taxes)
		previous = result.DSCRRatio
	}
}

func TestDSCR_PropagatesAmortizationError(t *testing.T) {
	terms := thirtyYearTerms()
	terms.Principal = decimal.Zero

	_, err := DSCR(terms, PropertyExpenses{}, d("4500"))
	require.Error(t, err)

	var inputErr *InvalidInputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "principal", inputErr.Field)
}

func TestDSCR_RejectsNegativeValues(t *testing.T) {
	_, err := DSCR(thirtyYearTerms(), PropertyExpenses{InsuranceAnnual: d("-1")}, d("4500"))
	require.Error(t, err)
	assert.Equal(t, "insuranceAnnual", FieldOf(err))

	_, err = DSCR(thirtyYearTerms(), PropertyExpenses{}, d("-4500"))
	require.Error(t, err)
	assert.Equal(t, "monthlyRent", FieldOf(err))
}

func TestUnderwritingRent(t *testing.T) {
	assert.True(t, UnderwritingRent(d("2400"), d("2600")).Equal(d("2400")))
	assert.True(t, UnderwritingRent(d("2800"), d("2600")).Equal(d("2600")))
	// Vacant unit
	assert.True(t, UnderwritingRent(decimal.Zero, d("2600")).Equal(d("2600")))
	// No market estimate yet
	assert.True(t, UnderwritingRent(d("2400"), decimal.Zero).Equal(d("2400")))
}
