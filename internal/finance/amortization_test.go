package finance

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected, actual.StringFixed(2), msgAndArgs...)
}

func TestMonthlyPI_ThirtyYearFixed(t *testing.T) {
	// 500,000 at 7.5% over 360 months
	payment, err := MonthlyPI(d("500000"), d("7.5"), 360, false)
	require.NoError(t, err)
	assertMoney(t, "3496.07", payment)
}

func TestMonthlyPI_ZeroRateIsStraightLine(t *testing.T) {
	payment, err := MonthlyPI(d("120000"), decimal.Zero, 120, false)
	require.NoError(t, err)
	assert.True(t, payment.Equal(d("1000")), "got %s", payment)
}

func TestMonthlyPI_ZeroRateMatchesPrincipalOverMonths(t *testing.T) {
	cases := []struct {
		principal string
		months    int
	}{
		{"100", 3},
		{"250000", 360},
		{"99999.99", 180},
		{"1", 7},
	}

	for _, tc := range cases {
		payment, err := MonthlyPI(d(tc.principal), decimal.Zero, tc.months, false)
		require.NoError(t, err)
		expected := RoundHalfUp(d(tc.principal).DivRound(decimal.NewFromInt(int64(tc.months)), 28), 2)
		assert.True(t, expected.Equal(payment), "%s/%d: expected %s, got %s", tc.principal, tc.months, expected, payment)
	}
}

func TestMonthlyPI_InterestOnly(t *testing.T) {
	// 500,000 * 0.06 / 12, amortization months are ignored
	for _, months := range []int{0, 120, 360} {
		payment, err := MonthlyPI(d("500000"), d("6.0"), months, true)
		require.NoError(t, err)
		assertMoney(t, "2500.00", payment)
	}
}

func TestMonthlyPI_InterestOnlyZeroRate(t *testing.T) {
	payment, err := MonthlyPI(d("500000"), decimal.Zero, 360, true)
	require.NoError(t, err)
	assert.True(t, payment.IsZero())
}

func TestMonthlyPI_InvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal string
		rate      string
		months    int
		field     string
	}{
		{"zero principal", "0", "7", 360, "principal"},
		{"negative principal", "-1", "7", 360, "principal"},
		{"negative rate", "100000", "-0.5", 360, "annualRatePercent"},
		{"rate above bound", "100000", "100.01", 360, "annualRatePercent"},
		{"zero months", "100000", "7", 0, "amortizationMonths"},
		{"negative months", "100000", "7", -12, "amortizationMonths"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MonthlyPI(d(tc.principal), d(tc.rate), tc.months, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, tc.field, FieldOf(err))
		})
	}
}

func TestMonthlyPI_HighRateAccepted(t *testing.T) {
	payment, err := MonthlyPI(d("100000"), d("30"), 360, false)
	require.NoError(t, err)
	assert.True(t, payment.IsPositive())
}

func TestMonthlyPI_Idempotent(t *testing.T) {
	first, err := MonthlyPI(d("437250"), d("6.875"), 360, false)
	require.NoError(t, err)
	second, err := MonthlyPI(d("437250"), d("6.875"), 360, false)
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}

func TestAmortizationSchedule_ShortLoan(t *testing.T) {
	// 1,000 at 12% over 3 months: r = 1%, payment 340.02
	schedule, err := Default().AmortizationSchedule(LoanTerms{
		Principal:          d("1000"),
		AnnualRatePercent:  d("12"),
		AmortizationMonths: 3,
	})
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	assertMoney(t, "10.00", schedule[0].Interest)
	assertMoney(t, "330.02", schedule[0].Principal)
	assertMoney(t, "669.98", schedule[0].RemainingBalance)

	assertMoney(t, "6.70", schedule[1].Interest)
	assertMoney(t, "333.32", schedule[1].Principal)
	assertMoney(t, "336.66", schedule[1].RemainingBalance)

	// Final period absorbs rounding
	assertMoney(t, "3.37", schedule[2].Interest)
	assertMoney(t, "336.66", schedule[2].Principal)
	assertMoney(t, "340.03", schedule[2].Payment)
	assert.True(t, schedule[2].RemainingBalance.IsZero())

	totalPaid, totalInterest := ScheduleTotals(schedule)
	assertMoney(t, "1020.07", totalPaid)
	assertMoney(t, "20.07", totalInterest)
}

func TestAmortizationSchedule_RetiresPrincipal(t *testing.T) {
	terms := LoanTerms{
		Principal:          d("500000"),
		AnnualRatePercent:  d("7.5"),
		AmortizationMonths: 360,
	}
	schedule, err := Default().AmortizationSchedule(terms)
	require.NoError(t, err)
	require.Len(t, schedule, 360)

	payment, err := Default().TermsPI(terms)
	require.NoError(t, err)

	principalPaid := decimal.Zero
	for i, entry := range schedule {
		principalPaid = principalPaid.Add(entry.Principal)
		// Every payment is the payment less the interest portion
		if i < len(schedule)-1 {
			assert.True(t, entry.Payment.Equal(payment), "period %d payment %s", entry.Period, entry.Payment)
			assert.True(t, entry.Principal.Equal(payment.Sub(entry.Interest)))
		}
	}

	assert.True(t, principalPaid.Equal(terms.Principal), "principal repaid %s", principalPaid)
	assert.True(t, schedule[len(schedule)-1].RemainingBalance.IsZero())
	// Rounding drift over 30 years stays within a few dollars
	assert.True(t, schedule[len(schedule)-1].Payment.Sub(payment).Abs().LessThan(d("5")))
}

func TestAmortizationSchedule_ZeroRate(t *testing.T) {
	schedule, err := Default().AmortizationSchedule(LoanTerms{
		Principal:          d("120000"),
		AnnualRatePercent:  decimal.Zero,
		AmortizationMonths: 120,
	})
	require.NoError(t, err)
	require.Len(t, schedule, 120)
	for _, entry := range schedule {
		assertMoney(t, "1000.00", entry.Payment)
		assert.True(t, entry.Interest.IsZero())
	}
}

func TestAmortizationSchedule_InterestOnlyBalloon(t *testing.T) {
	schedule, err := Default().AmortizationSchedule(LoanTerms{
		Principal:          d("120000"),
		AnnualRatePercent:  d("6"),
		AmortizationMonths: 12,
		IsInterestOnly:     true,
	})
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for _, entry := range schedule[:11] {
		assertMoney(t, "600.00", entry.Payment)
		assertMoney(t, "120000.00", entry.RemainingBalance)
	}
	assertMoney(t, "120600.00", schedule[11].Payment)
	assert.True(t, schedule[11].RemainingBalance.IsZero())
}

func TestAmortizationSchedule_InterestOnlyNeedsTerm(t *testing.T) {
	_, err := Default().AmortizationSchedule(LoanTerms{
		Principal:         d("120000"),
		AnnualRatePercent: d("6"),
		IsInterestOnly:    true,
	})
	require.Error(t, err)
	assert.Equal(t, "amortizationMonths", FieldOf(err))
}

func TestMonthlyPI_RejectsTermAboveBound(t *testing.T) {
	c := Default()

	payment, err := c.MonthlyPI(d("100000"), d("6"), MaxAmortizationMonths, false)
	require.NoError(t, err)
	assert.True(t, payment.IsPositive())

	for _, months := range []int{MaxAmortizationMonths + 1, 1 << 34, 1 << 50} {
		_, err := c.MonthlyPI(d("100000"), d("6"), months, false)
		require.Error(t, err, "months %d", months)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, "amortizationMonths", FieldOf(err))
	}
}

func TestAmortizationSchedule_RejectsTermAboveBound(t *testing.T) {
	for _, interestOnly := range []bool{false, true} {
		_, err := Default().AmortizationSchedule(LoanTerms{
			Principal:          d("100000"),
			AnnualRatePercent:  d("6"),
			AmortizationMonths: 2000000,
			IsInterestOnly:     interestOnly,
		})
		require.Error(t, err)
		assert.Equal(t, "amortizationMonths", FieldOf(err))
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in       string
		places   int32
		expected string
	}{
		{"2.345", 2, "2.35"},
		{"2.344", 2, "2.34"},
		{"1.005", 2, "1.01"},
		{"-2.345", 2, "-2.35"},
		{"-2.344", 2, "-2.34"},
		{"-0.005", 2, "-0.01"},
		{"-0.004", 2, "0.00"},
		{"0.125", 2, "0.13"},
		{"66.666666", 2, "66.67"},
		{"3496.0725427", 2, "3496.07"},
	}
	for _, tc := range cases {
		got := RoundHalfUp(d(tc.in), tc.places)
		assert.True(t, got.Equal(d(tc.expected)), "%s -> expected %s, got %s", tc.in, tc.expected, got)
	}
}

func TestNewCalculator_Defaults(t *testing.T) {
	c := NewCalculator(Config{})
	assert.Equal(t, DefaultConfig(), c.Config())

	custom := NewCalculator(Config{Precision: 40, MoneyPlaces: 4, RatioPlaces: 3})
	payment, err := custom.MonthlyPI(d("500000"), d("7.5"), 360, false)
	require.NoError(t, err)
	assert.Equal(t, "3496.0725", payment.StringFixed(4))
}
