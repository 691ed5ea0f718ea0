package finance

import (
	"github.com/shopspring/decimal"
)

// MonthlyPI computes the monthly payment with the default calculator
func MonthlyPI(principal, annualRatePercent decimal.Decimal, amortizationMonths int, isInterestOnly bool) (decimal.Decimal, error) {
	return defaultCalculator.MonthlyPI(principal, annualRatePercent, amortizationMonths, isInterestOnly)
}

// DSCR evaluates coverage with the default calculator
func DSCR(terms LoanTerms, expenses PropertyExpenses, monthlyRent decimal.Decimal) (DSCRResult, error) {
	return defaultCalculator.DSCR(terms, expenses, monthlyRent)
}

// LTV computes loan-to-value with the default calculator
func LTV(loanAmount, propertyValue decimal.Decimal) (decimal.Decimal, error) {
	return defaultCalculator.LTV(loanAmount, propertyValue)
}

// AllocateBlanketLoan allocates a blanket loan with the default calculator
func AllocateBlanketLoan(properties []PropertyInput, totalLoanAmount decimal.Decimal, terms LoanTerms, strategy AllocationStrategy) (PortfolioMetrics, error) {
	return defaultCalculator.AllocateBlanketLoan(properties, totalLoanAmount, terms, strategy)
}
