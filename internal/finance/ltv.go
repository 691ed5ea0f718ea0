package finance

import (
	"github.com/shopspring/decimal"
)

// LTV returns loanAmount / propertyValue as a percentage rounded to the ratio
// scale. A property value of zero or less yields 0 rather than an error, since
// values are routinely blank while a deal is still being entered.
func (c *Calculator) LTV(loanAmount, propertyValue decimal.Decimal) (decimal.Decimal, error) {
	if loanAmount.IsNegative() {
		return decimal.Zero, invalidInput("loanAmount", "must not be negative")
	}
	return c.ratio(c.ltv(loanAmount, propertyValue)), nil
}

func (c *Calculator) ltv(loanAmount, propertyValue decimal.Decimal) decimal.Decimal {
	if !propertyValue.IsPositive() {
		return decimal.Zero
	}
	return c.div(loanAmount.Mul(hundred), propertyValue)
}
