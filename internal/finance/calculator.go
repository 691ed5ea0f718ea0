// Package finance implements the DSCR/LTV underwriting arithmetic: monthly
// principal and interest, debt-service coverage, loan-to-value and blanket
// loan allocation across several properties.
//
// All arithmetic is done with shopspring/decimal. The numeric context
// (working precision and output scales) is carried by a Calculator value
// instead of package-level state, so two calculators with different settings
// can be used side by side.
package finance

import (
	"github.com/shopspring/decimal"
)

const (
	// DefaultPrecision is the number of decimal places kept by intermediate
	// division and exponentiation.
	DefaultPrecision int32 = 28
	// DefaultMoneyPlaces is the scale of every monetary output.
	DefaultMoneyPlaces int32 = 2
	// DefaultRatioPlaces is the scale of DSCR and LTV outputs.
	DefaultRatioPlaces int32 = 2
)

var (
	hundred       = decimal.NewFromInt(100)
	twelve        = decimal.NewFromInt(12)
	monthsPerRate = decimal.NewFromInt(1200)
)

// Config holds the numeric context used by a Calculator
type Config struct {
	Precision   int32 `yaml:"precision"`
	MoneyPlaces int32 `yaml:"money_places"`
	RatioPlaces int32 `yaml:"ratio_places"`
}

// DefaultConfig returns the context used by the lender-facing calculators
func DefaultConfig() Config {
	return Config{
		Precision:   DefaultPrecision,
		MoneyPlaces: DefaultMoneyPlaces,
		RatioPlaces: DefaultRatioPlaces,
	}
}

// Calculator performs the underwriting calculations under a fixed numeric
// context. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator. Zero or negative values in cfg fall
// back to the defaults.
func NewCalculator(cfg Config) *Calculator {
	if cfg.Precision <= 0 {
		cfg.Precision = DefaultPrecision
	}
	if cfg.MoneyPlaces <= 0 {
		cfg.MoneyPlaces = DefaultMoneyPlaces
	}
	if cfg.RatioPlaces <= 0 {
		cfg.RatioPlaces = DefaultRatioPlaces
	}
	return &Calculator{cfg: cfg}
}

var defaultCalculator = NewCalculator(DefaultConfig())

// Default returns the shared calculator built from DefaultConfig
func Default() *Calculator {
	return defaultCalculator
}

// Config returns the calculator's numeric context
func (c *Calculator) Config() Config {
	return c.cfg
}

func (c *Calculator) div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, c.cfg.Precision)
}

// pow raises base to a non-negative integer power by repeated squaring,
// rounding every product to the working precision.
func (c *Calculator) pow(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(c.cfg.Precision)
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base).Round(c.cfg.Precision)
		}
	}
	return result
}

func (c *Calculator) money(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, c.cfg.MoneyPlaces)
}

func (c *Calculator) ratio(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, c.cfg.RatioPlaces)
}

// RoundHalfUp rounds d to places decimal places, with ties going away from
// zero (2.345 -> 2.35, -2.345 -> -2.35).
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}
