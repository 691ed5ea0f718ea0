package config

import (
	"fmt"
	"os"

	"github.com/dafibh/underwriter/underwriter-backend/internal/finance"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Policy holds the lender's underwriting guidelines. The calculators
// always report against the product thresholds; the policy drives the
// warnings attached to a result.
type Policy struct {
	Calculator            finance.Config
	MinimumDSCR           decimal.Decimal
	TargetDSCR            decimal.Decimal
	WarnAnnualRatePercent decimal.Decimal
	MaxLTVPercent         decimal.Decimal
}

// policyFile mirrors the YAML layout. Decimal values are read as strings
// so they never pass through float64.
type policyFile struct {
	Calculator            finance.Config `yaml:"calculator"`
	MinimumDSCR           string         `yaml:"minimum_dscr"`
	TargetDSCR            string         `yaml:"target_dscr"`
	WarnAnnualRatePercent string         `yaml:"warn_annual_rate_percent"`
	MaxLTVPercent         string         `yaml:"max_ltv_percent"`
}

// DefaultPolicy returns the policy used when no policy file is configured
func DefaultPolicy() Policy {
	return Policy{
		Calculator:            finance.DefaultConfig(),
		MinimumDSCR:           finance.MinimumDSCR,
		TargetDSCR:            finance.StandardDSCR,
		WarnAnnualRatePercent: finance.WarnAnnualRatePercent,
		MaxLTVPercent:         decimal.NewFromInt(80),
	}
}

// LoadPolicy reads the policy from path. An empty path returns the default
// policy; keys missing from the file keep their default values.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(raw)
}

// ParsePolicy decodes a YAML policy document
func ParsePolicy(raw []byte) (Policy, error) {
	var file policyFile
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}

	policy := DefaultPolicy()
	if file.Calculator != (finance.Config{}) {
		policy.Calculator = finance.NewCalculator(file.Calculator).Config()
	}

	fields := []struct {
		key    string
		value  string
		target *decimal.Decimal
	}{
		{"minimum_dscr", file.MinimumDSCR, &policy.MinimumDSCR},
		{"target_dscr", file.TargetDSCR, &policy.TargetDSCR},
		{"warn_annual_rate_percent", file.WarnAnnualRatePercent, &policy.WarnAnnualRatePercent},
		{"max_ltv_percent", file.MaxLTVPercent, &policy.MaxLTVPercent},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		parsed, err := decimal.NewFromString(f.value)
		if err != nil {
			return Policy{}, fmt.Errorf("policy %s: %w", f.key, err)
		}
		if parsed.IsNegative() {
			return Policy{}, fmt.Errorf("policy %s must not be negative", f.key)
		}
		*f.target = parsed
	}

	if policy.TargetDSCR.LessThan(policy.MinimumDSCR) {
		return Policy{}, fmt.Errorf("policy target_dscr must not be below minimum_dscr")
	}
	return policy, nil
}
