package service

import (
	"fmt"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/config"
	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/finance"
	"github.com/dafibh/underwriter/underwriter-backend/internal/metrics"
	"github.com/shopspring/decimal"
)

// Calculation names used as the metrics operation label
const (
	OperationMonthlyPayment = "monthly_payment"
	OperationDSCR           = "dscr"
	OperationLTV            = "ltv"
	OperationBlanket        = "blanket_allocation"
	OperationSchedule       = "amortization_schedule"
	OperationAnalyzeDeal    = "analyze_deal"
)

// UnderwritingService runs the finance calculators under the configured
// policy and attaches policy warnings to the results
type UnderwritingService struct {
	calc    *finance.Calculator
	policy  config.Policy
	metrics *metrics.Metrics
}

// NewUnderwritingService creates a new UnderwritingService. m may be nil.
func NewUnderwritingService(policy config.Policy, m *metrics.Metrics) *UnderwritingService {
	return &UnderwritingService{
		calc:    finance.NewCalculator(policy.Calculator),
		policy:  policy,
		metrics: m,
	}
}

// Calculator returns the calculator the service runs
func (s *UnderwritingService) Calculator() *finance.Calculator {
	return s.calc
}

// Policy returns the policy the service applies
func (s *UnderwritingService) Policy() config.Policy {
	return s.policy
}

// PaymentInput contains the loan terms of a payment preview
type PaymentInput struct {
	LoanAmount         decimal.Decimal
	AnnualRatePercent  decimal.Decimal
	AmortizationMonths int
	IsInterestOnly     bool
}

func (in PaymentInput) terms() finance.LoanTerms {
	return finance.LoanTerms{
		Principal:          in.LoanAmount,
		AnnualRatePercent:  in.AnnualRatePercent,
		AmortizationMonths: in.AmortizationMonths,
		IsInterestOnly:     in.IsInterestOnly,
	}
}

// PaymentResult is a monthly payment preview
type PaymentResult struct {
	MonthlyPI decimal.Decimal
	Warnings  []string
}

// PreviewPayment returns the monthly principal and interest payment
func (s *UnderwritingService) PreviewPayment(input PaymentInput) (*PaymentResult, error) {
	started := time.Now()
	pi, err := s.calc.TermsPI(input.terms())
	s.metrics.ObserveCalculation(OperationMonthlyPayment, started, err)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{
		MonthlyPI: pi,
		Warnings:  s.rateWarnings(input.AnnualRatePercent),
	}, nil
}

// DSCRInput contains the inputs of a single-property coverage check. When a
// lease or market rent is supplied, the underwriting rent derived from them
// replaces MonthlyRent.
type DSCRInput struct {
	PaymentInput
	Expenses         finance.PropertyExpenses
	MonthlyRent      decimal.Decimal
	CurrentLeaseRent decimal.Decimal
	MarketRent       decimal.Decimal
}

func (in DSCRInput) rent() decimal.Decimal {
	if in.CurrentLeaseRent.IsZero() && in.MarketRent.IsZero() {
		return in.MonthlyRent
	}
	return finance.UnderwritingRent(in.CurrentLeaseRent, in.MarketRent)
}

// DSCRResult is a coverage evaluation with the policy outcome
type DSCRResult struct {
	finance.DSCRResult
	MeetsPolicy bool
	MeetsTarget bool
	Warnings    []string
}

// EvaluateDSCR computes PITIA and the debt-service coverage ratio
func (s *UnderwritingService) EvaluateDSCR(input DSCRInput) (*DSCRResult, error) {
	started := time.Now()
	if input.CurrentLeaseRent.IsNegative() {
		err := &finance.InvalidInputError{Field: "currentLeaseRent", Reason: "must not be negative"}
		s.metrics.ObserveCalculation(OperationDSCR, started, err)
		return nil, err
	}
	if input.MarketRent.IsNegative() {
		err := &finance.InvalidInputError{Field: "marketRent", Reason: "must not be negative"}
		s.metrics.ObserveCalculation(OperationDSCR, started, err)
		return nil, err
	}

	result, err := s.calc.DSCR(input.terms(), input.Expenses, input.rent())
	s.metrics.ObserveCalculation(OperationDSCR, started, err)
	if err != nil {
		return nil, err
	}

	warnings := s.rateWarnings(input.AnnualRatePercent)
	warnings = append(warnings, s.coverageWarnings(result.DSCRRatio)...)
	return &DSCRResult{
		DSCRResult:  result,
		MeetsPolicy: result.DSCRRatio.GreaterThanOrEqual(s.policy.MinimumDSCR),
		MeetsTarget: result.DSCRRatio.GreaterThanOrEqual(s.policy.TargetDSCR),
		Warnings:    warnings,
	}, nil
}

// LTVResult is a loan-to-value evaluation
type LTVResult struct {
	LTVRatio    decimal.Decimal
	MeetsPolicy bool
	Warnings    []string
}

// EvaluateLTV computes loan-to-value as a percentage
func (s *UnderwritingService) EvaluateLTV(loanAmount, propertyValue decimal.Decimal) (*LTVResult, error) {
	started := time.Now()
	ltv, err := s.calc.LTV(loanAmount, propertyValue)
	s.metrics.ObserveCalculation(OperationLTV, started, err)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if !propertyValue.IsPositive() {
		warnings = append(warnings, "property value is missing; LTV reported as 0")
	}
	warnings = append(warnings, s.ltvWarnings(ltv)...)
	return &LTVResult{
		LTVRatio:    ltv,
		MeetsPolicy: ltv.LessThanOrEqual(s.policy.MaxLTVPercent),
		Warnings:    warnings,
	}, nil
}

// BlanketInput contains the inputs of a blanket loan allocation. A nil
// Strategy splits the loan evenly.
type BlanketInput struct {
	Terms      PaymentInput
	Properties []finance.PropertyInput
	Strategy   finance.AllocationStrategy
}

// BlanketResult is a portfolio evaluation with the policy outcome
type BlanketResult struct {
	finance.PortfolioMetrics
	MeetsPolicy bool
	Warnings    []string
}

// AllocateBlanket spreads a blanket loan over its properties
func (s *UnderwritingService) AllocateBlanket(input BlanketInput) (*BlanketResult, error) {
	started := time.Now()
	portfolio, err := s.calc.AllocateBlanketLoan(input.Properties, input.Terms.LoanAmount, input.Terms.terms(), input.Strategy)
	s.metrics.ObserveCalculation(OperationBlanket, started, err)
	if err != nil {
		return nil, err
	}

	return &BlanketResult{
		PortfolioMetrics: portfolio,
		MeetsPolicy:      portfolio.AggregateDSCR.GreaterThanOrEqual(s.policy.MinimumDSCR),
		Warnings:         s.portfolioWarnings(input.Terms.AnnualRatePercent, portfolio),
	}, nil
}

// ScheduleResult is an amortization schedule with its totals
type ScheduleResult struct {
	Entries       []finance.ScheduleEntry
	TotalPaid     decimal.Decimal
	TotalInterest decimal.Decimal
}

// Schedule builds the month-by-month amortization schedule
func (s *UnderwritingService) Schedule(input PaymentInput) (*ScheduleResult, error) {
	started := time.Now()
	entries, err := s.calc.AmortizationSchedule(input.terms())
	s.metrics.ObserveCalculation(OperationSchedule, started, err)
	if err != nil {
		return nil, err
	}
	paid, interest := finance.ScheduleTotals(entries)
	return &ScheduleResult{Entries: entries, TotalPaid: paid, TotalInterest: interest}, nil
}

// AnalyzeDeal evaluates a stored deal. Single-property deals run the DSCR
// evaluator on the whole loan; blanket deals run the portfolio allocator.
func (s *UnderwritingService) AnalyzeDeal(deal *domain.Deal) (*domain.DealAnalysis, error) {
	started := time.Now()
	var (
		analysis *domain.DealAnalysis
		err      error
	)
	if deal.Type == domain.DealTypeBlanket {
		analysis, err = s.analyzeBlanket(deal)
	} else {
		analysis, err = s.analyzeSingle(deal)
	}
	s.metrics.ObserveCalculation(OperationAnalyzeDeal, started, err)
	if err != nil {
		return nil, err
	}
	analysis.AnalyzedAt = time.Now().UTC()
	return analysis, nil
}

func (s *UnderwritingService) analyzeSingle(deal *domain.Deal) (*domain.DealAnalysis, error) {
	if len(deal.Properties) != 1 {
		return nil, domain.ErrDealSinglePropertyCount
	}
	property := deal.Properties[0]
	rent := property.UnderwritingRent()

	result, err := s.calc.DSCR(deal.LoanTerms(), property.Expenses(), rent)
	if err != nil {
		return nil, err
	}
	ltv, err := s.calc.LTV(deal.LoanAmount, property.PropertyValue)
	if err != nil {
		return nil, err
	}

	warnings := s.rateWarnings(deal.AnnualRatePercent)
	warnings = append(warnings, s.coverageWarnings(result.DSCRRatio)...)
	warnings = append(warnings, s.ltvWarnings(ltv)...)

	return &domain.DealAnalysis{
		MonthlyPI:         result.MonthlyPI,
		MonthlyPITIA:      result.MonthlyPITIA,
		MonthlyRent:       result.MonthlyRent,
		DSCRRatio:         result.DSCRRatio,
		LTVRatio:          ltv,
		Qualifies:         result.Qualifies,
		QualifiesStandard: result.QualifiesStandard,
		BalanceDifference: decimal.Zero,
		Properties: []domain.PropertyAnalysis{
			propertyAnalysis(property, deal.LoanAmount, ltv, result),
		},
		Warnings: warnings,
	}, nil
}

func (s *UnderwritingService) analyzeBlanket(deal *domain.Deal) (*domain.DealAnalysis, error) {
	portfolio, err := s.calc.AllocateBlanketLoan(deal.PropertyInputs(), deal.LoanAmount, deal.LoanTerms(), deal.AllocationStrategy())
	if err != nil {
		return nil, err
	}

	properties := make([]domain.PropertyAnalysis, len(portfolio.PropertyBreakdowns))
	for i, breakdown := range portfolio.PropertyBreakdowns {
		properties[i] = propertyAnalysis(deal.Properties[i], breakdown.AllocatedLoanAmount, breakdown.LTVRatio, breakdown.DSCR)
	}

	return &domain.DealAnalysis{
		MonthlyPI:         portfolio.TotalMonthlyPI,
		MonthlyPITIA:      portfolio.TotalMonthlyPITIA,
		MonthlyRent:       portfolio.TotalMonthlyRent,
		DSCRRatio:         portfolio.AggregateDSCR,
		LTVRatio:          portfolio.AggregateLTV,
		Qualifies:         portfolio.AggregateQualifies,
		QualifiesStandard: portfolio.AggregateQualifiesStandard,
		BalanceDifference: portfolio.BalanceDifference,
		Properties:        properties,
		Warnings:          s.portfolioWarnings(deal.AnnualRatePercent, portfolio),
	}, nil
}

func propertyAnalysis(p domain.DealProperty, allocated, ltv decimal.Decimal, r finance.DSCRResult) domain.PropertyAnalysis {
	return domain.PropertyAnalysis{
		PropertyID:          p.PropertyID,
		Address:             p.Address,
		AllocatedLoanAmount: allocated,
		PropertyValue:       p.PropertyValue,
		UnderwritingRent:    r.MonthlyRent,
		MonthlyPI:           r.MonthlyPI,
		MonthlyTaxes:        r.MonthlyTaxes,
		MonthlyInsurance:    r.MonthlyInsurance,
		MonthlyFlood:        r.MonthlyFlood,
		MonthlyHOA:          r.MonthlyHOA,
		MonthlyPITIA:        r.MonthlyPITIA,
		DSCRRatio:           r.DSCRRatio,
		LTVRatio:            ltv,
		Qualifies:           r.Qualifies,
		QualifiesStandard:   r.QualifiesStandard,
	}
}

func (s *UnderwritingService) rateWarnings(rate decimal.Decimal) []string {
	if rate.GreaterThan(s.policy.WarnAnnualRatePercent) {
		return []string{fmt.Sprintf("annual rate %s%% is above the %s%% review threshold", rate.String(), s.policy.WarnAnnualRatePercent.String())}
	}
	return nil
}

func (s *UnderwritingService) coverageWarnings(dscr decimal.Decimal) []string {
	switch {
	case dscr.LessThan(s.policy.MinimumDSCR):
		return []string{fmt.Sprintf("DSCR %s is below the policy minimum of %s", dscr.StringFixed(2), s.policy.MinimumDSCR.StringFixed(2))}
	case dscr.LessThan(s.policy.TargetDSCR):
		return []string{fmt.Sprintf("DSCR %s is below the target of %s", dscr.StringFixed(2), s.policy.TargetDSCR.StringFixed(2))}
	}
	return nil
}

func (s *UnderwritingService) ltvWarnings(ltv decimal.Decimal) []string {
	if ltv.GreaterThan(s.policy.MaxLTVPercent) {
		return []string{fmt.Sprintf("LTV %s%% exceeds the policy maximum of %s%%", ltv.StringFixed(2), s.policy.MaxLTVPercent.String())}
	}
	return nil
}

func (s *UnderwritingService) portfolioWarnings(rate decimal.Decimal, portfolio finance.PortfolioMetrics) []string {
	warnings := s.rateWarnings(rate)
	warnings = append(warnings, s.coverageWarnings(portfolio.AggregateDSCR)...)
	warnings = append(warnings, s.ltvWarnings(portfolio.AggregateLTV)...)
	if portfolio.HasBalanceWarning() {
		warnings = append(warnings, fmt.Sprintf("allocations differ from the loan amount by %s", portfolio.BalanceDifference.StringFixed(2)))
	}
	for _, b := range portfolio.PropertyBreakdowns {
		if !b.PropertyValue.IsPositive() {
			warnings = append(warnings, fmt.Sprintf("property %s has no value; it is excluded from the aggregate LTV", b.PropertyID))
		}
	}
	return warnings
}
