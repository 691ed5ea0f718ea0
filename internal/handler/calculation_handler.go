package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/finance"
	"github.com/dafibh/underwriter/underwriter-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CalculationHandler exposes the stateless underwriting calculators
type CalculationHandler struct {
	underwriting *service.UnderwritingService
}

// NewCalculationHandler creates a new CalculationHandler
func NewCalculationHandler(underwriting *service.UnderwritingService) *CalculationHandler {
	return &CalculationHandler{underwriting: underwriting}
}

// LoanTermsRequest carries loan terms. Amounts are decimal strings.
type LoanTermsRequest struct {
	LoanAmount         string `json:"loanAmount"`
	AnnualRatePercent  string `json:"annualRatePercent"`
	AmortizationMonths int    `json:"amortizationMonths"`
	IsInterestOnly     bool   `json:"isInterestOnly"`
}

// ExpensesRequest carries a property's carrying costs
type ExpensesRequest struct {
	PropertyTaxesAnnual  string `json:"propertyTaxesAnnual"`
	InsuranceAnnual      string `json:"insuranceAnnual"`
	FloodInsuranceAnnual string `json:"floodInsuranceAnnual"`
	HOADuesMonthly       string `json:"hoaDuesMonthly"`
}

// DSCRRequest represents the DSCR calculation request body
type DSCRRequest struct {
	LoanTermsRequest
	ExpensesRequest
	MonthlyRent      string `json:"monthlyRent"`
	CurrentLeaseRent string `json:"currentLeaseRent"`
	MarketRent       string `json:"marketRent"`
}

// LTVRequest represents the LTV calculation request body
type LTVRequest struct {
	LoanAmount    string `json:"loanAmount"`
	PropertyValue string `json:"propertyValue"`
}

// BlanketPropertyRequest is one property of a blanket allocation request
type BlanketPropertyRequest struct {
	ExpensesRequest
	PropertyID          string `json:"propertyId"`
	PropertyValue       string `json:"propertyValue"`
	MonthlyRent         string `json:"monthlyRent"`
	CurrentLeaseRent    string `json:"currentLeaseRent"`
	MarketRent          string `json:"marketRent"`
	AllocatedLoanAmount string `json:"allocatedLoanAmount"`
}

// BlanketRequest represents the blanket allocation request body
type BlanketRequest struct {
	LoanTermsRequest
	AllocationMethod   string                   `json:"allocationMethod"`
	ReconcileRemainder bool                     `json:"reconcileRemainder"`
	Properties         []BlanketPropertyRequest `json:"properties"`
}

// PaymentResponse represents a monthly payment preview
type PaymentResponse struct {
	MonthlyPI string   `json:"monthlyPI"`
	Warnings  []string `json:"warnings"`
}

// DSCRResponse represents a DSCR evaluation
type DSCRResponse struct {
	MonthlyPI         string   `json:"monthlyPI"`
	MonthlyTaxes      string   `json:"monthlyTaxes"`
	MonthlyInsurance  string   `json:"monthlyInsurance"`
	MonthlyFlood      string   `json:"monthlyFlood"`
	MonthlyHOA        string   `json:"monthlyHOA"`
	MonthlyPITIA      string   `json:"monthlyPITIA"`
	MonthlyRent       string   `json:"monthlyRent"`
	DSCRRatio         string   `json:"dscrRatio"`
	Qualifies         bool     `json:"qualifies"`
	QualifiesStandard bool     `json:"qualifiesStandard"`
	MeetsPolicy       bool     `json:"meetsPolicy"`
	MeetsTarget       bool     `json:"meetsTarget"`
	Warnings          []string `json:"warnings"`
}

// LTVResponse represents an LTV evaluation
type LTVResponse struct {
	LTVRatio    string   `json:"ltvRatio"`
	MeetsPolicy bool     `json:"meetsPolicy"`
	Warnings    []string `json:"warnings"`
}

// PropertyAllocationResponse is one property of a blanket allocation
type PropertyAllocationResponse struct {
	PropertyID          string       `json:"propertyId"`
	AllocatedLoanAmount string       `json:"allocatedLoanAmount"`
	PropertyValue       string       `json:"propertyValue"`
	LTVRatio            string       `json:"ltvRatio"`
	DSCRRatio           string       `json:"dscrRatio"`
	DSCR                DSCRResponse `json:"dscr"`
}

// BlanketResponse represents a blanket allocation
type BlanketResponse struct {
	AggregateDSCR              string                       `json:"aggregateDscr"`
	AggregateLTV               string                       `json:"aggregateLtv"`
	AggregateQualifies         bool                         `json:"aggregateQualifies"`
	AggregateQualifiesStandard bool                         `json:"aggregateQualifiesStandard"`
	TotalMonthlyPI             string                       `json:"totalMonthlyPI"`
	TotalMonthlyPITIA          string                       `json:"totalMonthlyPITIA"`
	TotalMonthlyRent           string                       `json:"totalMonthlyRent"`
	TotalPropertyValue         string                       `json:"totalPropertyValue"`
	TotalLoanAmount            string                       `json:"totalLoanAmount"`
	TotalAllocated             string                       `json:"totalAllocated"`
	BalanceDifference          string                       `json:"balanceDifference"`
	HasBalanceWarning          bool                         `json:"hasBalanceWarning"`
	MeetsPolicy                bool                         `json:"meetsPolicy"`
	Properties                 []PropertyAllocationResponse `json:"properties"`
	Warnings                   []string                     `json:"warnings"`
}

// ScheduleEntryResponse is one month of an amortization schedule
type ScheduleEntryResponse struct {
	Period           int    `json:"period"`
	Payment          string `json:"payment"`
	Interest         string `json:"interest"`
	Principal        string `json:"principal"`
	RemainingBalance string `json:"remainingBalance"`
}

// ScheduleResponse represents an amortization schedule
type ScheduleResponse struct {
	TotalPaid     string                  `json:"totalPaid"`
	TotalInterest string                  `json:"totalInterest"`
	Entries       []ScheduleEntryResponse `json:"entries"`
}

// decimalFields parses decimal strings, collecting one validation error per
// malformed field
type decimalFields struct {
	errs []ValidationError
}

// required parses value, rejecting an empty string
func (p *decimalFields) required(field, value string) decimal.Decimal {
	if value == "" {
		p.errs = append(p.errs, ValidationError{Field: field, Message: "Is required"})
		return decimal.Zero
	}
	return p.optional(field, value)
}

// optional parses value, treating an empty string as zero
func (p *decimalFields) optional(field, value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		p.errs = append(p.errs, ValidationError{Field: field, Message: "Must be a valid decimal number"})
		return decimal.Zero
	}
	return d
}

// nonNegative records a validation error when value is below zero
func (p *decimalFields) nonNegative(field string, value decimal.Decimal) {
	if value.IsNegative() {
		p.errs = append(p.errs, ValidationError{Field: field, Message: "Must not be negative"})
	}
}

func (p *decimalFields) terms(req LoanTermsRequest) service.PaymentInput {
	return service.PaymentInput{
		LoanAmount:         p.required("loanAmount", req.LoanAmount),
		AnnualRatePercent:  p.required("annualRatePercent", req.AnnualRatePercent),
		AmortizationMonths: req.AmortizationMonths,
		IsInterestOnly:     req.IsInterestOnly,
	}
}

func (p *decimalFields) expenses(prefix string, req ExpensesRequest) finance.PropertyExpenses {
	return finance.PropertyExpenses{
		PropertyTaxesAnnual:  p.optional(prefix+"propertyTaxesAnnual", req.PropertyTaxesAnnual),
		InsuranceAnnual:      p.optional(prefix+"insuranceAnnual", req.InsuranceAnnual),
		FloodInsuranceAnnual: p.optional(prefix+"floodInsuranceAnnual", req.FloodInsuranceAnnual),
		HOADuesMonthly:       p.optional(prefix+"hoaDuesMonthly", req.HOADuesMonthly),
	}
}

// formatter renders engine outputs at the calculator's output scales
type formatter struct {
	cfg finance.Config
}

func (f formatter) money(d decimal.Decimal) string {
	return d.StringFixed(f.cfg.MoneyPlaces)
}

func (f formatter) ratio(d decimal.Decimal) string {
	return d.StringFixed(f.cfg.RatioPlaces)
}

func (f formatter) dscr(r finance.DSCRResult) DSCRResponse {
	return DSCRResponse{
		MonthlyPI:         f.money(r.MonthlyPI),
		MonthlyTaxes:      f.money(r.MonthlyTaxes),
		MonthlyInsurance:  f.money(r.MonthlyInsurance),
		MonthlyFlood:      f.money(r.MonthlyFlood),
		MonthlyHOA:        f.money(r.MonthlyHOA),
		MonthlyPITIA:      f.money(r.MonthlyPITIA),
		MonthlyRent:       f.money(r.MonthlyRent),
		DSCRRatio:         f.ratio(r.DSCRRatio),
		Qualifies:         r.Qualifies,
		QualifiesStandard: r.QualifiesStandard,
	}
}

func (h *CalculationHandler) format() formatter {
	return formatter{cfg: h.underwriting.Calculator().Config()}
}

func warningsOrEmpty(warnings []string) []string {
	if warnings == nil {
		return []string{}
	}
	return warnings
}

// MonthlyPayment godoc
// @Summary Monthly principal and interest
// @Tags calculations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LoanTermsRequest true "Loan terms"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} ProblemDetails
// @Router /calculations/monthly-payment [post]
func (h *CalculationHandler) MonthlyPayment(c echo.Context) error {
	var req LoanTermsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var fields decimalFields
	input := fields.terms(req)
	if len(fields.errs) > 0 {
		return NewValidationError(c, "Validation failed", fields.errs)
	}

	result, err := h.underwriting.PreviewPayment(input)
	if err != nil {
		return respondServiceError(c, err, "calculate payment")
	}

	return c.JSON(http.StatusOK, PaymentResponse{
		MonthlyPI: h.format().money(result.MonthlyPI),
		Warnings:  warningsOrEmpty(result.Warnings),
	})
}

// DSCR godoc
// @Summary Debt-service coverage ratio of one property
// @Tags calculations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DSCRRequest true "Loan terms, expenses and rent"
// @Success 200 {object} DSCRResponse
// @Failure 400 {object} ProblemDetails
// @Router /calculations/dscr [post]
func (h *CalculationHandler) DSCR(c echo.Context) error {
	var req DSCRRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var fields decimalFields
	input := service.DSCRInput{
		PaymentInput:     fields.terms(req.LoanTermsRequest),
		Expenses:         fields.expenses("", req.ExpensesRequest),
		MonthlyRent:      fields.optional("monthlyRent", req.MonthlyRent),
		CurrentLeaseRent: fields.optional("currentLeaseRent", req.CurrentLeaseRent),
		MarketRent:       fields.optional("marketRent", req.MarketRent),
	}
	if len(fields.errs) > 0 {
		return NewValidationError(c, "Validation failed", fields.errs)
	}

	result, err := h.underwriting.EvaluateDSCR(input)
	if err != nil {
		return respondServiceError(c, err, "calculate DSCR")
	}

	response := h.format().dscr(result.DSCRResult)
	response.MeetsPolicy = result.MeetsPolicy
	response.MeetsTarget = result.MeetsTarget
	response.Warnings = warningsOrEmpty(result.Warnings)
	return c.JSON(http.StatusOK, response)
}

// LTV godoc
// @Summary Loan-to-value ratio
// @Tags calculations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LTVRequest true "Loan amount and property value"
// @Success 200 {object} LTVResponse
// @Failure 400 {object} ProblemDetails
// @Router /calculations/ltv [post]
func (h *CalculationHandler) LTV(c echo.Context) error {
	var req LTVRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var fields decimalFields
	loanAmount := fields.required("loanAmount", req.LoanAmount)
	propertyValue := fields.optional("propertyValue", req.PropertyValue)
	if len(fields.errs) > 0 {
		return NewValidationError(c, "Validation failed", fields.errs)
	}

	result, err := h.underwriting.EvaluateLTV(loanAmount, propertyValue)
	if err != nil {
		return respondServiceError(c, err, "calculate LTV")
	}

	return c.JSON(http.StatusOK, LTVResponse{
		LTVRatio:    h.format().ratio(result.LTVRatio),
		MeetsPolicy: result.MeetsPolicy,
		Warnings:    warningsOrEmpty(result.Warnings),
	})
}

// BlanketAllocation godoc
// @Summary Allocate a blanket loan across properties
// @Tags calculations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BlanketRequest true "Loan terms, allocation method and properties"
// @Success 200 {object} BlanketResponse
// @Failure 400 {object} ProblemDetails
// @Router /calculations/blanket-allocation [post]
func (h *CalculationHandler) BlanketAllocation(c echo.Context) error {
	var req BlanketRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if len(req.Properties) > domain.MaxDealProperties {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "properties", Message: "Must not contain more than " + strconv.Itoa(domain.MaxDealProperties) + " properties"},
		})
	}

	var fields decimalFields
	terms := fields.terms(req.LoanTermsRequest)
	properties := make([]finance.PropertyInput, len(req.Properties))
	manual := make([]decimal.Decimal, len(req.Properties))
	for i, p := range req.Properties {
		prefix := "properties[" + strconv.Itoa(i) + "]."
		lease := fields.optional(prefix+"currentLeaseRent", p.CurrentLeaseRent)
		market := fields.optional(prefix+"marketRent", p.MarketRent)
		rent := fields.optional(prefix+"monthlyRent", p.MonthlyRent)
		fields.nonNegative(prefix+"currentLeaseRent", lease)
		fields.nonNegative(prefix+"marketRent", market)
		if !lease.IsZero() || !market.IsZero() {
			rent = finance.UnderwritingRent(lease, market)
		}
		properties[i] = finance.PropertyInput{
			PropertyID:    p.PropertyID,
			PropertyValue: fields.optional(prefix+"propertyValue", p.PropertyValue),
			Expenses:      fields.expenses(prefix, p.ExpensesRequest),
			MonthlyRent:   rent,
		}
		if req.AllocationMethod == "manual" {
			manual[i] = fields.required(prefix+"allocatedLoanAmount", p.AllocatedLoanAmount)
		}
	}

	var strategy finance.AllocationStrategy
	switch req.AllocationMethod {
	case "", "even":
		strategy = finance.EvenSplit{ReconcileRemainder: req.ReconcileRemainder}
	case "manual":
		strategy = finance.Manual{Allocations: manual}
	default:
		fields.errs = append(fields.errs, ValidationError{Field: "allocationMethod", Message: "Must be one of: even, manual"})
	}
	if len(fields.errs) > 0 {
		return NewValidationError(c, "Validation failed", fields.errs)
	}

	result, err := h.underwriting.AllocateBlanket(service.BlanketInput{
		Terms:      terms,
		Properties: properties,
		Strategy:   strategy,
	})
	if err != nil {
		return respondServiceError(c, err, "allocate blanket loan")
	}

	f := h.format()
	breakdowns := make([]PropertyAllocationResponse, len(result.PropertyBreakdowns))
	for i, b := range result.PropertyBreakdowns {
		breakdowns[i] = PropertyAllocationResponse{
			PropertyID:          b.PropertyID,
			AllocatedLoanAmount: f.money(b.AllocatedLoanAmount),
			PropertyValue:       f.money(b.PropertyValue),
			LTVRatio:            f.ratio(b.LTVRatio),
			DSCRRatio:           f.ratio(b.DSCRRatio),
			DSCR:                f.dscr(b.DSCR),
		}
	}

	return c.JSON(http.StatusOK, BlanketResponse{
		AggregateDSCR:              f.ratio(result.AggregateDSCR),
		AggregateLTV:               f.ratio(result.AggregateLTV),
		AggregateQualifies:         result.AggregateQualifies,
		AggregateQualifiesStandard: result.AggregateQualifiesStandard,
		TotalMonthlyPI:             f.money(result.TotalMonthlyPI),
		TotalMonthlyPITIA:          f.money(result.TotalMonthlyPITIA),
		TotalMonthlyRent:           f.money(result.TotalMonthlyRent),
		TotalPropertyValue:         f.money(result.TotalPropertyValue),
		TotalLoanAmount:            f.money(result.TotalLoanAmount),
		TotalAllocated:             f.money(result.TotalAllocated),
		BalanceDifference:          f.money(result.BalanceDifference),
		HasBalanceWarning:          result.HasBalanceWarning(),
		MeetsPolicy:                result.MeetsPolicy,
		Properties:                 breakdowns,
		Warnings:                   warningsOrEmpty(result.Warnings),
	})
}

// AmortizationSchedule godoc
// @Summary Month-by-month amortization schedule
// @Tags calculations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LoanTermsRequest true "Loan terms"
// @Success 200 {object} ScheduleResponse
// @Failure 400 {object} ProblemDetails
// @Router /calculations/amortization-schedule [post]
func (h *CalculationHandler) AmortizationSchedule(c echo.Context) error {
	var req LoanTermsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var fields decimalFields
	input := fields.terms(req)
	if len(fields.errs) > 0 {
		return NewValidationError(c, "Validation failed", fields.errs)
	}

	result, err := h.underwriting.Schedule(input)
	if err != nil {
		return respondServiceError(c, err, "build amortization schedule")
	}

	f := h.format()
	entries := make([]ScheduleEntryResponse, len(result.Entries))
	for i, e := range result.Entries {
		entries[i] = ScheduleEntryResponse{
			Period:           e.Period,
			Payment:          f.money(e.Payment),
			Interest:         f.money(e.Interest),
			Principal:        f.money(e.Principal),
			RemainingBalance: f.money(e.RemainingBalance),
		}
	}

	return c.JSON(http.StatusOK, ScheduleResponse{
		TotalPaid:     f.money(result.TotalPaid),
		TotalInterest: f.money(result.TotalInterest),
		Entries:       entries,
	})
}
