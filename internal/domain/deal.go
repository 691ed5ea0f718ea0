package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDealNotFound             = errors.New("deal not found")
	ErrDealNameEmpty            = errors.New("deal name is required")
	ErrDealNameTooLong          = errors.New("deal name must be 200 characters or less")
	ErrDealTypeInvalid          = errors.New("deal type must be single or blanket")
	ErrDealLoanAmountInvalid    = errors.New("loan amount must be positive")
	ErrDealRateInvalid          = errors.New("interest rate must be between 0 and 100")
	ErrDealTermInvalid          = errors.New("amortization months must be between 1 and 600")
	ErrDealPropertiesRequired   = errors.New("at least one property is required")
	ErrDealTooManyProperties    = errors.New("too many properties")
	ErrDealSinglePropertyCount  = errors.New("single-property deal must have exactly one property")
	ErrDealAllocationInvalid    = errors.New("manual allocation requires a non-negative amount for every property")
	ErrDealPropertyInvalid      = errors.New("property values must not be negative")
	ErrDealPropertyIndexInvalid = errors.New("property index out of range")
	ErrDealNotAnalyzed          = errors.New("deal has not been analyzed")
	ErrDealModified             = errors.New("deal was modified during analysis")
)

const (
	MaxDealNameLength = 200
	MaxDealProperties = 250
)

// DealType distinguishes a single-property loan from a blanket loan
type DealType string

const (
	DealTypeSingle  DealType = "single"
	DealTypeBlanket DealType = "blanket"
)

// AllocationMethod controls how a blanket loan is spread across properties
type AllocationMethod string

const (
	AllocationMethodEven   AllocationMethod = "even"
	AllocationMethodManual AllocationMethod = "manual"
)

// DealStatus tracks whether a deal carries a current analysis
type DealStatus string

const (
	DealStatusDraft    DealStatus = "draft"
	DealStatusAnalyzed DealStatus = "analyzed"
)

// DealProperty is one collateral property of a deal
type DealProperty struct {
	PropertyID           string           `json:"propertyId"`
	Address              string           `json:"address"`
	PropertyValue        decimal.Decimal  `json:"propertyValue"`
	CurrentLeaseRent     decimal.Decimal  `json:"currentLeaseRent"`
	MarketRent           decimal.Decimal  `json:"marketRent"`
	PropertyTaxesAnnual  decimal.Decimal  `json:"propertyTaxesAnnual"`
	InsuranceAnnual      decimal.Decimal  `json:"insuranceAnnual"`
	FloodInsuranceAnnual decimal.Decimal  `json:"floodInsuranceAnnual"`
	HOADuesMonthly       decimal.Decimal  `json:"hoaDuesMonthly"`
	AllocatedLoanAmount  *decimal.Decimal `json:"allocatedLoanAmount,omitempty"`
	PhotoURL             *string          `json:"photoUrl,omitempty"`
}

// UnderwritingRent is the lesser of lease and market rent
func (p DealProperty) UnderwritingRent() decimal.Decimal {
	return finance.UnderwritingRent(p.CurrentLeaseRent, p.MarketRent)
}

// Expenses returns the property's carrying costs
func (p DealProperty) Expenses() finance.PropertyExpenses {
	return finance.PropertyExpenses{
		PropertyTaxesAnnual:  p.PropertyTaxesAnnual,
		InsuranceAnnual:      p.InsuranceAnnual,
		FloodInsuranceAnnual: p.FloodInsuranceAnnual,
		HOADuesMonthly:       p.HOADuesMonthly,
	}
}

func (p DealProperty) hasNegative() bool {
	for _, v := range []decimal.Decimal{
		p.PropertyValue, p.CurrentLeaseRent, p.MarketRent,
		p.PropertyTaxesAnnual, p.InsuranceAnnual, p.FloodInsuranceAnnual, p.HOADuesMonthly,
	} {
		if v.IsNegative() {
			return true
		}
	}
	return false
}

// Deal is a loan scenario over one or more properties
type Deal struct {
	ID                 int32            `json:"id"`
	PublicID           uuid.UUID        `json:"publicId"`
	WorkspaceID        int32            `json:"workspaceId"`
	Name               string           `json:"name"`
	Type               DealType         `json:"type"`
	LoanAmount         decimal.Decimal  `json:"loanAmount"`
	AnnualRatePercent  decimal.Decimal  `json:"annualRatePercent"`
	AmortizationMonths int32            `json:"amortizationMonths"`
	IsInterestOnly     bool             `json:"isInterestOnly"`
	AllocationMethod   AllocationMethod `json:"allocationMethod"`
	Properties         []DealProperty   `json:"properties"`
	Status             DealStatus       `json:"status"`
	Analysis           *DealAnalysis    `json:"analysis,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
	DeletedAt          *time.Time       `json:"deletedAt,omitempty"`
}

// Validate checks the deal's fields. It normalizes the name and the
// allocation method in place.
func (d *Deal) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ErrDealNameEmpty
	}
	if len(d.Name) > MaxDealNameLength {
		return ErrDealNameTooLong
	}
	if d.Type != DealTypeSingle && d.Type != DealTypeBlanket {
		return ErrDealTypeInvalid
	}
	if !d.LoanAmount.IsPositive() {
		return ErrDealLoanAmountInvalid
	}
	if d.AnnualRatePercent.IsNegative() || d.AnnualRatePercent.GreaterThan(finance.MaxAnnualRatePercent) {
		return ErrDealRateInvalid
	}
	if !d.IsInterestOnly && d.AmortizationMonths < 1 {
		return ErrDealTermInvalid
	}
	if d.AmortizationMonths > finance.MaxAmortizationMonths {
		return ErrDealTermInvalid
	}
	if len(d.Properties) == 0 {
		return ErrDealPropertiesRequired
	}
	if len(d.Properties) > MaxDealProperties {
		return ErrDealTooManyProperties
	}
	if d.Type == DealTypeSingle && len(d.Properties) != 1 {
		return ErrDealSinglePropertyCount
	}
	for _, p := range d.Properties {
		if p.hasNegative() {
			return ErrDealPropertyInvalid
		}
	}

	if d.AllocationMethod == "" || d.Type == DealTypeSingle {
		d.AllocationMethod = AllocationMethodEven
	}
	switch d.AllocationMethod {
	case AllocationMethodEven:
	case AllocationMethodManual:
		for _, p := range d.Properties {
			if p.AllocatedLoanAmount == nil || p.AllocatedLoanAmount.IsNegative() {
				return ErrDealAllocationInvalid
			}
		}
	default:
		return ErrDealAllocationInvalid
	}
	return nil
}

// LoanTerms returns the deal's terms for the calculation engine
func (d *Deal) LoanTerms() finance.LoanTerms {
	return finance.LoanTerms{
		Principal:          d.LoanAmount,
		AnnualRatePercent:  d.AnnualRatePercent,
		AmortizationMonths: int(d.AmortizationMonths),
		IsInterestOnly:     d.IsInterestOnly,
	}
}

// AllocationStrategy returns the blanket allocation strategy for the deal
func (d *Deal) AllocationStrategy() finance.AllocationStrategy {
	if d.AllocationMethod != AllocationMethodManual {
		return finance.EvenSplit{}
	}
	amounts := make([]decimal.Decimal, len(d.Properties))
	for i, p := range d.Properties {
		if p.AllocatedLoanAmount != nil {
			amounts[i] = *p.AllocatedLoanAmount
		}
	}
	return finance.Manual{Allocations: amounts}
}

// PropertyInputs converts the deal's properties for the allocator, using
// the underwriting rent of each
func (d *Deal) PropertyInputs() []finance.PropertyInput {
	inputs := make([]finance.PropertyInput, len(d.Properties))
	for i, p := range d.Properties {
		inputs[i] = finance.PropertyInput{
			PropertyID:    p.PropertyID,
			PropertyValue: p.PropertyValue,
			Expenses:      p.Expenses(),
			MonthlyRent:   p.UnderwritingRent(),
		}
	}
	return inputs
}

// Property returns the property at index
func (d *Deal) Property(index int) (*DealProperty, error) {
	if index < 0 || index >= len(d.Properties) {
		return nil, ErrDealPropertyIndexInvalid
	}
	return &d.Properties[index], nil
}

// DealAnalysis is the persisted result of running the calculators on a deal
type DealAnalysis struct {
	AnalyzedAt        time.Time          `json:"analyzedAt"`
	Fingerprint       string             `json:"fingerprint"`
	MonthlyPI         decimal.Decimal    `json:"monthlyPI"`
	MonthlyPITIA      decimal.Decimal    `json:"monthlyPITIA"`
	MonthlyRent       decimal.Decimal    `json:"monthlyRent"`
	DSCRRatio         decimal.Decimal    `json:"dscrRatio"`
	LTVRatio          decimal.Decimal    `json:"ltvRatio"`
	Qualifies         bool               `json:"qualifies"`
	QualifiesStandard bool               `json:"qualifiesStandard"`
	BalanceDifference decimal.Decimal    `json:"balanceDifference"`
	Properties        []PropertyAnalysis `json:"properties"`
	Warnings          []string           `json:"warnings,omitempty"`
}

// PropertyAnalysis is the per-property part of a DealAnalysis
type PropertyAnalysis struct {
	PropertyID          string          `json:"propertyId"`
	Address             string          `json:"address"`
	AllocatedLoanAmount decimal.Decimal `json:"allocatedLoanAmount"`
	PropertyValue       decimal.Decimal `json:"propertyValue"`
	UnderwritingRent    decimal.Decimal `json:"underwritingRent"`
	MonthlyPI           decimal.Decimal `json:"monthlyPI"`
	MonthlyTaxes        decimal.Decimal `json:"monthlyTaxes"`
	MonthlyInsurance    decimal.Decimal `json:"monthlyInsurance"`
	MonthlyFlood        decimal.Decimal `json:"monthlyFlood"`
	MonthlyHOA          decimal.Decimal `json:"monthlyHOA"`
	MonthlyPITIA        decimal.Decimal `json:"monthlyPITIA"`
	DSCRRatio           decimal.Decimal `json:"dscrRatio"`
	LTVRatio            decimal.Decimal `json:"ltvRatio"`
	Qualifies           bool            `json:"qualifies"`
	QualifiesStandard   bool            `json:"qualifiesStandard"`
}

// DealRepository defines the interface for deal persistence operations
type DealRepository interface {
	Create(deal *Deal) (*Deal, error)
	GetByID(workspaceID int32, id int32) (*Deal, error)
	GetAllByWorkspace(workspaceID int32) ([]*Deal, error)
	Update(deal *Deal) (*Deal, error)
	// SaveAnalysis stores analysis only if the deal still carries the
	// updatedAt it was read with, and returns ErrDealModified otherwise
	SaveAnalysis(workspaceID int32, id int32, analysis *DealAnalysis, updatedAt time.Time) error
	SoftDelete(workspaceID int32, id int32) error
	PurgeDeleted(before time.Time) (int64, error)
}
