package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/middleware"
	"github.com/dafibh/underwriter/underwriter-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DealHandler handles deal-related HTTP requests
type DealHandler struct {
	dealService *service.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *service.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// DealPropertyRequest is one property of a deal request
type DealPropertyRequest struct {
	ExpensesRequest
	PropertyID          string `json:"propertyId"`
	Address             string `json:"address"`
	PropertyValue       string `json:"propertyValue"`
	CurrentLeaseRent    string `json:"currentLeaseRent"`
	MarketRent          string `json:"marketRent"`
	AllocatedLoanAmount string `json:"allocatedLoanAmount,omitempty"`
}

// DealRequest represents the create and update deal request body
type DealRequest struct {
	Name               string                `json:"name"`
	Type               string                `json:"type"`
	LoanAmount         string                `json:"loanAmount"`
	AnnualRatePercent  string                `json:"annualRatePercent"`
	AmortizationMonths int32                 `json:"amortizationMonths"`
	IsInterestOnly     bool                  `json:"isInterestOnly"`
	AllocationMethod   string                `json:"allocationMethod"`
	Properties         []DealPropertyRequest `json:"properties"`
	Notes              *string               `json:"notes"`
}

// DealListResponse wraps the deals of a workspace
type DealListResponse struct {
	Deals []*domain.Deal `json:"deals"`
}

func (req DealRequest) toInput() (service.DealInput, []ValidationError) {
	var fields decimalFields
	input := service.DealInput{
		Name:               req.Name,
		Type:               domain.DealType(req.Type),
		LoanAmount:         fields.required("loanAmount", req.LoanAmount),
		AnnualRatePercent:  fields.required("annualRatePercent", req.AnnualRatePercent),
		AmortizationMonths: req.AmortizationMonths,
		IsInterestOnly:     req.IsInterestOnly,
		AllocationMethod:   domain.AllocationMethod(req.AllocationMethod),
		Properties:         make([]domain.DealProperty, len(req.Properties)),
		Notes:              req.Notes,
	}

	for i, p := range req.Properties {
		prefix := "properties[" + strconv.Itoa(i) + "]."
		propertyID := p.PropertyID
		if propertyID == "" {
			propertyID = strconv.Itoa(i + 1)
		}
		expenses := fields.expenses(prefix, p.ExpensesRequest)
		property := domain.DealProperty{
			PropertyID:           propertyID,
			Address:              p.Address,
			PropertyValue:        fields.optional(prefix+"propertyValue", p.PropertyValue),
			CurrentLeaseRent:     fields.optional(prefix+"currentLeaseRent", p.CurrentLeaseRent),
			MarketRent:           fields.optional(prefix+"marketRent", p.MarketRent),
			PropertyTaxesAnnual:  expenses.PropertyTaxesAnnual,
			InsuranceAnnual:      expenses.InsuranceAnnual,
			FloodInsuranceAnnual: expenses.FloodInsuranceAnnual,
			HOADuesMonthly:       expenses.HOADuesMonthly,
		}
		if p.AllocatedLoanAmount != "" {
			amount := fields.optional(prefix+"allocatedLoanAmount", p.AllocatedLoanAmount)
			property.AllocatedLoanAmount = &amount
		}
		input.Properties[i] = property
	}
	return input, fields.errs
}

// dealID parses the :id path parameter
func dealID(c echo.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func invalidDealID(c echo.Context) error {
	return NewValidationError(c, "Invalid deal ID", []ValidationError{
		{Field: "id", Message: "Must be a positive integer"},
	})
}

// CreateDeal godoc
// @Summary Create a deal
// @Tags deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DealRequest true "Deal"
// @Success 201 {object} domain.Deal
// @Failure 400 {object} ProblemDetails
// @Router /deals [post]
func (h *DealHandler) CreateDeal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req DealRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	deal, err := h.dealService.CreateDeal(workspaceID, input)
	if err != nil {
		return respondServiceError(c, err, "create deal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("deal_id", deal.ID).Str("type", string(deal.Type)).Msg("Deal created")
	return c.JSON(http.StatusCreated, deal)
}

// ListDeals godoc
// @Summary List deals
// @Tags deals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DealListResponse
// @Router /deals [get]
func (h *DealHandler) ListDeals(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	deals, err := h.dealService.ListDeals(workspaceID)
	if err != nil {
		return respondServiceError(c, err, "list deals")
	}
	if deals == nil {
		deals = []*domain.Deal{}
	}
	return c.JSON(http.StatusOK, DealListResponse{Deals: deals})
}

// GetDeal godoc
// @Summary Get a deal
// @Tags deals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deal ID"
// @Success 200 {object} domain.Deal
// @Failure 404 {object} ProblemDetails
// @Router /deals/{id} [get]
func (h *DealHandler) GetDeal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := dealID(c)
	if !ok {
		return invalidDealID(c)
	}

	deal, err := h.dealService.GetDeal(workspaceID, id)
	if err != nil {
		return respondServiceError(c, err, "get deal")
	}
	return c.JSON(http.StatusOK, deal)
}

// UpdateDeal godoc
// @Summary Replace a deal's fields
// @Description A stored analysis is kept only while the analysis inputs are unchanged
// @Tags deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deal ID"
// @Param request body DealRequest true "Deal"
// @Success 200 {object} domain.Deal
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /deals/{id} [put]
func (h *DealHandler) UpdateDeal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := dealID(c)
	if !ok {
		return invalidDealID(c)
	}

	var req DealRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	deal, err := h.dealService.UpdateDeal(workspaceID, id, input)
	if err != nil {
		return respondServiceError(c, err, "update deal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("deal_id", id).Str("status", string(deal.Status)).Msg("Deal updated")
	return c.JSON(http.StatusOK, deal)
}

// DeleteDeal godoc
// @Summary Delete a deal
// @Tags deals
// @Security BearerAuth
// @Param id path int true "Deal ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /deals/{id} [delete]
func (h *DealHandler) DeleteDeal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := dealID(c)
	if !ok {
		return invalidDealID(c)
	}

	if err := h.dealService.DeleteDeal(workspaceID, id); err != nil {
		return respondServiceError(c, err, "delete deal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("deal_id", id).Msg("Deal deleted")
	return c.NoContent(http.StatusNoContent)
}

// AnalyzeDeal godoc
// @Summary Analyze a deal
// @Description Runs the DSCR evaluator or the blanket allocator and stores the result on the deal
// @Tags deals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deal ID"
// @Success 200 {object} domain.Deal
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /deals/{id}/analyze [post]
func (h *DealHandler) AnalyzeDeal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	id, ok := dealID(c)
	if !ok {
		return invalidDealID(c)
	}

	deal, err := h.dealService.AnalyzeDeal(c.Request().Context(), workspaceID, id)
	if err != nil {
		return respondServiceError(c, err, "analyze deal")
	}
	return c.JSON(http.StatusOK, deal)
}
