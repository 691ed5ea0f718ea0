package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/finance"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation         = "https://underwriter.app/errors/validation"
	ErrorTypeNotFound           = "https://underwriter.app/errors/not-found"
	ErrorTypeUnauthorized       = "https://underwriter.app/errors/unauthorized"
	ErrorTypeConflict           = "https://underwriter.app/errors/conflict"
	ErrorTypeInternal           = "https://underwriter.app/errors/internal"
	ErrorTypeServiceUnavailable = "https://underwriter.app/errors/service-unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeServiceUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// dealFieldErrors maps deal validation errors to the request field at fault
var dealFieldErrors = map[error]string{
	domain.ErrDealNameEmpty:            "name",
	domain.ErrDealNameTooLong:          "name",
	domain.ErrDealTypeInvalid:          "type",
	domain.ErrDealLoanAmountInvalid:    "loanAmount",
	domain.ErrDealRateInvalid:          "annualRatePercent",
	domain.ErrDealTermInvalid:          "amortizationMonths",
	domain.ErrDealPropertiesRequired:   "properties",
	domain.ErrDealTooManyProperties:    "properties",
	domain.ErrDealSinglePropertyCount:  "properties",
	domain.ErrDealAllocationInvalid:    "allocationMethod",
	domain.ErrDealPropertyInvalid:      "properties",
	domain.ErrDealPropertyIndexInvalid: "index",
}

// engineFields renames calculator input names to their request field names
var engineFields = map[string]string{
	"principal":       "loanAmount",
	"totalLoanAmount": "loanAmount",
	"allocations":     "allocatedLoanAmount",
}

// respondServiceError writes the problem response for an error returned by
// a service. Errors it does not recognize are logged and reported as 500.
func respondServiceError(c echo.Context, err error, action string) error {
	var inputErr *finance.InvalidInputError
	if errors.As(err, &inputErr) {
		field := inputErr.Field
		if renamed, ok := engineFields[field]; ok {
			field = renamed
		}
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: field, Message: inputErr.Reason},
		})
	}

	if errors.Is(err, domain.ErrDealNotFound) {
		return NewNotFoundError(c, "Deal not found")
	}
	if errors.Is(err, domain.ErrDealNotAnalyzed) {
		return NewConflictError(c, "Deal has not been analyzed")
	}
	if errors.Is(err, domain.ErrDealModified) {
		return NewConflictError(c, "Deal was modified during analysis; retry")
	}
	for target, field := range dealFieldErrors {
		if errors.Is(err, target) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: field, Message: target.Error()},
			})
		}
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}
