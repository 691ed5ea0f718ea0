package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/underwriter/underwriter-backend/internal/middleware"
	"github.com/dafibh/underwriter/underwriter-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles deal report requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReports godoc
// @Summary Generate deal reports
// @Description Renders the latest analysis as Markdown, HTML and MISMO-style XML and returns download links
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deal ID"
// @Success 201 {object} service.Report
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /deals/{id}/reports [post]
func (h *ReportHandler) GenerateReports(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	if h.reportService == nil || !h.reportService.IsEnabled() {
		return NewServiceUnavailableError(c, "Reports are disabled (storage not configured)")
	}
	id, ok := dealID(c)
	if !ok {
		return invalidDealID(c)
	}

	report, err := h.reportService.GenerateReports(c.Request().Context(), workspaceID, id)
	if err != nil {
		if errors.Is(err, service.ErrReportStorageNotConfigured) {
			return NewServiceUnavailableError(c, "Reports are disabled (storage not configured)")
		}
		return respondServiceError(c, err, "generate reports")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("deal_id", id).
		Int("documents", len(report.Documents)).
		Msg("Deal reports generated")

	return c.JSON(http.StatusCreated, report)
}
