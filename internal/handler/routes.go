package handler

import (
	"github.com/dafibh/underwriter/underwriter-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth        *AuthHandler
	Calculation *CalculationHandler
	Deal        *DealHandler
	Report      *ReportHandler
	Image       *ImageHandler
}

// RegisterRoutes sets up all API routes. Every /api/v1 route except the
// OpenAPI document requires authentication and is rate limited per
// workspace.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.GET("/openapi.json", ServeOpenAPI3Spec)

	protected := api.Group("", authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))

	// Auth routes
	auth := protected.Group("/auth")
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	// Stateless calculators
	calculations := protected.Group("/calculations")
	calculations.POST("/monthly-payment", h.Calculation.MonthlyPayment)
	calculations.POST("/dscr", h.Calculation.DSCR)
	calculations.POST("/ltv", h.Calculation.LTV)
	calculations.POST("/blanket-allocation", h.Calculation.BlanketAllocation)
	calculations.POST("/amortization-schedule", h.Calculation.AmortizationSchedule)

	// Deal routes
	deals := protected.Group("/deals")
	deals.POST("", h.Deal.CreateDeal)
	deals.GET("", h.Deal.ListDeals)
	deals.GET("/:id", h.Deal.GetDeal)
	deals.PUT("/:id", h.Deal.UpdateDeal)
	deals.DELETE("/:id", h.Deal.DeleteDeal)
	deals.POST("/:id/analyze", h.Deal.AnalyzeDeal)
	deals.POST("/:id/reports", h.Report.GenerateReports)
	deals.POST("/:id/properties/:index/photos", h.Image.UploadPropertyPhoto)
	deals.GET("/:id/properties/:index/photo", h.Image.GetPropertyPhoto)
}
