package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dafibh/underwriter/underwriter-backend/internal/middleware"
	"github.com/dafibh/underwriter/underwriter-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ImageHandler handles property photo requests
type ImageHandler struct {
	imageService *service.ImageService
	dealService  *service.DealService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *service.ImageService, dealService *service.DealService) *ImageHandler {
	return &ImageHandler{imageService: imageService, dealService: dealService}
}

// PhotoLinkResponse carries a temporary photo URL
type PhotoLinkResponse struct {
	URL string `json:"url"`
}

// propertyIndex parses the :index path parameter
func propertyIndex(c echo.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func invalidPropertyIndex(c echo.Context) error {
	return NewValidationError(c, "Invalid property index", []ValidationError{
		{Field: "index", Message: "Must be a non-negative integer"},
	})
}

// UploadPropertyPhoto godoc
// @Summary Upload a property photo
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deal ID"
// @Param index path int true "Property index"
// @Param file formData file true "JPEG or PNG image, at most 5MB"
// @Success 201 {object} service.PhotoResult
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /deals/{id}/properties/{index}/photos [post]
func (h *ImageHandler) UploadPropertyPhoto(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	// If storage isn't configured, don't attempt to process/upload
	if h.imageService == nil || !h.imageService.IsEnabled() {
		return NewServiceUnavailableError(c, "Photo uploads are disabled (storage not configured)")
	}

	id, ok := dealID(c)
	if !ok {
		return invalidDealID(c)
	}
	index, ok := propertyIndex(c)
	if !ok {
		return invalidPropertyIndex(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// Read one byte past the limit so oversized files are still rejected
	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	result, err := h.imageService.UploadPropertyPhoto(c.Request().Context(), workspaceID, id, index, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG"},
			})
		case errors.Is(err, service.ErrImageTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			return respondServiceError(c, err, "upload photo")
		}
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("deal_id", id).
		Int("property_index", index).
		Str("photo_id", result.ID).
		Msg("Property photo uploaded")

	return c.JSON(http.StatusCreated, result)
}

// GetPropertyPhoto godoc
// @Summary Get a temporary link to a property photo
// @Tags photos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deal ID"
// @Param index path int true "Property index"
// @Success 200 {object} PhotoLinkResponse
// @Failure 404 {object} ProblemDetails
// @Router /deals/{id}/properties/{index}/photo [get]
func (h *ImageHandler) GetPropertyPhoto(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	if h.imageService == nil || !h.imageService.IsEnabled() {
		return NewServiceUnavailableError(c, "Photos are disabled (storage not configured)")
	}

	id, ok := dealID(c)
	if !ok {
		return invalidDealID(c)
	}
	index, ok := propertyIndex(c)
	if !ok {
		return invalidPropertyIndex(c)
	}

	deal, err := h.dealService.GetDeal(workspaceID, id)
	if err != nil {
		return respondServiceError(c, err, "get photo")
	}
	property, err := deal.Property(index)
	if err != nil {
		return respondServiceError(c, err, "get photo")
	}
	if property.PhotoURL == nil {
		return NewNotFoundError(c, "Property has no photo")
	}

	url, err := h.imageService.PhotoLink(c.Request().Context(), *property.PhotoURL)
	if err != nil {
		return respondServiceError(c, err, "get photo")
	}
	return c.JSON(http.StatusOK, PhotoLinkResponse{URL: url})
}
