package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/repository/storage"
	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxImageSize    = 5 * 1024 * 1024 // 5MB
	MinImageWidth   = 50
	MinImageHeight  = 50
	ThumbnailSize   = 200
	DisplayWidth    = 1280
	JPEGQuality     = 85
	PhotoLinkExpiry = time.Hour
)

var (
	ErrImageTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat             = errors.New("invalid format. Supported: JPEG, PNG")
	ErrImageTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrImageStorageNotConfigured = errors.New("image storage not configured")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// photoVariants are the stored renditions of a property photo
var photoVariants = []string{"thumb", "display"}

// PhotoResult describes an uploaded property photo
type PhotoResult struct {
	ID            string `json:"id"`
	PropertyIndex int    `json:"propertyIndex"`
	Key           string `json:"key"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	DisplayURL    string `json:"displayUrl"`
}

// ImageService handles property photo processing and storage
type ImageService struct {
	storage        storage.ObjectStore
	dealRepo       domain.DealRepository
	eventPublisher websocket.EventPublisher
}

// NewImageService creates a new ImageService. A nil store disables uploads.
func NewImageService(store storage.ObjectStore, dealRepo domain.DealRepository) *ImageService {
	return &ImageService{storage: store, dealRepo: dealRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ImageService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ImageService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ValidateImage validates image format and size
func (s *ImageService) ValidateImage(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

func (s *ImageService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	return img, nil
}

// render produces one variant: a square crop for thumbnails, otherwise a
// width-bounded copy
func render(img image.Image, variant string) image.Image {
	if variant == "thumb" {
		return imaging.Fill(img, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos)
	}
	if img.Bounds().Dx() > DisplayWidth {
		return imaging.Resize(img, DisplayWidth, 0, imaging.Lanczos)
	}
	return img
}

// UploadPropertyPhoto stores a photo for the property at index and records
// its display key on the deal. A previous photo is removed afterwards.
func (s *ImageService) UploadPropertyPhoto(ctx context.Context, workspaceID, dealID int32, index int, data []byte, filename string) (*PhotoResult, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}

	deal, err := s.dealRepo.GetByID(workspaceID, dealID)
	if err != nil {
		return nil, err
	}
	property, err := deal.Property(index)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	photoID := uuid.New().String()
	base := fmt.Sprintf("%d/deals/%d/photos/%d/%s", workspaceID, dealID, index, photoID)

	keys := make(map[string]string, len(photoVariants))
	for _, variant := range photoVariants {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, render(img, variant), imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
			s.cleanup(ctx, keys)
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		key, err := s.storage.Upload(ctx, base+"_"+variant+".jpg", bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanup(ctx, keys)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant, err)
		}
		keys[variant] = key
	}

	previous := property.PhotoURL
	displayKey := keys["display"]
	property.PhotoURL = &displayKey
	if _, err := s.dealRepo.Update(deal); err != nil {
		s.cleanup(ctx, keys)
		return nil, err
	}
	if previous != nil {
		s.DeleteAllVariants(ctx, *previous)
	}

	result := &PhotoResult{ID: photoID, PropertyIndex: index, Key: displayKey}
	if result.ThumbnailURL, err = s.storage.GeneratePresignedURL(ctx, keys["thumb"], PhotoLinkExpiry); err != nil {
		return nil, err
	}
	if result.DisplayURL, err = s.storage.GeneratePresignedURL(ctx, displayKey, PhotoLinkExpiry); err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.PhotoUploaded(map[string]interface{}{
		"dealId":        dealID,
		"propertyIndex": index,
		"key":           displayKey,
	}))
	return result, nil
}

// PhotoLink returns a temporary URL for a stored photo key
func (s *ImageService) PhotoLink(ctx context.Context, key string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrImageStorageNotConfigured
	}
	return s.storage.GeneratePresignedURL(ctx, key, PhotoLinkExpiry)
}

func (s *ImageService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// cleanup removes variants uploaded during a failed operation
func (s *ImageService) cleanup(ctx context.Context, keys map[string]string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to clean up photo variant")
		}
	}
}

// DeleteAllVariants deletes every rendition of the photo stored under key
func (s *ImageService) DeleteAllVariants(ctx context.Context, key string) {
	base := extractBasePath(key)
	if base == "" || !s.IsEnabled() {
		return
	}
	for _, variant := range photoVariants {
		if err := s.storage.Delete(ctx, base+"_"+variant+".jpg"); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to delete photo variant")
		}
	}
}

// extractBasePath strips the variant suffix from a photo key
func extractBasePath(key string) string {
	for _, variant := range photoVariants {
		suffix := "_" + variant + ".jpg"
		if strings.HasSuffix(key, suffix) {
			return strings.TrimSuffix(key, suffix)
		}
	}
	return ""
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
