package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/tallerhq/taller-backend/internal/repository/storage"
)

const (
	MaxReceiptSize  = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth = 50
	ThumbnailWidth  = 200
	DisplayWidth    = 800
	JPEGQuality     = 85

	presignExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge          = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat     = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall          = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData       = errors.New("invalid image data")
	ErrReceiptStorageNotEnabled = errors.New("receipt storage not configured")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptVariants holds the stored object paths for one receipt upload.
// The display path is what gets persisted on the expense row.
type ReceiptVariants struct {
	ID           string `json:"id"`
	ThumbnailKey string `json:"thumbnailKey"`
	DisplayKey   string `json:"displayKey"`
	OriginalKey  string `json:"originalKey"`
}

// ReceiptService processes receipt images and stores them
type ReceiptService struct {
	storage storage.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository) *ReceiptService {
	return &ReceiptService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptWidth {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// ProcessAndUpload decodes a receipt image, renders thumbnail, display
// and original variants and uploads all three. entityType is the owning
// collection (general-expenses or budget-expenses).
func (s *ReceiptService) ProcessAndUpload(ctx context.Context, entityType string, entityID uuid.UUID, data []byte, filename string) (*ReceiptVariants, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotEnabled
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	receiptID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	keys := make(map[string]string)

	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := fmt.Sprintf("%s/%s/%s_%s.jpg", entityType, entityID, receiptID, variant.name)

		key, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanupVariants(ctx, keys)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}

		keys[variant.name] = key
	}

	return &ReceiptVariants{
		ID:           receiptID,
		ThumbnailKey: keys["thumb"],
		DisplayKey:   keys["display"],
		OriginalKey:  keys["original"],
	}, nil
}

// cleanupVariants removes variants already uploaded during a failed upload
func (s *ReceiptService) cleanupVariants(ctx context.Context, keys map[string]string) {
	for _, key := range keys {
		_ = s.storage.Delete(ctx, key)
	}
}

// PresignURL generates a short-lived download URL for a stored receipt key
func (s *ReceiptService) PresignURL(ctx context.Context, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotEnabled
	}
	return s.storage.GeneratePresignedURL(ctx, objectPath, presignExpiry)
}

// DeleteAllVariants deletes every variant belonging to the given stored
// key. The key on record is the display variant.
func (s *ReceiptService) DeleteAllVariants(ctx context.Context, displayKey string) error {
	if displayKey == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrReceiptStorageNotEnabled
	}

	base, found := strings.CutSuffix(displayKey, "_display.jpg")
	if !found {
		return s.storage.Delete(ctx, displayKey)
	}

	for _, variant := range []string{"thumb", "display", "original"} {
		_ = s.storage.Delete(ctx, base+"_"+variant+".jpg")
	}
	return nil
}

// ReceiptContentType returns the content type for a receipt filename
func ReceiptContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := allowedReceiptExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
