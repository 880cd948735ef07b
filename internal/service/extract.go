package service

import (
	"context"
	"log/slog"

	"github.com/sanavullashaik/salesFlow/pkg/errors"

	"github.com/sanavullashaik/salesFlow/internal/domain"
	"github.com/sanavullashaik/salesFlow/internal/mail"
)

// CheckEmails polls the mailbox and extracts product requests from unread
// messages.
func (s *SearchService) CheckEmails(ctx context.Context) (*mail.CheckResult, error) {
	if s.mail == nil {
		return nil, errors.Unavailable("email processing is not configured")
	}

	result, err := s.mail.CheckEmails(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "mailbox checked",
		slog.Int("new_emails", result.NewEmails),
		slog.Int("requests", len(result.Requests)),
	)
	return result, nil
}

// ProcessImage extracts structured product data from an uploaded image.
// Extraction failures degrade to a generic stub rather than failing the
// request: vision-model flakiness should not break the upload flow.
func (s *SearchService) ProcessImage(ctx context.Context, imageData []byte, mimeType string) (*domain.ProductInfo, error) {
	if s.images == nil {
		return nil, errors.Unavailable("image processing is not configured")
	}
	if len(imageData) == 0 {
		return nil, errors.InvalidInput("image data is empty")
	}

	info, err := s.images.ExtractProductInfo(ctx, imageData, mimeType)
	if err != nil {
		s.logger.WarnContext(ctx, "image extraction failed, returning stub",
			slog.String("error", err.Error()),
		)
		return &domain.ProductInfo{
			ProductName:         "Unknown Product",
			Description:         "Product extracted from image",
			Specifications:      map[string]string{},
			Category:            "general",
			EstimatedPriceRange: "Unknown",
		}, nil
	}

	return info, nil
}
