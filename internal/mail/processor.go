package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Message is a fetched email.
type Message struct {
	Subject string
	From    string
	Content string
}

// MailboxReader fetches unread messages from a mailbox.
type MailboxReader interface {
	FetchUnread(ctx context.Context) ([]Message, error)
}

// Extractor pulls a structured product request out of email content.
type Extractor interface {
	ExtractProductRequest(ctx context.Context, content string) (*domain.ProductRequest, error)
}

// CheckResult summarizes one mailbox poll.
type CheckResult struct {
	NewEmails int                     `json:"new_emails"`
	Requests  []domain.ProductRequest `json:"processed_requests"`
}

// Processor polls a mailbox and turns unread product-request emails into
// structured requests.
type Processor struct {
	reader    MailboxReader
	extractor Extractor
	logger    *slog.Logger
}

// NewProcessor creates a mail processor.
func NewProcessor(reader MailboxReader, extractor Extractor, logger *slog.Logger) *Processor {
	return &Processor{
		reader:    reader,
		extractor: extractor,
		logger:    logger,
	}
}

// CheckEmails fetches unread messages and extracts a product request from
// each. An extraction failure aborts the whole poll; the failed message
// stays unprocessed.
func (p *Processor) CheckEmails(ctx context.Context) (*CheckResult, error) {
	messages, err := p.reader.FetchUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("check emails: %w", err)
	}

	result := &CheckResult{
		NewEmails: len(messages),
		Requests:  make([]domain.ProductRequest, 0, len(messages)),
	}

	for _, msg := range messages {
		request, err := p.extractor.ExtractProductRequest(ctx, msg.Content)
		if err != nil {
			return nil, fmt.Errorf("check emails: extract from %q: %w", msg.Subject, err)
		}
		result.Requests = append(result.Requests, *request)

		p.logger.InfoContext(ctx, "extracted product request from email",
			slog.String("subject", msg.Subject),
			slog.String("from", msg.From),
			slog.String("product_name", request.ProductName),
		)
	}

	return result, nil
}
