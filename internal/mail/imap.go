package mail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"
)

// IMAPConfig holds the mailbox connection settings.
type IMAPConfig struct {
	// Server is the IMAP host, with an optional port (default 993).
	Server   string
	Username string
	Password string
	Mailbox  string
}

// IMAPReader fetches unread messages over IMAP with TLS. Each poll opens a
// fresh connection; fetching a message body marks it seen so it is not
// returned again.
type IMAPReader struct {
	cfg    IMAPConfig
	logger *slog.Logger
}

// NewIMAPReader creates a reader for the configured mailbox.
func NewIMAPReader(cfg IMAPConfig, logger *slog.Logger) *IMAPReader {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if !strings.Contains(cfg.Server, ":") {
		cfg.Server += ":993"
	}
	return &IMAPReader{cfg: cfg, logger: logger}
}

// FetchUnread returns all unseen messages in the mailbox.
func (r *IMAPReader) FetchUnread(ctx context.Context) ([]Message, error) {
	c, err := client.DialTLS(r.cfg.Server, nil)
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", r.cfg.Server, err)
	}
	defer func() { _ = c.Logout() }()

	if err := c.Login(r.cfg.Username, r.cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := c.Select(r.cfg.Mailbox, false); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", r.cfg.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search unseen: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messagesCh := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messagesCh)
	}()

	var messages []Message
	for msg := range messagesCh {
		parsed, err := r.parseMessage(msg, section)
		if err != nil {
			r.logger.WarnContext(ctx, "skipping unparsable email",
				slog.Uint64("seq", uint64(msg.SeqNum)),
				slog.String("error", err.Error()),
			)
			continue
		}
		messages = append(messages, parsed)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	r.logger.InfoContext(ctx, "fetched unread emails", slog.Int("count", len(messages)))
	return messages, nil
}

// parseMessage extracts the subject, sender and first inline text part.
func (r *IMAPReader) parseMessage(msg *imap.Message, section *imap.BodySectionName) (Message, error) {
	out := Message{}
	if msg.Envelope != nil {
		out.Subject = msg.Envelope.Subject
		if len(msg.Envelope.From) > 0 {
			out.From = msg.Envelope.From[0].Address()
		}
	}

	body := msg.GetBody(section)
	if body == nil {
		return out, fmt.Errorf("message has no body section")
	}

	mr, err := gomail.CreateReader(body)
	if err != nil {
		return out, fmt.Errorf("parse message: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("read message part: %w", err)
		}

		if _, ok := part.Header.(*gomail.InlineHeader); ok {
			content, err := io.ReadAll(part.Body)
			if err != nil {
				return out, fmt.Errorf("read message body: %w", err)
			}
			out.Content = string(content)
			break
		}
	}

	if out.Content == "" {
		return out, fmt.Errorf("message has no readable text part")
	}
	return out, nil
}
