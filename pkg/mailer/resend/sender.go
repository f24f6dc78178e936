package resend

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/pdfmail/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	_, err := s.client.Emails.SendWithContext(ctx, s.request(email))
	if err != nil {
		return fmt.Errorf("%w: resend: %w", mailer.ErrSendFailed, err)
	}

	return nil
}

// request maps an Email onto the Resend API payload.
func (s *Sender) request(email *mailer.Email) *resend.SendEmailRequest {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
	}

	for _, a := range email.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		})
	}

	names := make([]string, 0, len(email.Tags))
	for name := range email.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: tagValue(email.Tags[name])})
	}

	return req
}

// tagValue converts a tag value to the string Resend expects.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

var _ mailer.Sender = (*Sender)(nil)
