package mailer

import (
	"context"
	"log/slog"
	"strings"
)

// Sender defines the minimal interface that email providers must implement.
// It accepts a fully-prepared Email and handles the actual delivery.
type Sender interface {
	// Send delivers an email message.
	// The Email must have To, Subject, and HTML already set.
	Send(ctx context.Context, email *Email) error
}

// LogSender is a Sender that writes the message envelope to a logger
// instead of delivering it. Used for local development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger uses slog.Default().
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	names := make([]string, 0, len(email.Attachments))
	size := 0
	for _, a := range email.Attachments {
		names = append(names, a.Filename)
		size += len(a.Content)
	}

	s.logger.InfoContext(ctx, "email not delivered: log provider",
		slog.String("to", strings.Join(email.To, ", ")),
		slog.String("reply_to", email.ReplyTo),
		slog.String("subject", email.Subject),
		slog.Any("attachments", names),
		slog.Int("attachment_bytes", size),
		slog.Int("html_bytes", len(email.HTML)),
	)
	return nil
}

var _ Sender = (*LogSender)(nil)
