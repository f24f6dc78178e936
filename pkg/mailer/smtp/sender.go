// Package smtp delivers mailer.Email messages over SMTP.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/gomail.v2"

	"github.com/dmitrymomot/pdfmail/pkg/mailer"
)

// Dialer is the subset of *gomail.Dialer used by Sender.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender implements mailer.Sender over SMTP with retry and exponential backoff.
type Sender struct {
	dialer Dialer
	config Config
	logger *slog.Logger
	sent   *prometheus.CounterVec
	failed *prometheus.CounterVec
	sleep  func(ctx context.Context, d time.Duration) error
}

// Option configures a Sender.
type Option func(*Sender)

// WithDialer replaces the gomail dialer.
func WithDialer(d Dialer) Option {
	return func(s *Sender) { s.dialer = d }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCounters records deliveries and final failures, labelled by host.
func WithCounters(sent, failed *prometheus.CounterVec) Option {
	return func(s *Sender) {
		s.sent = sent
		s.failed = failed
	}
}

// New creates an SMTP sender.
func New(cfg Config, opts ...Option) *Sender {
	cfg.applyDefaults()

	s := &Sender{
		config: cfg,
		logger: slog.Default(),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.dialer == nil {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
		if cfg.InsecureSkipVerify {
			d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host} //nolint:gosec // opt-in for test relays
		}
		s.dialer = d
	}

	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	msg := s.message(email)
	backoff := s.config.RetryBackoff

	var lastErr error
	for attempt := 0; attempt <= s.config.RetryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: smtp: %w", mailer.ErrSendFailed, err)
		}

		lastErr = s.dialer.DialAndSend(msg)
		if lastErr == nil {
			s.inc(s.sent)
			return nil
		}

		if attempt == s.config.RetryCount {
			break
		}

		s.logger.WarnContext(ctx, "smtp send attempt failed",
			slog.Int("attempt", attempt+1),
			slog.Duration("retry_in", backoff),
			slog.String("error", lastErr.Error()),
		)
		if err := s.sleep(ctx, backoff); err != nil {
			return fmt.Errorf("%w: smtp: %w", mailer.ErrSendFailed, err)
		}
		backoff = min(backoff*2, maxBackoff)
	}

	s.inc(s.failed)
	return fmt.Errorf("%w: smtp: %d attempts: %w", mailer.ErrSendFailed, s.config.RetryCount+1, lastErr)
}

func (s *Sender) message(email *mailer.Email) *gomail.Message {
	msg := gomail.NewMessage()

	if email.From != "" {
		msg.SetHeader("From", email.From)
	} else {
		msg.SetAddressHeader("From", s.config.SenderEmail, s.config.SenderName)
	}
	msg.SetHeader("To", email.To...)
	if len(email.CC) > 0 {
		msg.SetHeader("Cc", email.CC...)
	}
	if len(email.BCC) > 0 {
		msg.SetHeader("Bcc", email.BCC...)
	}
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	msg.SetHeader("Subject", email.Subject)
	for k, v := range email.Headers {
		msg.SetHeader(k, v)
	}

	if email.Text != "" {
		msg.SetBody("text/plain", email.Text)
		msg.AddAlternative("text/html", email.HTML)
	} else {
		msg.SetBody("text/html", email.HTML)
	}

	for _, a := range email.Attachments {
		content := a.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		header := map[string][]string{}
		if a.ContentType != "" {
			header["Content-Type"] = []string{a.ContentType}
		}
		if a.ContentID != "" {
			header["Content-ID"] = []string{"<" + a.ContentID + ">"}
		}
		if len(header) > 0 {
			settings = append(settings, gomail.SetHeader(header))
		}
		msg.Attach(a.Filename, settings...)
	}

	return msg
}

func (s *Sender) inc(c *prometheus.CounterVec) {
	if c != nil {
		c.WithLabelValues(s.config.Host).Inc()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ mailer.Sender = (*Sender)(nil)
