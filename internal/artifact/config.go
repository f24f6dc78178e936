package artifact

import (
	"fmt"
	"net/mail"

	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// Config holds artifact mailing settings.
type Config struct {
	OutputDir string `env:"ARTIFACT_OUTPUT_DIR" envDefault:"public://emailed_pdfs"`
	Naming    Naming `env:"ARTIFACT_NAMING" envDefault:"label"`
	Recipient string `env:"ARTIFACT_RECIPIENT" envDefault:"test@test.com"`
	ReplyTo   string `env:"ARTIFACT_REPLY_TO"`
	// Subject overrides the template subject. It may use template actions.
	Subject  string `env:"ARTIFACT_SUBJECT"`
	Template string `env:"ARTIFACT_TEMPLATE" envDefault:"artifact_mail.md"`
	Notice   string `env:"ARTIFACT_NOTICE" envDefault:"Email sent successfully"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := storage.ParseURI(c.OutputDir)
	if err != nil {
		return fmt.Errorf("%w: output dir: %w", ErrInvalidConfig, err)
	}
	if u.IsRoot() {
		return fmt.Errorf("%w: output dir %q is a scheme root", ErrInvalidConfig, c.OutputDir)
	}
	if !c.Naming.Valid() {
		return fmt.Errorf("%w: unknown naming %q", ErrInvalidConfig, c.Naming)
	}
	if _, err := mail.ParseAddress(c.Recipient); err != nil {
		return fmt.Errorf("%w: recipient: %v", ErrInvalidConfig, err)
	}
	if c.ReplyTo != "" {
		if _, err := mail.ParseAddress(c.ReplyTo); err != nil {
			return fmt.Errorf("%w: reply-to: %v", ErrInvalidConfig, err)
		}
	}
	if c.Template == "" {
		return fmt.Errorf("%w: template is required", ErrInvalidConfig)
	}
	return nil
}
