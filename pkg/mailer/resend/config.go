package resend

import "errors"

// ErrMissingAPIKey is returned by Config.Validate when no API key is set.
var ErrMissingAPIKey = errors.New("resend: api key is required")

// Config holds Resend email provider configuration.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL" envDefault:"noreply@pdfmail.local"`
	SenderName  string `env:"RESEND_FROM_NAME" envDefault:"pdfmail"`
}

// Validate reports whether the config can be used to build a Sender.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
