package smtp

import (
	"errors"
	"time"
)

// ErrMissingHost is returned by Config.Validate when no SMTP host is set.
var ErrMissingHost = errors.New("smtp: host is required")

// Config holds SMTP provider configuration.
type Config struct {
	Host               string        `env:"SMTP_HOST"`
	Port               int           `env:"SMTP_PORT" envDefault:"587"`
	User               string        `env:"SMTP_USER"`
	Password           string        `env:"SMTP_PASSWORD"`
	SenderEmail        string        `env:"SMTP_FROM_EMAIL" envDefault:"noreply@pdfmail.local"`
	SenderName         string        `env:"SMTP_FROM_NAME" envDefault:"pdfmail"`
	InsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY" envDefault:"false"`
	RetryCount         int           `env:"SMTP_RETRY_COUNT" envDefault:"3"`
	RetryBackoff       time.Duration `env:"SMTP_RETRY_BACKOFF" envDefault:"100ms"`
}

// Validate reports whether the config can be used to build a Sender.
func (c Config) Validate() error {
	if c.Host == "" {
		return ErrMissingHost
	}
	return nil
}

const maxBackoff = 32 * time.Second

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 587
	}
	if c.RetryCount < 0 {
		c.RetryCount = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 100 * time.Millisecond
	}
	if c.SenderEmail == "" {
		c.SenderEmail = "noreply@pdfmail.local"
	}
}
