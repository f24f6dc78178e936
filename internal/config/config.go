// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/pdfmail/internal/artifact"
	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/internal/disposal"
	"github.com/dmitrymomot/pdfmail/pkg/cookie"
	"github.com/dmitrymomot/pdfmail/pkg/db"
	"github.com/dmitrymomot/pdfmail/pkg/logger"
	"github.com/dmitrymomot/pdfmail/pkg/mailer"
	"github.com/dmitrymomot/pdfmail/pkg/mailer/resend"
	"github.com/dmitrymomot/pdfmail/pkg/mailer/smtp"
	"github.com/dmitrymomot/pdfmail/pkg/pdf"
	"github.com/dmitrymomot/pdfmail/pkg/redis"
	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// ErrInvalid is returned when the environment cannot be parsed or validated.
var ErrInvalid = errors.New("config: invalid configuration")

// HTTP holds server settings.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MetricsPath     string        `env:"HTTP_METRICS_PATH" envDefault:"/metrics"`
}

// Jobs holds background worker settings.
type Jobs struct {
	MaxWorkers int `env:"JOBS_MAX_WORKERS" envDefault:"10"`
}

// Config is the full service configuration.
type Config struct {
	HTTP     HTTP
	Log      logger.Config
	Cookie   cookie.Config
	DB       db.Config
	Redis    redis.Config
	Storage  storage.Config
	PDF      pdf.ChromedpConfig
	Mailer   mailer.Config
	Resend   resend.Config
	SMTP     smtp.Config
	Content  content.Config
	Artifact artifact.Config
	Disposal disposal.Config
	Jobs     Jobs
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	if err := c.Artifact.Validate(); err != nil {
		return errors.Join(ErrInvalid, err)
	}

	switch c.Mailer.Provider {
	case mailer.ProviderLog:
	case mailer.ProviderResend:
		if err := c.Resend.Validate(); err != nil {
			return errors.Join(ErrInvalid, err)
		}
	case mailer.ProviderSMTP:
		if err := c.SMTP.Validate(); err != nil {
			return errors.Join(ErrInvalid, err)
		}
	default:
		return fmt.Errorf("%w: unknown mailer provider %q", ErrInvalid, c.Mailer.Provider)
	}

	switch c.Storage.Driver {
	case storage.DriverLocal, storage.DriverS3:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalid, c.Storage.Driver)
	}

	if c.Disposal.Queue == "" {
		return fmt.Errorf("%w: disposal queue name is required", ErrInvalid)
	}
	if c.Disposal.Workers < 1 {
		return fmt.Errorf("%w: disposal queue needs at least one worker, got %d", ErrInvalid, c.Disposal.Workers)
	}
	if c.Disposal.MaxAttempts < 1 {
		return fmt.Errorf("%w: disposal max attempts must be positive, got %d", ErrInvalid, c.Disposal.MaxAttempts)
	}
	return nil
}
