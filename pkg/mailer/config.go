package mailer

// Provider names accepted by MAILER_PROVIDER.
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderLog    = "log"
)

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Provider        string `env:"MAILER_PROVIDER" envDefault:"log"`
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
	DefaultLocale   string `env:"MAILER_DEFAULT_LOCALE" envDefault:"en"`
}
