package mailer

import (
	"bytes"
	"context"
	"errors"
	texttemplate "text/template"
)

// Mailer provides high-level email sending with template rendering.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a new Mailer with the given sender and renderer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	To       string // Single recipient
	Template string // Base template filename (e.g., "artifact_mail.md")
	Locale   string // BCP 47 tag or Accept-Language value; empty uses the base template
	Data     any    // Template data

	// Optional overrides
	Subject     string       // Override template subject
	Layout      string       // Override default layout
	From        string       // Override default sender
	ReplyTo     string       // Reply-to address
	CC          []string     // Carbon copy
	BCC         []string     // Blind carbon copy
	Attachments []Attachment // File attachments
	Tags        Tags         // Provider tags
}

// Send renders a template and sends an email.
// Subject resolution: params.Subject > template metadata > config fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}
	for _, a := range params.Attachments {
		if err := a.validate(); err != nil {
			return err
		}
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Locale, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if fromMeta, ok := result.Metadata["Subject"].(string); ok && fromMeta != "" {
			subject = fromMeta
		} else {
			subject = m.config.FallbackSubject
		}
	}

	subject, err = executeSubject(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	email := &Email{
		To:          []string{params.To},
		Subject:     subject,
		HTML:        result.HTML,
		Text:        result.Text,
		From:        params.From,
		ReplyTo:     params.ReplyTo,
		CC:          params.CC,
		BCC:         params.BCC,
		Attachments: params.Attachments,
		Tags:        params.Tags,
	}
	if result.Locale != "" {
		email.Headers = map[string]string{"Content-Language": result.Locale}
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}

// SendRaw sends a pre-built email without template rendering.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}

// executeSubject runs the subject through text/template so it can use {{.Field}}.
func executeSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
