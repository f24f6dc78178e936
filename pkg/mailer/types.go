package mailer

import "fmt"

// Tags are provider-specific labels. Presence-only tags use struct{}{} values.
type Tags map[string]any

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Headers     map[string]string // Custom headers
	Tags        Tags              // Provider-specific tags/categories
	Subject     string            // Email subject
	HTML        string            // HTML body content
	Text        string            // Plain text alternative
	From        string            // Override default sender (if provider allows)
	ReplyTo     string            // Reply-to address
	To          []string          // Recipients (at least one required)
	CC          []string          // Carbon copy recipients
	BCC         []string          // Blind carbon copy recipients
	Attachments []Attachment      // File attachments
}

// Validate checks the fields every provider needs.
func (e *Email) Validate() error {
	if len(e.To) == 0 {
		return ErrNoRecipient
	}
	if e.Subject == "" {
		return ErrNoSubject
	}
	if e.HTML == "" {
		return ErrNoContent
	}
	for _, a := range e.Attachments {
		if err := a.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	ContentID   string // Optional Content-ID for inline attachments
	Content     []byte // Raw file content
}

func (a Attachment) validate() error {
	if a.Filename == "" || len(a.Content) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidAttachment, a.Filename)
	}
	return nil
}
