// Package mailer renders markdown mail templates and hands the result to a
// delivery provider.
//
// Three pieces work together:
//
//   - Sender: implemented by providers (resend, smtp, and the log sender in this package)
//   - Renderer: turns markdown templates with YAML frontmatter into HTML and text,
//     picking the locale variant that best matches the requested language
//   - Mailer: combines both and applies subject fallbacks
//
// # Usage
//
//	sender := smtp.New(smtp.Config{Host: "localhost", Port: 1025, SenderEmail: "noreply@example.com"})
//	renderer := mailer.NewRenderer(templates.FS)
//	m := mailer.New(sender, renderer, mailer.Config{DefaultLayout: "base.html"})
//
//	err := m.Send(ctx, mailer.SendParams{
//		To:       "reader@example.com",
//		Template: "artifact_mail.md",
//		Locale:   "de-AT,de;q=0.9,en;q=0.5",
//		Data:     map[string]any{"Label": "Annual Report"},
//		Attachments: []mailer.Attachment{{
//			Filename:    "Annual Report.pdf",
//			ContentType: "application/pdf",
//			Content:     blob,
//		}},
//	})
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter. The body and
// the Subject are Go text templates executed with SendParams.Data:
//
//	---
//	Subject: "{{.Label}} as PDF"
//	---
//	Hello,
//
//	the document **{{.Label}}** is attached.
//
// Subject resolution order: SendParams.Subject, then frontmatter Subject,
// then Config.FallbackSubject.
//
// # Locales
//
// Locale variants live next to the base template and carry a BCP 47 tag
// before the extension:
//
//	artifact_mail.md      base, used for Config.DefaultLocale
//	artifact_mail.de.md
//	artifact_mail.pt-BR.md
//
// SendParams.Locale accepts a single tag or an Accept-Language header value.
// Matching uses golang.org/x/text/language, so "de-AT" picks the "de" variant
// and an unsupported language falls back to the base file.
//
// # Layouts
//
// Layouts are html/template files under LayoutDir receiving:
//
//	.Content   template.HTML  rendered markdown
//	.Metadata  map[string]any frontmatter
//	.Lang      string         BCP 47 tag of the chosen variant
package mailer
