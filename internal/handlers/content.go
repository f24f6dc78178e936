package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/pdfmail/internal"
	"github.com/dmitrymomot/pdfmail/internal/artifact"
	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/pkg/cookie"
	"github.com/dmitrymomot/pdfmail/pkg/sanitizer"
)

// Processor mails a content item as PDF. Implemented by *artifact.Mailer.
type Processor interface {
	Process(ctx context.Context, e *content.Entity, locale string) *artifact.Result
}

// Content serves content pages and the email action.
type Content struct {
	reader    content.Reader
	processor Processor
	locale    internal.Extractor
	sanitize  func(string) string
}

// NewContent creates the content handlers. The mail locale is taken from
// the lang query parameter, then the Accept-Language header.
func NewContent(reader content.Reader, processor Processor) *Content {
	return &Content{
		reader:    reader,
		processor: processor,
		locale:    internal.NewExtractor(internal.FromQuery("lang"), internal.FromHeader("Accept-Language")),
		sanitize:  sanitizer.SanitizeDocument,
	}
}

// Routes implements internal.Handler.
func (h *Content) Routes(r internal.Router) {
	r.GET("/content/{id}", h.view)
	r.GET("/content/{id}/email", h.email)
	r.POST("/content/{id}/email", h.email)
}

func (h *Content) view(c internal.Context) error {
	e, err := h.entity(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, newContentPage(e, c.Flashes(), h.sanitize))
}

// email mails the item and always redirects back to its page. Failures
// are logged by the processor and only show as a missing status message.
func (h *Content) email(c internal.Context) error {
	e, err := h.entity(c)
	if err != nil {
		return err
	}

	locale, _ := h.locale.Extract(c)
	res := h.processor.Process(c, e, locale)
	if res.Notified {
		c.AddFlash(cookie.FlashSuccess, res.Notice)
	} else if res.Err != nil {
		c.LogDebug("content not mailed", slog.Int64("entity_id", e.ID), slog.Any("error", res.Err))
	}

	return c.Redirect(http.StatusSeeOther, res.Redirect)
}

func (h *Content) entity(c internal.Context) (*content.Entity, error) {
	id, ok := internal.ParamValue[int64](c, "id")
	if !ok || id <= 0 {
		return nil, internal.ErrBadRequest("invalid content id")
	}

	e, err := h.reader.Get(c, id)
	switch {
	case errors.Is(err, content.ErrNotFound):
		return nil, internal.ErrNotFound("content not found")
	case err != nil:
		return nil, internal.ErrInternal("", internal.WithError(err))
	}
	return e, nil
}
