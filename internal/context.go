package internal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pdfmail/pkg/cookie"
)

// Component is anything that renders HTML into a writer.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the response writer.
	Response() http.ResponseWriter

	// ResponseWriter returns the tracking response writer.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// Form returns the form value by name.
	Form(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// Set stores a value in the request context.
	Set(key, value any)

	// SetContext replaces the request context, e.g. to add a deadline.
	SetContext(ctx context.Context)

	// Get retrieves a value from the request context.
	Get(key any) any

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	Render(code int, component Component) error

	// Redirect sends a redirect. Codes outside 3xx fall back to 303 See Other.
	Redirect(code int, url string) error

	// Error builds an *HTTPError for returning from a handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// AddFlash queues a status message for the next page view.
	// Messages are written with the response header.
	AddFlash(level, text string)

	// Flashes returns and clears pending status messages.
	Flashes() []cookie.FlashMessage

	// Written reports whether the response has been written.
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)
}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	flashes        []cookie.FlashMessage
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}

	return &requestContext{
		request:        r,
		responseWriter: rw,
		logger:         app.logger,
		cookieManager:  app.cookieManager,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) JSON(code int, v any) error {
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return json.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	_, err := io.WriteString(c.responseWriter, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Render(code int, component Component) error {
	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return component.Render(c.request.Context(), c.responseWriter)
}

func (c *requestContext) Redirect(code int, url string) error {
	if code < http.StatusMultipleChoices || code > http.StatusPermanentRedirect {
		code = http.StatusSeeOther
	}
	http.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) AddFlash(level, text string) {
	if c.cookieManager == nil {
		return
	}
	if len(c.flashes) == 0 {
		c.responseWriter.OnBeforeWrite(c.writeFlashes)
	}
	c.flashes = append(c.flashes, cookie.FlashMessage{Level: level, Text: text})
}

func (c *requestContext) writeFlashes() {
	if err := c.cookieManager.AddFlash(c.responseWriter, c.request, c.flashes...); err != nil {
		c.LogWarn("flash not stored", slog.Any("error", err))
	}
}

func (c *requestContext) Flashes() []cookie.FlashMessage {
	if c.cookieManager == nil {
		return nil
	}
	return c.cookieManager.Flashes(c.responseWriter, c.request)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}
