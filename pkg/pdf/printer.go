package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/pdfmail/pkg/sanitizer"
	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// Printer lays out pages, renders them with a registered engine and stores the result.
// Engines are fixed at construction, so a Printer is safe for concurrent use.
type Printer struct {
	engines  map[string]Engine
	store    storage.Storage
	layout   *template.Template
	sanitize func(string) string
	logger   *slog.Logger
}

// Option configures a Printer.
type Option func(*Printer)

// WithEngine registers an engine under its Format key.
func WithEngine(e Engine) Option {
	return func(p *Printer) {
		p.engines[strings.ToLower(e.Format())] = e
	}
}

// WithLayout replaces the default HTML layout.
// The template receives a layoutData value.
func WithLayout(t *template.Template) Option {
	return func(p *Printer) {
		if t != nil {
			p.layout = t
		}
	}
}

// WithSanitizer replaces the body sanitizer. Pass nil to keep bodies as-is.
func WithSanitizer(fn func(string) string) Option {
	return func(p *Printer) {
		p.sanitize = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Printer) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPrinter creates a printer writing into store.
func NewPrinter(store storage.Storage, opts ...Option) *Printer {
	p := &Printer{
		engines:  make(map[string]Engine),
		store:    store,
		layout:   defaultLayout,
		sanitize: sanitizer.SanitizeDocument,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Engine returns the engine registered for format.
func (p *Printer) Engine(format string) (Engine, error) {
	e, ok := p.engines[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return e, nil
}

// Build lays the pages out as one HTML document.
func (p *Printer) Build(pages []Page) (Document, error) {
	if len(pages) == 0 {
		return Document{}, ErrEmptyDocument
	}

	data := layoutData{Sections: make([]layoutSection, 0, len(pages))}
	for _, page := range pages {
		if page == nil {
			continue
		}
		body := page.PrintBody()
		if p.sanitize != nil {
			body = p.sanitize(body)
		}
		data.Sections = append(data.Sections, layoutSection{
			Title: page.PrintTitle(),
			Body:  template.HTML(body), //nolint:gosec // sanitized above
		})
	}
	if len(data.Sections) == 0 {
		return Document{}, ErrEmptyDocument
	}
	data.Title = data.Sections[0].Title

	var buf bytes.Buffer
	if err := p.layout.Execute(&buf, data); err != nil {
		return Document{}, fmt.Errorf("%w: layout: %v", ErrRenderFailed, err)
	}

	return Document{Title: data.Title, HTML: buf.String()}, nil
}

// SavePrintable renders pages with engine and writes the output to uri,
// replacing any file already there.
func (p *Printer) SavePrintable(ctx context.Context, pages []Page, engine Engine, uri string) (*Printable, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrUnknownFormat)
	}

	doc, err := p.Build(pages)
	if err != nil {
		return nil, err
	}

	blob, err := engine.Render(ctx, doc)
	if err != nil {
		if errors.Is(err, ErrRenderFailed) || errors.Is(err, ErrRenderTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: engine returned no output", ErrRenderFailed)
	}

	info, err := p.store.Put(ctx, uri, bytes.NewReader(blob), int64(len(blob)),
		storage.WithContentType(engine.ContentType()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	p.logger.DebugContext(ctx, "printable saved",
		slog.String("uri", info.URI),
		slog.String("format", engine.Format()),
		slog.Int("bytes", len(blob)))

	return &Printable{
		URI:         info.URI,
		ContentType: engine.ContentType(),
		Blob:        blob,
	}, nil
}
