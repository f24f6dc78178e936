package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
)

// Renderer converts markdown templates with YAML frontmatter to HTML.
// Parsed templates, layouts and locale variant sets are cached; rendered
// output never is.
type Renderer struct {
	fs            fs.FS
	md            goldmark.Markdown
	defaultLocale language.Tag
	templateDir   string
	layoutDir     string

	mu            sync.RWMutex
	templateCache map[string]*cachedTemplate
	layoutCache   map[string]*template.Template
	variantCache  map[string]*variantSet
}

type cachedTemplate struct {
	metadata map[string]any
	tmpl     *texttemplate.Template
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir   string // Default: "."
	LayoutDir     string // Default: "layouts"
	DefaultLocale string // Locale of the base template files. Default: "en"
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, opts RendererConfig) *Renderer {
	if opts.TemplateDir == "" {
		opts.TemplateDir = "."
	}
	if opts.LayoutDir == "" {
		opts.LayoutDir = "layouts"
	}
	def, err := language.Parse(opts.DefaultLocale)
	if err != nil || opts.DefaultLocale == "" {
		def = language.English
	}

	return &Renderer{
		fs:            filesystem,
		templateDir:   opts.TemplateDir,
		layoutDir:     opts.LayoutDir,
		defaultLocale: def,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		templateCache: make(map[string]*cachedTemplate),
		layoutCache:   make(map[string]*template.Template),
		variantCache:  make(map[string]*variantSet),
	}
}

// RenderResult contains the rendered HTML, plain text, and extracted metadata.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string // Processed markdown before HTML conversion
	Locale   string // Tag of the template variant that was rendered
}

// Render processes the locale variant of templateName best matching locale
// and wraps it in layout.
func (r *Renderer) Render(layout, templateName, locale string, data any) (*RenderResult, error) {
	variants, err := r.getVariants(templateName)
	if err != nil {
		return nil, err
	}
	file, tag := variants.pick(locale)

	cached, err := r.getTemplate(file)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := cached.tmpl.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: failed to execute template: %v", ErrRenderFailed, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = layoutTmpl.Execute(&out, map[string]any{
		"Content":  template.HTML(content.String()), //nolint:gosec // rendered from trusted templates
		"Metadata": cached.metadata,
		"Lang":     tag.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}

	return &RenderResult{
		HTML:     out.String(),
		Text:     markdown.String(),
		Metadata: cached.metadata,
		Locale:   tag.String(),
	}, nil
}

func (r *Renderer) getVariants(name string) (*variantSet, error) {
	r.mu.RLock()
	v, ok := r.variantCache[name]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.variantCache[name]; ok {
		return v, nil
	}

	v, err := discoverVariants(r.fs, r.templateDir, name, r.defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}
	r.variantCache[name] = v
	return v, nil
}

// getTemplate returns a cached template or parses and caches it.
func (r *Renderer) getTemplate(file string) (*cachedTemplate, error) {
	r.mu.RLock()
	cached, ok := r.templateCache[file]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.templateCache[file]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, file, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, file, err)
	}

	tmpl, err := texttemplate.New(path.Base(file)).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse template body: %v", ErrRenderFailed, err)
	}

	cached = &cachedTemplate{metadata: parsed.Metadata, tmpl: tmpl}
	r.templateCache[file] = cached
	return cached, nil
}

// getLayout returns a cached layout template or parses and caches it.
func (r *Renderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	cached, ok := r.layoutCache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.layoutCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %v", ErrRenderFailed, err)
	}

	r.layoutCache[name] = tmpl
	return tmpl, nil
}
