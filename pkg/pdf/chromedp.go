package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Default chromedp engine values.
const (
	DefaultTimeout = 30 * time.Second
	DefaultScale   = 1.0
)

// ChromedpConfig configures the headless Chrome engine.
type ChromedpConfig struct {
	// RemoteURL is the DevTools websocket of a running Chrome (optional).
	// When empty a local Chrome is launched.
	RemoteURL string `env:"PDF_REMOTE_URL"`

	// Timeout bounds a single render.
	Timeout time.Duration `env:"PDF_TIMEOUT" envDefault:"30s"`

	// NoSandbox runs Chrome without sandbox (required in most containers).
	NoSandbox bool `env:"PDF_NO_SANDBOX"`

	Paper           PaperSize
	Margins         Margins
	Scale           float64
	Landscape       bool
	PrintBackground bool `env:"PDF_PRINT_BACKGROUND" envDefault:"true"`
}

func (c *ChromedpConfig) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Paper.Width <= 0 || c.Paper.Height <= 0 {
		c.Paper = PaperA4
	}
	if c.Margins == (Margins{}) {
		c.Margins = DefaultMargins
	}
	if c.Scale <= 0 {
		c.Scale = DefaultScale
	}
}

// Chromedp renders HTML to PDF through the Chrome DevTools Protocol.
// One browser is shared by all renders; each render opens its own tab.
type Chromedp struct {
	cfg         ChromedpConfig
	logger      *slog.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closed        bool
}

// ChromedpOption configures the engine.
type ChromedpOption func(*Chromedp)

// WithChromedpLogger sets the logger used for DevTools debug output.
func WithChromedpLogger(l *slog.Logger) ChromedpOption {
	return func(c *Chromedp) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChromedp creates the engine. Chrome itself starts on the first render
// and is reused until Close.
func NewChromedp(cfg ChromedpConfig, opts ...ChromedpOption) (*Chromedp, error) {
	cfg.applyDefaults()

	c := &Chromedp{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return c, nil
	}

	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		flags = append(flags, chromedp.Flag("no-sandbox", true))
	}
	c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), flags...)

	return c, nil
}

// Format implements Engine.
func (c *Chromedp) Format() string { return FormatPDF }

// ContentType implements Engine.
func (c *Chromedp) ContentType() string { return ContentTypePDF }

// browser returns the shared browser context, starting Chrome when it is
// not running yet or has exited since the last render.
func (c *Chromedp) browser() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrEngineClosed
	}
	if c.browserCtx != nil && c.browserCtx.Err() == nil {
		return c.browserCtx, nil
	}

	ctx, cancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	// Running with no actions launches the browser.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, err
	}
	c.browserCtx, c.browserCancel = ctx, cancel
	return ctx, nil
}

// Render implements Engine. Each call runs in a new tab of the shared browser.
func (c *Chromedp) Render(ctx context.Context, doc Document) ([]byte, error) {
	if strings.TrimSpace(doc.HTML) == "" {
		return nil, fmt.Errorf("%w: empty html", ErrRenderFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	browserCtx, err := c.browser()
	if err != nil {
		return nil, fmt.Errorf("%w: start browser: %w", ErrRenderFailed, err)
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	// Tie the tab to the caller's deadline.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	params := c.printParams()
	var out []byte

	started := time.Now()
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc.HTML).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %s", ErrRenderTimeout, c.cfg.Timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: chrome returned an empty pdf", ErrRenderFailed)
	}

	c.logger.Debug("pdf rendered",
		slog.String("title", doc.Title),
		slog.Int("bytes", len(out)),
		slog.Duration("duration", time.Since(started)))

	return out, nil
}

// printParams builds the PrintToPDF call from the engine configuration.
func (c *Chromedp) printParams() *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(c.cfg.PrintBackground).
		WithPaperWidth(mmToInches(c.cfg.Paper.Width)).
		WithPaperHeight(mmToInches(c.cfg.Paper.Height)).
		WithMarginTop(mmToInches(c.cfg.Margins.Top)).
		WithMarginRight(mmToInches(c.cfg.Margins.Right)).
		WithMarginBottom(mmToInches(c.cfg.Margins.Bottom)).
		WithMarginLeft(mmToInches(c.cfg.Margins.Left)).
		WithScale(c.cfg.Scale).
		WithLandscape(c.cfg.Landscape)
}

// Close shuts down the browser and its allocator. Renders after Close fail.
func (c *Chromedp) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

var _ Engine = (*Chromedp)(nil)
