//go:build integration

package pdf

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"
)

// Requires a local Chrome/Chromium or PDF_REMOTE_URL pointing to a running one.
func TestChromedpIntegration_SharedBrowser(t *testing.T) {
	c, err := NewChromedp(ChromedpConfig{
		RemoteURL: os.Getenv("PDF_REMOTE_URL"),
		Timeout:   30 * time.Second,
		NoSandbox: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	doc := Document{Title: "Minutes", HTML: "<html><body><p>agenda</p></body></html>"}

	_, err = c.Render(context.Background(), doc)
	require.NoError(t, err)
	first := chromedp.FromContext(c.browserCtx).Browser
	require.NotNil(t, first)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := c.Render(context.Background(), doc)
			if err == nil && !bytes.HasPrefix(out, []byte("%PDF-")) {
				err = ErrRenderFailed
			}
			errs[i] = err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Same(t, first, chromedp.FromContext(c.browserCtx).Browser)
}
