package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer is the reliable path: a headless Chrome navigates to the page,
// waits for it to settle and returns the rendered DOM.
type Renderer struct {
	url     string
	timeout time.Duration
	// settle is extra wait after the document is ready, to let gallery
	// widgets finish populating.
	settle time.Duration
}

// NewRenderer creates a headless-browser fetcher for the given URL.
func NewRenderer(url string, timeout, settle time.Duration) *Renderer {
	return &Renderer{url: url, timeout: timeout, settle: settle}
}

// Fetch renders the page and returns the serialized DOM.
func (r *Renderer) Fetch(ctx context.Context) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(browserHeaders["User-Agent"]),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(r.url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("headless render of %s failed: %w", r.url, err)
	}
	return html, nil
}
