// Package fetch provides the two page transports: a plain HTTP client for
// servers that return meaningful HTML directly, and a headless-browser
// renderer for JavaScript-built pages (Wix, Squarespace and similar).
package fetch

import "context"

// Fetcher retrieves the target page and returns it as an HTML string.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Browser-like request headers; some site builders serve an empty shell to
// anything that does not look like a real browser.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/122.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}
