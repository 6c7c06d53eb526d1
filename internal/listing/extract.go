package listing

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/mkarppi/catwatch/internal/age"
)

// ancestorDepth bounds how far up the anchor-text strategy walks looking for
// an age-bearing block before giving up.
const ancestorDepth = 8

// meetRe matches the "Meet <Name>!" call-to-action phrase used on the
// adoptables page.
var meetRe = regexp.MustCompile(`(?i)^meet\s+(.+)$`)

// widgetSelector matches container markers of common page-builder
// gallery/repeater widgets (Wix and friends).
const widgetSelector = `[data-hook="item-container"], [data-testid*="item"], [class*="pro-gallery-item"], [class*="repeater-item"]`

// Extractor parses one HTML document per call into candidate listings.
type Extractor struct {
	origin *url.URL
	// Now is the clock used for birthdate arithmetic; overridable in tests.
	Now func() time.Time
}

// NewExtractor creates an extractor that resolves relative links against the
// given site origin, e.g. "https://www.arthuranimalrescue.com".
func NewExtractor(origin string) (*Extractor, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid site origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("site origin %q must be an absolute URL", origin)
	}
	return &Extractor{origin: u, Now: time.Now}, nil
}

// Extract runs the parsing strategies in priority order and returns the
// listings of the first strategy that finds any, deduplicated by id in
// first-seen order.
//
// Strategy order:
//  1. anchors with "Meet <Name>!" link text, age text from the nearest
//     ancestor block containing a birthdate
//  2. page-builder gallery/repeater containers that hold a link
//  3. every internal link, with no age information (degraded mode, kept so
//     a page redesign still surfaces new listings instead of silence)
func (e *Extractor) Extract(r io.Reader) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	c := &collector{extractor: e, seen: make(map[string]struct{})}

	strategies := []struct {
		name string
		run  func(*goquery.Document, *collector)
	}{
		{"anchor-text", e.extractMeetAnchors},
		{"page-builder widgets", e.extractWidgetItems},
		{"all internal links", e.extractInternalLinks},
	}

	for i, s := range strategies {
		if i == len(strategies)-1 {
			slog.Warn("no age-annotated listings found, tracking all internal links (age filtering disabled this run)")
		}
		s.run(doc, c)
		if len(c.listings) > 0 {
			slog.Debug("extraction strategy matched", "strategy", s.name, "listings", len(c.listings))
			break
		}
	}

	return c.listings, nil
}

// extractMeetAnchors scans link text for the "Meet <Name>!" phrase.
func (e *Extractor) extractMeetAnchors(doc *goquery.Document, c *collector) {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := meetRe.FindStringSubmatch(flattenText(a))
		if m == nil {
			return
		}
		name := strings.TrimRight(strings.TrimSpace(m[1]), "!.,")
		c.add(href, name, e.findAgeText(a))
	})
}

// findAgeText walks up from the anchor until a containing block's text holds
// a recognizable birthdate. The walk is bounded and stops at the document
// body so one stray anchor cannot claim the whole page as its age text.
func (e *Extractor) findAgeText(a *goquery.Selection) string {
	node := a.Parent()
	for depth := 0; depth < ancestorDepth && node.Length() > 0; depth++ {
		if name := goquery.NodeName(node); name == "body" || name == "html" {
			break
		}
		if text := flattenText(node); age.HasBirthdate(text) {
			return text
		}
		node = node.Parent()
	}
	return ""
}

// extractWidgetItems matches gallery/repeater containers that hold a link,
// using the container text as both name source and age text.
func (e *Extractor) extractWidgetItems(doc *goquery.Document, c *collector) {
	doc.Find(widgetSelector).Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		text := flattenText(item)
		c.add(href, text, text)
	})
}

// extractInternalLinks is the degraded fallback: collect every same-site
// link so new detail pages are still tracked even when ages cannot be read.
func (e *Extractor) extractInternalLinks(doc *goquery.Document, c *collector) {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !e.isInternal(href) || isSkippable(href) {
			return
		}
		c.add(href, flattenText(a), "")
	})
}

func (e *Extractor) isInternal(href string) bool {
	return strings.HasPrefix(href, "/") || strings.Contains(href, e.origin.Host)
}

func isSkippable(href string) bool {
	for _, skip := range []string{"#", "mailto:", "tel:"} {
		if strings.Contains(href, skip) {
			return true
		}
	}
	return false
}

// resolveURL makes a scraped href absolute against the site origin.
func (e *Extractor) resolveURL(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return e.origin.ResolveReference(u).String()
}

// collector accumulates listings with global id-dedup across strategies.
type collector struct {
	extractor *Extractor
	seen      map[string]struct{}
	listings  []Listing
}

// add records one candidate. The raw href is the listing id; the first
// occurrence of an id wins regardless of which strategy produced it.
func (c *collector) add(href, name, ageText string) {
	if href == "" {
		return
	}
	if _, dup := c.seen[href]; dup {
		return
	}
	c.seen[href] = struct{}{}

	// Infer from the full text before truncating for storage: the
	// age-bearing fragment may sit past the stored-text bound.
	ageText = strings.TrimSpace(ageText)
	l := Listing{
		ID:      href,
		Name:    truncate(strings.TrimSpace(name), MaxNameLen),
		AgeText: truncate(ageText, MaxAgeTextLen),
		URL:     c.extractor.resolveURL(href),
	}
	if months, ok := age.InferMonths(ageText, c.extractor.Now()); ok {
		l.AgeMonths = &months
	}
	c.listings = append(c.listings, l)
}

// flattenText returns the selection's text content with element boundaries
// collapsed to single spaces, the way a rendered page reads.
func flattenText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}
