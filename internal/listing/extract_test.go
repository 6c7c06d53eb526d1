package listing

import (
	"strings"
	"testing"
	"time"
)

const testOrigin = "https://www.arthuranimalrescue.com"

var extractNow = time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(testOrigin)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	e.Now = func() time.Time { return extractNow }
	return e
}

func extract(t *testing.T, e *Extractor, html string) []Listing {
	t.Helper()
	listings, err := e.Extract(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return listings
}

func TestExtractMeetAnchors(t *testing.T) {
	html := `
	<html><body>
	  <div class="card">
	    <h3>Steve</h3>
	    <p>Born March 15, 2025. Loves string.</p>
	    <a href="/cats/steve">Meet Steve!</a>
	  </div>
	  <div class="card">
	    <h3>Zelda</h3>
	    <p>Shy but sweet.</p>
	    <a href="/cats/zelda">Meet Zelda!</a>
	  </div>
	  <a href="/about">About us</a>
	</body></html>`

	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d: %+v", len(listings), listings)
	}

	steve := listings[0]
	if steve.ID != "/cats/steve" {
		t.Errorf("ID = %q, want /cats/steve", steve.ID)
	}
	if steve.Name != "Steve" {
		t.Errorf("Name = %q, want Steve (prefix and punctuation stripped)", steve.Name)
	}
	if steve.URL != testOrigin+"/cats/steve" {
		t.Errorf("URL = %q, want absolute", steve.URL)
	}
	if !strings.Contains(steve.AgeText, "March 15, 2025") {
		t.Errorf("AgeText = %q, want the birthdate-bearing block", steve.AgeText)
	}
	if steve.AgeMonths == nil || *steve.AgeMonths != 6 {
		t.Errorf("AgeMonths = %v, want 6", steve.AgeMonths)
	}

	// Zelda's card has no birthdate anywhere: empty age text, unknown age.
	zelda := listings[1]
	if zelda.AgeText != "" {
		t.Errorf("Zelda AgeText = %q, want empty", zelda.AgeText)
	}
	if zelda.AgeMonths != nil {
		t.Errorf("Zelda AgeMonths = %v, want unknown", *zelda.AgeMonths)
	}
}

func TestExtractMeetAnchorCaseInsensitive(t *testing.T) {
	html := `<html><body><a href="/cats/milo">MEET MILO!</a></body></html>`
	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Name != "MILO" {
		t.Errorf("Name = %q, want MILO", listings[0].Name)
	}
}

func TestExtractDeduplicatesByID(t *testing.T) {
	html := `
	<html><body>
	  <a href="/cats/steve">Meet Steve!</a>
	  <a href="/cats/steve">Meet Steve!</a>
	</body></html>`

	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 1 {
		t.Fatalf("expected duplicate href to collapse to 1 listing, got %d", len(listings))
	}
}

func TestExtractWidgetFallback(t *testing.T) {
	// No "Meet ..." anchors: strategy 2 picks up the gallery containers.
	html := `
	<html><body>
	  <div data-hook="item-container">
	    Pickles, 2 years old
	    <a href="/adoptables/pickles">details</a>
	  </div>
	  <div data-testid="gallery-item-7">
	    Biscuit the kitten
	    <a href="/adoptables/biscuit">details</a>
	  </div>
	  <div data-hook="item-container">No link here, skipped</div>
	</body></html>`

	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings from widget strategy, got %d: %+v", len(listings), listings)
	}

	pickles := listings[0]
	if pickles.ID != "/adoptables/pickles" {
		t.Errorf("ID = %q, want /adoptables/pickles", pickles.ID)
	}
	if !strings.Contains(pickles.Name, "Pickles") {
		t.Errorf("Name = %q, want container text", pickles.Name)
	}
	if pickles.AgeMonths == nil || *pickles.AgeMonths != 24 {
		t.Errorf("AgeMonths = %v, want 24", pickles.AgeMonths)
	}

	biscuit := listings[1]
	if biscuit.AgeMonths == nil || *biscuit.AgeMonths != 4 {
		t.Errorf("kitten default AgeMonths = %v, want 4", biscuit.AgeMonths)
	}
}

func TestExtractInternalLinkFallback(t *testing.T) {
	// Nothing structured at all: every internal link is tracked, age unknown.
	html := `
	<html><body>
	  <a href="/cats/unknown-one">One</a>
	  <a href="https://www.arthuranimalrescue.com/cats/unknown-two">Two</a>
	  <a href="https://facebook.com/arthurrescue">Facebook</a>
	  <a href="mailto:info@arthuranimalrescue.com">Mail</a>
	  <a href="tel:+15551234567">Call</a>
	  <a href="/adoptables#top">Jump</a>
	</body></html>`

	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 2 {
		t.Fatalf("expected 2 internal links, got %d: %+v", len(listings), listings)
	}
	for _, l := range listings {
		if l.AgeMonths != nil {
			t.Errorf("fallback listing %s should have unknown age", l.ID)
		}
		if l.AgeText != "" {
			t.Errorf("fallback listing %s should have empty age text", l.ID)
		}
	}
	if listings[1].URL != testOrigin+"/cats/unknown-two" {
		t.Errorf("absolute href should pass through, got %q", listings[1].URL)
	}
}

func TestExtractStrategyPriority(t *testing.T) {
	// A "Meet" anchor and a widget container both present: strategy 1 wins
	// and the widget is never consulted.
	html := `
	<html><body>
	  <a href="/cats/steve">Meet Steve!</a>
	  <div data-hook="item-container">
	    Other cat, 3 years old
	    <a href="/adoptables/other">details</a>
	  </div>
	</body></html>`

	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 1 {
		t.Fatalf("expected only strategy 1 results, got %d: %+v", len(listings), listings)
	}
	if listings[0].ID != "/cats/steve" {
		t.Errorf("ID = %q, want /cats/steve", listings[0].ID)
	}
}

func TestExtractAncestorWalkIsBounded(t *testing.T) {
	// The birthdate sits more than eight levels above the anchor, so the
	// walk gives up and the age stays unknown.
	var b strings.Builder
	b.WriteString(`<html><body><p>Born March 15, 2025</p>`)
	for i := 0; i < 10; i++ {
		b.WriteString("<div>")
	}
	b.WriteString(`<a href="/cats/deep">Meet Deep!</a>`)
	for i := 0; i < 10; i++ {
		b.WriteString("</div>")
	}
	b.WriteString(`</body></html>`)

	listings := extract(t, newTestExtractor(t), b.String())
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].AgeText != "" {
		t.Errorf("AgeText = %q, want empty past the depth bound", listings[0].AgeText)
	}
}

func TestExtractTruncatesFields(t *testing.T) {
	longName := strings.Repeat("x", 300)
	html := `<html><body><a href="/cats/long">Meet ` + longName + `!</a></body></html>`

	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if got := len([]rune(listings[0].Name)); got > MaxNameLen {
		t.Errorf("Name length = %d, want <= %d", got, MaxNameLen)
	}
}

func TestExtractInfersAgeBeyondStoredTextBound(t *testing.T) {
	// The birthdate sits past the 200-rune storage bound of the card's
	// text. The stored age text gets cut, but inference must still see
	// the full text and find the date.
	filler := strings.Repeat("Sweet and playful lap cat. ", 9) // ~240 chars
	html := `
	<html><body>
	  <div class="card">
	    <p>` + filler + `Born March 15, 2025.</p>
	    <a href="/cats/steve">Meet Steve!</a>
	  </div>
	</body></html>`

	listings := extract(t, newTestExtractor(t), html)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}

	steve := listings[0]
	if got := len([]rune(steve.AgeText)); got > MaxAgeTextLen {
		t.Errorf("AgeText length = %d, want <= %d", got, MaxAgeTextLen)
	}
	if strings.Contains(steve.AgeText, "March 15, 2025") {
		t.Fatalf("fixture too short: the date must fall past the stored bound, AgeText = %q", steve.AgeText)
	}
	if steve.AgeMonths == nil || *steve.AgeMonths != 6 {
		t.Errorf("AgeMonths = %v, want 6 inferred from the untruncated text", steve.AgeMonths)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	listings := extract(t, newTestExtractor(t), "<html><body></body></html>")
	if len(listings) != 0 {
		t.Fatalf("expected no listings from empty page, got %d", len(listings))
	}
}
