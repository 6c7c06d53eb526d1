// Package listing turns a scraped HTML document into candidate adoption
// listings and classifies them against the known-listing ledger.
package listing

const (
	// MaxNameLen bounds the free-text display name.
	MaxNameLen = 80
	// MaxAgeTextLen bounds the raw text fragment the age was inferred from.
	MaxAgeTextLen = 200
)

// Listing is one candidate adoptable-animal entry extracted from the page.
// Listings are rebuilt from scratch every run; only the ledger persists.
type Listing struct {
	// ID is the detail-page link as scraped (relative or absolute). It is
	// only guaranteed stable within one page-structure convention.
	ID string `json:"id"`
	// Name is the display name, truncated to MaxNameLen.
	Name string `json:"name"`
	// AgeText is the text fragment the age was inferred from, truncated to
	// MaxAgeTextLen; empty when no age-bearing text was found.
	AgeText string `json:"age_text"`
	// AgeMonths is the inferred age in whole months, nil when unknown.
	AgeMonths *int `json:"age_months"`
	// URL is the absolute detail-page URL.
	URL string `json:"url"`
}

// AgeKnown reports whether an age could be inferred for the listing.
func (l Listing) AgeKnown() bool {
	return l.AgeMonths != nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
