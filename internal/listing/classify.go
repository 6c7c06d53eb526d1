package listing

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mkarppi/catwatch/internal/age"
	"github.com/mkarppi/catwatch/internal/state"
)

// Classify partitions freshly extracted listings against the ledger.
//
// Ids already in the ledger are skipped outright: their stored snapshot is
// never revised, so a listing is evaluated for notification at most once in
// the ledger's lifetime. Every unseen id gets a ledger entry immediately,
// whether or not it qualifies; only new listings with a known age at or
// below maxAgeMonths are returned for notification.
func Classify(listings []Listing, ledger state.Ledger, maxAgeMonths int, now time.Time) (qualifying []Listing, updates state.Ledger) {
	updates = state.Ledger{}

	for _, l := range listings {
		if _, known := ledger[l.ID]; known {
			continue
		}
		if _, pending := updates[l.ID]; pending {
			continue
		}

		updates[l.ID] = state.Entry{
			Name:      l.Name,
			AgeMonths: l.AgeMonths,
			FirstSeen: now,
		}

		if l.AgeKnown() && age.Qualifies(*l.AgeMonths, true, maxAgeMonths) {
			qualifying = append(qualifying, l)
			slog.Info("new young cat", "name", l.Name, "age_months", *l.AgeMonths, "url", l.URL)
		} else {
			slog.Info("skipping listing", "name", l.Name, "age", ageLabel(l), "reason", "too old or age unknown")
		}
	}

	return qualifying, updates
}

func ageLabel(l Listing) string {
	if !l.AgeKnown() {
		return "unknown"
	}
	return fmt.Sprintf("%d months", *l.AgeMonths)
}
