// Package history provides an interactive terminal view of recent runs using
// a Bubble Tea TUI.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkarppi/catwatch/internal/state"
)

// FormatCompactRecord formats one run record for the list view.
// Example: " 1. 2025-09-15T08:00:12Z  12 on page, 1 alert"
func FormatCompactRecord(index int, rec state.Record) string {
	when := rec.Timestamp.Format(time.RFC3339)

	if rec.Paused {
		return fmt.Sprintf("%3d. %s  paused", index+1, when)
	}

	alerts := "no alerts"
	switch rec.AlertsSent {
	case 1:
		alerts = "1 alert"
	default:
		if rec.AlertsSent > 1 {
			alerts = fmt.Sprintf("%d alerts", rec.AlertsSent)
		}
	}

	return fmt.Sprintf("%3d. %s  %d on page, %s", index+1, when, rec.TotalOnPage, alerts)
}

// FormatDetailedRecord formats one run record with its alerted cats.
func FormatDetailedRecord(rec state.Record) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "Run: %s\n", rec.Timestamp.Format(time.RFC3339))

	if rec.Paused {
		b.WriteString("Paused run — no fetch, no notifications.\n")
	} else {
		fmt.Fprintf(&b, "Listings on page: %d\n", rec.TotalOnPage)
		fmt.Fprintf(&b, "Alerts sent: %d\n", rec.AlertsSent)
	}

	if len(rec.AlertedCats) > 0 {
		b.WriteString("\nAlerted cats:\n")
		for _, cat := range rec.AlertedCats {
			age := "age unknown"
			if cat.AgeMonths != nil {
				age = fmt.Sprintf("%d months", *cat.AgeMonths)
			}
			fmt.Fprintf(&b, "  %s (%s)\n  %s\n", cat.Name, age, cat.URL)
		}
	}

	b.WriteString("═══════════════════════════════════════════════════════════\n")
	return b.String()
}
