// Package notify delivers new-listing alerts to the operator.
package notify

import (
	"context"
	"fmt"

	"github.com/mkarppi/catwatch/internal/listing"
)

// Notifier sends one alert covering all qualifying listings of a run.
type Notifier interface {
	// Send delivers the alert. Implementations must return an error on
	// delivery failure so the orchestrator can fail the run loudly.
	Send(ctx context.Context, listings []listing.Listing) error
	// Name identifies the channel in logs.
	Name() string
}

// ageLabel renders a listing's age for message bodies.
func ageLabel(l listing.Listing) string {
	if !l.AgeKnown() {
		return "age unknown"
	}
	return fmt.Sprintf("%d months", *l.AgeMonths)
}

// plural returns "s" when more than one cat is being announced.
func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
