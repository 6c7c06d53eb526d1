// Package watcher runs one polling cycle: fetch, extract, classify, notify,
// persist.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mkarppi/catwatch/internal/config"
	"github.com/mkarppi/catwatch/internal/fetch"
	"github.com/mkarppi/catwatch/internal/listing"
	"github.com/mkarppi/catwatch/internal/notify"
	"github.com/mkarppi/catwatch/internal/state"
)

// Watcher wires the pipeline together for one run. The caller (cron, systemd
// timer) is responsible for scheduling and for never overlapping runs.
type Watcher struct {
	cfg       *config.Config
	fast      fetch.Fetcher
	renderer  fetch.Fetcher
	extractor *listing.Extractor
	notifiers []notify.Notifier
	store     *state.Store
	now       func() time.Time
}

// New assembles a watcher from configuration. Notifiers are wired from
// whatever credentials are present; running with none is allowed (useful
// for a dry deployment that only builds the ledger).
func New(cfg *config.Config) (*Watcher, error) {
	origin, err := cfg.Origin()
	if err != nil {
		return nil, err
	}
	extractor, err := listing.NewExtractor(origin)
	if err != nil {
		return nil, err
	}

	store := state.NewStore(cfg.LedgerPath, cfg.RunLogPath)
	store.MaxLogEntries = cfg.MaxLogEntries

	w := &Watcher{
		cfg:       cfg,
		fast:      fetch.NewClient(cfg.AdoptablesURL, cfg.FetchTimeout),
		renderer:  fetch.NewRenderer(cfg.AdoptablesURL, cfg.RenderTimeout, cfg.SettleDelay),
		extractor: extractor,
		store:     store,
		now:       time.Now,
	}

	if cfg.DiscordWebhookURL != "" {
		w.notifiers = append(w.notifiers, notify.NewDiscord(cfg.DiscordWebhookURL, cfg.AdoptablesURL))
	}
	if email, err := notify.NewEmail(cfg.SMTP, cfg.NotifyEmails, cfg.AdoptablesURL); err == nil {
		w.notifiers = append(w.notifiers, email)
	} else {
		slog.Debug("email notifier not configured", "reason", err)
	}

	names := make([]string, 0, len(w.notifiers))
	for _, n := range w.notifiers {
		names = append(names, n.Name())
	}
	slog.Info("watcher ready", "notifiers", strings.Join(names, ","))

	return w, nil
}

// Run executes one polling cycle.
//
// The ledger is committed before any notification is attempted: a failed
// send therefore never causes a repeat alert for the same listing on the
// next run, at the cost of that alert being lost. A fully failed fetch
// aborts the run with no state written at all.
func (w *Watcher) Run(ctx context.Context) error {
	if w.cfg.Paused {
		slog.Info("alerts are paused, skipping fetch and notifications")
		record := state.Record{
			Timestamp:   w.now().UTC(),
			AlertedCats: []state.AlertedCat{},
			Paused:      true,
		}
		if err := w.store.AppendRun(record); err != nil {
			return err
		}
		slog.Info("run log updated (paused run recorded)")
		return nil
	}

	html, err := w.fetchPage(ctx)
	if err != nil {
		return err
	}

	listings, err := w.extractor.Extract(strings.NewReader(html))
	if err != nil {
		return err
	}
	slog.Info("page parsed", "listings", len(listings))

	ledger, err := w.store.LoadLedger()
	if err != nil {
		return err
	}

	qualifying, updates := listing.Classify(listings, ledger, w.cfg.MaxAgeMonths, w.now().UTC())

	if len(updates) > 0 {
		for id, entry := range updates {
			ledger[id] = entry
		}
		// Commit before notifying: at-most-once alerts beat lost-update
		// retries here.
		if err := w.store.SaveLedger(ledger); err != nil {
			return err
		}
	}

	if len(qualifying) > 0 {
		slog.Info("sending notifications", "cats", len(qualifying))
		if err := w.sendAll(ctx, qualifying); err != nil {
			return err
		}
	} else {
		slog.Info("no new young cats found, nothing to send")
	}

	record := state.Record{
		Timestamp:   w.now().UTC(),
		TotalOnPage: len(listings),
		AlertsSent:  len(qualifying),
		AlertedCats: alertedCats(qualifying),
	}
	if err := w.store.AppendRun(record); err != nil {
		return err
	}
	slog.Info("run log updated")
	return nil
}

// fetchPage tries the fast transport first and falls back to the headless
// browser, unless the configuration forces rendering outright.
func (w *Watcher) fetchPage(ctx context.Context) (string, error) {
	slog.Info("fetching adoptables page", "url", w.cfg.AdoptablesURL)

	if w.cfg.ForceRender {
		slog.Info("render mode forced, skipping plain HTTP fetch")
		return w.renderer.Fetch(ctx)
	}

	html, err := w.fast.Fetch(ctx)
	if err == nil {
		return html, nil
	}
	slog.Warn("plain HTTP fetch failed, falling back to headless browser", "error", err)

	html, err = w.renderer.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("both fetch transports failed: %w", err)
	}
	return html, nil
}

func (w *Watcher) sendAll(ctx context.Context, qualifying []listing.Listing) error {
	for _, n := range w.notifiers {
		if err := n.Send(ctx, qualifying); err != nil {
			return fmt.Errorf("%s notification failed: %w", n.Name(), err)
		}
	}
	return nil
}

func alertedCats(qualifying []listing.Listing) []state.AlertedCat {
	cats := make([]state.AlertedCat, 0, len(qualifying))
	for _, l := range qualifying {
		cats = append(cats, state.AlertedCat{
			Name:      l.Name,
			AgeMonths: l.AgeMonths,
			URL:       l.URL,
		})
	}
	return cats
}
