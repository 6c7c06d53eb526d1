package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkarppi/catwatch/internal/listing"
)

// embedColor is the orange (#E07B39) used for all alert embeds.
const embedColor = 14711609

// Discord posts alerts to a Discord webhook, one embed per listing.
type Discord struct {
	webhookURL string
	pageURL    string
	client     *http.Client
}

// NewDiscord creates a webhook notifier. pageURL is linked in the message
// body so the operator can jump straight to the adoptables page.
func NewDiscord(webhookURL, pageURL string) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		pageURL:    pageURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements Notifier.
func (d *Discord) Name() string { return "discord" }

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

type embed struct {
	Title  string       `json:"title"`
	URL    string       `json:"url"`
	Color  int          `json:"color"`
	Fields []embedField `json:"fields"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Send implements Notifier.
func (d *Discord) Send(ctx context.Context, listings []listing.Listing) error {
	payload := d.buildPayload(listings)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook POST failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	slog.Info("discord notification sent", "cats", len(listings))
	return nil
}

func (d *Discord) buildPayload(listings []listing.Listing) webhookPayload {
	embeds := make([]embed, 0, len(listings))
	for _, l := range listings {
		embeds = append(embeds, embed{
			Title: l.Name,
			URL:   l.URL,
			Color: embedColor,
			Fields: []embedField{
				{Name: "Age", Value: ageLabel(l), Inline: true},
			},
		})
	}

	return webhookPayload{
		Content: fmt.Sprintf("🐱 **New young cat%s at Arthur Animal Rescue! Be quick!**\n%s",
			plural(len(listings)), d.pageURL),
		Embeds: embeds,
	}
}
