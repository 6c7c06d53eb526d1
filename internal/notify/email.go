package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/mkarppi/catwatch/internal/config"
	"github.com/mkarppi/catwatch/internal/listing"
)

// Email sends alerts as a multipart plain-text + HTML message over
// authenticated SMTP. gomail negotiates STARTTLS with the provider.
type Email struct {
	smtp       config.SMTP
	recipients []string
	pageURL    string
	// send is swapped out in tests.
	send func(m *gomail.Message) error
}

// NewEmail creates an email notifier, or an error when the SMTP settings or
// recipient list are incomplete.
func NewEmail(smtp config.SMTP, recipients []string, pageURL string) (*Email, error) {
	if smtp.Host == "" || smtp.User == "" || smtp.From == "" {
		return nil, fmt.Errorf("incomplete SMTP configuration (host/user/from required)")
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no notification recipients configured")
	}

	dialer := gomail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Pass)
	return &Email{
		smtp:       smtp,
		recipients: recipients,
		pageURL:    pageURL,
		send: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}, nil
}

// Name implements Notifier.
func (e *Email) Name() string { return "email" }

// Send implements Notifier.
func (e *Email) Send(ctx context.Context, listings []listing.Listing) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.smtp.From)
	m.SetHeader("To", e.recipients...)
	m.SetHeader("Subject", fmt.Sprintf("🐱 New young cat%s at Arthur Animal Rescue!", plural(len(listings))))
	m.SetBody("text/plain", e.textBody(listings))
	m.AddAlternative("text/html", e.htmlBody(listings))

	if err := e.send(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slog.Info("email notification sent", "recipients", len(e.recipients), "cats", len(listings))
	return nil
}

func (e *Email) textBody(listings []listing.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New young cat%s listed for adoption:\n\n", plural(len(listings)))
	for _, l := range listings {
		fmt.Fprintf(&b, "- %s (%s)\n  %s\n", l.Name, ageLabel(l), l.URL)
	}
	fmt.Fprintf(&b, "\nAll adoptables: %s\n", e.pageURL)
	return b.String()
}

func (e *Email) htmlBody(listings []listing.Listing) string {
	var items strings.Builder
	for _, l := range listings {
		fmt.Fprintf(&items, `<li><a href="%s">%s</a> — %s</li>`, l.URL, l.Name, ageLabel(l))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <div style="max-width: 560px; margin: 0 auto; padding: 16px;">
    <h2 style="color: #E07B39;">🐱 New young cat%s at Arthur Animal Rescue!</h2>
    <ul>%s</ul>
    <p><a href="%s">See all adoptables</a></p>
  </div>
</body>
</html>`, plural(len(listings)), items.String(), e.pageURL)
}
