// Package config loads the watcher configuration from config.json and the
// process environment.
//
// The config file carries operator-tunable options (threshold, paused flag,
// recipients, file locations); secrets and deployment switches come from the
// environment, optionally via a .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults for the options the original deployment hard-coded.
const (
	DefaultAdoptablesURL = "https://www.arthuranimalrescue.com/adoptables"
	DefaultMaxAgeMonths  = 12
	DefaultLedgerPath    = "known_cats.json"
	DefaultRunLogPath    = "check_log.json"
	DefaultMaxLogEntries = 100

	DefaultFetchTimeout  = 20 * time.Second
	DefaultRenderTimeout = 45 * time.Second
	DefaultSettleDelay   = 3 * time.Second
)

// SMTP holds the outbound mail settings. All fields come from the
// environment; email notification stays disabled while any of Host, User or
// From is empty.
type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Config is the full runtime configuration for one polling cycle.
type Config struct {
	AdoptablesURL string
	MaxAgeMonths  int
	Paused        bool
	NotifyEmails  []string

	LedgerPath    string
	RunLogPath    string
	MaxLogEntries int

	FetchTimeout  time.Duration
	RenderTimeout time.Duration
	SettleDelay   time.Duration

	// ForceRender skips the fast HTTP path and always uses the headless
	// browser.
	ForceRender bool

	DiscordWebhookURL string
	SMTP              SMTP
}

// Load reads the config file at path (missing file is fine, defaults apply)
// and then applies environment overrides. A .env file in the working
// directory is honored when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("max_age_months", DefaultMaxAgeMonths)
	v.SetDefault("paused", false)
	v.SetDefault("notify_emails", []string{})
	v.SetDefault("adoptables_url", DefaultAdoptablesURL)
	v.SetDefault("ledger_path", DefaultLedgerPath)
	v.SetDefault("run_log_path", DefaultRunLogPath)
	v.SetDefault("max_log_entries", DefaultMaxLogEntries)
	v.SetDefault("fetch_timeout_seconds", int(DefaultFetchTimeout/time.Second))
	v.SetDefault("render_timeout_seconds", int(DefaultRenderTimeout/time.Second))
	v.SetDefault("settle_delay_seconds", int(DefaultSettleDelay/time.Second))

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		// Missing config file: run on defaults.
	}

	cfg := &Config{
		AdoptablesURL: v.GetString("adoptables_url"),
		MaxAgeMonths:  v.GetInt("max_age_months"),
		Paused:        v.GetBool("paused"),
		NotifyEmails:  v.GetStringSlice("notify_emails"),

		LedgerPath:    v.GetString("ledger_path"),
		RunLogPath:    v.GetString("run_log_path"),
		MaxLogEntries: v.GetInt("max_log_entries"),

		FetchTimeout:  time.Duration(v.GetInt("fetch_timeout_seconds")) * time.Second,
		RenderTimeout: time.Duration(v.GetInt("render_timeout_seconds")) * time.Second,
		SettleDelay:   time.Duration(v.GetInt("settle_delay_seconds")) * time.Second,

		ForceRender:       envBool("CATWATCH_FORCE_RENDER"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		SMTP: SMTP{
			Host: os.Getenv("SMTP_HOST"),
			Port: envInt("SMTP_PORT", 587),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},
	}

	// Environment recipient list wins over the config file.
	if emails := os.Getenv("NOTIFY_EMAILS"); emails != "" {
		cfg.NotifyEmails = splitEmails(emails)
	}

	return cfg, nil
}

// Origin returns the scheme://host part of the adoptables URL, used to
// resolve relative listing links.
func (c *Config) Origin() (string, error) {
	u, err := url.Parse(c.AdoptablesURL)
	if err != nil {
		return "", fmt.Errorf("invalid adoptables URL %q: %w", c.AdoptablesURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("adoptables URL %q must be absolute", c.AdoptablesURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func envBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
