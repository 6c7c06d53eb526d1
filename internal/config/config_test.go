package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}

	if cfg.MaxAgeMonths != DefaultMaxAgeMonths {
		t.Errorf("MaxAgeMonths = %d, want %d", cfg.MaxAgeMonths, DefaultMaxAgeMonths)
	}
	if cfg.Paused {
		t.Error("Paused should default to false")
	}
	if cfg.AdoptablesURL != DefaultAdoptablesURL {
		t.Errorf("AdoptablesURL = %q", cfg.AdoptablesURL)
	}
	if cfg.MaxLogEntries != DefaultMaxLogEntries {
		t.Errorf("MaxLogEntries = %d, want %d", cfg.MaxLogEntries, DefaultMaxLogEntries)
	}
	if cfg.FetchTimeout != 20*time.Second || cfg.RenderTimeout != 45*time.Second {
		t.Errorf("unexpected timeouts: %v / %v", cfg.FetchTimeout, cfg.RenderTimeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"max_age_months": 6,
		"paused": true,
		"notify_emails": ["one@example.com", "two@example.com"],
		"fetch_timeout_seconds": 5,
		"settle_delay_seconds": 1
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxAgeMonths != 6 {
		t.Errorf("MaxAgeMonths = %d, want 6", cfg.MaxAgeMonths)
	}
	if !cfg.Paused {
		t.Error("Paused should be true")
	}
	if len(cfg.NotifyEmails) != 2 || cfg.NotifyEmails[0] != "one@example.com" {
		t.Errorf("NotifyEmails = %v", cfg.NotifyEmails)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s from the config file", cfg.FetchTimeout)
	}
	if cfg.SettleDelay != time.Second {
		t.Errorf("SettleDelay = %v, want 1s from the config file", cfg.SettleDelay)
	}
	// Unset timeout keys keep their defaults.
	if cfg.RenderTimeout != DefaultRenderTimeout {
		t.Errorf("RenderTimeout = %v, want default %v", cfg.RenderTimeout, DefaultRenderTimeout)
	}
}

func TestLoadMalformedConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed config")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NOTIFY_EMAILS", "a@example.com, b@example.com ,")
	t.Setenv("CATWATCH_FORCE_RENDER", "TRUE")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.test/webhook")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.NotifyEmails) != 2 || cfg.NotifyEmails[1] != "b@example.com" {
		t.Errorf("NotifyEmails = %v", cfg.NotifyEmails)
	}
	if !cfg.ForceRender {
		t.Error("ForceRender should honor CATWATCH_FORCE_RENDER")
	}
	if cfg.DiscordWebhookURL != "https://discord.test/webhook" {
		t.Errorf("DiscordWebhookURL = %q", cfg.DiscordWebhookURL)
	}
	if cfg.SMTP.Port != 2525 {
		t.Errorf("SMTP.Port = %d, want 2525", cfg.SMTP.Port)
	}
}

func TestOrigin(t *testing.T) {
	cfg := &Config{AdoptablesURL: "https://www.arthuranimalrescue.com/adoptables"}
	origin, err := cfg.Origin()
	if err != nil {
		t.Fatalf("Origin: %v", err)
	}
	if origin != "https://www.arthuranimalrescue.com" {
		t.Errorf("Origin = %q", origin)
	}

	cfg = &Config{AdoptablesURL: "/relative/only"}
	if _, err := cfg.Origin(); err == nil {
		t.Error("relative adoptables URL should be rejected")
	}
}
