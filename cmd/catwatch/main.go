// Package main provides the CLI entry point for catwatch.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mkarppi/catwatch/internal/config"
	"github.com/mkarppi/catwatch/internal/history"
	"github.com/mkarppi/catwatch/internal/state"
	"github.com/mkarppi/catwatch/internal/watcher"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"config.json"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Check struct {
		Render bool `help:"Always use the headless browser, skip the plain HTTP fetch" default:"false"`
	} `cmd:"check" help:"Run one polling cycle against the adoptables page."`

	History struct {
		Limit int `help:"Maximum number of runs to show" default:"100"`
	} `cmd:"history" help:"Browse recent check runs interactively."`
}

func main() {
	ctx := kong.Parse(&CLI)

	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "check":
		if CLI.Check.Render {
			cfg.ForceRender = true
		}
		runCheck(cfg)

	case "history":
		runHistory(cfg, CLI.History.Limit)

	default:
		panic(ctx.Command())
	}
}

// runCheck executes one polling cycle.
func runCheck(cfg *config.Config) {
	w, err := watcher.New(cfg)
	if err != nil {
		slog.Error("Failed to build watcher", "error", err)
		os.Exit(1)
	}

	if err := w.Run(context.Background()); err != nil {
		slog.Error("Check run failed", "error", err)
		os.Exit(1)
	}
}

// runHistory opens the interactive run-history browser.
func runHistory(cfg *config.Config, limit int) {
	store := state.NewStore(cfg.LedgerPath, cfg.RunLogPath)
	records, err := store.LoadRunLog()
	if err != nil {
		slog.Error("Failed to load run log", "error", err)
		os.Exit(1)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	if err := history.Run(records); err != nil {
		slog.Error("History browser failed", "error", err)
		os.Exit(1)
	}
}
