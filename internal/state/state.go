// Package state persists the known-listing ledger and the run history.
//
// Both stores are plain JSON documents that are read in full at the start of
// a run and rewritten in full at the end, so an operator can inspect or edit
// them by hand. There is no locking: the external scheduler is expected to
// never overlap runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultMaxLogEntries caps the run history; the oldest records age out first.
const DefaultMaxLogEntries = 100

// Entry is the first-seen snapshot of one listing. Once written it is never
// revised, even if a later run infers a different age for the same id; that
// is what guarantees at most one alert per listing, ever.
type Entry struct {
	Name      string    `json:"name"`
	AgeMonths *int      `json:"age_months"`
	FirstSeen time.Time `json:"first_seen"`
}

// Ledger maps listing ids to their first-seen snapshots.
type Ledger map[string]Entry

// AlertedCat is the per-listing slice of a run record.
type AlertedCat struct {
	Name      string `json:"name"`
	AgeMonths *int   `json:"age_months"`
	URL       string `json:"url"`
}

// Record describes one completed (or paused) polling run.
type Record struct {
	Timestamp   time.Time    `json:"timestamp"`
	TotalOnPage int          `json:"total_on_page"`
	AlertsSent  int          `json:"alerts_sent"`
	AlertedCats []AlertedCat `json:"alerted_cats"`
	Paused      bool         `json:"paused,omitempty"`
}

// Store reads and writes the ledger and run-log files.
type Store struct {
	LedgerPath    string
	RunLogPath    string
	MaxLogEntries int
}

// NewStore creates a store with the default history cap.
func NewStore(ledgerPath, runLogPath string) *Store {
	return &Store{
		LedgerPath:    ledgerPath,
		RunLogPath:    runLogPath,
		MaxLogEntries: DefaultMaxLogEntries,
	}
}

// LoadLedger reads the ledger file. A missing file yields an empty ledger.
func (s *Store) LoadLedger() (Ledger, error) {
	data, err := os.ReadFile(s.LedgerPath)
	if os.IsNotExist(err) {
		return Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", s.LedgerPath, err)
	}
	return ledger, nil
}

// SaveLedger rewrites the whole ledger file, indented with keys sorted.
func (s *Store) SaveLedger(ledger Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return writeFile(s.LedgerPath, data)
}

// LoadRunLog reads the run history. A missing file yields an empty history.
func (s *Store) LoadRunLog() ([]Record, error) {
	data, err := os.ReadFile(s.RunLogPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse run log %s: %w", s.RunLogPath, err)
	}
	return records, nil
}

// AppendRun appends one record to the run log, keeping only the newest
// MaxLogEntries entries.
func (s *Store) AppendRun(record Record) error {
	records, err := s.LoadRunLog()
	if err != nil {
		return err
	}

	records = append(records, record)

	max := s.MaxLogEntries
	if max <= 0 {
		max = DefaultMaxLogEntries
	}
	if len(records) > max {
		records = records[len(records)-max:]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run log: %w", err)
	}
	return writeFile(s.RunLogPath, data)
}

// writeFile creates the parent directory if needed and writes the file.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
