// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry records resolution events in a local SQLite
// database for diagnostics. Recording is strictly out-of-band: the
// resolver stays pure and callers decide what, if anything, to log.
package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sourcelink/pkg/types"
)

// Event is one recorded resolution.
type Event struct {
	Time         time.Time
	Citation     string
	StrategyUsed string
	StrategyType string
	URL          string
	RequiresAuth bool
	Error        string
}

// EventFromResult builds an Event from a resolution result.
func EventFromResult(res types.CitationResult) Event {
	return Event{
		Citation:     res.Metadata[types.MetaCitation],
		StrategyUsed: res.StrategyUsed,
		StrategyType: res.Metadata[types.MetaStrategyType],
		URL:          res.URL,
		RequiresAuth: res.RequiresAuth,
		Error:        res.Error,
	}
}

// Store manages the resolution event database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the event database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening telemetry database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resolutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL,
			citation TEXT NOT NULL,
			strategy_used TEXT NOT NULL,
			strategy_type TEXT,
			url TEXT NOT NULL,
			requires_auth INTEGER NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_strategy ON resolutions(strategy_used)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one resolution event. A zero Time is stamped with the
// current UTC time.
func (s *Store) Record(ctx context.Context, ev Event) error {
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	requiresAuth := 0
	if ev.RequiresAuth {
		requiresAuth = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (ts, citation, strategy_used, strategy_type, url, requires_auth, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339Nano), ev.Citation, ev.StrategyUsed,
		ev.StrategyType, ev.URL, requiresAuth, ev.Error,
	)
	if err != nil {
		return fmt.Errorf("recording resolution: %w", err)
	}
	return nil
}

// Recent returns the most recent events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, citation, strategy_used, strategy_type, url, requires_auth, error
		 FROM resolutions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying resolutions: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var ts string
		var requiresAuth int
		if err := rows.Scan(&ts, &ev.Citation, &ev.StrategyUsed, &ev.StrategyType, &ev.URL, &requiresAuth, &ev.Error); err != nil {
			return nil, fmt.Errorf("scanning resolution row: %w", err)
		}
		ev.Time, _ = time.Parse(time.RFC3339Nano, ts)
		ev.RequiresAuth = requiresAuth != 0
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Summary aggregates recorded resolutions.
type Summary struct {
	Total        int
	ByStrategy   map[string]int
	AuthRequired int
	Errors       int
}

// Summarize reports per-strategy resolution counts, how many required
// authentication, and how many degraded with an error.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	summary := Summary{ByStrategy: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy_used, COUNT(*) FROM resolutions GROUP BY strategy_used`)
	if err != nil {
		return Summary{}, fmt.Errorf("querying strategy counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return Summary{}, fmt.Errorf("scanning strategy count: %w", err)
		}
		summary.ByStrategy[name] = count
		summary.Total += count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resolutions WHERE requires_auth = 1`,
	).Scan(&summary.AuthRequired); err != nil {
		return Summary{}, fmt.Errorf("counting auth resolutions: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resolutions WHERE error != ''`,
	).Scan(&summary.Errors); err != nil {
		return Summary{}, fmt.Errorf("counting error resolutions: %w", err)
	}

	return summary, nil
}
