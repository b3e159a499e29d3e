// Package db persists analysis runs and their windowed displacement sums to
// sqlite. Each run of the pipeline gets a UUID; the summary table rows are
// stored one (run, window, channel) triple per row so they can be queried
// per channel as well as per window.
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/framewise/kptrace/internal/trajectory"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the sqlite database at path and ensures
// the schema exists.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			source            TEXT,
			threshold         DOUBLE,
			max_window        BIGINT,
			ref_x             TEXT,
			ref_y             TEXT,
			steps             BIGINT,
			channels          BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS window_sums (
			run_id            TEXT,
			start_idx         BIGINT,
			end_idx           BIGINT,
			label             TEXT,
			channel           TEXT,
			total             DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_window_sums_run ON window_sums(run_id, start_idx);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// Run describes one recorded analysis run.
type Run struct {
	RunID     string
	Source    string
	Threshold float64
	MaxWindow int
	RefX      string
	RefY      string
	Steps     int
	Channels  int
	Timestamp time.Time
}

// RecordRun inserts a run row and returns its generated run ID.
func (db *DB) RecordRun(source string, threshold float64, maxWindow int, refX, refY string, steps, channels int) (string, error) {
	runID := fmt.Sprintf("run_%s", uuid.NewString())
	_, err := db.Exec(
		`INSERT INTO runs (run_id, source, threshold, max_window, ref_x, ref_y, steps, channels)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, source, threshold, maxWindow, refX, refY, steps, channels,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordSummary stores every (window, channel) sum of the summary table for
// the given run, in one transaction.
func (db *DB) RecordSummary(runID string, sums *trajectory.SummaryTable) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO window_sums (run_id, start_idx, end_idx, label, channel, total)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range sums.Rows {
		end := parseWindowEnd(row.Label, row.Start)
		for ci, channel := range sums.Channels {
			if _, err := stmt.Exec(runID, row.Start, end, row.Label, channel, row.Sums[ci]); err != nil {
				return fmt.Errorf("failed to insert window sum: %w", err)
			}
		}
	}

	return tx.Commit()
}

// parseWindowEnd recovers the window end index from a "start-end" label.
// Falls back to start when the label is malformed.
func parseWindowEnd(label string, start int) int {
	var s, e int
	if _, err := fmt.Sscanf(label, "%d-%d", &s, &e); err != nil {
		return start
	}
	return e
}

// WindowSum is one stored (window, channel) displacement total.
type WindowSum struct {
	Start   int
	End     int
	Label   string
	Channel string
	Total   float64
}

// WindowSums returns the stored sums for a run, ordered by window start then
// channel name.
func (db *DB) WindowSums(runID string) ([]WindowSum, error) {
	rows, err := db.Query(
		`SELECT start_idx, end_idx, label, channel, total
		 FROM window_sums WHERE run_id = ?
		 ORDER BY start_idx, channel`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query window sums: %w", err)
	}
	defer rows.Close()

	var sums []WindowSum
	for rows.Next() {
		var ws WindowSum
		if err := rows.Scan(&ws.Start, &ws.End, &ws.Label, &ws.Channel, &ws.Total); err != nil {
			return nil, fmt.Errorf("failed to scan window sum: %w", err)
		}
		sums = append(sums, ws)
	}
	return sums, rows.Err()
}

// ListRuns returns all recorded runs, newest first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(
		`SELECT run_id, source, threshold, max_window, ref_x, ref_y, steps, channels, timestamp
		 FROM runs ORDER BY timestamp DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Source, &r.Threshold, &r.MaxWindow, &r.RefX, &r.RefY, &r.Steps, &r.Channels, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
