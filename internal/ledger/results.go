package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const entryColumns = "id, run_id, kind, source_path, target_path, outcome, reason, failure_kind, error_message, elapsed_ms, created_at"

// Record appends one per-asset result to a run.
func (s *Store) Record(ctx context.Context, runID string, entry Entry) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("record result: run id is required")
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := s.exec(ctx,
		`INSERT INTO results (run_id, kind, source_path, target_path, outcome, reason, failure_kind, error_message, elapsed_ms, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		entry.Kind,
		entry.Source,
		nullable(entry.Target),
		entry.Outcome,
		nullable(entry.Reason),
		nullable(entry.FailureKind),
		nullable(entry.Error),
		entry.Elapsed.Milliseconds(),
		formatTime(createdAt),
	); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// RecentResults returns the newest result rows across all runs. When
// outcome is non-empty only rows with that outcome are returned.
func (s *Store) RecentResults(ctx context.Context, limit int, outcome string) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + entryColumns + " FROM results"
	args := []any{}
	if outcome = strings.TrimSpace(outcome); outcome != "" {
		query += " WHERE outcome = ?"
		args = append(args, outcome)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)
	return s.queryEntries(ctx, query, args...)
}

// RunResults returns the rows recorded for one run in insertion order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]Entry, error) {
	return s.queryEntries(ctx, "SELECT "+entryColumns+" FROM results WHERE run_id = ? ORDER BY id", runID)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		target      sql.NullString
		reason      sql.NullString
		failureKind sql.NullString
		errMessage  sql.NullString
		elapsedMS   int64
		createdRaw  sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Kind,
		&entry.Source,
		&target,
		&entry.Outcome,
		&reason,
		&failureKind,
		&errMessage,
		&elapsedMS,
		&createdRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan result: %w", err)
	}
	entry.Target = target.String
	entry.Reason = reason.String
	entry.FailureKind = failureKind.String
	entry.Error = errMessage.String
	entry.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	entry.CreatedAt = parseTime(createdRaw)
	return entry, nil
}
