package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// BeginRun inserts a new run and returns its id.
func (s *Store) BeginRun(ctx context.Context, kind, root string) (string, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return "", errors.New("begin run: kind is required")
	}
	id := uuid.NewString()
	if _, err := s.exec(ctx,
		`INSERT INTO runs (id, kind, root, started_at) VALUES (?, ?, ?, ?)`,
		id, kind, root, formatTime(time.Now()),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun stamps completion time and final counts on a run.
func (s *Store) FinishRun(ctx context.Context, runID string, totals Totals) error {
	res, err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, generated = ?, skipped = ?, failed = ? WHERE id = ?`,
		formatTime(time.Now()), totals.Generated, totals.Skipped, totals.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, root, started_at, finished_at, generated, skipped, failed
         FROM runs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  sql.NullString
			finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Kind, &run.Root, &started, &finished,
			&run.Totals.Generated, &run.Totals.Skipped, &run.Totals.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
