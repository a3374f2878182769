package ledger

import "time"

// Run summarizes one batch invocation.
type Run struct {
	ID         string
	Kind       string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Totals     Totals
}

// Finished reports whether the run recorded its completion.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Totals holds per-outcome counts for a run.
type Totals struct {
	Generated int
	Skipped   int
	Failed    int
}

// Entry is one per-asset result row.
type Entry struct {
	ID          int64
	RunID       string
	Kind        string
	Source      string
	Target      string
	Outcome     string
	Reason      string
	FailureKind string
	Error       string
	Elapsed     time.Duration
	CreatedAt   time.Time
}
