package batch

import "time"

// Kind identifies the artifact a result refers to.
type Kind string

const (
	KindPreview Kind = "preview"
	KindStatic  Kind = "static"
)

// Outcome classifies a per-asset result.
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Skip reasons reported by the driver.
const (
	ReasonTargetExists    = "preview already exists"
	ReasonCategoryMissing = "category folder not found"
)

// Result is the outcome of one asset.
type Result struct {
	Kind    Kind
	Source  string
	Target  string
	Outcome Outcome
	Reason  string
	Err     error
	Elapsed time.Duration
}

// Summary aggregates the results of a batch.
type Summary struct {
	RunID     string
	Kind      Kind
	Root      string
	Results   []Result
	Generated int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// Total returns the number of results collected.
func (s Summary) Total() int {
	return len(s.Results)
}

// HasFailures reports whether any asset failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Failures returns the failed results in processing order.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed {
			out = append(out, r)
		}
	}
	return out
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeGenerated:
		s.Generated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Observer receives each result as it is produced. index is 1-based.
type Observer func(index, total int, result Result)
