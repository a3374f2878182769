package logging

import "strings"

// ProgressSampler thins batch progress logging to one line per percentage
// bucket, plus one whenever the phase label changes.
type ProgressSampler struct {
	step   float64
	phase  string
	bucket int
}

// NewProgressSampler returns a sampler with the given bucket width in
// percent. Non-positive widths fall back to 5.
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 5
	}
	return &ProgressSampler{step: step, bucket: -1}
}

// Observe records that done of total items finished in phase. It returns
// the completion percentage and whether the event deserves a log line.
// A zero total yields percent -1, which only logs on phase changes.
func (s *ProgressSampler) Observe(phase string, done, total int) (float64, bool) {
	percent := -1.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	if s == nil {
		return percent, true
	}

	emit := false
	phase = strings.TrimSpace(phase)
	if phase != "" && phase != s.phase {
		s.phase = phase
		s.bucket = -1
		emit = true
	}
	if percent >= 0 {
		capped := percent
		if capped > 100 {
			capped = 100
		}
		if bucket := int(capped / s.step); bucket > s.bucket {
			s.bucket = bucket
			emit = true
		}
	}
	return percent, emit
}
