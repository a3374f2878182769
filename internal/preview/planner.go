package preview

import (
	"fmt"
	"math"
	"math/rand/v2"

	"reelpreview/internal/services"
)

// Sampler yields pseudo-random values in [0, 1).
type Sampler interface {
	Float64() float64
}

type globalSampler struct{}

func (globalSampler) Float64() float64 { return rand.Float64() }

// Window is one sampled segment of the source.
type Window struct {
	Index    int
	Start    float64
	Duration float64
}

func (w Window) String() string {
	return fmt.Sprintf("#%d@%.3fs+%.3fs", w.Index, w.Start, w.Duration)
}

// Planner chooses clip windows. The zero value samples from the unseeded
// global source, so consecutive runs pick different windows.
type Planner struct {
	sampler Sampler
}

// NewPlanner returns a planner drawing from sampler, or from the global
// source when sampler is nil.
func NewPlanner(sampler Sampler) *Planner {
	return &Planner{sampler: sampler}
}

// Plan splits totalDuration into clipCount equal windows and samples each
// start independently from [0, max(0, assetDuration-clipDuration)]. Windows
// may overlap or repeat.
func (p *Planner) Plan(clipCount int, totalDuration, assetDuration float64) ([]Window, error) {
	if clipCount <= 0 {
		return nil, services.Wrap(services.ErrValidation, "plan", "clips", fmt.Sprintf("clip count must be positive, got %d", clipCount), nil)
	}
	if totalDuration <= 0 || math.IsNaN(totalDuration) || math.IsInf(totalDuration, 0) {
		return nil, services.Wrap(services.ErrValidation, "plan", "clips", fmt.Sprintf("total duration must be positive, got %v", totalDuration), nil)
	}
	if assetDuration < 0 || math.IsNaN(assetDuration) {
		assetDuration = 0
	}

	var sampler Sampler = globalSampler{}
	if p != nil && p.sampler != nil {
		sampler = p.sampler
	}

	clipDuration := totalDuration / float64(clipCount)
	maxStart := math.Max(0, assetDuration-clipDuration)

	windows := make([]Window, clipCount)
	for i := range windows {
		start := sampler.Float64() * maxStart
		// Clamp guards samplers that return exactly 1.
		start = math.Min(math.Max(start, 0), maxStart)
		windows[i] = Window{Index: i, Start: start, Duration: clipDuration}
	}
	return windows, nil
}
