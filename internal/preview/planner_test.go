package preview_test

import (
	"errors"
	"math"
	"testing"

	"reelpreview/internal/preview"
	"reelpreview/internal/services"
)

type seqSampler struct {
	values []float64
	next   int
}

func (s *seqSampler) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestPlanProducesEqualWindows(t *testing.T) {
	cases := []struct {
		clips int
		total float64
		asset float64
	}{
		{4, 4, 10},
		{1, 4, 10},
		{3, 10, 120},
		{7, 2.5, 3},
		{5, 4, 0},
	}
	planner := preview.NewPlanner(nil)
	for _, tc := range cases {
		for range 50 {
			windows, err := planner.Plan(tc.clips, tc.total, tc.asset)
			if err != nil {
				t.Fatalf("Plan(%d, %v, %v) returned error: %v", tc.clips, tc.total, tc.asset, err)
			}
			if len(windows) != tc.clips {
				t.Fatalf("expected %d windows, got %d", tc.clips, len(windows))
			}
			clipDuration := tc.total / float64(tc.clips)
			maxStart := math.Max(0, tc.asset-clipDuration)
			for i, w := range windows {
				if w.Index != i {
					t.Fatalf("window %d has index %d", i, w.Index)
				}
				if w.Duration != clipDuration {
					t.Fatalf("window %d duration %v, want %v", i, w.Duration, clipDuration)
				}
				if w.Start < 0 || w.Start > maxStart {
					t.Fatalf("window %d start %v outside [0, %v]", i, w.Start, maxStart)
				}
			}
		}
	}
}

func TestPlanTenSecondAssetFourClips(t *testing.T) {
	sampler := &seqSampler{values: []float64{0, 0.25, 0.999999, 1}}
	windows, err := preview.NewPlanner(sampler).Plan(4, 4, 10)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	for _, w := range windows {
		if w.Duration != 1 {
			t.Fatalf("expected 1s clips, got %v", w.Duration)
		}
		if w.Start < 0 || w.Start > 9 {
			t.Fatalf("start %v outside [0, 9]", w.Start)
		}
	}
	if windows[1].Start != 2.25 {
		t.Fatalf("expected sampler value to scale onto [0, 9], got %v", windows[1].Start)
	}
	if windows[3].Start != 9 {
		t.Fatalf("expected sampler value 1 to clamp to 9, got %v", windows[3].Start)
	}
}

func TestPlanShortAssetCollapsesToZero(t *testing.T) {
	sampler := &seqSampler{values: []float64{0.3, 0.7, 0.99}}
	windows, err := preview.NewPlanner(sampler).Plan(4, 4, 0.5)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	for _, w := range windows {
		if w.Start != 0 {
			t.Fatalf("expected start 0 for short asset, got %v", w.Start)
		}
		if w.Duration != 1 {
			t.Fatalf("expected requested clip duration to be kept, got %v", w.Duration)
		}
	}
}

func TestPlanAllowsRepeatedWindows(t *testing.T) {
	sampler := &seqSampler{values: []float64{0.5}}
	windows, err := preview.NewPlanner(sampler).Plan(3, 3, 11)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if windows[0].Start != windows[1].Start || windows[1].Start != windows[2].Start {
		t.Fatalf("expected identical windows from constant sampler, got %+v", windows)
	}
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	planner := preview.NewPlanner(nil)
	for _, tc := range []struct {
		clips int
		total float64
	}{
		{0, 4},
		{-1, 4},
		{4, 0},
		{4, -2},
		{4, math.NaN()},
	} {
		_, err := planner.Plan(tc.clips, tc.total, 10)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("Plan(%d, %v) expected validation error, got %v", tc.clips, tc.total, err)
		}
	}
}

func TestWindowString(t *testing.T) {
	w := preview.Window{Index: 2, Start: 3.25, Duration: 1}
	if got := w.String(); got != "#2@3.250s+1.000s" {
		t.Fatalf("unexpected window string %q", got)
	}
}
