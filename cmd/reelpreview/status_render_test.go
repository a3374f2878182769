package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"reelpreview/internal/batch"
	"reelpreview/internal/deps"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderResultLine(t *testing.T) {
	root := "/lib"
	cases := []struct {
		res  batch.Result
		want string
	}{
		{
			batch.Result{Source: "/lib/vfx/a.mp4", Target: "/lib/vfx/a_preview.webp", Outcome: batch.OutcomeGenerated, Elapsed: 1500 * time.Millisecond},
			"[1/3] [OK] vfx/a.mp4 -> vfx/a_preview.webp (1.5s)",
		},
		{
			batch.Result{Source: "/lib/b.mp4", Outcome: batch.OutcomeSkipped, Reason: batch.ReasonTargetExists},
			"[1/3] [SKIP] b.mp4 (preview already exists)",
		},
		{
			batch.Result{Source: "/elsewhere/c.mp4", Outcome: batch.OutcomeFailed, Err: errors.New("probe failed")},
			"[1/3] [FAIL] /elsewhere/c.mp4: probe failed",
		},
	}
	for _, tc := range cases {
		if got := renderResultLine(1, 3, tc.res, root, false); got != tc.want {
			t.Fatalf("renderResultLine mismatch\n got: %q\nwant: %q", got, tc.want)
		}
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Available: true, Command: "/usr/bin/ffmpeg", Version: "ffmpeg version 7.1"},
		{Name: "FFprobe", Available: false, Detail: `binary "ffprobe" not found`},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] Ready (command: /usr/bin/ffmpeg) ffmpeg version 7.1") {
		t.Fatalf("unexpected ready line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] binary") {
		t.Fatalf("unexpected error line %q", lines[1])
	}
}

func TestCategoryOf(t *testing.T) {
	if got := categoryOf("/lib", batch.Result{Source: "/lib/vfx/deep/a.mp4"}); got != "vfx" {
		t.Fatalf("expected vfx, got %q", got)
	}
	missing := batch.Result{Source: "ai", Reason: batch.ReasonCategoryMissing}
	if got := categoryOf("/lib", missing); got != "ai" {
		t.Fatalf("expected ai, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestEllipsizeLeft(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"/lib/a.mp4", 0, "/lib/a.mp4"},
		{"/lib/a.mp4", 20, "/lib/a.mp4"},
		{"/library/movies/long/clip.mp4", 12, ".../clip.mp4"},
		{"/lib/ябл.mp4", 7, "....mp4"},
		{"abcdef", 2, "ef"},
	}
	for _, tc := range cases {
		if got := ellipsizeLeft(tc.in, tc.limit); got != tc.want {
			t.Fatalf("ellipsizeLeft(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]column{{Title: "Name"}, {Title: "Count", Right: true}}, [][]string{{"only"}})
	// The rounded style upper-cases headers.
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "COUNT") || !strings.Contains(out, "only") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty output without columns")
	}
}
