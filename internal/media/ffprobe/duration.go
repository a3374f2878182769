package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"reelpreview/internal/services"
)

const stderrTailLimit = 2048

// Prober runs duration probes with a fixed binary and optional hard timeout.
type Prober struct {
	Binary  string
	Timeout time.Duration
}

// NewProber returns a Prober for the provided binary.
func NewProber(binary string, timeout time.Duration) *Prober {
	return &Prober{Binary: binary, Timeout: timeout}
}

// Duration returns the container duration of path in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	binary := ""
	var timeout time.Duration
	if p != nil {
		binary = p.Binary
		timeout = p.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Duration(ctx, binary, path)
}

// Duration runs ffprobe against path and parses the scalar duration it prints.
// Tool failures, empty output, and non-numeric values are all errors.
func Duration(ctx context.Context, binary, path string) (float64, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return 0, services.Wrap(services.ErrProbe, "probe", "duration", "empty path", nil)
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		toolErr := &services.ToolError{Tool: "ffprobe", ExitCode: -1, Stderr: tail(stderr.String()), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return 0, services.Wrap(services.ErrProbe, "probe", "duration", "timed out", fmt.Errorf("%w: %w", services.ErrTimeout, toolErr))
		}
		return 0, services.Wrap(services.ErrProbe, "probe", "duration", path, toolErr)
	}

	seconds, err := ParseDuration(stdout.String())
	if err != nil {
		return 0, services.Wrap(services.ErrProbe, "probe", "duration", path, err)
	}
	return seconds, nil
}

// ParseDuration parses ffprobe's scalar duration output.
func ParseDuration(output string) (float64, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return 0, errors.New("ffprobe returned no duration")
	}
	// ffprobe prints one value per line; a container duration is the first.
	if idx := strings.IndexAny(trimmed, "\r\n"); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", trimmed, err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid duration %q", trimmed)
	}
	return seconds, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTailLimit {
		return s
	}
	return s[len(s)-stderrTailLimit:]
}
