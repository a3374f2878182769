package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"reelpreview/internal/logging"
	"reelpreview/internal/services"
)

const stderrTailLimit = 2048

// Runner executes one ffmpeg invocation and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, args []string) error
	// RunInput behaves like Run but feeds stdin to the process.
	RunInput(ctx context.Context, stdin io.Reader, args []string) error
}

// ExecRunner runs the ffmpeg binary through os/exec.
type ExecRunner struct {
	Binary  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewExecRunner returns a runner for binary. A zero timeout disables the
// per-invocation deadline.
func NewExecRunner(binary string, timeout time.Duration, logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Binary: binary, Timeout: timeout, Logger: logging.NewComponentLogger(logger, "ffmpeg")}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args []string) error {
	return r.run(ctx, nil, args)
}

// RunInput implements Runner.
func (r *ExecRunner) RunInput(ctx context.Context, stdin io.Reader, args []string) error {
	return r.run(ctx, stdin, args)
}

func (r *ExecRunner) run(ctx context.Context, stdin io.Reader, args []string) error {
	binary := strings.TrimSpace(r.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logger := logging.WithContext(ctx, r.Logger)
	logger.Debug("ffmpeg command", logging.String("command", binary+" "+strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.WaitDelay = 5 * time.Second
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		logger.Debug("ffmpeg finished", logging.Duration("elapsed", time.Since(start)))
		return nil
	}

	toolErr := &services.ToolError{Tool: "ffmpeg", ExitCode: -1, Stderr: tail(stderr.String()), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", services.ErrTimeout, r.Timeout, toolErr)
	}
	return toolErr
}

// VerifyOutput reports an error when an invocation claimed success but left
// no usable file behind.
func VerifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("expected output %s was not created", path)
		}
		return fmt.Errorf("stat output %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("output %s is a directory", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output %s is empty", path)
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTailLimit {
		return s
	}
	return s[len(s)-stderrTailLimit:]
}
