package testsupport

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FakeFFmpeg records invocations and fabricates the output file named by the
// last argument, standing in for the real binary.
type FakeFFmpeg struct {
	mu    sync.Mutex
	calls [][]string
	stdin [][]byte

	// Fail, when set, is consulted before each call; a non-nil error aborts
	// the call without writing output.
	Fail func(args []string) error
	// SkipOutput, when set, makes a successful call leave no output behind.
	SkipOutput func(args []string) bool
	// Hook runs after output is written, e.g. to panic mid-pipeline.
	Hook func(args []string)
}

// Run implements ffmpeg.Runner.
func (f *FakeFFmpeg) Run(ctx context.Context, args []string) error {
	return f.record(ctx, nil, args)
}

// RunInput implements ffmpeg.Runner.
func (f *FakeFFmpeg) RunInput(ctx context.Context, stdin io.Reader, args []string) error {
	return f.record(ctx, stdin, args)
}

func (f *FakeFFmpeg) record(ctx context.Context, stdin io.Reader, args []string) error {
	var payload []byte
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		payload = data
	}
	f.mu.Lock()
	f.calls = append(f.calls, slices.Clone(args))
	f.stdin = append(f.stdin, payload)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Fail != nil {
		if err := f.Fail(args); err != nil {
			return err
		}
	}
	if len(args) == 0 {
		return nil
	}
	if f.SkipOutput == nil || !f.SkipOutput(args) {
		output := args[len(args)-1]
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return err
		}
		content := fmt.Sprintf("fake output for %s\n", filepath.Base(output))
		if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
			return err
		}
	}
	if f.Hook != nil {
		f.Hook(args)
	}
	return nil
}

// Calls returns a copy of every recorded argument list.
func (f *FakeFFmpeg) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	for i, call := range f.calls {
		out[i] = slices.Clone(call)
	}
	return out
}

// CallCount returns the number of recorded invocations.
func (f *FakeFFmpeg) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Stdin returns the bytes fed to the call at index i.
func (f *FakeFFmpeg) Stdin(i int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.stdin) {
		return nil
	}
	return f.stdin[i]
}

// FakeProber returns fixed durations per path and counts calls.
type FakeProber struct {
	mu        sync.Mutex
	Durations map[string]float64
	// Default is returned for paths missing from Durations.
	Default float64
	Err     error
	calls   int
}

// Duration implements the preview duration prober.
func (p *FakeProber) Duration(_ context.Context, path string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.Err != nil {
		return 0, p.Err
	}
	if d, ok := p.Durations[path]; ok {
		return d, nil
	}
	return p.Default, nil
}

// CallCount returns the number of probes performed.
func (p *FakeProber) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
