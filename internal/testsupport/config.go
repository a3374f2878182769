package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelpreview/internal/config"
)

// ConfigOption adjusts a test configuration after its directories are set.
type ConfigOption func(t testing.TB, cfg *config.Config)

// NewConfig returns the default configuration rooted in a fresh temp
// directory: library, work, state and logs live side by side under it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		LibraryDir: filepath.Join(base, "library"),
		WorkDir:    filepath.Join(base, "work"),
		StateDir:   filepath.Join(base, "state"),
		LogDir:     filepath.Join(base, "logs"),
	}
	for _, opt := range opts {
		opt(t, &cfg)
	}
	return &cfg
}

// BaseDir returns the temp directory that NewConfig rooted cfg in.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}

// WithStaticStrategy selects the still extraction strategy.
func WithStaticStrategy(strategy string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Static.Strategy = strategy
	}
}

// WithStubbedBinaries puts no-op executables named after the configured
// ffmpeg and ffprobe binaries first on PATH for the rest of the test.
func WithStubbedBinaries() ConfigOption {
	return func(t testing.TB, cfg *config.Config) {
		t.Helper()
		bin := filepath.Join(BaseDir(cfg), "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", bin, err)
		}
		for _, name := range []string{cfg.FFmpegBinary(), cfg.FFprobeBinary()} {
			stub := filepath.Join(bin, filepath.Base(name))
			if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", stub, err)
			}
		}
		t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}
