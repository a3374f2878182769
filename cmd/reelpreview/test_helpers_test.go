package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelpreview/internal/config"
	"reelpreview/internal/testsupport"
)

const ffprobeStub = `#!/bin/sh
case " $* " in
*" -version "*) echo "ffprobe version stub" ;;
*show_entries*) echo 12.5 ;;
*) echo '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":640,"height":360,"avg_frame_rate":"25/1","nb_frames":"312"}],"format":{"format_name":"mov,mp4,m4a","duration":"12.5","size":"2048"}}' ;;
esac
`

// ffmpegStub writes a placeholder to its last argument and fails for any
// invocation that mentions a "broken" input.
const ffmpegStub = `#!/bin/sh
case " $* " in
*" -version "*) echo "ffmpeg version stub"; exit 0 ;;
*broken*) echo "invalid data found when processing input" >&2; exit 1 ;;
esac
for last; do :; done
printf 'frame' > "$last"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	library    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	cfg.Tools.FFmpeg = writeStub(t, binDir, "ffmpeg", ffmpegStub)
	cfg.Tools.FFprobe = writeStub(t, binDir, "ffprobe", ffprobeStub)
	cfg.Preview.Categories = []string{"vfx", "ai"}
	cfg.Static.Categories = []string{"vfx"}
	if err := os.MkdirAll(cfg.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "reelpreview", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, library: cfg.Paths.LibraryDir}
}

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
