package main

import (
	"path/filepath"
	"testing"

	"reelpreview/internal/testsupport"
)

func TestDoctorCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "== Tools ==")
	requireContains(t, out, "[OK] Ready (command: "+env.cfg.Tools.FFmpeg+")")
	requireContains(t, out, "Library directory")
}

func TestDoctorFailsWhenToolMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Tools.FFmpeg = filepath.Join(t.TempDir(), "missing-ffmpeg")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	requireContains(t, out, "[ERROR]")
}

func TestInspectCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.library, "a.mp4")
	testsupport.WriteFile(t, source, 64)

	out, _, err := runCLI(t, []string{"inspect", source}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Duration:  12.500s")
	requireContains(t, out, "h264")
	requireContains(t, out, "640x360")
}
