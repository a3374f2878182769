package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelpreview/internal/testsupport"
)

func TestPreviewsCommandGeneratesThenSkips(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.library, "a.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(env.library, "b.MOV"), 64)

	out, _, err := runCLI(t, []string{"previews", env.library}, env.configPath)
	if err != nil {
		t.Fatalf("previews: %v", err)
	}
	requireContains(t, out, "[1/2] [OK] a.mp4 -> a_preview.webp")
	requireContains(t, out, "Done: 2 generated, 0 skipped, 0 failed")
	if _, err := os.Stat(filepath.Join(env.library, "b_preview.webp")); err != nil {
		t.Fatalf("expected preview: %v", err)
	}
	if leftovers := testsupport.ListFiles(t, env.cfg.Paths.WorkDir); len(leftovers) != 0 {
		t.Fatalf("expected empty work dir, found %v", leftovers)
	}

	out, _, err = runCLI(t, []string{"previews"}, env.configPath)
	if err != nil {
		t.Fatalf("previews rerun: %v", err)
	}
	requireContains(t, out, "[SKIP] a.mp4 (preview already exists)")
	requireContains(t, out, "Done: 0 generated, 2 skipped, 0 failed")
}

func TestPreviewsStrictReportsFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.library, "broken.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(env.library, "good.mp4"), 64)

	out, _, err := runCLI(t, []string{"previews"}, env.configPath)
	if err != nil {
		t.Fatalf("non-strict run should succeed: %v", err)
	}
	requireContains(t, out, "[FAIL] broken.mp4")
	requireContains(t, out, "[OK] good.mp4")

	_, _, err = runCLI(t, []string{"previews", "--strict"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 assets failed") {
		t.Fatalf("expected strict failure, got %v", err)
	}
}

func TestCategoriesCommandGroupsOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.library, "vfx", "shot.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(env.library, "other", "skip.mp4"), 64)

	out, _, err := runCLI(t, []string{"categories"}, env.configPath)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	requireContains(t, out, "== Vfx ==")
	requireContains(t, out, "== Ai ==")
	requireContains(t, out, "category folder not found")
	if _, err := os.Stat(filepath.Join(env.library, "other", "skip_preview.webp")); !os.IsNotExist(err) {
		t.Fatal("unlisted category must not be processed")
	}
}

func TestStaticsCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.library, "vfx", "a_preview.webp"), 64)

	out, _, err := runCLI(t, []string{"static-categories", "--json", "--format", "png", "--strategy", "codec"}, env.configPath)
	if err != nil {
		t.Fatalf("static-categories: %v", err)
	}
	var summary summaryJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if summary.Kind != "static" || summary.Generated != 1 || len(summary.Results) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(env.library, "vfx", "a_preview_static.png")); err != nil {
		t.Fatalf("expected png still: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.library, "vfx", "a_preview_static.jpg")); !os.IsNotExist(err) {
		t.Fatal("only the requested format should be written")
	}
}

func TestConvertCommandAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.library, "reel.mp4")
	testsupport.WriteFile(t, source, 64)
	target := filepath.Join(env.library, "out", "custom.webp")

	out, _, err := runCLI(t, []string{"convert", source, target, "--profile", "quality"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Done: 1 generated")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected converted preview: %v", err)
	}

	out, _, err = runCLI(t, []string{"history", "--runs"}, env.configPath)
	if err != nil {
		t.Fatalf("history --runs: %v", err)
	}
	requireContains(t, out, "preview")

	out, _, err = runCLI(t, []string{"history", "--outcome", "generated"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "reel.mp4")
}

func TestBatchRejectsInvalidOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"previews", "--clips", "-2"}, env.configPath); err == nil {
		t.Fatal("expected invalid clip count to be rejected")
	}
	if _, _, err := runCLI(t, []string{"previews", "--profile", "tiny"}, env.configPath); err == nil {
		t.Fatal("expected unknown profile to be rejected")
	}
}
