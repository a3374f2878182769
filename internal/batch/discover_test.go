package batch_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"reelpreview/internal/batch"
	"reelpreview/internal/testsupport"
)

func TestDiscoverFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"z.mp4", "A.MOV", "sub/b.mp4", "sub/b.mp4.part", "x.webp"} {
		testsupport.WriteFile(t, filepath.Join(root, name), 1)
	}
	got, err := batch.Discover(root, []string{"mp4", ".MOV"}, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{
		filepath.Join(root, "A.MOV"),
		filepath.Join(root, "sub", "b.mp4"),
		filepath.Join(root, "z.mp4"),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolveCategory(t *testing.T) {
	base := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(base, "3d & full cgi", "a.mp4"), 1)
	testsupport.WriteFile(t, filepath.Join(base, "трансляции", "b.mp4"), 1)

	dir, ok, err := batch.ResolveCategory(base, "трансляции")
	if err != nil || !ok || dir != filepath.Join(base, "трансляции") {
		t.Fatalf("unexpected resolve result %q %v %v", dir, ok, err)
	}
	if _, ok, err := batch.ResolveCategory(base, "ai"); ok || err != nil {
		t.Fatalf("expected missing category, got ok=%v err=%v", ok, err)
	}
	if _, _, err := batch.ResolveCategory(filepath.Join(base, "absent"), "ai"); err == nil {
		t.Fatal("expected error for missing base")
	}
}

func TestDiscoverSkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root reads every directory")
	}
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.mp4"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "locked", "b.mp4"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "open", "c.mp4"), 1)
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var skipped []string
	got, err := batch.Discover(root, []string{".mp4"}, func(dir string, err error) {
		skipped = append(skipped, dir)
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{filepath.Join(root, "a.mp4"), filepath.Join(root, "open", "c.mp4")}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !slices.Equal(skipped, []string{locked}) {
		t.Fatalf("expected %s reported as skipped, got %v", locked, skipped)
	}
}
