package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reel_preview.webp")

	ok, err := Exists(path)
	if err != nil || ok {
		t.Fatalf("expected missing file, got %v, %v", ok, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ok, err = Exists(path)
	if err != nil || !ok {
		t.Fatalf("expected existing file, got %v, %v", ok, err)
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "still.png")

	err := WriteAtomic(target, 0o644, func(w io.Writer) error {
		_, err := w.Write([]byte("png bytes"))
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "png bytes" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(PartialPath(target)); !os.IsNotExist(err) {
		t.Fatal("partial file should be gone after commit")
	}
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "still.jpg")
	boom := errors.New("encode failed")

	err := WriteAtomic(target, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("half"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	for _, path := range []string{target, PartialPath(target)} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be absent", path)
		}
	}
}

func TestCommitMissingPartial(t *testing.T) {
	dir := t.TempDir()
	if err := Commit(filepath.Join(dir, "missing.part"), filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing partial")
	}
}
