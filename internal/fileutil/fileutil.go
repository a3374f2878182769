package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// PartialSuffix marks files that are still being written.
const PartialSuffix = ".part"

// Exists reports whether path exists. Any stat error other than
// "not exist" is returned so callers never mistake an unreadable
// directory for a missing artifact.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// PartialPath returns the in-progress path used while writing target.
func PartialPath(target string) string {
	return target + PartialSuffix
}

// Commit moves a fully written partial file onto target.
func Commit(partial, target string) error {
	if err := os.Rename(partial, target); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("commit %s: %w", target, err)
	}
	return nil
}

// WriteAtomic streams write's output into a partial file and renames it onto
// target only when write and close both succeed. On failure nothing is left
// at either path.
func WriteAtomic(target string, mode os.FileMode, write func(io.Writer) error) error {
	partial := PartialPath(target)
	out, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		_ = out.Close()
		_ = os.Remove(partial)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(partial)
		return err
	}
	return Commit(partial, target)
}
