package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"reelpreview/internal/services"
)

// SkipFunc is told about a subdirectory that could not be read. Discovery
// carries on without it.
type SkipFunc func(dir string, err error)

// Discover returns every regular file below root whose extension matches one
// of extensions, compared case-insensitively. Paths are sorted. Unreadable
// subdirectories are reported to onSkip, which may be nil, and left out.
func Discover(root string, extensions []string, onSkip SkipFunc) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "discover", "stat root", root, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "discover", "stat root", root, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "discover", "stat root", fmt.Sprintf("%s is not a directory", root), nil)
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if onSkip != nil {
				onSkip(path, err)
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "discover", "walk", root, err)
	}
	slices.Sort(matches)
	return matches, nil
}

// ResolveCategory locates the folder named category directly below base.
// Names are compared after NFC normalisation so decomposed names written by
// some filesystems still match. ok is false when no folder matches.
func ResolveCategory(base, category string) (path string, ok bool, err error) {
	want := norm.NFC.String(strings.TrimSpace(category))
	if want == "" {
		return "", false, nil
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, services.Wrap(services.ErrNotFound, "discover", "read base", base, err)
		}
		return "", false, services.Wrap(services.ErrConfiguration, "discover", "read base", base, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if norm.NFC.String(entry.Name()) == want {
			return filepath.Join(base, entry.Name()), true, nil
		}
	}
	return "", false, nil
}
