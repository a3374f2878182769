package preview

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelpreview/internal/logging"
)

// CleanStaleScratch removes job directories under workDir that are older
// than maxAge, left behind by a process that was killed before releasing
// them. Directories without the job prefix are never touched. It returns the
// removed paths and the joined errors of those it could not remove.
func CleanStaleScratch(workDir string, maxAge time.Duration, logger *slog.Logger) ([]string, error) {
	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(workDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	cutoff := time.Now().Add(-maxAge)
	var (
		removed []string
		errs    []error
	)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), ScratchPrefix) {
			continue
		}
		dir := filepath.Join(workDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
			logging.WarnWithContext(logger, "failed to remove stale scratch directory", "scratch_cleanup_failed",
				logging.String("path", dir),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		removed = append(removed, dir)
		logger.Debug("removed stale scratch directory",
			logging.String("path", dir),
			logging.Duration("age", time.Since(info.ModTime())),
		)
	}
	return removed, errors.Join(errs...)
}
