package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"reelpreview/internal/config"
	"reelpreview/internal/deps"
)

// CheckDirectoryAccess passes when path is a directory the current user can
// list, read and write.
func CheckDirectoryAccess(name, path string) Result {
	if err := directoryProblem(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path + " (read/write ok)"}
}

func directoryProblem(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.New("does not exist")
	case err != nil:
		return fmt.Errorf("stat: %w", err)
	case !info.IsDir():
		return errors.New("is not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("insufficient permissions: %w", err)
	}
	return nil
}

// CheckSystemDeps resolves the ffmpeg and ffprobe binaries named in cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.MediaTools(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
}
