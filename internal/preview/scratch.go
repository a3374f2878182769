package preview

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// ScratchPrefix names per-job directories inside the work directory.
const ScratchPrefix = "job-"

// Scratch owns every temporary path a job creates.
type Scratch struct {
	id  string
	dir string

	mu       sync.Mutex
	paths    []string
	released bool
}

// NewScratch creates a unique job directory below workDir.
func NewScratch(workDir string) (*Scratch, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	id := uuid.NewString()
	dir := filepath.Join(workDir, ScratchPrefix+id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{id: id, dir: dir}, nil
}

// ID returns the job identifier embedded in the directory name.
func (s *Scratch) ID() string { return s.id }

// Dir returns the job directory.
func (s *Scratch) Dir() string { return s.dir }

// Path registers name inside the job directory and returns its full path.
func (s *Scratch) Path(name string) string {
	path := filepath.Join(s.dir, name)
	s.Track(path)
	return path
}

// Track registers an arbitrary path for removal on Release.
func (s *Scratch) Track(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

// Tracked returns the registered paths.
func (s *Scratch) Tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Release removes every registered path still on disk and then the job
// directory. Missing files are ignored and repeated calls are no-ops.
func (s *Scratch) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true

	var errs []error
	for _, path := range s.paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	if err := os.RemoveAll(s.dir); err != nil {
		errs = append(errs, fmt.Errorf("remove scratch dir: %w", err))
	}
	return errors.Join(errs...)
}
