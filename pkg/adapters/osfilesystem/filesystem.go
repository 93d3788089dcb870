// Package osfilesystem implements ports.FileSystem on the local disk.
package osfilesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/user/pagecast/pkg/ports"
)

// ErrLocked is returned by Lock when another process holds the lock.
var ErrLocked = errors.New("osfilesystem: path is locked by another process")

// LockSuffix is appended to a guarded path to name its lock file.
const LockSuffix = ".lock"

// FileSystem is the os-backed ports.FileSystem.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a temporary sibling and renames it into place,
// creating parent directories as needed.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Lock takes a non-blocking exclusive flock on path+LockSuffix so two
// recordings never write the same output. The returned func releases the
// lock and removes the lock file.
func (fs *FileSystem) Lock(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	fl := flock.New(path + LockSuffix)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return func() error { return release(fl) }, nil
}

func release(fl *flock.Flock) error {
	// Removed while still held where the OS allows it; Windows needs the
	// handle closed first.
	removeErr := os.Remove(fl.Path())
	if err := fl.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", fl.Path(), err)
	}
	if removeErr == nil || errors.Is(removeErr, os.ErrNotExist) {
		return nil
	}
	if err := os.Remove(fl.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
