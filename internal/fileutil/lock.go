package fileutil

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/lumo-app/lumo/internal/sentinel"
)

// LockFileName is the name of the lock file created inside a locked directory.
const LockFileName = ".lumo.lock"

// ErrDirLocked is returned by LockDir when another process already holds the
// lock for the directory.
const ErrDirLocked = sentinel.Error("directory is locked by another process")

// DirLock is an exclusive advisory lock on a directory, held through a lock
// file inside it. The lock is released when the holding process exits, even
// if Unlock is never called.
type DirLock struct {
	fl *flock.Flock
}

// LockDir takes the lock for dir without blocking. The directory is created
// if it does not exist. Returns ErrDirLocked when the lock is held elsewhere.
func LockDir(dir string) (*DirLock, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	fl := flock.New(filepath.Join(dir, LockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), ErrDirLocked)
	}
	return &DirLock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *DirLock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}

// Unlock releases the lock and closes the lock file. The file is left on
// disk; removing it could invalidate a lock another process just acquired.
// Safe to call on a nil DirLock and more than once.
func (l *DirLock) Unlock(logger *slog.Logger) {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil && logger != nil {
		logger.Debug("failed to release directory lock", "path", l.fl.Path(), "error", err)
	}
	l.fl = nil
}
