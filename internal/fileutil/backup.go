package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lumo-app/lumo/internal/sentinel"
)

// ErrEmptyPath is returned when a source or destination path is empty.
const ErrEmptyPath = sentinel.Error("path must not be empty")

// BackupMode is the permission of files written by AtomicCopy.
const BackupMode os.FileMode = 0o600

// AtomicCopy copies src to dst through a synced temp file in dst's
// directory that is then renamed over dst. Readers of dst see either the
// old or the new contents, never a partial file. Parent directories are
// created as needed.
func AtomicCopy(src, dst string) (retErr error) {
	if src == "" || dst == "" {
		return ErrEmptyPath
	}
	if err := EnsureDirForFile(dst); err != nil {
		return fmt.Errorf("prepare destination: %w", err)
	}

	in, err := os.Open(src) //nolint:gosec // G304: paths come from configuration
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close source: %w", closeErr)
		}
	}()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-"+filepath.Base(dst)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(BackupMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("copy: %w", err)
	}
	// fsync before rename, or a crash can leave dst renamed but empty.
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename temp file to destination: %w", err)
	}
	return nil
}
