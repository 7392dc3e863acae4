package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestAtomicCopy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "lumo.db")
	if err := os.WriteFile(src, []byte("new contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "backups", "lumo.db.bak")

	if err := AtomicCopy(src, dst); err != nil {
		t.Fatalf("AtomicCopy() error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new contents" {
		t.Errorf("dst = %q, want %q", got, "new contents")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dst)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != BackupMode {
			t.Errorf("dst mode = %v, want %v", info.Mode().Perm(), BackupMode)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("backup dir has %d entries, want only the backup (no temp files)", len(entries))
	}
}

func TestAtomicCopy_Overwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("v2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("v1 with more bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := AtomicCopy(src, dst); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(dst); string(got) != "v2" {
		t.Errorf("dst = %q, want %q", got, "v2")
	}
}

func TestAtomicCopy_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := map[string]struct {
		src, dst string
		is       error
	}{
		"empty source":      {src: "", dst: filepath.Join(dir, "x"), is: ErrEmptyPath},
		"empty destination": {src: filepath.Join(dir, "x"), dst: "", is: ErrEmptyPath},
		"missing source":    {src: filepath.Join(dir, "missing"), dst: filepath.Join(dir, "out"), is: os.ErrNotExist},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if err := AtomicCopy(tc.src, tc.dst); !errors.Is(err, tc.is) {
				t.Errorf("AtomicCopy() = %v, want %v", err, tc.is)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "out")); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed copy must not leave a destination file")
	}
}
