package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/lumo-app/lumo/internal/sentinel"
)

// ErrSidecarNotFound is returned by Locate when no executable matches the
// sidecar's logical name.
const ErrSidecarNotFound = sentinel.Error("sidecar executable not found")

// targetTriples maps GOOS/GOARCH to the suffix the packager appends to
// bundled sidecar binaries (lumo-server-<triple>).
var targetTriples = map[string]string{
	"darwin/arm64":  "aarch64-apple-darwin",
	"darwin/amd64":  "x86_64-apple-darwin",
	"linux/arm64":   "aarch64-unknown-linux-gnu",
	"linux/amd64":   "x86_64-unknown-linux-gnu",
	"windows/amd64": "x86_64-pc-windows-msvc",
	"windows/arm64": "aarch64-pc-windows-msvc",
}

// TargetTriple returns the packaging triple for goos/goarch.
func TargetTriple(goos, goarch string) (string, bool) {
	triple, ok := targetTriples[goos+"/"+goarch]
	return triple, ok
}

// CandidateNames lists the file names tried for a sidecar, most specific
// first: the triple-suffixed bundle name, then the bare name.
func CandidateNames(name, goos, goarch string) []string {
	ext := ""
	if goos == "windows" {
		ext = ".exe"
	}
	names := make([]string, 0, 2)
	if triple, ok := TargetTriple(goos, goarch); ok {
		names = append(names, name+"-"+triple+ext)
	}
	return append(names, name+ext)
}

// Locate resolves the sidecar's logical name to an executable path.
//
// A non-empty override is used as-is and must exist. Otherwise each of dirs
// is searched for CandidateNames; a nil dirs searches the directory of the
// running executable, where installers place bundled sidecars. $PATH is the
// last resort.
func Locate(name, override string, dirs []string) (string, error) {
	if override != "" {
		if !isRegularFile(override) {
			return "", fmt.Errorf("%s: %w", override, ErrSidecarNotFound)
		}
		return override, nil
	}
	if name == "" {
		return "", errors.New("sidecar name must not be empty")
	}

	if dirs == nil {
		if exe, err := os.Executable(); err == nil {
			dirs = []string{filepath.Dir(exe)}
		}
	}

	candidates := CandidateNames(name, runtime.GOOS, runtime.GOARCH)
	for _, dir := range dirs {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if isRegularFile(path) {
				return path, nil
			}
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%s: %w", name, ErrSidecarNotFound)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
