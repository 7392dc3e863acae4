package core

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// DataDirFunc returns the host-provided application data directory.
type DataDirFunc func() (string, error)

// ResolveDataDir returns the directory hostDir provides. When hostDir fails
// or returns an empty path it falls back to $HOME/<fallbackName>, or
// ./<fallbackName> when the home directory is unknown, and logs a warning.
// It never fails.
func ResolveDataDir(hostDir DataDirFunc, fallbackName string) string {
	return resolveDataDir(hostDir, os.UserHomeDir, fallbackName, Logger())
}

func resolveDataDir(hostDir, homeDir DataDirFunc, fallbackName string, log *slog.Logger) string {
	var err error
	if hostDir == nil {
		err = errors.New("no host data directory provider")
	} else {
		var dir string
		dir, err = hostDir()
		if err == nil && dir != "" {
			return dir
		}
		if err == nil {
			err = errors.New("host returned an empty data directory")
		}
	}

	base := "."
	if home, homeErr := homeDir(); homeErr == nil && home != "" {
		base = home
	}
	fallback := base + string(filepath.Separator) + fallbackName
	log.Warn("failed to get app data dir, using fallback", "error", err, "path", fallback)
	return fallback
}

// HostDataDir returns the conventional per-user data directory for appID:
// $XDG_DATA_HOME/<appID> (default ~/.local/share/<appID>) on Linux and the
// user config directory elsewhere, which is where desktop shells keep
// application data on macOS and Windows.
func HostDataDir(appID string) DataDirFunc {
	return func() (string, error) {
		return hostDataDir(runtime.GOOS, os.Getenv, os.UserHomeDir, os.UserConfigDir, appID)
	}
}

func hostDataDir(
	goos string,
	getenv func(string) string,
	homeDir, configDir DataDirFunc,
	appID string,
) (string, error) {
	if appID == "" {
		return "", errors.New("app identifier must not be empty")
	}
	if goos == "linux" {
		if xdg := getenv("XDG_DATA_HOME"); filepath.IsAbs(xdg) {
			return filepath.Join(xdg, appID), nil
		}
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appID), nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appID), nil
}
