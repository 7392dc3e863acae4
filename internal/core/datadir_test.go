package core

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestResolveDataDir(t *testing.T) {
	t.Parallel()

	errHost := errors.New("no app data dir")
	errHome := errors.New("no home")
	home := func() (string, error) { return "/home/ada", nil }
	noHome := func() (string, error) { return "", errHome }

	tests := map[string]struct {
		host     DataDirFunc
		home     DataDirFunc
		want     string
		wantWarn bool
	}{
		"host path wins": {
			host: fixedDir("/data/app.lumo"),
			home: home,
			want: "/data/app.lumo",
		},
		"host error falls back to home": {
			host:     func() (string, error) { return "", errHost },
			home:     home,
			want:     "/home/ada" + string(filepath.Separator) + ".lumo",
			wantWarn: true,
		},
		"empty host path falls back to home": {
			host:     fixedDir(""),
			home:     home,
			want:     "/home/ada" + string(filepath.Separator) + ".lumo",
			wantWarn: true,
		},
		"no home falls back to cwd": {
			host:     func() (string, error) { return "", errHost },
			home:     noHome,
			want:     "." + string(filepath.Separator) + ".lumo",
			wantWarn: true,
		},
		"nil host provider": {
			home:     noHome,
			want:     "." + string(filepath.Separator) + ".lumo",
			wantWarn: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h := &recordHandler{}

			got := resolveDataDir(tc.host, tc.home, ".lumo", slog.New(h))
			if got != tc.want {
				t.Errorf("resolveDataDir() = %q, want %q", got, tc.want)
			}
			if warned := h.count(slog.LevelWarn) == 1; warned != tc.wantWarn {
				t.Errorf("warning logged = %v, want %v", warned, tc.wantWarn)
			}
		})
	}
}

func TestHostDataDir(t *testing.T) {
	t.Parallel()

	home := func() (string, error) { return "/home/ada", nil }
	config := func() (string, error) { return "/cfg", nil }

	tests := map[string]struct {
		goos   string
		xdg    string
		appID  string
		want   string
		wantOK bool
	}{
		"linux default": {
			goos: "linux", appID: "app.lumo",
			want: filepath.Join("/home/ada", ".local", "share", "app.lumo"), wantOK: true,
		},
		"linux xdg": {
			goos: "linux", xdg: "/xdg", appID: "app.lumo",
			want: filepath.Join("/xdg", "app.lumo"), wantOK: true,
		},
		"linux relative xdg ignored": {
			goos: "linux", xdg: "rel", appID: "app.lumo",
			want: filepath.Join("/home/ada", ".local", "share", "app.lumo"), wantOK: true,
		},
		"darwin": {
			goos: "darwin", appID: "app.lumo",
			want: filepath.Join("/cfg", "app.lumo"), wantOK: true,
		},
		"empty app id": {
			goos: "windows",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			getenv := func(string) string { return tc.xdg }

			got, err := hostDataDir(tc.goos, getenv, home, config, tc.appID)
			if (err == nil) != tc.wantOK {
				t.Fatalf("hostDataDir() error = %v, wantOK %v", err, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("hostDataDir() = %q, want %q", got, tc.want)
			}
		})
	}
}
