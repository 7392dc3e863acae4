package core

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSupervisorConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate  func(*SupervisorConfig)
		wantErr []string
	}{
		"valid": {
			mutate: func(*SupervisorConfig) {},
		},
		"empty sidecar name": {
			mutate:  func(c *SupervisorConfig) { c.SidecarName = "" },
			wantErr: []string{"sidecar name"},
		},
		"db file name with directory": {
			mutate:  func(c *SupervisorConfig) { c.DBFileName = filepath.Join("sub", "lumo.db") },
			wantErr: []string{"bare file name"},
		},
		"unknown policy": {
			mutate:  func(c *SupervisorConfig) { c.Policy = SpawnPolicy(42) },
			wantErr: []string{"invalid spawn policy"},
		},
		"ready timeout without interval": {
			mutate:  func(c *SupervisorConfig) { c.ReadyTimeout = time.Second },
			wantErr: []string{"ready interval"},
		},
		"everything wrong reports everything": {
			mutate: func(c *SupervisorConfig) {
				*c = SupervisorConfig{StopTimeout: -1, ReadyTimeout: -1}
			},
			wantErr: []string{
				"sidecar name", "database file name", "env var",
				"fallback directory", "app identifier", "stop timeout", "ready timeout",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() = %q, want it to mention %q", err, want)
				}
			}
		})
	}
}

func TestParseSpawnPolicy(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		want    SpawnPolicy
		wantErr bool
	}{
		"":             {want: SpawnUnlessDebug},
		"unless-debug": {want: SpawnUnlessDebug},
		"Always":       {want: SpawnAlways},
		" never ":      {want: SpawnNever},
		"sometimes":    {wantErr: true},
	}

	for in, tc := range tests {
		got, err := ParseSpawnPolicy(in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSpawnPolicy(%q) = %v, want error", in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseSpawnPolicy(%q) = %v, %v; want %v", in, got, err, tc.want)
		}
		if back, err := ParseSpawnPolicy(got.String()); err != nil || back != got {
			t.Errorf("String() of %v does not parse back: %v, %v", got, back, err)
		}
	}
}

func TestNewSpawnConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		policy   SpawnPolicy
		debug    bool
		override bool
		want     bool
	}{
		"unless-debug release":             {policy: SpawnUnlessDebug, want: true},
		"unless-debug debug":               {policy: SpawnUnlessDebug, debug: true},
		"unless-debug debug with override": {policy: SpawnUnlessDebug, debug: true, override: true, want: true},
		"always in debug":                  {policy: SpawnAlways, debug: true, want: true},
		"never with override":              {policy: SpawnNever, override: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			cfg.Policy = tc.policy
			cfg.DebugBuild = tc.debug
			cfg.DevOverride = tc.override

			dir := t.TempDir()
			sc := cfg.NewSpawnConfig(dir)
			if sc.ShouldSpawn != tc.want {
				t.Errorf("ShouldSpawn = %v, want %v", sc.ShouldSpawn, tc.want)
			}
			if sc.DataDir != dir {
				t.Errorf("DataDir = %q, want %q", sc.DataDir, dir)
			}
			if want := filepath.Join(dir, "lumo.db"); sc.DBPath != want {
				t.Errorf("DBPath = %q, want %q", sc.DBPath, want)
			}
		})
	}
}
