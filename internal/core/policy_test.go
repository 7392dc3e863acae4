package core

import "testing"

func TestDecideSpawn(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		debug    bool
		override bool
		want     bool
	}{
		"release":               {debug: false, override: false, want: true},
		"release with override": {debug: false, override: true, want: true},
		"debug":                 {debug: true, override: false, want: false},
		"debug with override":   {debug: true, override: true, want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := DecideSpawn(tc.debug, tc.override); got != tc.want {
				t.Errorf("DecideSpawn(%v, %v) = %v, want %v", tc.debug, tc.override, got, tc.want)
			}
		})
	}
}

func TestParseDevOverride(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"1":    true,
		"":     false,
		"0":    false,
		"true": false,
		"yes":  false,
		" 1":   false,
	}

	for raw, want := range tests {
		if got := ParseDevOverride(raw); got != want {
			t.Errorf("ParseDevOverride(%q) = %v, want %v", raw, got, want)
		}
	}
}
