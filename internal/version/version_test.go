package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Errorf("Version must stay plain for -ldflags and JSON output: %q", Version)
	}
}

func TestColored(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	tests := []struct {
		name    string
		version string
		enabled bool
		colored bool
		plain   string
	}{
		{"disabled", "1.2.3-dev", false, false, "1.2.3-dev"},
		{"semver", "1.2.3", true, true, "1.2.3"},
		{"semver with suffix", "0.1.0-dev", true, true, "0.1.0-dev"},
		{"not semver", "dev", true, false, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			got := Colored(tt.enabled)
			if hasEsc := strings.Contains(got, "\x1b["); hasEsc != tt.colored {
				t.Fatalf("Colored(%v) = %q, colored=%v", tt.enabled, got, hasEsc)
			}
			if stripANSI(got) != tt.plain {
				t.Fatalf("plain text %q, want %q", stripANSI(got), tt.plain)
			}
		})
	}
}

// stripANSI убирает escape-последовательности SGR
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
