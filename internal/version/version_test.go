package version

import (
	"strings"
	"testing"
)

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		version string
		plain   bool
	}{
		{"1.2.3", false},
		{"0.1.0-dev", false},
		{"1.0.0-beta.1", false},
		{"nightly", true},
		{"1.2", true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			override(t, tt.version, "", "")
			got := Colored(true)
			if tt.plain {
				if got != tt.version {
					t.Fatalf("Colored = %q, want %q", got, tt.version)
				}
				return
			}
			if !strings.Contains(got, "\x1b[") {
				t.Fatalf("Colored = %q, want ANSI escapes", got)
			}
			if _, suffix, ok := strings.Cut(tt.version, "-"); ok && !strings.HasSuffix(got, "-"+suffix) {
				t.Fatalf("Colored = %q lost suffix %q", got, suffix)
			}
			if Colored(false) != tt.version {
				t.Fatalf("Colored(false) = %q", Colored(false))
			}
		})
	}
}
