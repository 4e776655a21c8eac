package version

import (
	"regexp"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Platform", Platform},
		{"Engine", Engine},
		{"Chronos", Chronos},
		{"Alarm", Alarm},
		{"CLI", CLI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestServiceVersion(t *testing.T) {
	tests := []struct {
		service  string
		expected string
	}{
		{"engine", Engine},
		{"timex", Engine},
		{"chronos", Chronos},
		{"alarm", Alarm},
		{"tempus", CLI},
		{"unknown", Platform},
		{"", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			if result := ServiceVersion(tt.service); result != tt.expected {
				t.Errorf("ServiceVersion(%q) = %q, want %q", tt.service, result, tt.expected)
			}
		})
	}
}

func TestEngineVersion(t *testing.T) {
	if Engine != "0.1.29" {
		t.Errorf("Engine = %q, want 0.1.29", Engine)
	}
	for _, name := range Components() {
		if ServiceVersion(name) == "" {
			t.Errorf("ServiceVersion(%q) is empty", name)
		}
	}
}
