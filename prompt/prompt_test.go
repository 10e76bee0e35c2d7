package prompt

import (
	"strings"
	"testing"
)

func TestIsOutdated(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"^1.2.0", "1.2.0", false},
		{"^1.2.0", "2.0.0", true},
		{"1.2.0", "1.2.0", false},
		{"~1.2.0", "1.2.0", false},
		{"~1.2.0", "1.2.1", true},
		// syntactic only: ranges that admit latest still count as outdated
		{">=1.0.0", "1.0.0", true},
		{"^1.2", "1.2.0", true},
	}
	for _, tt := range tests {
		if got := IsOutdated(tt.current, tt.latest); got != tt.want {
			t.Errorf("IsOutdated(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
		}
	}
}

func TestBuild_ContainsInputs(t *testing.T) {
	got := Build("left-pad", "^1.3.0", "2.0.0")
	for _, want := range []string{"left-pad", "^1.3.0", "2.0.0", "breaking changes"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt %q missing %q", got, want)
		}
	}
	if got != Build("left-pad", "^1.3.0", "2.0.0") {
		t.Error("Build is not deterministic")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		current, latest string
		want            Change
	}{
		{"^1.3.0", "2.0.0", ChangeMajor},
		{"~1.3.0", "1.4.2", ChangeMinor},
		{"1.3.0", "1.3.7", ChangePatch},
		{"^1.3.0", "1.3.0", ChangeNone},
		{"1.x", "1.5.0", ChangeMinor},
		{">=2.0.0", "1.9.0", ChangeDowngrade},
		{"git+https://github.com/a/b.git", "1.0.0", ChangeUnknown},
		{"workspace:*", "1.0.0", ChangeUnknown},
		{"^1.0.0 || ^2.0.0", "2.0.0", ChangeUnknown},
		{"latest", "1.0.0", ChangeUnknown},
		{"^1.0.0", "not-a-version", ChangeUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.current, tt.latest); got != tt.want {
			t.Errorf("Classify(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
		}
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		rng, latest string
		sat, ok     bool
	}{
		{"^1.2.0", "1.9.0", true, true},
		{"^1.2.0", "2.0.0", false, true},
		{"~1.2.0", "1.3.0", false, true},
		{"file:../x", "1.0.0", false, false},
	}
	for _, tt := range tests {
		sat, ok := Satisfies(tt.rng, tt.latest)
		if sat != tt.sat || ok != tt.ok {
			t.Errorf("Satisfies(%q, %q) = %v, %v, want %v, %v", tt.rng, tt.latest, sat, ok, tt.sat, tt.ok)
		}
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown("left-pad", "^1.3.0", "2.0.0")
	for _, want := range []string{"### Upgrade left-pad", "`^1.3.0`", "`2.0.0`", "**Change:** major", Build("left-pad", "^1.3.0", "2.0.0")} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
