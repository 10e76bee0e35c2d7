package manifest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nulifyer/pkgpilot/logger"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad_PreservesKeyOrder(t *testing.T) {
	dir := writeManifest(t, `{
  "name": "demo",
  "version": "0.1.0",
  "dependencies": {"b": "2.0.0", "a": "^1.0.0", "c": "~3.1.0"}
}`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "demo" || m.Version != "0.1.0" {
		t.Errorf("name/version = %q/%q", m.Name, m.Version)
	}
	want := []Dependency{{Name: "b", Range: "2.0.0"}, {Name: "a", Range: "^1.0.0"}, {Name: "c", Range: "~3.1.0"}}
	if len(m.Dependencies) != len(want) {
		t.Fatalf("got %d deps, want %d", len(m.Dependencies), len(want))
	}
	for i, w := range want {
		if m.Dependencies[i] != w {
			t.Errorf("dep[%d] = %+v, want %+v", i, m.Dependencies[i], w)
		}
	}
}

func TestLoad_ExactMapping(t *testing.T) {
	dir := writeManifest(t, `{"dependencies": {"a": "^1.0.0", "b": "2.0.0"}}`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Dependencies.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("names = %v", got)
	}
	if r, _ := m.Dependencies.Get("a"); r != "^1.0.0" {
		t.Errorf("a = %q", r)
	}
	if r, _ := m.Dependencies.Get("b"); r != "2.0.0" {
		t.Errorf("b = %q", r)
	}
}

func TestLoad_NotFound(t *testing.T) {
	m, err := Load(t.TempDir())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("err = %v, want ErrManifestNotFound", err)
	}
	if m == nil || len(m.Dependencies) != 0 {
		t.Fatalf("expected empty manifest, got %+v", m)
	}
}

func TestLoad_NotFoundLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetLevel(logger.LevelWarn)
	defer logger.SetOutput(nil)

	if _, err := Load(t.TempDir()); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("err = %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("logged %d lines, want 1: %q", n, buf.String())
	}
}

func TestLoad_NonObjectManifest(t *testing.T) {
	dir := writeManifest(t, `[]`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Path != filepath.Join(dir, FileName) || len(m.Dependencies) != 0 {
		t.Errorf("got %+v, want empty manifest", m)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := writeManifest(t, `{"dependencies": {"a": `)

	m, err := Load(dir)
	if !errors.Is(err, ErrManifestParse) {
		t.Fatalf("err = %v, want ErrManifestParse", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Path != filepath.Join(dir, FileName) {
		t.Errorf("expected *ParseError with path, got %v", err)
	}
	if len(m.Dependencies) != 0 {
		t.Errorf("expected no dependencies, got %v", m.Dependencies)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		dev     bool
		want    []string
		wantErr bool
	}{
		{name: "no dependencies field", in: `{"name": "x"}`, want: []string{}},
		{name: "null dependencies", in: `{"dependencies": null}`, want: []string{}},
		{name: "nested fields skipped", in: `{"scripts": {"a": "b"}, "dependencies": {"x": "1"}}`, want: []string{"x"}},
		{name: "dev excluded by default", in: `{"dependencies": {"x": "1"}, "devDependencies": {"y": "2"}}`, want: []string{"x"}},
		{name: "dev appended", in: `{"devDependencies": {"y": "2", "x": "9"}, "dependencies": {"x": "1"}}`, dev: true, want: []string{"x", "y"}},
		{name: "top level array", in: `[]`, want: []string{}},
		{name: "top level string", in: `"str"`, want: []string{}},
		{name: "top level number", in: `42`, want: []string{}},
		{name: "top level null", in: `null`, want: []string{}},
		{name: "broken array", in: `[1,`, wantErr: true},
		{name: "array with trailing data", in: `[] {}`, wantErr: true},
		{name: "non-string range", in: `{"dependencies": {"x": 1}}`, wantErr: true},
		{name: "trailing data", in: `{} {}`, wantErr: true},
		{name: "empty input", in: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.in), tt.dev)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			got := m.Dependencies.Names()
			if len(got) != len(tt.want) {
				t.Fatalf("names = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("names = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestParse_DevKeepsRuntimeRange(t *testing.T) {
	m, err := Parse([]byte(`{"dependencies": {"x": "1"}, "devDependencies": {"x": "9", "y": "2"}}`), true)
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := m.Dependencies.Get("x"); r != "1" {
		t.Errorf("x = %q, want runtime range", r)
	}
	if !m.Dependencies[1].Dev {
		t.Errorf("y should be marked dev")
	}
}
