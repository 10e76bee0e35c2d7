package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOG_LEVEL", "NPM_CONFIG_REGISTRY", "npm_config_registry", "NO_COLOR"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectRoot != dir {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, dir)
	}
	if cfg.Mode != ModeAdvise || cfg.Registry != RegistryNpm || cfg.NpmCommand != "npm" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want none", cfg.Source)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	p := writeFile(t, dir, ".pkgpilot.yaml", "mode: compare\nregistry: http\ntimeout: 5s\ndev: true\n")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != p {
		t.Errorf("Source = %q, want %q", cfg.Source, p)
	}
	if cfg.Mode != ModeCompare || cfg.Registry != RegistryHTTP || cfg.Timeout != 5*time.Second || !cfg.IncludeDev {
		t.Errorf("file not applied: %+v", cfg)
	}
	if cfg.NpmCommand != "npm" {
		t.Errorf("unset keys should keep defaults, NpmCommand = %q", cfg.NpmCommand)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".pkgpilot.toml", "mode = \"describe\"\nnpm = \"pnpm\"\nno_color = true\n")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeDescribe || cfg.NpmCommand != "pnpm" || !cfg.NoColor {
		t.Errorf("toml not applied: %+v", cfg)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".pkgpilot.yml", "timeout: soon\n")
	if _, err := Load(dir, ""); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("err = %v, want timeout error", err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "NPM_CONFIG_REGISTRY=https://npm.example.com\nLOG_LEVEL=debug\n")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RegistryURL != "https://npm.example.com" {
		t.Errorf("RegistryURL = %q", cfg.RegistryURL)
	}
	if cfg.Verbosity != "debug" {
		t.Errorf("Verbosity = %q", cfg.Verbosity)
	}
	if got := os.Getenv("NPM_CONFIG_REGISTRY"); got != "" {
		t.Errorf(".env leaked into process environment: %q", got)
	}
}

func TestLoad_ProcessEnvWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NPM_CONFIG_REGISTRY", "https://proc.example.com")
	dir := t.TempDir()
	writeFile(t, dir, ".env", "NPM_CONFIG_REGISTRY=https://file.example.com\n")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RegistryURL != "https://proc.example.com" {
		t.Errorf("RegistryURL = %q", cfg.RegistryURL)
	}
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".pkgpilot.yaml", "mode: compare\ntheme: nord\n")
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	if err := flags.Parse([]string{"--registry", "http", "--timeout", "3s", "-v", "trace"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		t.Fatal(err)
	}

	if cfg.Mode != ModeCompare {
		t.Errorf("unset --mode should not override file, got %q", cfg.Mode)
	}
	if cfg.Theme != "nord" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	if cfg.Registry != RegistryHTTP || cfg.Timeout != 3*time.Second || cfg.Verbosity != "trace" {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad mode", func(c *Config) { c.Mode = "fancy" }, "invalid mode"},
		{"bad registry", func(c *Config) { c.Registry = "yarn" }, "invalid registry"},
		{"bad verbosity", func(c *Config) { c.Verbosity = "loud" }, "invalid verbosity"},
		{"bad theme", func(c *Config) { c.Theme = "solarized" }, "invalid theme"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"empty npm", func(c *Config) { c.NpmCommand = " " }, "npm command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ThemeCaseInsensitive(t *testing.T) {
	c := Defaults()
	c.Theme = "Tokyo-Night"
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBindFlags_ThemeHelpListsThemes(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	usage := flags.Lookup(Flag_Theme).Usage
	for _, name := range ExpectedThemes {
		if !strings.Contains(usage, name) {
			t.Errorf("--theme help %q does not mention %q", usage, name)
		}
	}
}

func TestModeCapabilities(t *testing.T) {
	if ModeDescribe.ShowsVersions() || ModeDescribe.AllowsBack() || ModeDescribe.AllowsCopy() {
		t.Error("describe mode should be read-only")
	}
	if !ModeCompare.ShowsVersions() || ModeCompare.AllowsBack() {
		t.Error("compare mode shows versions without back")
	}
	if !ModeAdvise.AllowsBack() || !ModeAdvise.AllowsCopy() {
		t.Error("advise mode allows back and copy")
	}
}
