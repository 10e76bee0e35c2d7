package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/nulifyer/pkgpilot/logger"
)

// Mode picks which variant of the tool runs.
type Mode string

const (
	ModeDescribe Mode = "describe" // description only, no way back
	ModeCompare  Mode = "compare"  // versions + outdated badge
	ModeAdvise   Mode = "advise"   // compare + prompt, copy and back
)

var ExpectedModes = []string{string(ModeDescribe), string(ModeCompare), string(ModeAdvise)}

const (
	RegistryNpm  = "npm"
	RegistryHTTP = "http"
)

var ExpectedRegistries = []string{RegistryNpm, RegistryHTTP}

var ExpectedThemes = []string{
	"auto", "auto-light", "auto-dark", "dracula",
	"catppuccin-mocha", "catppuccin-latte", "nord", "tokyo-night", "gruvbox",
}

// DefaultFiles are tried in order inside the project root when no
// --config is given.
var DefaultFiles = []string{".pkgpilot.yaml", ".pkgpilot.yml", ".pkgpilot.toml"}

const (
	Flag_Project     = "project"
	Flag_Config      = "config"
	Flag_Mode        = "mode"
	Flag_Registry    = "registry"
	Flag_RegistryURL = "registry-url"
	Flag_Npm         = "npm"
	Flag_Dev         = "dev"
	Flag_Timeout     = "timeout"
	Flag_Theme       = "theme"
	Flag_NoColor     = "no-color"
	Flag_Verbosity   = "verbosity"
)

type Config struct {
	ProjectRoot string
	Mode        Mode
	Registry    string
	RegistryURL string
	NpmCommand  string
	IncludeDev  bool
	Timeout     time.Duration
	Theme       string
	NoColor     bool
	Verbosity   string

	// Source is the config file that was applied, if any.
	Source string
}

// fileConfig mirrors Config for YAML/TOML. Pointers tell "unset" from
// zero values so a file only overrides what it names.
type fileConfig struct {
	Mode        *string `yaml:"mode" toml:"mode"`
	Registry    *string `yaml:"registry" toml:"registry"`
	RegistryURL *string `yaml:"registry_url" toml:"registry_url"`
	NpmCommand  *string `yaml:"npm" toml:"npm"`
	IncludeDev  *bool   `yaml:"dev" toml:"dev"`
	Timeout     *string `yaml:"timeout" toml:"timeout"`
	Theme       *string `yaml:"theme" toml:"theme"`
	NoColor     *bool   `yaml:"no_color" toml:"no_color"`
	Verbosity   *string `yaml:"verbosity" toml:"verbosity"`
}

func Defaults() *Config {
	return &Config{
		Mode:       ModeAdvise,
		Registry:   RegistryNpm,
		NpmCommand: "npm",
		Theme:      "auto",
		Verbosity:  "warn",
	}
}

// Load builds the configuration for projectRoot: defaults, then the
// config file (explicit path or the first default found), then the
// project's .env file and process environment. Flags are applied
// afterwards with ApplyFlags.
func Load(projectRoot, path string) (*Config, error) {
	cfg := Defaults()
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	cfg.ProjectRoot = abs

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	explicit := path != ""
	candidates := []string{path}
	if !explicit {
		candidates = candidates[:0]
		for _, name := range DefaultFiles {
			candidates = append(candidates, filepath.Join(c.ProjectRoot, name))
		}
	}

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && !explicit {
				continue
			}
			return fmt.Errorf("reading config %s: %w", p, err)
		}

		var fc fileConfig
		switch strings.ToLower(filepath.Ext(p)) {
		case ".toml":
			err = toml.Unmarshal(data, &fc)
		default:
			err = yaml.Unmarshal(data, &fc)
		}
		if err != nil {
			return fmt.Errorf("parsing config %s: %w", p, err)
		}
		if err := c.merge(fc); err != nil {
			return fmt.Errorf("config %s: %w", p, err)
		}
		c.Source = p
		logger.Debug("Applied config file %s", p)
		return nil
	}
	return nil
}

func (c *Config) merge(fc fileConfig) error {
	if fc.Mode != nil {
		c.Mode = Mode(*fc.Mode)
	}
	if fc.Registry != nil {
		c.Registry = *fc.Registry
	}
	if fc.RegistryURL != nil {
		c.RegistryURL = *fc.RegistryURL
	}
	if fc.NpmCommand != nil {
		c.NpmCommand = *fc.NpmCommand
	}
	if fc.IncludeDev != nil {
		c.IncludeDev = *fc.IncludeDev
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if fc.Theme != nil {
		c.Theme = *fc.Theme
	}
	if fc.NoColor != nil {
		c.NoColor = *fc.NoColor
	}
	if fc.Verbosity != nil {
		c.Verbosity = *fc.Verbosity
	}
	return nil
}

// loadEnv reads <projectRoot>/.env without touching the process
// environment. Process variables win over the file.
func (c *Config) loadEnv() error {
	env := map[string]string{}
	p := filepath.Join(c.ProjectRoot, ".env")
	if _, err := os.Stat(p); err == nil {
		env, err = godotenv.Read(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		logger.Debug("Read %d variable(s) from %s", len(env), p)
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := os.Getenv(strings.ToLower(key)); v != "" {
			return v
		}
		return env[key]
	}

	if c.RegistryURL == "" {
		c.RegistryURL = lookup("NPM_CONFIG_REGISTRY")
	}
	if v := lookup("LOG_LEVEL"); v != "" {
		c.Verbosity = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.NoColor = true
	}
	return nil
}

// BindFlags registers every flag on fs with the defaults shown in help.
// The bound values are only applied by ApplyFlags when a flag was set.
func BindFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.StringP(Flag_Project, "p", "", "project directory containing package.json (defaults to current working directory)")
	flags.String(Flag_Config, "", "config file (default: .pkgpilot.yaml, .pkgpilot.yml or .pkgpilot.toml in the project)")
	flags.StringP(Flag_Mode, "m", string(d.Mode), "tool variant: "+strings.Join(ExpectedModes, ", "))
	flags.String(Flag_Registry, d.Registry, "registry backend: "+strings.Join(ExpectedRegistries, ", "))
	flags.String(Flag_RegistryURL, "", "registry base URL for the http backend (default: NPM_CONFIG_REGISTRY or registry.npmjs.org)")
	flags.String(Flag_Npm, d.NpmCommand, "package manager command used by the npm backend")
	flags.Bool(Flag_Dev, false, "include devDependencies")
	flags.Duration(Flag_Timeout, 0, "registry lookup timeout (0 = none)")
	flags.String(Flag_Theme, d.Theme, "color theme: "+strings.Join(ExpectedThemes, ", "))
	flags.Bool(Flag_NoColor, false, "disable colored output")
	flags.StringP(Flag_Verbosity, "v", d.Verbosity, "log verbosity: "+strings.Join(logger.ExpectedLevels, ", "))
}

// ApplyFlags copies every flag the user actually set onto c.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && flags.Changed(name) {
			*dst, err = flags.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && flags.Changed(name) {
			*dst, err = flags.GetBool(name)
		}
	}

	var mode string
	str(Flag_Mode, &mode)
	if mode != "" {
		c.Mode = Mode(mode)
	}
	str(Flag_Registry, &c.Registry)
	str(Flag_RegistryURL, &c.RegistryURL)
	str(Flag_Npm, &c.NpmCommand)
	boolean(Flag_Dev, &c.IncludeDev)
	str(Flag_Theme, &c.Theme)
	boolean(Flag_NoColor, &c.NoColor)
	str(Flag_Verbosity, &c.Verbosity)
	if err == nil && flags.Changed(Flag_Timeout) {
		c.Timeout, err = flags.GetDuration(Flag_Timeout)
	}
	return err
}

// Validate rejects values outside the expected sets.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(ExpectedModes, string(c.Mode)) {
		errs = append(errs, fmt.Errorf("invalid mode %q (expected one of %s)", c.Mode, strings.Join(ExpectedModes, ", ")))
	}
	if !slices.Contains(ExpectedRegistries, c.Registry) {
		errs = append(errs, fmt.Errorf("invalid registry %q (expected one of %s)", c.Registry, strings.Join(ExpectedRegistries, ", ")))
	}
	if !slices.Contains(logger.ExpectedLevels, strings.ToLower(c.Verbosity)) {
		errs = append(errs, fmt.Errorf("invalid verbosity %q (expected one of %s)", c.Verbosity, strings.Join(logger.ExpectedLevels, ", ")))
	}
	if !slices.Contains(ExpectedThemes, strings.ToLower(c.Theme)) {
		errs = append(errs, fmt.Errorf("invalid theme %q (expected one of %s)", c.Theme, strings.Join(ExpectedThemes, ", ")))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.Registry == RegistryNpm && strings.TrimSpace(c.NpmCommand) == "" {
		errs = append(errs, errors.New("npm command must not be empty"))
	}
	return errors.Join(errs...)
}

// AllowsBack reports whether the detail view can return to the list.
func (m Mode) AllowsBack() bool { return m == ModeAdvise }

// AllowsCopy reports whether the prompt can be copied.
func (m Mode) AllowsCopy() bool { return m == ModeAdvise }

// ShowsVersions reports whether the latest version is fetched and shown.
func (m Mode) ShowsVersions() bool { return m != ModeDescribe }
