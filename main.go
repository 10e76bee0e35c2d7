package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nulifyer/pkgpilot/clipboard"
	"github.com/nulifyer/pkgpilot/config"
	"github.com/nulifyer/pkgpilot/logger"
	"github.com/nulifyer/pkgpilot/manifest"
	"github.com/nulifyer/pkgpilot/registry"
	"github.com/nulifyer/pkgpilot/tui"
)

const banner = `
  Usage
    $ pkgpilot [flags]

  Description
    Analyzes package.json and helps manage packages using AI.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pkgpilot",
		Short:         "Smart Package Pilot: npm dependency upgrade advisor",
		Long:          banner,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	config.BindFlags(cmd.Flags())
	return cmd
}

// loadConfig resolves the project directory then layers file, env and
// flags over the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	projectDir, _ := flags.GetString(config.Flag_Project)
	if projectDir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("couldn't get current working directory: %w", err)
		}
		projectDir = dir
	}
	cfgPath, _ := flags.GetString(config.Flag_Config)

	cfg, err := config.Load(projectDir, cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRegistryClient(cfg *config.Config) registry.Client {
	detail := registry.DetailFull
	if cfg.Mode == config.ModeDescribe {
		detail = registry.DetailDescription
	}
	if cfg.Registry == config.RegistryHTTP {
		c := registry.NewHTTPClient(cfg.RegistryURL, detail)
		c.Npmrc = registry.LoadNpmrc(cfg.ProjectRoot)
		logger.Info("Using registry %s", c.RegistryFor(""))
		return c
	}
	logger.Info("Using %s view", cfg.NpmCommand)
	return registry.NewNpmClient(cfg.NpmCommand, cfg.ProjectRoot, detail)
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.SetLevel(logger.ParseLevel(cfg.Verbosity))
	logger.SetColor(!cfg.NoColor)
	tui.InitTheme(cfg.Theme, cfg.NoColor)
	if cfg.Source != "" {
		logger.Debug("Config file: %s", cfg.Source)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("pkgpilot needs an interactive terminal (stdin is not a TTY)")
	}

	// Log lines go to the panel from here on; the alt screen would
	// swallow anything written to stderr.
	bridge := tui.NewLogBridge()
	logger.SetOutput(bridge.Writer())
	defer func() {
		logger.SetOutput(nil)
		bridge.Close()
	}()

	logger.Info("Project directory: %s", cfg.ProjectRoot)

	var opts []manifest.Option
	if cfg.IncludeDev {
		opts = append(opts, manifest.WithDevDependencies())
	}
	// Load reports its own outcome to the log.
	mf, mfErr := manifest.Load(cfg.ProjectRoot, opts...)
	if len(mf.Dependencies) > 0 {
		logger.Debug("Dependencies: %s", strings.Join(mf.Dependencies.Names(), ", "))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := tui.New(tui.Options{
		Mode:        cfg.Mode,
		Manifest:    mf,
		ManifestErr: mfErr,
		Client:      newRegistryClient(cfg),
		Clipboard:   clipboard.NewSystem(),
		Timeout:     cfg.Timeout,
		Context:     ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p.Send)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatal("%v", err)
	}
}
