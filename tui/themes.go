package tui

import (
	"strings"

	lipgloss "github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nulifyer/pkgpilot/logger"
)

type Theme struct {
	Border lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Text   lipgloss.TerminalColor
	Subtle lipgloss.TerminalColor
	Accent lipgloss.TerminalColor
	Green  lipgloss.TerminalColor
	Yellow lipgloss.TerminalColor
	Red    lipgloss.TerminalColor
	Cyan   lipgloss.TerminalColor
	Badge  lipgloss.TerminalColor // text drawn on an accent background

	// Glamour is the standard glamour style used for the prompt preview.
	Glamour string
}

var themes = map[string]Theme{
	"auto": {
		Border:  lipgloss.AdaptiveColor{Dark: "#30363d", Light: "#d0d7de"},
		Muted:   lipgloss.AdaptiveColor{Dark: "#484f58", Light: "#8c959f"},
		Text:    lipgloss.AdaptiveColor{Dark: "#e6edf3", Light: "#1f2328"},
		Subtle:  lipgloss.AdaptiveColor{Dark: "#8b949e", Light: "#656d76"},
		Accent:  lipgloss.AdaptiveColor{Dark: "#58a6ff", Light: "#0969da"},
		Green:   lipgloss.AdaptiveColor{Dark: "#3fb950", Light: "#1a7f37"},
		Yellow:  lipgloss.AdaptiveColor{Dark: "#d29922", Light: "#9a6700"},
		Red:     lipgloss.AdaptiveColor{Dark: "#f85149", Light: "#cf222e"},
		Cyan:    lipgloss.AdaptiveColor{Dark: "#56d7c2", Light: "#0d7680"},
		Badge:   lipgloss.AdaptiveColor{Dark: "#0d1117", Light: "#ffffff"},
		Glamour: "auto",
	},
	"auto-light": {
		Border: lipgloss.Color("#d0d7de"), Muted: lipgloss.Color("#8c959f"),
		Text: lipgloss.Color("#1f2328"), Subtle: lipgloss.Color("#656d76"),
		Accent: lipgloss.Color("#0969da"), Green: lipgloss.Color("#1a7f37"),
		Yellow: lipgloss.Color("#9a6700"), Red: lipgloss.Color("#cf222e"),
		Cyan: lipgloss.Color("#0d7680"), Badge: lipgloss.Color("#ffffff"),
		Glamour: "light",
	},
	"auto-dark": {
		Border: lipgloss.Color("#30363d"), Muted: lipgloss.Color("#484f58"),
		Text: lipgloss.Color("#e6edf3"), Subtle: lipgloss.Color("#8b949e"),
		Accent: lipgloss.Color("#58a6ff"), Green: lipgloss.Color("#3fb950"),
		Yellow: lipgloss.Color("#d29922"), Red: lipgloss.Color("#f85149"),
		Cyan: lipgloss.Color("#56d7c2"), Badge: lipgloss.Color("#0d1117"),
		Glamour: "dark",
	},
	"dracula": {
		Border: lipgloss.Color("#44475a"), Muted: lipgloss.Color("#6272a4"),
		Text: lipgloss.Color("#f8f8f2"), Subtle: lipgloss.Color("#6272a4"),
		Accent: lipgloss.Color("#bd93f9"), Green: lipgloss.Color("#50fa7b"),
		Yellow: lipgloss.Color("#f1fa8c"), Red: lipgloss.Color("#ff5555"),
		Cyan: lipgloss.Color("#8be9fd"), Badge: lipgloss.Color("#282a36"),
		Glamour: "dracula",
	},
	"catppuccin-mocha": {
		Border: lipgloss.Color("#313244"), Muted: lipgloss.Color("#585b70"),
		Text: lipgloss.Color("#cdd6f4"), Subtle: lipgloss.Color("#a6adc8"),
		Accent: lipgloss.Color("#89b4fa"), Green: lipgloss.Color("#a6e3a1"),
		Yellow: lipgloss.Color("#f9e2af"), Red: lipgloss.Color("#f38ba8"),
		Cyan: lipgloss.Color("#94e2d5"), Badge: lipgloss.Color("#1e1e2e"),
		Glamour: "dark",
	},
	"catppuccin-latte": {
		Border: lipgloss.Color("#ccd0da"), Muted: lipgloss.Color("#9ca0b0"),
		Text: lipgloss.Color("#4c4f69"), Subtle: lipgloss.Color("#6c6f85"),
		Accent: lipgloss.Color("#1e66f5"), Green: lipgloss.Color("#40a02b"),
		Yellow: lipgloss.Color("#df8e1d"), Red: lipgloss.Color("#d20f39"),
		Cyan: lipgloss.Color("#179299"), Badge: lipgloss.Color("#eff1f5"),
		Glamour: "light",
	},
	"nord": {
		Border: lipgloss.Color("#3b4252"), Muted: lipgloss.Color("#4c566a"),
		Text: lipgloss.Color("#eceff4"), Subtle: lipgloss.Color("#d8dee9"),
		Accent: lipgloss.Color("#88c0d0"), Green: lipgloss.Color("#a3be8c"),
		Yellow: lipgloss.Color("#ebcb8b"), Red: lipgloss.Color("#bf616a"),
		Cyan: lipgloss.Color("#8fbcbb"), Badge: lipgloss.Color("#2e3440"),
		Glamour: "dark",
	},
	"tokyo-night": {
		Border: lipgloss.Color("#292e42"), Muted: lipgloss.Color("#565f89"),
		Text: lipgloss.Color("#c0caf5"), Subtle: lipgloss.Color("#a9b1d6"),
		Accent: lipgloss.Color("#7aa2f7"), Green: lipgloss.Color("#9ece6a"),
		Yellow: lipgloss.Color("#e0af68"), Red: lipgloss.Color("#f7768e"),
		Cyan: lipgloss.Color("#7dcfff"), Badge: lipgloss.Color("#1a1b26"),
		Glamour: "tokyo-night",
	},
	"gruvbox": {
		Border: lipgloss.Color("#665c54"), Muted: lipgloss.Color("#a89984"),
		Text: lipgloss.Color("#ebdbb2"), Subtle: lipgloss.Color("#bdae93"),
		Accent: lipgloss.Color("#83a598"), Green: lipgloss.Color("#b8bb26"),
		Yellow: lipgloss.Color("#fabd2f"), Red: lipgloss.Color("#fb4934"),
		Cyan: lipgloss.Color("#8ec07c"), Badge: lipgloss.Color("#282828"),
		Glamour: "dark",
	},
}

// glamourStyle is the preview style picked by the active theme.
// "notty" renders plain text.
var glamourStyle = "auto"

// hyperlinkEnabled controls whether OSC 8 escape codes are emitted.
// Disabled when --no-color is active.
var hyperlinkEnabled = true

// InitTheme applies the named theme to the package-level color and style
// vars and to the logger. Call this before New. If noColor is true, all
// color output is disabled.
func InitTheme(name string, noColor bool) {
	if noColor {
		hyperlinkEnabled = false
		glamourStyle = "notty"
		lipgloss.SetColorProfile(termenv.Ascii)
		logger.SetColor(false)
		return
	}

	t, ok := themes[strings.ToLower(name)]
	if !ok {
		logger.Warn("Unknown theme %q, falling back to \"auto\"", name)
		t = themes["auto"]
	}

	colorBorder = t.Border
	colorMuted = t.Muted
	colorText = t.Text
	colorSubtle = t.Subtle
	colorAccent = t.Accent
	colorGreen = t.Green
	colorYellow = t.Yellow
	colorRed = t.Red
	colorCyan = t.Cyan
	colorOnBadge = t.Badge
	glamourStyle = t.Glamour
	if glamourStyle == "auto" {
		glamourStyle = "dark"
		if !lipgloss.HasDarkBackground() {
			glamourStyle = "light"
		}
	}

	rebuildStyles()
	logger.SetPalette(colorSubtle, colorCyan, colorGreen, colorYellow, colorRed)
}
