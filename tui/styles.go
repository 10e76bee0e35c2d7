package tui

import lipgloss "github.com/charmbracelet/lipgloss"

var (
	colorBorder  lipgloss.TerminalColor = lipgloss.Color("#30363d")
	colorMuted   lipgloss.TerminalColor = lipgloss.Color("#484f58")
	colorText    lipgloss.TerminalColor = lipgloss.Color("#e6edf3")
	colorSubtle  lipgloss.TerminalColor = lipgloss.Color("#8b949e")
	colorAccent  lipgloss.TerminalColor = lipgloss.Color("#58a6ff")
	colorGreen   lipgloss.TerminalColor = lipgloss.Color("#3fb950")
	colorYellow  lipgloss.TerminalColor = lipgloss.Color("#d29922")
	colorRed     lipgloss.TerminalColor = lipgloss.Color("#f85149")
	colorCyan    lipgloss.TerminalColor = lipgloss.Color("#56d7c2")
	colorOnBadge lipgloss.TerminalColor = lipgloss.Color("#0d1117")
)

var (
	// text styles
	styleMuted      lipgloss.Style
	styleSubtle     lipgloss.Style
	styleText       lipgloss.Style
	styleTextBold   lipgloss.Style
	styleAccent     lipgloss.Style
	styleAccentBold lipgloss.Style
	styleGreen      lipgloss.Style
	styleGreenBold  lipgloss.Style
	styleYellow     lipgloss.Style
	styleRed        lipgloss.Style
	styleRedBold    lipgloss.Style
	styleCyan       lipgloss.Style
	styleCyanBold   lipgloss.Style
	styleBorder     lipgloss.Style

	// badges
	styleNameBadge lipgloss.Style
	styleKeyBadge  lipgloss.Style

	// layout styles
	styleHeaderTitle lipgloss.Style
	styleHeaderBar   lipgloss.Style
	styleFooterBar   lipgloss.Style
	stylePanel       lipgloss.Style
	styleDetailPanel lipgloss.Style
	styleAdvicePanel lipgloss.Style
)

func init() { rebuildStyles() }

// rebuildStyles reassigns every style var from the current color vars.
func rebuildStyles() {
	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
	styleSubtle = lipgloss.NewStyle().Foreground(colorSubtle)
	styleText = lipgloss.NewStyle().Foreground(colorText)
	styleTextBold = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleAccentBold = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleGreen = lipgloss.NewStyle().Foreground(colorGreen)
	styleGreenBold = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed = lipgloss.NewStyle().Foreground(colorRed)
	styleRedBold = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleCyan = lipgloss.NewStyle().Foreground(colorCyan)
	styleCyanBold = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorBorder)

	styleNameBadge = lipgloss.NewStyle().Bold(true).Reverse(true)
	styleKeyBadge = lipgloss.NewStyle().Bold(true).Foreground(colorOnBadge).Background(colorAccent)

	styleHeaderTitle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Underline(true).Padding(0, 2)
	styleHeaderBar = lipgloss.NewStyle().BorderBottom(true).BorderStyle(lipgloss.NormalBorder()).BorderBottomForeground(colorBorder)
	styleFooterBar = lipgloss.NewStyle().BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderTopForeground(colorBorder).Padding(0, 2)
	stylePanel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(1)
	styleDetailPanel = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorYellow).Padding(1)
	styleAdvicePanel = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorMuted).Padding(0, 1)
}
