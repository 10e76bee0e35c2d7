package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	lipgloss "github.com/charmbracelet/lipgloss"

	"github.com/nulifyer/pkgpilot/prompt"
	"github.com/nulifyer/pkgpilot/registry"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	parts := []string{m.renderHeader(), m.renderBody()}
	if m.showLogs {
		parts = append(parts, m.renderLogPanel())
	}
	parts = append(parts, m.renderFooter())
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Center the content when the terminal is wider than the max layout width.
	if m.width > m.layoutWidth() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
	}
	return content
}

func (m Model) renderHeader() string {
	title := styleHeaderTitle.Render("◈ Smart Package Pilot")

	var sub string
	switch {
	case m.manifest.Name != "" && m.manifest.Version != "":
		sub = fmt.Sprintf("%s@%s", m.manifest.Name, m.manifest.Version)
	case m.manifest.Name != "":
		sub = m.manifest.Name
	default:
		sub = "npm dependency advisor"
	}
	count := len(m.manifest.Dependencies)
	noun := "dependencies"
	if count == 1 {
		noun = "dependency"
	}
	subtitle := styleSubtle.Render(fmt.Sprintf("%s · %d %s · %s mode", sub, count, noun, m.mode))

	return styleHeaderBar.
		Width(m.layoutWidth()).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", subtitle))
}

func (m Model) renderBody() string {
	innerW := m.layoutWidth() - 4

	var content string
	panel := stylePanel
	switch s := m.sel.state.(type) {
	case noSelection:
		content = m.renderPicker()
	case loadingState:
		content = m.spinner.View() + " " + styleYellow.Render("Analyzing package "+s.pkg)
	case loadedState:
		panel = styleDetailPanel
		content = m.renderDetail(s, innerW)
	case errorState:
		content = m.renderError(s, innerW)
	}

	return panel.Width(m.layoutWidth() - 2).Render(content)
}

func (m Model) renderPicker() string {
	var lines []string
	if m.manifestErr != nil {
		lines = append(lines, styleRedBold.Render(firstLine(m.manifestErr.Error())))
	}
	if len(m.manifest.Dependencies) == 0 {
		lines = append(lines, styleMuted.Render("No dependencies to display"))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, m.list.View())
	return strings.Join(lines, "\n")
}

func (m Model) renderError(s errorState, w int) string {
	lines := []string{
		styleRedBold.Render("Error: ") + styleRed.Render(wordWrap(s.err.Error(), w-7)),
	}
	if m.mode.AllowsBack() {
		lines = append(lines, "", styleSubtle.Render("Press 'B' to return to list"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail(s loadedState, w int) string {
	meta := s.meta
	var lines []string

	lines = append(lines, styleNameBadge.Render(" "+s.pkg+" "))
	if meta.Description != "" {
		lines = append(lines, styleText.Render(wordWrap(meta.Description, w)))
	}

	if m.mode.ShowsVersions() {
		lines = append(lines, "")
		lines = append(lines, m.renderVersions(s.pkg, meta)...)
		lines = append(lines, m.renderFacts(meta)...)
	}

	if m.mode.AllowsCopy() {
		lines = append(lines, "", m.renderAdvice(s, w))
	}
	if m.mode.AllowsBack() {
		lines = append(lines, "", styleSubtle.Render("Press 'B' to return to list"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderVersions(pkg string, meta *registry.Metadata) []string {
	current := m.currentRange(pkg)
	label := func(s string) string { return styleSubtle.Render(fmt.Sprintf("%-10s", s)) }

	var badge string
	if prompt.IsOutdated(current, meta.Version) {
		badge = styleRedBold.Render("OUTDATED")
	} else {
		badge = styleGreenBold.Render("UP TO DATE")
	}

	lines := []string{
		label("Current:") + styleText.Render(current),
		label("Latest:") + styleCyanBold.Render(meta.Version) + "  " + badge,
	}

	var notes []string
	switch change := prompt.Classify(current, meta.Version); change {
	case prompt.ChangeUnknown, prompt.ChangeNone:
	case prompt.ChangeDowngrade:
		notes = append(notes, styleYellow.Render("latest is older than declared"))
	default:
		notes = append(notes, styleYellow.Render(change.String()+" update"))
	}
	if ok, known := prompt.Satisfies(current, meta.Version); known {
		if ok {
			notes = append(notes, styleGreen.Render("range admits latest"))
		} else {
			notes = append(notes, styleMuted.Render("range excludes latest"))
		}
	}
	if len(notes) > 0 {
		lines = append(lines, label("")+strings.Join(notes, styleMuted.Render(" · ")))
	}
	return lines
}

func (m Model) renderFacts(meta *registry.Metadata) []string {
	label := func(s string) string { return styleSubtle.Render(fmt.Sprintf("%-10s", s)) }
	var lines []string
	if meta.License != "" {
		lines = append(lines, label("License:")+styleText.Render(meta.License))
	}
	if meta.Homepage != "" {
		lines = append(lines, label("Homepage:")+styleAccent.Render(hyperlink(meta.Homepage, meta.Homepage)))
	}
	if ago := timeAgo(meta.Modified); ago != "" {
		lines = append(lines, label("Updated:")+styleText.Render(ago))
	}
	return lines
}

func (m Model) renderAdvice(s loadedState, w int) string {
	lines := []string{
		styleAccentBold.Render("AI Consultation"),
		styleText.Render("Press ") + styleKeyBadge.Render(" C ") + styleText.Render(" to copy Copilot prompt"),
		styleMuted.Render("Includes breaking changes & migration strategy"),
	}
	if m.preview != "" {
		lines = append(lines, "", m.preview)
	}
	if s.copied {
		lines = append(lines, "", styleGreenBold.Render("✓ Prompt copied to clipboard! Paste into Copilot"))
	}
	return styleAdvicePanel.Width(w - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderLogPanel() string {
	title := styleAccentBold.Render("Logs")
	div := styleBorder.Render(strings.Repeat("─", m.layoutWidth()-6))
	content := lipgloss.JoinVertical(lipgloss.Left, title, div, m.logView.View())

	return stylePanel.Padding(0, 1).Width(m.layoutWidth() - 2).Render(content)
}

func (m Model) footerKeys() []key.Binding {
	var keys []key.Binding
	switch m.sel.state.(type) {
	case noSelection:
		keys = append(keys, m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Filter)
	case loadingState, errorState:
		if m.mode.AllowsBack() {
			keys = append(keys, m.keys.Back)
		}
	case loadedState:
		if m.mode.AllowsCopy() {
			keys = append(keys, m.keys.Copy)
		}
		if m.mode.AllowsBack() {
			keys = append(keys, m.keys.Back)
		}
	}
	return append(keys, m.keys.Logs, m.keys.Quit)
}

func (m Model) renderFooter() string {
	w := m.layoutWidth() - 4 // padding
	var lines []string
	var cur []string
	curW := 0
	sep := "  ·  "
	sepW := lipgloss.Width(sep)

	for _, b := range m.footerKeys() {
		h := b.Help()
		entry := styleAccentBold.Render(h.Key) + " " + styleSubtle.Render(h.Desc)
		entryW := lipgloss.Width(h.Key) + 1 + lipgloss.Width(h.Desc)

		needed := entryW
		if len(cur) > 0 {
			needed += sepW
		}
		if curW+needed > w && len(cur) > 0 {
			lines = append(lines, strings.Join(cur, sep))
			cur = nil
			curW = 0
		}
		cur = append(cur, entry)
		if curW > 0 {
			curW += sepW
		}
		curW += entryW
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, sep))
	}

	// always reserve the status row so height is stable
	statusStr := ""
	if m.statusLine != "" {
		s := styleGreen
		if m.statusIsErr {
			s = styleRed
		}
		statusStr = s.Render(m.statusLine)
	}

	return styleFooterBar.
		Width(m.layoutWidth()).
		Render(statusStr + "\n" + strings.Join(lines, "\n"))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
