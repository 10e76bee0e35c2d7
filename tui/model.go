package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	lipgloss "github.com/charmbracelet/lipgloss"

	"github.com/nulifyer/pkgpilot/clipboard"
	"github.com/nulifyer/pkgpilot/config"
	"github.com/nulifyer/pkgpilot/logger"
	"github.com/nulifyer/pkgpilot/manifest"
	"github.com/nulifyer/pkgpilot/prompt"
	"github.com/nulifyer/pkgpilot/registry"
)

const (
	logPanelLines       = 6
	logPanelOuterHeight = logPanelLines + 4 // border(2) + title(1) + divider(1)
	maxLogLines         = 500
	minLayoutWidth      = 60
	maxLayoutWidth      = 120
)

// lookupResultMsg is the settled registry call for the lookup that
// was issued with token.
type lookupResultMsg struct {
	token uint64
	pkg   string
	meta  *registry.Metadata
	err   error
}

type depItem struct {
	dep manifest.Dependency
}

func (i depItem) Title() string {
	label := fmt.Sprintf("%s (%s)", i.dep.Name, i.dep.Range)
	if i.dep.Dev {
		label += " · dev"
	}
	return label
}

func (i depItem) Description() string {
	if i.dep.Dev {
		return "devDependency"
	}
	return "dependency"
}

func (i depItem) FilterValue() string { return i.dep.Name }

type Options struct {
	Mode        config.Mode
	Manifest    *manifest.Manifest
	ManifestErr error
	Client      registry.Client
	Clipboard   clipboard.Sink
	// Timeout bounds each lookup. Zero means no limit.
	Timeout time.Duration
	// Context is the parent of every lookup context. Defaults to
	// context.Background.
	Context context.Context
}

type Model struct {
	width  int
	height int

	mode        config.Mode
	manifest    *manifest.Manifest
	manifestErr error
	client      registry.Client
	sink        clipboard.Sink
	ctx         context.Context
	timeout     time.Duration

	keys    keyMap
	list    list.Model
	spinner spinner.Model
	sel     machine

	// preview is the rendered prompt for the current loadedState.
	preview string

	statusLine  string
	statusIsErr bool

	logLines []string
	logView  viewport.Model
	showLogs bool
}

func New(opts Options) Model {
	mf := opts.Manifest
	if mf == nil {
		mf = &manifest.Manifest{Dependencies: manifest.Dependencies{}}
	}
	mode := opts.Mode
	if mode == "" {
		mode = config.ModeAdvise
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleYellow

	items := make([]list.Item, len(mf.Dependencies))
	for i, dep := range mf.Dependencies {
		items[i] = depItem{dep: dep}
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(colorAccent).
		BorderLeftForeground(colorAccent)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(colorText)

	l := list.New(items, delegate, 40, 10)
	l.Title = "Select a package to analyze (Arrows + Enter):"
	l.Styles.Title = styleTextBold
	l.SetShowHelp(false)
	l.SetStatusBarItemName("package", "packages")
	l.DisableQuitKeybindings()

	return Model{
		mode:        mode,
		manifest:    mf,
		manifestErr: opts.ManifestErr,
		client:      opts.Client,
		sink:        opts.Clipboard,
		ctx:         ctx,
		timeout:     opts.Timeout,
		keys:        defaultKeyMap(),
		list:        l,
		spinner:     sp,
		sel:         newMachine(),
		logView:     viewport.New(80, logPanelLines),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case lookupResultMsg:
		m.applyResult(msg)
		return m, nil

	case logLineMsg:
		m.logLines = append(m.logLines, msg.line)
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		m.updateLogView()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	// list filtering reports back through its own messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	_, listing := m.sel.state.(noSelection)
	if listing && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		m.relayout()
		return nil
	}

	switch m.sel.state.(type) {
	case noSelection:
		if key.Matches(msg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(depItem)
			if !ok {
				return nil
			}
			return m.selectPackage(item.dep.Name)
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd

	case loadingState, errorState:
		if key.Matches(msg, m.keys.Back) && m.mode.AllowsBack() {
			m.goBack()
		}

	case loadedState:
		switch {
		case key.Matches(msg, m.keys.Copy) && m.mode.AllowsCopy():
			m.copyPrompt()
		case key.Matches(msg, m.keys.Back) && m.mode.AllowsBack():
			m.goBack()
		}
	}
	return nil
}

// selectPackage enters loadingState and issues the lookup.
func (m *Model) selectPackage(name string) tea.Cmd {
	token, ok := m.sel.begin(name)
	if !ok {
		return nil
	}
	m.preview = ""
	m.setStatus("", false)
	logger.Info("Analyzing %s (request %d)", name, token)
	return m.lookupCmd(name, token)
}

func (m *Model) lookupCmd(name string, token uint64) tea.Cmd {
	client := m.client
	parent := m.ctx
	timeout := m.timeout
	return func() tea.Msg {
		if client == nil {
			err := &registry.LookupError{Package: name, Err: errors.New("no registry client configured")}
			return lookupResultMsg{token: token, pkg: name, err: err}
		}
		ctx := parent
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(parent, timeout)
			defer cancel()
		}
		meta, err := client.Lookup(ctx, name)
		return lookupResultMsg{token: token, pkg: name, meta: meta, err: err}
	}
}

func (m *Model) applyResult(msg lookupResultMsg) {
	if msg.err == nil && msg.meta == nil {
		msg.err = &registry.LookupError{Package: msg.pkg, Err: errors.New("empty result")}
	}
	if !m.sel.resolve(msg.token, msg.meta, msg.err) {
		logger.Debug("Discarding stale result for %s (request %d)", msg.pkg, msg.token)
		return
	}
	if msg.err != nil {
		logger.Error("%v", msg.err)
		return
	}
	logger.Info("%s: latest %s", msg.pkg, msg.meta.Version)
	m.renderPreview()
}

func (m *Model) goBack() {
	if pkg, ok := selectedPackage(m.sel.state); ok {
		logger.Debug("Leaving %s", pkg)
	}
	if m.sel.reset() {
		m.preview = ""
		m.setStatus("", false)
	}
}

// copyPrompt writes the prompt on every call; the confirmation flag
// stays set until the selection changes.
func (m *Model) copyPrompt() {
	cur, ok := m.sel.state.(loadedState)
	if !ok {
		return
	}
	text := m.promptFor(cur)
	if m.sink == nil {
		m.sel.markCopied(false)
		m.setStatus("✗ No clipboard available", true)
		return
	}
	if err := m.sink.WriteText(text); err != nil {
		logger.Error("Copy failed: %v", err)
		m.sel.markCopied(false)
		m.setStatus("✗ "+err.Error(), true)
		return
	}
	logger.Debug("Copied prompt for %s", cur.pkg)
	m.sel.markCopied(true)
	m.setStatus("", false)
}

func (m Model) currentRange(pkg string) string {
	r, _ := m.manifest.Dependencies.Get(pkg)
	return r
}

func (m Model) promptFor(s loadedState) string {
	return prompt.Build(s.pkg, m.currentRange(s.pkg), s.meta.Version)
}

func (m *Model) renderPreview() {
	cur, ok := m.sel.state.(loadedState)
	if !ok || !m.mode.AllowsCopy() {
		m.preview = ""
		return
	}
	w := clampW(m.layoutWidth()-12, 20, maxLayoutWidth)
	md := prompt.Markdown(cur.pkg, m.currentRange(cur.pkg), cur.meta.Version)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle),
		glamour.WithWordWrap(w),
	)
	var out string
	if err == nil {
		out, err = r.Render(md)
	}
	if err != nil {
		logger.Debug("Prompt preview fell back to plain text: %v", err)
		m.preview = wordWrap(m.promptFor(cur), w)
		return
	}
	m.preview = strings.Trim(out, "\n")
}

func (m *Model) setStatus(text string, isErr bool) {
	text = firstLine(text)
	if maxW := m.layoutWidth() - 6; maxW > 3 {
		text = truncate(text, maxW)
	}
	m.statusLine = text
	m.statusIsErr = isErr
}

// layoutWidth returns the effective width for the main content area,
// capped so the UI stays readable on ultra-wide terminals.
func (m Model) layoutWidth() int {
	return clampW(m.width, minLayoutWidth, maxLayoutWidth)
}

func (m *Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderFooter())
	if m.showLogs {
		h -= logPanelOuterHeight
	}
	if h < 8 {
		h = 8
	}
	return h
}

func (m *Model) relayout() {
	inner := m.layoutWidth() - 4 // panel border + padding
	listH := m.bodyHeight() - 4  // panel border + padding
	if m.manifestErr != nil {
		listH--
	}
	if listH < 3 {
		listH = 3
	}
	m.list.SetSize(inner, listH)
	m.logView.Width = m.layoutWidth() - 4
	m.logView.Height = logPanelLines
	if _, ok := m.sel.state.(loadedState); ok {
		m.renderPreview()
	}
}

func (m *Model) updateLogView() {
	colored := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		colored[i] = colorizeLogLine(line)
	}
	m.logView.SetContent(strings.Join(colored, "\n"))
	m.logView.GotoBottom()
}
