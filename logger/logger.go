package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	lipgloss "github.com/charmbracelet/lipgloss"
)

type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// ExpectedLevels lists every spelling ParseLevel understands.
var ExpectedLevels = []string{"none", "error", "err", "warn", "warning", "info", "debug", "dbg", "trace", "trc"}

var (
	level        = LevelWarn
	colorEnabled = true
	outWriter    io.Writer // nil = os.Stdout / os.Stderr per-level
	errWriter    io.Writer // nil = os.Stderr
	mu           sync.Mutex
)

var (
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("#56d7c2"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d29922"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
)

// SetPalette restyles the level prefixes. Called when a theme is applied.
func SetPalette(trace, debug, info, warn, err lipgloss.TerminalColor) {
	mu.Lock()
	defer mu.Unlock()
	styleTrace = lipgloss.NewStyle().Foreground(trace)
	styleDebug = lipgloss.NewStyle().Foreground(debug)
	styleInfo = lipgloss.NewStyle().Foreground(info)
	styleWarn = lipgloss.NewStyle().Foreground(warn)
	styleError = lipgloss.NewStyle().Foreground(err)
}

// SetOutput redirects every level to w. Pass nil to restore stdout/stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	outWriter = w
	errWriter = w
}

func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

func SetColor(f bool) {
	mu.Lock()
	defer mu.Unlock()
	colorEnabled = f
}

func ParseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "none":
		return LevelNone
	case "error", "err":
		return LevelError
	case "", "warn", "warning":
		return LevelWarn
	case "info":
		return LevelInfo
	case "debug", "dbg":
		return LevelDebug
	case "trace", "trc":
		return LevelTrace
	default:
		return LevelWarn
	}
}

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func stdOut() io.Writer {
	if outWriter != nil {
		return outWriter
	}
	return os.Stdout
}

func stdErr() io.Writer {
	if errWriter != nil {
		return errWriter
	}
	return os.Stderr
}

// useColor returns true only when color is enabled AND output has not been
// redirected. A custom writer (e.g. the TUI log panel) receives plain text
// so the TUI can apply its own styling.
func useColor() bool {
	return colorEnabled && outWriter == nil
}

func emit(min Level, prefix string, style lipgloss.Style, toErr bool, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if level < min {
		return
	}
	w := stdOut()
	if toErr {
		w = stdErr()
	}
	msg := fmt.Sprintf(format, v...)
	if useColor() {
		fmt.Fprintf(w, "%s %s\n", style.Render(prefix), msg)
	} else {
		fmt.Fprintf(w, "%s %s\n", prefix, msg)
	}
}

func Trace(format string, v ...interface{}) {
	emit(LevelTrace, "[TRACE]", styleTrace, false, format, v...)
}

func Debug(format string, v ...interface{}) {
	emit(LevelDebug, "[DEBUG]", styleDebug, false, format, v...)
}

func Info(format string, v ...interface{}) {
	emit(LevelInfo, "[INFO]", styleInfo, false, format, v...)
}

func Warn(format string, v ...interface{}) {
	emit(LevelWarn, "[WARN]", styleWarn, true, format, v...)
}

func Error(format string, v ...interface{}) {
	emit(LevelError, "[ERROR]", styleError, true, format, v...)
}

// Fatal always prints to stderr and exits, regardless of the current log level.
func Fatal(format string, v ...interface{}) {
	mu.Lock()
	msg := fmt.Sprintf(format, v...)
	if useColor() {
		fmt.Fprintf(stdErr(), "%s %s\n", styleError.Render("[FATAL]"), msg)
	} else {
		fmt.Fprintf(stdErr(), "[FATAL] %s\n", msg)
	}
	mu.Unlock()
	os.Exit(1)
}

// LineWriter buffers writes and hands every complete line to Emit.
// Used to forward log output into the TUI while the alt screen is active.
type LineWriter struct {
	Emit func(line string)

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		if w.Emit != nil {
			w.Emit(strings.TrimRight(line, "\r\n"))
		}
	}
	return len(p), nil
}
