package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"github.com/nulifyer/pkgpilot/logger"
)

var ErrClipboard = errors.New("clipboard write failed")

// Error wraps a failed write. Every backend's failure is kept.
type Error struct {
	Errs []error
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %s", ErrClipboard, strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() []error { return append([]error{ErrClipboard}, e.Errs...) }

// Sink receives a payload and forgets it.
type Sink interface {
	WriteText(text string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string) error

func (f SinkFunc) WriteText(text string) error { return f(text) }

// System writes through the OS clipboard utility first (pbcopy, xclip,
// wl-copy, Windows API) and falls back to an OSC 52 escape sequence on
// the controlling terminal, which also works over SSH.
type System struct {
	// Native is the OS clipboard writer. Nil skips straight to OSC 52.
	Native func(string) error
	// Terminal opens the device the OSC 52 sequence is written to.
	Terminal func() (io.WriteCloser, error)
	// DisableOSC52 skips the terminal fallback.
	DisableOSC52 bool
}

// NewSystem leaves Native unset when no clipboard utility was found.
func NewSystem() *System {
	s := &System{Terminal: openTTY}
	if !atotto.Unsupported {
		s.Native = atotto.WriteAll
	}
	return s
}

func (s *System) WriteText(text string) error {
	var errs []error

	if s.Native != nil {
		err := s.Native(text)
		if err == nil {
			logger.Debug("Copied %d bytes via system clipboard", len(text))
			return nil
		}
		logger.Debug("System clipboard failed: %v", err)
		errs = append(errs, err)
	}

	if s.DisableOSC52 {
		return &Error{Errs: append(errs, errors.New("no system clipboard available"))}
	}
	if err := s.writeOSC52(text); err != nil {
		return &Error{Errs: append(errs, err)}
	}
	logger.Debug("Copied %d bytes via OSC 52", len(text))
	return nil
}

func (s *System) writeOSC52(text string) error {
	open := s.Terminal
	if open == nil {
		open = openTTY
	}
	w, err := open()
	if err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	defer w.Close()

	seq := osc52.New(text)
	term := os.Getenv("TERM")
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(term, "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(w); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

func openTTY() (io.WriteCloser, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}
