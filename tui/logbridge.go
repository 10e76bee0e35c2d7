package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nulifyer/pkgpilot/logger"
)

type logLineMsg struct {
	line string
}

// LogLine wraps a log line for delivery with Program.Send.
func LogLine(line string) tea.Msg { return logLineMsg{line: line} }

// LogBridge routes logger output into the log panel. Lines written
// before Attach are held and replayed once the program is running.
// Forwarding never blocks the writer, since the writer may be the
// program's own event loop.
type LogBridge struct {
	mu      sync.Mutex
	pending []string
	ch      chan string
	done    chan struct{}
}

func NewLogBridge() *LogBridge { return &LogBridge{} }

func (b *LogBridge) Writer() io.Writer {
	return &logger.LineWriter{Emit: b.emit}
}

func (b *LogBridge) emit(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch == nil {
		b.pending = append(b.pending, line)
		return
	}
	select {
	case b.ch <- line:
	default: // panel is behind, drop the line
	}
}

// Attach starts forwarding to send, usually (*tea.Program).Send.
func (b *LogBridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	if b.ch != nil {
		b.mu.Unlock()
		return
	}
	pending := b.pending
	b.pending = nil
	b.ch = make(chan string, 256)
	b.done = make(chan struct{})
	ch, done := b.ch, b.done
	b.mu.Unlock()

	go func() {
		defer close(done)
		for _, line := range pending {
			send(LogLine(line))
		}
		for line := range ch {
			send(LogLine(line))
		}
	}()
}

// Close stops forwarding and waits for queued lines to be sent.
func (b *LogBridge) Close() {
	b.mu.Lock()
	ch, done := b.ch, b.done
	b.ch = nil
	b.mu.Unlock()
	if ch == nil {
		return
	}
	close(ch)
	<-done
}
