package tui

import (
	"github.com/nulifyer/pkgpilot/registry"
)

// selection is the detail pane's state. Exactly one of noSelection,
// loadingState, loadedState or errorState is active.
type selection interface {
	isSelection()
}

type noSelection struct{}

type loadingState struct {
	pkg   string
	token uint64
}

type loadedState struct {
	pkg  string
	meta *registry.Metadata
	// copied stays set until the state changes so the confirmation
	// remains visible.
	copied bool
}

type errorState struct {
	pkg string
	err error
}

func (noSelection) isSelection()  {}
func (loadingState) isSelection() {}
func (loadedState) isSelection()  {}
func (errorState) isSelection()   {}

// selectedPackage returns the package the state refers to, if any.
func selectedPackage(s selection) (string, bool) {
	switch s := s.(type) {
	case loadingState:
		return s.pkg, true
	case loadedState:
		return s.pkg, true
	case errorState:
		return s.pkg, true
	default:
		return "", false
	}
}

// machine drives selection transitions. Every lookup gets a fresh
// token; a result is applied only while its token is the one in flight.
type machine struct {
	state     selection
	lastToken uint64
}

func newMachine() machine {
	return machine{state: noSelection{}}
}

// begin enters loadingState for pkg. Only valid from noSelection.
func (m *machine) begin(pkg string) (uint64, bool) {
	if _, ok := m.state.(noSelection); !ok {
		return 0, false
	}
	m.lastToken++
	m.state = loadingState{pkg: pkg, token: m.lastToken}
	return m.lastToken, true
}

// resolve applies a lookup result. It reports false when the result is
// stale: the selection moved on or another lookup superseded it.
func (m *machine) resolve(token uint64, meta *registry.Metadata, err error) bool {
	cur, ok := m.state.(loadingState)
	if !ok || cur.token != token {
		return false
	}
	if err != nil {
		m.state = errorState{pkg: cur.pkg, err: err}
		return true
	}
	m.state = loadedState{pkg: cur.pkg, meta: meta}
	return true
}

// reset returns to noSelection. Any lookup in flight becomes stale.
func (m *machine) reset() bool {
	if _, ok := m.state.(noSelection); ok {
		return false
	}
	m.state = noSelection{}
	return true
}

// markCopied records a successful copy. Only valid in loadedState.
func (m *machine) markCopied(copied bool) bool {
	cur, ok := m.state.(loadedState)
	if !ok {
		return false
	}
	cur.copied = copied
	m.state = cur
	return true
}
