package tui

import (
	"errors"
	"testing"

	"github.com/nulifyer/pkgpilot/registry"
)

func TestMachine_BeginFromNoSelection(t *testing.T) {
	m := newMachine()
	token, ok := m.begin("react")
	if !ok {
		t.Fatal("begin from noSelection should succeed")
	}
	cur, isLoading := m.state.(loadingState)
	if !isLoading {
		t.Fatalf("state = %T, want loadingState", m.state)
	}
	if cur.pkg != "react" || cur.token != token {
		t.Errorf("got %+v, want pkg react token %d", cur, token)
	}
}

func TestMachine_BeginRejectedOutsideNoSelection(t *testing.T) {
	m := newMachine()
	m.begin("react")
	if _, ok := m.begin("vue"); ok {
		t.Error("begin while loading should be rejected")
	}
	if pkg, _ := selectedPackage(m.state); pkg != "react" {
		t.Errorf("selected = %q, want react", pkg)
	}
}

func TestMachine_ResolveSuccess(t *testing.T) {
	m := newMachine()
	token, _ := m.begin("react")
	meta := &registry.Metadata{Name: "react", Version: "18.2.0"}
	if !m.resolve(token, meta, nil) {
		t.Fatal("resolve with current token should apply")
	}
	cur, ok := m.state.(loadedState)
	if !ok {
		t.Fatalf("state = %T, want loadedState", m.state)
	}
	if cur.meta != meta || cur.copied {
		t.Errorf("got %+v", cur)
	}
}

func TestMachine_ResolveFailure(t *testing.T) {
	m := newMachine()
	token, _ := m.begin("react")
	boom := errors.New("boom")
	m.resolve(token, nil, boom)
	cur, ok := m.state.(errorState)
	if !ok {
		t.Fatalf("state = %T, want errorState", m.state)
	}
	if !errors.Is(cur.err, boom) {
		t.Errorf("err = %v", cur.err)
	}
}

func TestMachine_ResolveOnlyOnce(t *testing.T) {
	m := newMachine()
	token, _ := m.begin("react")
	m.resolve(token, &registry.Metadata{Version: "1.0.0"}, nil)
	if m.resolve(token, nil, errors.New("late")) {
		t.Error("second result for the same token should be discarded")
	}
	if _, ok := m.state.(loadedState); !ok {
		t.Errorf("state = %T, want loadedState", m.state)
	}
}

func TestMachine_StaleTokenDiscarded(t *testing.T) {
	m := newMachine()
	first, _ := m.begin("react")
	m.reset()
	second, _ := m.begin("vue")
	if second <= first {
		t.Fatalf("tokens not increasing: %d then %d", first, second)
	}

	if m.resolve(first, &registry.Metadata{Version: "18.2.0"}, nil) {
		t.Error("stale result applied")
	}
	cur, ok := m.state.(loadingState)
	if !ok || cur.pkg != "vue" {
		t.Fatalf("state = %#v, want loading vue", m.state)
	}
	if !m.resolve(second, &registry.Metadata{Version: "3.4.0"}, nil) {
		t.Error("current result discarded")
	}
}

func TestMachine_ResultAfterResetDiscarded(t *testing.T) {
	m := newMachine()
	token, _ := m.begin("react")
	m.reset()
	if m.resolve(token, &registry.Metadata{}, nil) {
		t.Error("result applied after reset")
	}
	if _, ok := m.state.(noSelection); !ok {
		t.Errorf("state = %T, want noSelection", m.state)
	}
}

func TestMachine_Reset(t *testing.T) {
	m := newMachine()
	if m.reset() {
		t.Error("reset from noSelection should report no change")
	}
	token, _ := m.begin("react")
	m.resolve(token, nil, errors.New("x"))
	if !m.reset() {
		t.Error("reset from errorState should succeed")
	}
	if _, ok := selectedPackage(m.state); ok {
		t.Error("noSelection should have no package")
	}
}

func TestMachine_MarkCopied(t *testing.T) {
	m := newMachine()
	if m.markCopied(true) {
		t.Error("markCopied outside loadedState should fail")
	}
	token, _ := m.begin("react")
	if m.markCopied(true) {
		t.Error("markCopied while loading should fail")
	}
	m.resolve(token, &registry.Metadata{Version: "1.0.0"}, nil)
	if !m.markCopied(true) {
		t.Fatal("markCopied in loadedState should succeed")
	}
	if cur := m.state.(loadedState); !cur.copied {
		t.Error("copied flag not set")
	}
	m.markCopied(false)
	if cur := m.state.(loadedState); cur.copied {
		t.Error("copied flag not cleared")
	}
}
