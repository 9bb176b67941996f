package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"wstok/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("tokenize", []string{"a.txt", "b.txt"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.txt", Status: driver.StatusWorking})
	m.Update(eventMsg{File: "a.txt", Status: driver.StatusDone, Tokens: 7})
	m.Update(eventMsg{File: "b.txt", Status: driver.StatusError})
	m.Update(eventMsg{File: "unknown.txt", Status: driver.StatusDone, Tokens: 100})

	if m.finished != 2 || m.tokens != 7 {
		t.Fatalf("finished=%d tokens=%d", m.finished, m.tokens)
	}
	view := m.View()
	for _, want := range []string{"(2/2 files, 7 tokens)", "a.txt (7)", "error b.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}

	// повторное done не считается дважды
	m.Update(eventMsg{File: "a.txt", Status: driver.StatusDone, Tokens: 7})
	if m.finished != 2 {
		t.Errorf("finished = %d after duplicate event", m.finished)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("tokenize", []string{"a.txt"}, events).(*progressModel)

	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !strings.HasPrefix(m.View(), "done: ") && !strings.Contains(m.View(), "done: ") {
		t.Errorf("view after done:\n%s", m.View())
	}
}

func TestProgressModelQuitsOnCtrlC(t *testing.T) {
	m := NewProgressModel("tokenize", []string{"a.txt"}, make(chan driver.Event)).(*progressModel)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.done {
		t.Error("interrupted run must not render as done")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Error("other keys must be ignored")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
