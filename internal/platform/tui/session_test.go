package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/core"
)

func sendSession(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 30}
	m := NewSessionModel(openStore(t), cfg, "ann")

	m, _ = sendSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %v, expected scoreboard", m.screen)
	}

	m, _ = sendSession(t, m, runeKey('r'))
	if m.scoreboard.view != viewRuns {
		t.Error("r should switch to the runs view")
	}

	m, cmd := sendSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu || m.quitting {
		t.Fatalf("esc should return to the menu, screen = %v quitting = %v", m.screen, m.quitting)
	}
	if cmd != nil {
		t.Error("returning to the menu must not end the session")
	}
}

func TestSessionQuitFromMenu(t *testing.T) {
	m := NewSessionModel(nil, core.DefaultConfig(), "ann")

	m, cmd := sendSession(t, m, runeKey('q'))
	if !m.quitting || cmd == nil {
		t.Error("q in the menu should end the session")
	}
	if m.View() != "" {
		t.Error("quitting session should render nothing")
	}
}
