package match3

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/core"
)

func TestCascadeResetSettles(t *testing.T) {
	g := newCascade(t, "", AutoplayOff)
	snap := g.Snapshot()

	if snap.Remaining != 81 {
		t.Errorf("Remaining = %d, expected a full 9x9 board", snap.Remaining)
	}
	if snap.Moves != 30 {
		t.Errorf("Moves = %d, expected 30", snap.Moves)
	}
	if snap.Score != 0 {
		t.Errorf("opening cascades should not score, got %d", snap.Score)
	}
	if len(g.resolver.FindMatches()) != 0 {
		t.Error("opening board still has matches")
	}
}

func TestCascadePopSpendsAMove(t *testing.T) {
	g := newCascade(t, "", AutoplayOff)

	press(g, core.ActionConfirm)

	snap := g.Snapshot()
	if snap.Moves != 29 {
		t.Errorf("Moves = %d, expected 29", snap.Moves)
	}
	if snap.Score < 1 {
		t.Errorf("Score = %d, a pop scores at least its own tile", snap.Score)
	}
	if snap.Remaining != 81 {
		t.Errorf("board not refilled, Remaining = %d", snap.Remaining)
	}
	if !g.State().Busy {
		t.Error("explosion should keep the board busy for a few ticks")
	}

	// Input is ignored while busy.
	press(g, core.ActionConfirm)
	if g.Snapshot().Moves != 29 {
		t.Error("pop accepted while busy")
	}

	settle(t, g)
	press(g, core.ActionConfirm)
	if g.Snapshot().Moves != 28 {
		t.Error("pop ignored after settling")
	}
}

func TestCascadeOutOfMoves(t *testing.T) {
	g := newCascade(t, "cascade:\n  moves: 2\n", AutoplayOff)

	press(g, core.ActionConfirm)
	settle(t, g)
	press(g, core.ActionConfirm)

	if !g.State().GameOver {
		t.Fatal("round should end when moves run out")
	}
	if g.Snapshot().State != StateOver {
		t.Errorf("State = %s", g.Snapshot().State)
	}
	if ri := g.RunInfo(); ri.Outcome != "won" || ri.Autoplay != "" {
		t.Errorf("RunInfo = %+v", ri)
	}

	dst := core.NewScreen(80, 24)
	g.Render(dst)
	if !strings.Contains(dst.String(), "OUT OF MOVES") {
		t.Error("game over overlay not drawn")
	}
}

func TestCascadeAutoplayPlaysOut(t *testing.T) {
	g := newCascade(t, "cascade:\n  moves: 3\nautoplay:\n  delay_ms: 1\n", AutoplayWin)

	runUntilOver(t, g, 500)

	if g.Snapshot().Moves != 0 {
		t.Errorf("Moves = %d, expected 0", g.Snapshot().Moves)
	}
	if ri := g.RunInfo(); ri.Autoplay != "win" {
		t.Errorf("RunInfo = %+v", ri)
	}
}

func TestCascadeHint(t *testing.T) {
	g := newCascade(t, "", AutoplayOff)

	press(g, core.ActionHint)
	if len(g.hint) != 1 || g.hint[0].IsEmpty() {
		t.Fatalf("hint = %v, expected one occupied cell", g.hint)
	}
	press(g, core.ActionLeft)
	if g.hint != nil {
		t.Error("moving the cursor should hide the hint")
	}
}

func TestCascadeRender(t *testing.T) {
	g := newCascade(t, "", AutoplayOff)
	dst := core.NewScreen(80, 24)

	g.Render(dst)
	out := dst.String()
	for _, want := range []string{"CASCADE", "Score: 0", "Moves: 30", "Enter: Pop"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}
