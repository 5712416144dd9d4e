package match3

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

// useConfig points the package at a temporary match3.yaml and restores
// the package settings after the test.
func useConfig(t *testing.T, yaml string, auto AutoplayMode) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match3.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	SetDifficultyPreset("")
	SetAutoplay(auto)
	t.Cleanup(func() {
		SetConfigPath("")
		SetDifficultyPreset("")
		SetAutoplay(AutoplayOff)
	})
}

func runtimeConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: seed}
}

func newCollect(t *testing.T, yaml string, auto AutoplayMode) *Game {
	t.Helper()
	useConfig(t, yaml, auto)
	g := New()
	g.Reset(runtimeConfig(7))
	return g
}

func newCascade(t *testing.T, yaml string, auto AutoplayMode) *CascadeGame {
	t.Helper()
	useConfig(t, yaml, auto)
	g := NewCascade()
	g.Reset(runtimeConfig(7))
	return g
}

// press steps once with the given actions held.
func press(g registry.Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

// idle steps n times without input.
func idle(g registry.Game, n int) {
	for range n {
		g.Step(core.NewInputFrame())
	}
}

// settle steps until removal effects finish.
func settle(t *testing.T, g registry.Game) {
	t.Helper()
	for range 100 {
		if !g.State().Busy {
			return
		}
		g.Step(core.NewInputFrame())
	}
	t.Fatal("game stayed busy")
}

// runUntilOver steps without input until the round ends.
func runUntilOver(t *testing.T, g registry.Game, limit int) {
	t.Helper()
	for range limit {
		if g.State().GameOver {
			return
		}
		g.Step(core.NewInputFrame())
	}
	t.Fatalf("round not over after %d ticks", limit)
}

// smallTable builds an empty 3x3 over 4x4 table for hand-made layouts.
func smallTable(t *testing.T, p engine.Presenter) *engine.Table {
	t.Helper()
	svc, err := engine.NewServices(engine.Settings{
		MinMatch:         3,
		BoardSize:        3,
		BackpackCapacity: 3,
		ItemTypes:        3,
		MaxCascadePasses: 8,
	}, engine.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		svc.Presenter = p
	}
	table, err := engine.NewTable(svc)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func put(t *testing.T, b *engine.Board, x, y int, nt engine.NormalType) {
	t.Helper()
	if _, err := b.Place(x, y, engine.Normal{Type: nt}); err != nil {
		t.Fatal(err)
	}
}
