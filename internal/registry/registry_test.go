package registry

import (
	"testing"

	"github.com/vovakirdan/tui-match3/internal/core"
)

type stubGame struct {
	id, title, desc string
}

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return g.title }
func (g *stubGame) Description() string                  { return g.desc }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func stub(id, title, desc string) Factory {
	return func() Game { return &stubGame{id: id, title: title, desc: desc} }
}

func TestRegistryListSorted(t *testing.T) {
	r := New()
	r.Register("match3_cascade", stub("match3_cascade", "Cascade", "pop groups"))
	r.Register("match3", stub("match3", "Tile Collect", "collect triples"))

	got := r.List()
	if len(got) != 2 {
		t.Fatalf("List() len = %d, expected 2", len(got))
	}
	if got[0].ID != "match3" || got[1].ID != "match3_cascade" {
		t.Errorf("List() not sorted: %+v", got)
	}
	if got[0].Title != "Tile Collect" || got[0].Description != "collect triples" {
		t.Errorf("metadata not captured: %+v", got[0])
	}
}

func TestRegistryCreate(t *testing.T) {
	r := New()
	r.Register("match3", stub("match3", "Tile Collect", ""))

	g, err := r.Create("match3")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "match3" {
		t.Errorf("Create() returned %q", g.ID())
	}
	if !r.Exists("match3") || r.Exists("tetris") {
		t.Error("Exists() reported wrong membership")
	}
	if _, err := r.Create("tetris"); err == nil {
		t.Error("Create() of unknown id should fail")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := New()
	r.Register("match3", stub("match3", "Tile Collect", ""))

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	r.Register("match3", stub("match3", "Again", ""))
}
