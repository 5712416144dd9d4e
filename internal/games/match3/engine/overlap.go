package engine

import "fmt"

var coverOffsets = [4]Vec2{
	{X: -0.5, Y: -0.5},
	{X: 0.5, Y: -0.5},
	{X: -0.5, Y: 0.5},
	{X: 0.5, Y: 0.5},
}

// OverlapTracker keeps lower-board interactability in step with upper-board
// occupancy. Each upper cell covers the four lower cells at its diagonal
// half offsets; a lower cell is playable only while nothing covers it.
type OverlapTracker struct {
	upper *Board
	lower *Board
	svc   *Services

	covers  map[*Cell][4]*Cell
	covered map[*Cell]bool
}

// NewOverlapTracker computes the cover mapping, attaches the tracker to the
// upper board and initializes the counters. Every upper cell must find all
// four lower cells.
func NewOverlapTracker(upper, lower *Board) (*OverlapTracker, error) {
	if upper == nil || lower == nil {
		return nil, fmt.Errorf("engine: overlap tracker needs two boards")
	}
	if upper.coverage != nil {
		return nil, fmt.Errorf("engine: %s board already has an overlap tracker", upper.name)
	}

	t := &OverlapTracker{
		upper:   upper,
		lower:   lower,
		svc:     upper.svc,
		covers:  make(map[*Cell][4]*Cell, len(upper.cells)),
		covered: make(map[*Cell]bool, len(upper.cells)),
	}
	for _, c := range upper.cells {
		var mapped [4]*Cell
		for i, off := range coverOffsets {
			l := lower.findAt(c.pos.Add(off))
			if l == nil {
				return nil, fmt.Errorf("%w: %s cell %s has no %s cell at %s",
					ErrNotFound, upper.name, c, lower.name, c.pos.Add(off))
			}
			mapped[i] = l
		}
		t.covers[c] = mapped
	}
	upper.coverage = t
	t.Initialize()
	return t, nil
}

// Covers returns the four lower cells mapped to an upper cell.
func (t *OverlapTracker) Covers(upper *Cell) []*Cell {
	mapped, ok := t.covers[upper]
	if !ok {
		return nil
	}
	return mapped[:]
}

// Initialize recomputes every counter from the current upper occupancy.
func (t *OverlapTracker) Initialize() {
	clear(t.covered)
	for _, l := range t.lower.cells {
		l.overlap = 0
	}
	for _, c := range t.upper.cells {
		if c.item != nil {
			t.cover(c)
		}
	}
	for _, l := range t.lower.cells {
		if l.hole {
			continue
		}
		l.interactable = l.overlap == 0
		t.svc.Presenter.SetCellDimmed(l, !l.interactable)
	}
}

func (t *OverlapTracker) cover(upper *Cell) {
	if t.covered[upper] {
		invariant("cover", "%s cell %s already covers", t.upper.name, upper)
	}
	t.covered[upper] = true
	for _, l := range t.covers[upper] {
		l.overlap++
		if l.overlap == 1 && !l.hole {
			l.interactable = false
			t.svc.Presenter.SetCellDimmed(l, true)
		}
	}
}

// release drops the four covering relationships of upper, once.
func (t *OverlapTracker) release(upper *Cell) {
	if !t.covered[upper] {
		invariant("release", "%s cell %s released twice", t.upper.name, upper)
	}
	t.covered[upper] = false
	for _, l := range t.covers[upper] {
		if l.overlap <= 0 {
			invariant("release", "%s cell %s counter would go negative", t.lower.name, l)
		}
		l.overlap--
		if l.overlap == 0 && !l.hole {
			l.interactable = true
			t.svc.Presenter.SetCellDimmed(l, false)
		}
	}
}
