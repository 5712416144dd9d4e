package engine

import "fmt"

// Table is the tile-collect setup: an N×N upper board resting on an
// (N+1)×(N+1) lower board, both feeding one backpack. Lower cells become
// playable once every upper cell above them is gone.
type Table struct {
	svc      *Services
	upper    *Board
	lower    *Board
	tracker  *OverlapTracker
	backpack *Backpack
	busy     bool
}

// NewTable builds both boards, the tracker and the backpack. The lower
// board's corners are holes so both boards hold a multiple of three items.
func NewTable(svc *Services) (*Table, error) {
	n := svc.Settings.BoardSize
	upper, err := Setup(svc, "upper", LayerHighest, n, n)
	if err != nil {
		return nil, err
	}
	lower, err := Setup(svc, "lower", LayerLowest, n+1, n+1)
	if err != nil {
		return nil, err
	}
	for _, corner := range [][2]int{{0, 0}, {n, 0}, {0, n}, {n, n}} {
		if err := lower.SetHole(corner[0], corner[1]); err != nil {
			return nil, err
		}
	}
	tracker, err := NewOverlapTracker(upper, lower)
	if err != nil {
		return nil, fmt.Errorf("engine: building table: %w", err)
	}
	return &Table{
		svc:      svc,
		upper:    upper,
		lower:    lower,
		tracker:  tracker,
		backpack: NewBackpack(svc),
	}, nil
}

// Deal fills both boards, empties the backpack and recomputes coverage.
func (t *Table) Deal() error {
	t.backpack.Reset()
	if err := t.lower.FillWithRandomItems(); err != nil {
		return err
	}
	if err := t.upper.FillWithRandomItems(); err != nil {
		return err
	}
	t.tracker.Initialize()
	return nil
}

func (t *Table) Upper() *Board            { return t.upper }
func (t *Table) Lower() *Board            { return t.lower }
func (t *Table) Tracker() *OverlapTracker { return t.tracker }
func (t *Table) Backpack() *Backpack      { return t.backpack }
func (t *Table) Services() *Services      { return t.svc }
func (t *Table) Busy() bool               { return t.busy }
func (t *Table) Boards() [2]*Board        { return [2]*Board{t.upper, t.lower} }

// Collect moves the item of c into the backpack. Empty, covered, hole and
// foreign cells are rejected without any change; a full backpack yields
// ErrFull.
func (t *Table) Collect(c *Cell) error {
	if t.busy {
		return ErrBusy
	}
	if c == nil || (c.board != t.upper && c.board != t.lower) {
		return fmt.Errorf("%w: cell is not on the table", ErrRejected)
	}
	if c.item == nil {
		return fmt.Errorf("%w: cell %s on %s board is empty", ErrRejected, c, c.board.name)
	}
	if !c.interactable {
		return fmt.Errorf("%w: cell %s on %s board is covered", ErrRejected, c, c.board.name)
	}

	t.busy = true
	defer func() { t.busy = false }()
	return t.backpack.AddItem(c.item)
}

// IsCleared reports whether both boards are empty.
func (t *Table) IsCleared() bool {
	return t.upper.IsEmpty() && t.lower.IsEmpty()
}

// Remaining returns the number of items left on both boards.
func (t *Table) Remaining() int {
	return t.upper.Count() + t.lower.Count()
}

// Playable returns every occupied, interactable cell, upper board first.
func (t *Table) Playable() []*Cell {
	var out []*Cell
	for _, b := range t.Boards() {
		for _, c := range b.cells {
			if c.item != nil && c.interactable {
				out = append(out, c)
			}
		}
	}
	return out
}

// Hint returns a cell that completes a backpack triple, followed by the
// slots it completes, or nil.
func (t *Table) Hint() []*Cell {
	return PotentialMatches(t.backpack, t.upper, t.lower)
}
