package engine

import (
	"fmt"
	"strings"
)

// Layer orders boards for drawing. It has no effect on game rules.
type Layer uint8

const (
	LayerLowest Layer = iota
	LayerMiddle
	LayerHighest
)

func (l Layer) String() string {
	switch l {
	case LayerLowest:
		return "lowest"
	case LayerMiddle:
		return "middle"
	case LayerHighest:
		return "highest"
	default:
		return "unknown"
	}
}

// Board is a rectangular grid of cells. Cells are stored in raster order:
// column by column, bottom to top inside a column.
type Board struct {
	name   string
	layer  Layer
	sizeX  int
	sizeY  int
	origin Vec2
	cells  []*Cell
	svc    *Services

	// coverage is set when the board is the upper side of an overlap
	// tracker; placements and removals are reported to it synchronously.
	coverage *OverlapTracker
}

// Setup allocates a sizeX×sizeY board centered on the world origin and
// wires the four neighbour links of every cell.
func Setup(svc *Services, name string, layer Layer, sizeX, sizeY int) (*Board, error) {
	if svc == nil {
		return nil, fmt.Errorf("engine: board %q needs services", name)
	}
	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("engine: board %q has invalid size %dx%d", name, sizeX, sizeY)
	}

	b := &Board{
		name:  name,
		layer: layer,
		sizeX: sizeX,
		sizeY: sizeY,
		origin: Vec2{
			X: -float64(sizeX)*0.5 + 0.5,
			Y: -float64(sizeY)*0.5 + 0.5 + 1,
		},
		cells: make([]*Cell, 0, sizeX*sizeY),
		svc:   svc,
	}
	for x := 0; x < sizeX; x++ {
		for y := 0; y < sizeY; y++ {
			b.cells = append(b.cells, &Cell{
				x:            x,
				y:            y,
				pos:          b.origin.Add(Vec2{X: float64(x), Y: float64(y)}),
				interactable: true,
				board:        b,
			})
		}
	}
	for _, c := range b.cells {
		c.up, _ = b.At(c.x, c.y+1)
		c.right, _ = b.At(c.x+1, c.y)
		c.down, _ = b.At(c.x, c.y-1)
		c.left, _ = b.At(c.x-1, c.y)
	}
	return b, nil
}

// Name returns the board name used in events and logs.
func (b *Board) Name() string { return b.name }

// Layer returns the drawing layer.
func (b *Board) Layer() Layer { return b.layer }

// Size returns the board dimensions.
func (b *Board) Size() (int, int) { return b.sizeX, b.sizeY }

// Cells returns every cell in raster order. The slice must not be modified.
func (b *Board) Cells() []*Cell { return b.cells }

// At returns the cell at (x, y) and whether it exists.
func (b *Board) At(x, y int) (*Cell, bool) {
	if x < 0 || x >= b.sizeX || y < 0 || y >= b.sizeY {
		return nil, false
	}
	return b.cells[x*b.sizeY+y], true
}

// Cell returns the cell at (x, y). Out-of-bounds access panics with an
// *InvariantError.
func (b *Board) Cell(x, y int) *Cell {
	c, ok := b.At(x, y)
	if !ok {
		invariant("Cell", "(%d,%d) outside %s board %dx%d", x, y, b.name, b.sizeX, b.sizeY)
	}
	return c
}

// GetCellAt finds the cell whose world position equals pos exactly.
// A miss is logged and reported as ErrNotFound.
func (b *Board) GetCellAt(pos Vec2) (*Cell, error) {
	if c := b.findAt(pos); c != nil {
		return c, nil
	}
	b.svc.Log.Warn("no cell at position", "board", b.name, "pos", pos)
	return nil, fmt.Errorf("%w: %s board at %s", ErrNotFound, b.name, pos)
}

func (b *Board) findAt(pos Vec2) *Cell {
	for _, c := range b.cells {
		if c.pos == pos {
			return c
		}
	}
	return nil
}

// SetHole marks a cell as permanently empty. Holes keep their topology
// links but are skipped by fills and gravity.
func (b *Board) SetHole(x, y int) error {
	c, ok := b.At(x, y)
	if !ok {
		return fmt.Errorf("%w: (%d,%d) outside %s board", ErrNotFound, x, y, b.name)
	}
	if c.item != nil {
		return fmt.Errorf("%w: cannot make occupied cell %s a hole", ErrRejected, c)
	}
	c.hole = true
	c.interactable = false
	return nil
}

// Fillable returns the number of cells that can hold an item.
func (b *Board) Fillable() int {
	n := 0
	for _, c := range b.cells {
		if !c.hole {
			n++
		}
	}
	return n
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, c := range b.cells {
		if c.item != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no cell holds an item.
func (b *Board) IsEmpty() bool {
	return b.Count() == 0
}

// FillWithRandomItems clears the board and fills every non-hole cell so
// that each type present appears a multiple of three times. Types are
// drawn in triples, shuffled, then assigned in raster order.
func (b *Board) FillWithRandomItems() error {
	total := b.Fillable()
	if total%tripleSize != 0 {
		return fmt.Errorf("%w: %s board has %d", ErrIndivisible, b.name, total)
	}
	b.Clear()

	types := b.svc.Settings.Types()
	pool := make([]NormalType, 0, total)
	for len(pool) < total {
		t := pick(b.svc.Rand, types)
		for i := 0; i < tripleSize; i++ {
			pool = append(pool, t)
		}
	}
	b.svc.Rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	i := 0
	for _, c := range b.cells {
		if c.hole {
			continue
		}
		b.place(c, b.newItem(Normal{Type: pool[i]}))
		i++
	}
	return nil
}

// FillGaps puts an independently random normal item in every empty,
// non-hole cell and returns the filled cells.
func (b *Board) FillGaps() []*Cell {
	types := b.svc.Settings.Types()
	var filled []*Cell
	for _, c := range b.cells {
		if c.hole || c.item != nil {
			continue
		}
		b.place(c, b.newItem(Normal{Type: pick(b.svc.Rand, types)}))
		filled = append(filled, c)
	}
	return filled
}

// Place puts a new item holding p into the empty cell at (x, y).
func (b *Board) Place(x, y int, p Piece) (*Item, error) {
	c, ok := b.At(x, y)
	if !ok {
		return nil, fmt.Errorf("%w: (%d,%d) outside %s board", ErrNotFound, x, y, b.name)
	}
	if c.hole || c.item != nil {
		return nil, fmt.Errorf("%w: cell %s is not free", ErrRejected, c)
	}
	it := b.newItem(p)
	b.place(c, it)
	return it, nil
}

// Take detaches the item of c without destroying it, for transfer into
// the backpack.
func (b *Board) Take(c *Cell) (*Item, error) {
	if c == nil || c.board != b {
		return nil, fmt.Errorf("%w: cell does not belong to %s board", ErrRejected, b.name)
	}
	if c.item == nil {
		return nil, fmt.Errorf("%w: cell %s is empty", ErrRejected, c)
	}
	return b.vacate(c, RemovedCollected), nil
}

// ExplodeAll explodes every item on the board.
func (b *Board) ExplodeAll() int {
	n := 0
	for _, c := range b.cells {
		if c.item != nil {
			b.explode(c)
			n++
		}
	}
	return n
}

// Clear destroys every item without explosion effects.
func (b *Board) Clear() {
	for _, c := range b.cells {
		if c.item != nil {
			b.vacate(c, RemovedCleared).destroy()
		}
	}
}

// String dumps the board top row first, one letter per normal type,
// '*' for bonuses, '.' for empty cells and ' ' for holes.
func (b *Board) String() string {
	var sb strings.Builder
	for y := b.sizeY - 1; y >= 0; y-- {
		for x := 0; x < b.sizeX; x++ {
			sb.WriteByte(cellChar(b.Cell(x, y)))
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellChar(c *Cell) byte {
	switch {
	case c.hole:
		return ' '
	case c.item == nil:
		return '.'
	}
	if t, ok := c.item.NormalType(); ok {
		return t.Char()
	}
	return '*'
}

func (b *Board) newItem(p Piece) *Item {
	it := &Item{piece: p}
	it.view = b.svc.Presenter.NewItemView(it)
	if it.view == nil {
		it.view = nopView{}
	}
	return it
}

func (b *Board) place(c *Cell, it *Item) {
	c.assign(it)
	it.view.PlayAppearEffect()
	if b.coverage != nil {
		b.coverage.cover(c)
	}
}

// vacate detaches the item of c, releases its coverage and reports the
// removal. The caller decides whether the item lives on.
func (b *Board) vacate(c *Cell, reason RemoveReason) *Item {
	it := c.detach()
	if b.coverage != nil {
		b.coverage.release(c)
	}
	b.svc.emit(ItemRemoved{Board: b.name, Cell: c, Item: it, Reason: reason})
	return it
}

func (b *Board) explode(c *Cell) {
	c.item.view.PlayExplodeEffect()
	b.vacate(c, RemovedExploded).destroy()
}

// move shifts an item between two cells of the board. It is not a removal:
// no event is emitted, but coverage follows the item.
func (b *Board) move(from, to *Cell) {
	it := from.detach()
	if b.coverage != nil {
		b.coverage.release(from)
	}
	to.assign(it)
	if b.coverage != nil {
		b.coverage.cover(to)
	}
}
