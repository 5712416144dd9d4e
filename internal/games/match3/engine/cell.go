package engine

import "fmt"

// Vec2 is a position in the shared world space of both boards.
// Coordinates are whole or half units, so exact comparison is safe.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Cell is one position of a board or one backpack slot.
type Cell struct {
	x, y int
	pos  Vec2
	item *Item

	up, right, down, left *Cell

	interactable bool
	overlap      int
	inBackpack   bool
	hole         bool
	board        *Board
}

// X returns the column index.
func (c *Cell) X() int { return c.x }

// Y returns the row index; 0 is the bottom row.
func (c *Cell) Y() int { return c.y }

// Pos returns the world position.
func (c *Cell) Pos() Vec2 { return c.pos }

// Item returns the held item or nil.
func (c *Cell) Item() *Item { return c.item }

// IsEmpty reports whether the cell holds no item.
func (c *Cell) IsEmpty() bool { return c.item == nil }

// Up returns the neighbor with y+1, or nil at the edge.
func (c *Cell) Up() *Cell { return c.up }

// Right returns the neighbor with x+1, or nil at the edge.
func (c *Cell) Right() *Cell { return c.right }

// Down returns the neighbor with y-1, or nil at the edge.
func (c *Cell) Down() *Cell { return c.down }

// Left returns the neighbor with x-1, or nil at the edge.
func (c *Cell) Left() *Cell { return c.left }

// Neighbors returns up, right, down and left in that order. Missing
// neighbors are nil.
func (c *Cell) Neighbors() [4]*Cell {
	return [4]*Cell{c.up, c.right, c.down, c.left}
}

// Interactable reports whether the player may pick this cell's item.
func (c *Cell) Interactable() bool { return c.interactable }

// Overlap returns how many occupied upper cells cover this cell.
func (c *Cell) Overlap() int { return c.overlap }

// InBackpack reports whether the cell is a backpack slot.
func (c *Cell) InBackpack() bool { return c.inBackpack }

// IsHole reports whether the cell never holds items.
func (c *Cell) IsHole() bool { return c.hole }

// Board returns the owning board, or nil for backpack slots.
func (c *Cell) Board() *Board { return c.board }

// IsNeighbour reports whether o is orthogonally adjacent to c within the
// same container. A cell is not its own neighbour.
func (c *Cell) IsNeighbour(o *Cell) bool {
	if c == nil || o == nil || c.board != o.board || c.inBackpack != o.inBackpack {
		return false
	}
	dx, dy := c.x-o.x, c.y-o.y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// IsSameType reports whether both cells hold items that can match.
func (c *Cell) IsSameType(o *Cell) bool {
	if c == nil || o == nil || c.item == nil || o.item == nil {
		return false
	}
	return c.item.SameTypeAs(o.item)
}

func (c *Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.x, c.y)
}

func (c *Cell) assign(it *Item) {
	if c.item != nil {
		invariant("assign", "cell %s already holds %s", c, c.item.piece)
	}
	if c.hole {
		invariant("assign", "cell %s is a hole", c)
	}
	c.item = it
	it.cell = c
	it.view.SetPosition(c.pos)
}

func (c *Cell) detach() *Item {
	it := c.item
	c.item = nil
	if it != nil {
		it.cell = nil
	}
	return it
}
