package match3

import (
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// cursor points at one cell of one of the boards it can visit.
type cursor struct {
	boards []*engine.Board
	board  int
	x, y   int
}

func newCursor(boards ...*engine.Board) cursor {
	c := cursor{boards: boards}
	c.home()
	return c
}

// home puts the cursor at the top-left cell of the first board.
func (c *cursor) home() {
	c.board = 0
	_, h := c.boards[0].Size()
	c.x, c.y = 0, h-1
}

// move shifts the cursor, clamped to the board. Up is toward higher y.
func (c *cursor) move(dx, dy int) {
	w, h := c.boards[c.board].Size()
	c.x = core.Clamp(c.x+dx, 0, w-1)
	c.y = core.Clamp(c.y+dy, 0, h-1)
}

// switchBoard moves to the next board, keeping the position where it fits.
func (c *cursor) switchBoard() {
	if len(c.boards) < 2 {
		return
	}
	c.board = (c.board + 1) % len(c.boards)
	c.move(0, 0)
}

// focus places the cursor on cell, if cell belongs to one of its boards.
func (c *cursor) focus(cell *engine.Cell) {
	if cell == nil {
		return
	}
	for i, b := range c.boards {
		if cell.Board() == b {
			c.board, c.x, c.y = i, cell.X(), cell.Y()
			return
		}
	}
}

func (c *cursor) current() *engine.Board { return c.boards[c.board] }

func (c *cursor) cell() *engine.Cell { return c.boards[c.board].Cell(c.x, c.y) }

// handle applies movement actions and reports whether any was present.
func (c *cursor) handle(in core.InputFrame) bool {
	moved := true
	switch {
	case in.Has(core.ActionUp):
		c.move(0, 1)
	case in.Has(core.ActionDown):
		c.move(0, -1)
	case in.Has(core.ActionLeft):
		c.move(-1, 0)
	case in.Has(core.ActionRight):
		c.move(1, 0)
	case in.Has(core.ActionSwitch):
		c.switchBoard()
	default:
		moved = false
	}
	return moved
}
