package match3

import (
	"fmt"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

const (
	cellWidth  = 3 // Each cell is drawn as "[X]"
	boardGap   = 3 // Columns between the two boards
	hudHeight  = 4 // Title, HUD, spacer and labels
	footHeight = 2 // Status and controls lines
)

const (
	collectControls = "Arrows: Move  Tab: Board  Enter: Take  H: Hint  X: Auto  P: Pause  Q: Quit"
	cascadeControls = "Arrows: Move  Enter: Pop  H: Hint  X: Auto  P: Pause  Q: Quit"
)

// boardBoxSize returns the outer size of a framed board.
func boardBoxSize(b *engine.Board) (int, int) {
	w, h := b.Size()
	return w*cellWidth + 2, h + 2
}

// cellStyle carries the per-cell highlights for one frame.
type cellStyle struct {
	presenter *termPresenter
	cursor    *engine.Cell
	hint      map[*engine.Cell]bool
}

func newCellStyle(p *termPresenter, cur *engine.Cell, hint []*engine.Cell) cellStyle {
	hs := make(map[*engine.Cell]bool, len(hint))
	for _, c := range hint {
		hs[c] = true
	}
	return cellStyle{presenter: p, cursor: cur, hint: hs}
}

// drawBoard draws a framed board with its top-left corner at (ox, oy).
// Row y = 0 is drawn at the bottom.
func drawBoard(dst *core.Screen, b *engine.Board, ox, oy int, frame core.Color, st cellStyle) {
	bw, bh := boardBoxSize(b)
	dst.DrawBox(core.NewRect(ox, oy, bw, bh), frame)

	_, h := b.Size()
	for _, c := range b.Cells() {
		x := ox + 1 + c.X()*cellWidth
		y := oy + 1 + (h - 1 - c.Y())
		drawCell(dst, x, y, c, st)
	}
}

// drawCell draws one cell as three characters: a bracket, the glyph, a bracket.
func drawCell(dst *core.Screen, x, y int, c *engine.Cell, st cellStyle) {
	if c.IsHole() {
		return
	}

	glyph, color := '·', core.ColorGray
	f, flashing := st.presenter.flashAt(c)
	dimmed := st.presenter.isDimmed(c)

	switch {
	case flashing && f.kind == effectExplode:
		glyph, color = '*', f.color.Bright()
	case flashing && f.kind == effectVanish:
		glyph, color = '+', f.color.Bright()
	case !c.IsEmpty():
		glyph, color = itemGlyph(c.Item())
		if flashing && f.kind == effectAppear {
			color = color.Bright()
		}
		if dimmed {
			color = core.ColorDim
		}
	}

	left, right, edge := ' ', ' ', core.ColorDefault
	switch {
	case c == st.cursor:
		left, right, edge = '[', ']', core.ColorBrightWhite
	case st.hint[c]:
		left, right, edge = '(', ')', core.ColorBrightYellow
		if !dimmed {
			color = color.Bright()
		}
	}

	dst.SetColor(x, y, left, edge)
	dst.SetColor(x+1, y, glyph, color)
	dst.SetColor(x+2, y, right, edge)
}

// renderTooSmall shows a "window too small" message.
func renderTooSmall(dst *core.Screen, needW, needH int) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, "Window too small", core.ColorBrightRed)
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d, have %dx%d", needW, needH, dst.Width(), dst.Height()), core.ColorDefault)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, color core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	// Clear area behind overlay
	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), color)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawTextColor(x, boxY+1+i, line, color)
	}
}

func formatClock(ticks, rate int) string {
	secs := (ticks + rate - 1) / rate
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// layoutSize returns the smallest screen the tile-collect layout fits.
func (g *Game) layoutSize() (int, int) {
	uw, _ := boardBoxSize(g.table.Upper())
	lw, lh := boardBoxSize(g.table.Lower())
	bpw := g.table.Backpack().Capacity()*cellWidth + 2
	w := max(uw+boardGap+lw, bpw, len(collectControls))
	return w + 2, hudHeight + lh + 1 + 3 + footHeight
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		w, h := g.layoutSize()
		renderTooSmall(dst, w, h)
		return
	}

	uw, uh := boardBoxSize(g.table.Upper())
	lw, lh := boardBoxSize(g.table.Lower())
	totalW := uw + boardGap + lw
	ox := (g.screenW - totalW) / 2
	upperX, lowerX := ox, ox+uw+boardGap
	boardY := hudHeight

	g.renderHUD(dst, ox, totalW)

	dst.DrawTextColor(upperX, boardY-1, "Top", core.ColorGray)
	dst.DrawTextColor(lowerX, boardY-1, "Bottom", core.ColorGray)

	st := newCellStyle(g.presenter, g.cursor.cell(), g.hint)
	upperFrame, lowerFrame := core.ColorWhite, core.ColorGray
	if g.cursor.current() == g.table.Lower() {
		upperFrame, lowerFrame = lowerFrame, upperFrame
	}
	// Vertically centre the smaller board on the larger one.
	drawBoard(dst, g.table.Upper(), upperX, boardY+(lh-uh)/2, upperFrame, st)
	drawBoard(dst, g.table.Lower(), lowerX, boardY, lowerFrame, st)

	bpY := boardY + lh + 1
	g.renderBackpack(dst, bpY, st)

	footY := bpY + 3
	if g.status.text != "" {
		dst.DrawTextCentered(footY, g.status.text, core.ColorBrightYellow)
	}
	dst.DrawTextCentered(footY+1, collectControls, core.ColorGray)

	g.renderOverlays(dst, g.screenW/2, boardY+lh/2)
}

func (g *Game) renderHUD(dst *core.Screen, ox, width int) {
	dst.DrawTextCentered(0, "TILE COLLECT", core.ColorBrightCyan)

	dst.DrawText(ox, 1, fmt.Sprintf("Score: %d", g.score))

	var info string
	if g.cfg.Timer.Enabled {
		info = fmt.Sprintf("Time %s  ", formatClock(g.timeLeft, tickRate(g.runtime)))
	}
	info += fmt.Sprintf("Left: %d", g.table.Remaining())
	if g.autoplay != AutoplayOff {
		info = fmt.Sprintf("AUTO:%s  %s", g.autoplay, info)
	}
	dst.DrawText(ox+width-len(info), 1, info)
}

func (g *Game) renderBackpack(dst *core.Screen, y int, st cellStyle) {
	bp := g.table.Backpack()
	w := bp.Capacity()*cellWidth + 2
	x := (g.screenW - w) / 2

	frame := core.ColorWhite
	if bp.IsFull() {
		frame = core.ColorBrightRed
	}
	dst.DrawBox(core.NewRect(x, y, w, 3), frame)
	dst.DrawTextColor(x-len("Backpack")-1, y+1, "Backpack", core.ColorGray)
	for i, slot := range bp.Slots() {
		drawCell(dst, x+1+i*cellWidth, y+1, slot, st)
	}
}

func (g *Game) renderOverlays(dst *core.Screen, cx, cy int) {
	switch {
	case g.paused:
		drawOverlay(dst, cx, cy, core.ColorBrightWhite, "PAUSED", "Press P to resume")
	case g.won:
		drawOverlay(dst, cx, cy, core.ColorBrightGreen, "TABLE CLEARED!", fmt.Sprintf("Score: %d", g.score), "Press R to restart")
	case g.gameOver:
		drawOverlay(dst, cx, cy, core.ColorBrightRed, "GAME OVER", g.reason, "Press R to restart")
	}
}

// layoutSize returns the smallest screen the cascade layout fits.
func (g *CascadeGame) layoutSize() (int, int) {
	bw, bh := boardBoxSize(g.board)
	return max(bw, len(cascadeControls)) + 2, hudHeight + bh + footHeight
}

// Render draws the game state to the screen.
func (g *CascadeGame) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		w, h := g.layoutSize()
		renderTooSmall(dst, w, h)
		return
	}

	bw, bh := boardBoxSize(g.board)
	ox := (g.screenW - bw) / 2
	oy := hudHeight - 1

	dst.DrawTextCentered(0, "CASCADE", core.ColorBrightCyan)
	dst.DrawText(ox, 1, fmt.Sprintf("Score: %d", g.score))
	moves := fmt.Sprintf("Moves: %d", g.movesLeft)
	if g.autoplay {
		moves = "AUTO  " + moves
	}
	dst.DrawText(ox+bw-len(moves), 1, moves)

	drawBoard(dst, g.board, ox, oy, core.ColorWhite, newCellStyle(g.presenter, g.cursor.cell(), g.hint))

	footY := oy + bh
	if g.status.text != "" {
		dst.DrawTextCentered(footY, g.status.text, core.ColorBrightYellow)
	}
	dst.DrawTextCentered(footY+1, cascadeControls, core.ColorGray)

	cx, cy := g.screenW/2, oy+bh/2
	switch {
	case g.paused:
		drawOverlay(dst, cx, cy, core.ColorBrightWhite, "PAUSED", "Press P to resume")
	case g.gameOver:
		drawOverlay(dst, cx, cy, core.ColorBrightGreen, "OUT OF MOVES", fmt.Sprintf("Score: %d", g.score), "Press R to restart")
	}
}
