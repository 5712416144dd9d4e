package match3

import (
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// Effect lengths in ticks.
const (
	appearTicks  = 4
	explodeTicks = 8
	vanishTicks  = 8
)

type effect uint8

const (
	effectAppear effect = iota + 1
	effectExplode
	effectVanish
)

// flash is a short-lived effect drawn over a cell. It remembers the glyph
// so it can still be drawn after the item left the cell.
type flash struct {
	kind  effect
	ticks int
	glyph rune
	color core.Color
}

// termPresenter records engine presentation signals for the renderer.
// Effects only block input while they play; game logic never waits on them.
// A removal effect keeps its cell until it finishes, even when the cell is
// refilled meanwhile.
type termPresenter struct {
	flashes map[*engine.Cell]flash
	dimmed  map[*engine.Cell]bool
}

func newTermPresenter() *termPresenter {
	return &termPresenter{
		flashes: make(map[*engine.Cell]flash),
		dimmed:  make(map[*engine.Cell]bool),
	}
}

func (p *termPresenter) NewItemView(it *engine.Item) engine.ItemView {
	return &termView{p: p, item: it}
}

func (p *termPresenter) SetCellDimmed(c *engine.Cell, dimmed bool) {
	if dimmed {
		p.dimmed[c] = true
	} else {
		delete(p.dimmed, c)
	}
}

func (p *termPresenter) isDimmed(c *engine.Cell) bool { return p.dimmed[c] }

func (p *termPresenter) flashAt(c *engine.Cell) (flash, bool) {
	f, ok := p.flashes[c]
	return f, ok
}

// animating reports whether a removal effect is still playing.
// Appear effects never block.
func (p *termPresenter) animating() bool {
	for _, f := range p.flashes {
		if f.kind != effectAppear {
			return true
		}
	}
	return false
}

// tick ages every effect and drops the finished ones.
func (p *termPresenter) tick() {
	for c, f := range p.flashes {
		f.ticks--
		if f.ticks <= 0 {
			delete(p.flashes, c)
			continue
		}
		p.flashes[c] = f
	}
}

// clearEffects drops pending effects but keeps dimming.
func (p *termPresenter) clearEffects() {
	clear(p.flashes)
}

func (p *termPresenter) start(c *engine.Cell, kind effect, ticks int, it *engine.Item) {
	if c == nil {
		return
	}
	if prev, ok := p.flashes[c]; ok && kind == effectAppear && prev.kind != effectAppear {
		return
	}
	glyph, color := itemGlyph(it)
	p.flashes[c] = flash{kind: kind, ticks: ticks, glyph: glyph, color: color}
}

// termView tracks the cell its item last landed on.
type termView struct {
	p    *termPresenter
	item *engine.Item
	cell *engine.Cell
	pos  engine.Vec2
}

func (v *termView) SetPosition(pos engine.Vec2) {
	v.pos = pos
	v.cell = v.item.Cell()
}

func (v *termView) PlayAppearEffect()  { v.p.start(v.cell, effectAppear, appearTicks, v.item) }
func (v *termView) PlayExplodeEffect() { v.p.start(v.cell, effectExplode, explodeTicks, v.item) }
func (v *termView) PlayScaleToZero()   { v.p.start(v.cell, effectVanish, vanishTicks, v.item) }

// itemGlyph returns the rune and color an item is drawn with.
func itemGlyph(it *engine.Item) (rune, core.Color) {
	if it == nil {
		return ' ', core.ColorDefault
	}
	switch p := it.Piece().(type) {
	case engine.Normal:
		return rune(p.Type.Char()), typeColor(p.Type)
	case engine.Bonus:
		switch p.Kind {
		case engine.BonusHorizontal:
			return '═', core.ColorOrange
		case engine.BonusVertical:
			return '║', core.ColorOrange
		default:
			return '◆', core.ColorOrange
		}
	}
	return '?', core.ColorDefault
}

func typeColor(t engine.NormalType) core.Color {
	switch t {
	case engine.TypeRuby:
		return core.ColorRed
	case engine.TypeEmerald:
		return core.ColorGreen
	case engine.TypeTopaz:
		return core.ColorYellow
	case engine.TypeSapphire:
		return core.ColorBlue
	case engine.TypeAmethyst:
		return core.ColorMagenta
	case engine.TypePearl:
		return core.ColorWhite
	case engine.TypeOnyx:
		return core.ColorCyan
	default:
		return core.ColorDefault
	}
}
