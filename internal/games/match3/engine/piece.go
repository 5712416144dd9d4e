package engine

import "fmt"

// NormalType identifies the kind of a normal item.
type NormalType uint8

const (
	TypeRuby NormalType = iota
	TypeEmerald
	TypeTopaz
	TypeSapphire
	TypeAmethyst
	TypePearl
	TypeOnyx
)

// MaxItemTypes is the number of distinct normal types.
const MaxItemTypes = 7

// AllTypes lists every normal type in declaration order.
var AllTypes = [MaxItemTypes]NormalType{
	TypeRuby, TypeEmerald, TypeTopaz, TypeSapphire, TypeAmethyst, TypePearl, TypeOnyx,
}

func (t NormalType) String() string {
	switch t {
	case TypeRuby:
		return "ruby"
	case TypeEmerald:
		return "emerald"
	case TypeTopaz:
		return "topaz"
	case TypeSapphire:
		return "sapphire"
	case TypeAmethyst:
		return "amethyst"
	case TypePearl:
		return "pearl"
	case TypeOnyx:
		return "onyx"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Char returns the single-letter code used in text dumps and tests.
func (t NormalType) Char() byte {
	if int(t) < MaxItemTypes {
		return "RETSAPO"[t]
	}
	return '?'
}

// BonusKind identifies what a bonus item clears when it fires.
type BonusKind uint8

const (
	BonusHorizontal BonusKind = iota // clears its row
	BonusVertical                    // clears its column
	BonusBomb                        // clears the 3x3 block around it
)

func (k BonusKind) String() string {
	switch k {
	case BonusHorizontal:
		return "horizontal"
	case BonusVertical:
		return "vertical"
	case BonusBomb:
		return "bomb"
	default:
		return fmt.Sprintf("bonus(%d)", uint8(k))
	}
}

// Piece is the closed set of things an item can be: Normal or Bonus.
type Piece interface {
	// SameTypeAs reports whether two pieces can form a run together.
	SameTypeAs(other Piece) bool
	// OnMatchEffect returns the extra cells cleared when the piece at
	// cell fires. Normal pieces have no effect.
	OnMatchEffect(b *Board, at *Cell) []*Cell
	String() string

	isPiece()
}

// Normal is a plain typed piece.
type Normal struct {
	Type NormalType
}

func (n Normal) SameTypeAs(other Piece) bool {
	o, ok := other.(Normal)
	return ok && o.Type == n.Type
}

func (Normal) OnMatchEffect(*Board, *Cell) []*Cell { return nil }

func (n Normal) String() string { return n.Type.String() }

func (Normal) isPiece() {}

// Bonus is a special piece created from long or crossing matches.
// Bonuses never take part in runs.
type Bonus struct {
	Kind BonusKind
}

func (Bonus) SameTypeAs(Piece) bool { return false }

func (b Bonus) OnMatchEffect(board *Board, at *Cell) []*Cell {
	if board == nil || at == nil {
		return nil
	}
	var cells []*Cell
	switch b.Kind {
	case BonusHorizontal:
		for x := 0; x < board.sizeX; x++ {
			cells = append(cells, board.Cell(x, at.y))
		}
	case BonusVertical:
		for y := 0; y < board.sizeY; y++ {
			cells = append(cells, board.Cell(at.x, y))
		}
	case BonusBomb:
		for x := at.x - 1; x <= at.x+1; x++ {
			for y := at.y - 1; y <= at.y+1; y++ {
				if c, ok := board.At(x, y); ok {
					cells = append(cells, c)
				}
			}
		}
	}
	return cells
}

func (b Bonus) String() string { return "bonus:" + b.Kind.String() }

func (Bonus) isPiece() {}

// Item is a piece placed somewhere. The cell holding it owns it; the item
// only remembers where it sits.
type Item struct {
	piece Piece
	cell  *Cell
	view  ItemView
}

// Piece returns what the item is.
func (it *Item) Piece() Piece { return it.piece }

// Cell returns the cell currently holding the item, or nil once destroyed.
func (it *Item) Cell() *Cell { return it.cell }

// View returns the presentation handle attached at creation.
func (it *Item) View() ItemView { return it.view }

// NormalType returns the item's type when it is a normal piece.
func (it *Item) NormalType() (NormalType, bool) {
	n, ok := it.piece.(Normal)
	return n.Type, ok
}

// SameTypeAs reports whether two items can match each other.
func (it *Item) SameTypeAs(other *Item) bool {
	if it == nil || other == nil {
		return false
	}
	return it.piece.SameTypeAs(other.piece)
}

func (it *Item) setPiece(p Piece) {
	it.piece = p
	it.view.PlayAppearEffect()
}

func (it *Item) destroy() {
	it.cell = nil
}
