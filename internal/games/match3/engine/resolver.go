package engine

import "fmt"

// Axis selects the direction DetectRun walks.
type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// Direction classifies a match at its seed cell.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionHorizontal
	DirectionVertical
	DirectionAll // both axes qualify: an L, T or + shape
)

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionHorizontal:
		return "horizontal"
	case DirectionVertical:
		return "vertical"
	case DirectionAll:
		return "all"
	default:
		return "unknown"
	}
}

// Match is a resolved match around a seed cell.
type Match struct {
	Seed       *Cell
	Direction  Direction
	Horizontal []*Cell // qualifying horizontal run, left to right
	Vertical   []*Cell // qualifying vertical run, bottom to top
	Cells      []*Cell // union of both runs
}

// without drops the cells in claimed from the match. A run that shares
// cells with an earlier match keeps only its own cells.
func (m Match) without(claimed map[*Cell]bool) Match {
	keep := func(cells []*Cell) []*Cell {
		var out []*Cell
		for _, c := range cells {
			if !claimed[c] {
				out = append(out, c)
			}
		}
		return out
	}
	for _, c := range m.Cells {
		if claimed[c] {
			m.Horizontal = keep(m.Horizontal)
			m.Vertical = keep(m.Vertical)
			m.Cells = keep(m.Cells)
			return m
		}
	}
	return m
}

// Len returns the length of the longest qualifying run.
func (m Match) Len() int {
	return max(len(m.Horizontal), len(m.Vertical))
}

// Report summarizes a resolution.
type Report struct {
	Passes   int
	Matches  []Match
	Exploded int
	Bonuses  int
	Capped   bool // the pass limit stopped the cascade
}

func (r *Report) merge(o Report) {
	r.Passes += o.Passes
	r.Matches = append(r.Matches, o.Matches...)
	r.Exploded += o.Exploded
	r.Bonuses += o.Bonuses
	r.Capped = r.Capped || o.Capped
}

// Resolver runs match detection and cascades on one board.
type Resolver struct {
	board *Board
	svc   *Services
	busy  bool
}

// NewResolver returns a resolver for b.
func NewResolver(b *Board) *Resolver {
	return &Resolver{board: b, svc: b.svc}
}

// Board returns the board the resolver works on.
func (r *Resolver) Board() *Board { return r.board }

// Busy reports whether a resolution is in progress.
func (r *Resolver) Busy() bool { return r.busy }

// DetectRun returns the maximal run of same-type items through seed along
// axis, ordered from the lowest coordinate. A seed without an item yields
// nil; a bonus seed yields just itself.
func (r *Resolver) DetectRun(seed *Cell, axis Axis) []*Cell {
	if seed == nil || seed.item == nil {
		return nil
	}
	prev, next := steps(axis)
	start := seed
	for n := prev(start); n != nil && seed.IsSameType(n); n = prev(n) {
		start = n
	}
	run := []*Cell{start}
	for n := next(start); n != nil && seed.IsSameType(n); n = next(n) {
		run = append(run, n)
	}
	return run
}

func steps(axis Axis) (prev, next func(*Cell) *Cell) {
	if axis == AxisVertical {
		return (*Cell).Down, (*Cell).Up
	}
	return (*Cell).Left, (*Cell).Right
}

// ResolveDirection classifies a pair of runs through the same seed.
func (r *Resolver) ResolveDirection(horizontal, vertical []*Cell) Direction {
	h := len(horizontal) >= r.svc.Settings.MinMatch
	v := len(vertical) >= r.svc.Settings.MinMatch
	switch {
	case h && v:
		return DirectionAll
	case h:
		return DirectionHorizontal
	case v:
		return DirectionVertical
	default:
		return DirectionNone
	}
}

// FindMatch checks both axes through seed.
func (r *Resolver) FindMatch(seed *Cell) (Match, bool) {
	h := r.DetectRun(seed, AxisHorizontal)
	v := r.DetectRun(seed, AxisVertical)
	dir := r.ResolveDirection(h, v)
	if dir == DirectionNone {
		return Match{}, false
	}

	m := Match{Seed: seed, Direction: dir}
	if dir != DirectionVertical {
		m.Horizontal = h
		m.Cells = append(m.Cells, h...)
	}
	if dir != DirectionHorizontal {
		m.Vertical = v
		for _, c := range v {
			if c != seed || dir == DirectionVertical {
				m.Cells = append(m.Cells, c)
			}
		}
	}
	return m, true
}

// FindMatches scans the board in raster order and returns every match.
// A straight run crossed by a perpendicular run is reported once, seeded
// at the crossing.
func (r *Resolver) FindMatches() []Match {
	var matches []Match
	claimed := make(map[*Cell]bool)
	for _, c := range r.board.cells {
		if claimed[c] {
			continue
		}
		m, ok := r.FindMatch(c)
		if !ok {
			continue
		}
		if m.Direction != DirectionAll {
			if cross, ok := r.findCrossing(m, claimed); ok {
				m = cross
			}
		}
		m = m.without(claimed)
		for _, mc := range m.Cells {
			claimed[mc] = true
		}
		matches = append(matches, m)
	}
	return matches
}

// findCrossing looks for a perpendicular run through m. A crossing at a
// cell an earlier match already claimed does not count.
func (r *Resolver) findCrossing(m Match, claimed map[*Cell]bool) (Match, bool) {
	for _, c := range m.Cells {
		if c == m.Seed || claimed[c] {
			continue
		}
		if cross, ok := r.FindMatch(c); ok && cross.Direction == DirectionAll {
			return cross, true
		}
	}
	return Match{}, false
}

// ConvertToBonus turns one cell of a large match into a bonus item and
// returns it. Matches longer than the minimum and crossing matches
// qualify. The trigger cell is used when it belongs to the match,
// otherwise the seed.
func (r *Resolver) ConvertToBonus(m Match, trigger *Cell) (*Cell, bool) {
	minMatch := r.svc.Settings.MinMatch
	if m.Direction == DirectionNone {
		return nil, false
	}
	if m.Direction != DirectionAll && m.Len() <= minMatch {
		return nil, false
	}

	target := m.Seed
	for _, c := range m.Cells {
		if c == trigger {
			target = c
			break
		}
	}
	if target == nil || target.item == nil {
		return nil, false
	}

	var kind BonusKind
	switch {
	case m.Direction == DirectionAll || m.Len() >= minMatch+2:
		kind = BonusBomb
	case m.Direction == DirectionHorizontal:
		kind = BonusHorizontal
	default:
		kind = BonusVertical
	}
	target.item.setPiece(Bonus{Kind: kind})
	return target, true
}

// CheckBonusIfCompatible extends a set of matched cells with the bonus
// items they set off. A bonus fires when it sits inside the set or is
// orthogonally adjacent to a matched cell; its effect area joins the set,
// and any bonus inside that area fires in turn. Cells in exclude are never
// added.
func (r *Resolver) CheckBonusIfCompatible(matched []*Cell, exclude ...*Cell) []*Cell {
	set := r.expand(matched, exclude)
	skip := cellSet(exclude)
	for _, c := range matched {
		for _, n := range c.Neighbors() {
			if n == nil || n.item == nil || skip[n] {
				continue
			}
			if _, ok := n.item.piece.(Bonus); ok {
				set = r.expandInto(set, n, skip)
			}
		}
	}
	return set.cells
}

type orderedCells struct {
	cells []*Cell
	seen  map[*Cell]bool
}

func (r *Resolver) expand(cells []*Cell, exclude []*Cell) *orderedCells {
	set := &orderedCells{seen: make(map[*Cell]bool)}
	skip := cellSet(exclude)
	for _, c := range cells {
		set = r.expandInto(set, c, skip)
	}
	return set
}

func (r *Resolver) expandInto(set *orderedCells, c *Cell, skip map[*Cell]bool) *orderedCells {
	if c == nil || c.item == nil || skip[c] || set.seen[c] {
		return set
	}
	set.seen[c] = true
	set.cells = append(set.cells, c)
	for _, e := range c.item.piece.OnMatchEffect(r.board, c) {
		set = r.expandInto(set, e, skip)
	}
	return set
}

func cellSet(cells []*Cell) map[*Cell]bool {
	m := make(map[*Cell]bool, len(cells))
	for _, c := range cells {
		m[c] = true
	}
	return m
}

// Explode destroys the items of the given cells and returns how many were
// removed. Empty cells are skipped.
func (r *Resolver) Explode(cells []*Cell) int {
	n := 0
	for _, c := range cells {
		if c == nil || c.item == nil || c.board != r.board {
			continue
		}
		r.board.explode(c)
		n++
	}
	return n
}

// Gravity drops items toward y = 0 inside each column, keeping their
// order and skipping holes. It returns the number of moved items.
func (r *Resolver) Gravity() int {
	b := r.board
	moved := 0
	slots := make([]*Cell, 0, b.sizeY)
	for x := 0; x < b.sizeX; x++ {
		slots = slots[:0]
		for y := 0; y < b.sizeY; y++ {
			if c := b.Cell(x, y); !c.hole {
				slots = append(slots, c)
			}
		}
		w := 0
		for _, c := range slots {
			if c.item == nil {
				continue
			}
			if slots[w] != c {
				b.move(c, slots[w])
				moved++
			}
			w++
		}
	}
	return moved
}

// Refill fills every gap with a random normal item.
func (r *Resolver) Refill() []*Cell {
	return r.board.FillGaps()
}

// Resolve runs detect, bonus conversion, explode, gravity and refill until
// no match is left. The trigger cell, usually where the player acted,
// hosts the first pass's bonus. A stable board is left untouched.
func (r *Resolver) Resolve(trigger *Cell) (Report, error) {
	if r.busy {
		return Report{}, ErrBusy
	}
	r.busy = true
	defer func() { r.busy = false }()
	return r.resolve(trigger), nil
}

// Rescan resolves the board without a trigger cell.
func (r *Resolver) Rescan() (Report, error) {
	return r.Resolve(nil)
}

func (r *Resolver) resolve(trigger *Cell) Report {
	var rep Report
	name := r.board.name
	for {
		matches := r.FindMatches()
		if len(matches) == 0 {
			break
		}
		if rep.Passes >= r.svc.Settings.MaxCascadePasses {
			r.svc.Log.Warn("cascade pass limit reached", "board", name, "passes", rep.Passes)
			rep.Capped = true
			break
		}
		rep.Passes++
		pass := rep.Passes
		r.svc.Log.Debug("resolution pass", "board", name, "pass", pass, "matches", len(matches))

		var matched []*Cell
		for _, m := range matches {
			r.svc.emit(MatchFound{Board: name, Cells: m.Cells, Direction: m.Direction})
			matched = append(matched, m.Cells...)
		}
		rep.Matches = append(rep.Matches, matches...)
		r.phase(PhaseDetect, pass)

		var bonuses []*Cell
		for _, m := range matches {
			if c, ok := r.ConvertToBonus(m, trigger); ok {
				bonuses = append(bonuses, c)
			}
		}
		rep.Bonuses += len(bonuses)
		r.phase(PhaseConvertBonus, pass)

		rep.Exploded += r.Explode(r.CheckBonusIfCompatible(matched, bonuses...))
		r.phase(PhaseExplode, pass)

		r.Gravity()
		r.phase(PhaseGravity, pass)

		r.Refill()
		r.phase(PhaseRefill, pass)

		trigger = nil
	}
	r.phase(PhaseStable, rep.Passes)
	return rep
}

func (r *Resolver) phase(p Phase, pass int) {
	r.svc.emit(PhaseCompleted{Board: r.board.name, Phase: p, Pass: pass})
}

// Pop explodes the item at c, together with whatever a bonus there sets
// off, then cascades until stable.
func (r *Resolver) Pop(c *Cell) (Report, error) {
	if r.busy {
		return Report{}, ErrBusy
	}
	if c == nil || c.board != r.board || c.item == nil {
		return Report{}, fmt.Errorf("%w: nothing to pop", ErrRejected)
	}
	r.busy = true
	defer func() { r.busy = false }()

	rep := Report{Exploded: r.Explode(r.expand([]*Cell{c}, nil).cells)}
	r.phase(PhaseExplode, 0)
	r.Gravity()
	r.phase(PhaseGravity, 0)
	r.Refill()
	r.phase(PhaseRefill, 0)

	rep.merge(r.resolve(c))
	return rep, nil
}

// GetPotentialMatches suggests a move. It first looks for a cell whose
// collection completes a backpack triple and returns it followed by the
// matching slots. Failing that it returns the first cell whose removal
// would let gravity form a run. It returns nil when nothing is found.
func (r *Resolver) GetPotentialMatches(bp *Backpack) []*Cell {
	if cells := PotentialMatches(bp, r.board); cells != nil {
		return cells
	}
	for _, c := range r.board.cells {
		if c.item != nil && c.interactable && r.wouldCascade(c) {
			return []*Cell{c}
		}
	}
	return nil
}

// PotentialMatches returns the first interactable cell, searching boards
// in order, whose item would make three of a kind in the backpack,
// followed by the slots already holding that type.
func PotentialMatches(bp *Backpack, boards ...*Board) []*Cell {
	if bp == nil || bp.IsFull() {
		return nil
	}
	for _, b := range boards {
		for _, c := range b.cells {
			if c.item == nil || !c.interactable {
				continue
			}
			same := bp.slotsMatching(c.item)
			if len(same)+1 >= tripleSize {
				return append([]*Cell{c}, same...)
			}
		}
	}
	return nil
}

// wouldCascade simulates removing c and dropping its column by one.
func (r *Resolver) wouldCascade(c *Cell) bool {
	b := r.board
	var column []*Cell
	for y := 0; y < b.sizeY; y++ {
		if cc := b.Cell(c.x, y); !cc.hole {
			column = append(column, cc)
		}
	}
	at := -1
	for i, cc := range column {
		if cc == c {
			at = i
		}
	}

	shifted := make(map[*Cell]Piece, len(column))
	var above []Piece
	for _, cc := range column[at+1:] {
		if cc.item != nil {
			above = append(above, cc.item.piece)
		}
	}
	for i, cc := range column[at:] {
		if i < len(above) {
			shifted[cc] = above[i]
		} else {
			shifted[cc] = nil
		}
	}
	pieceAt := func(cc *Cell) Piece {
		if p, ok := shifted[cc]; ok {
			return p
		}
		if cc.item == nil {
			return nil
		}
		return cc.item.piece
	}

	minMatch := r.svc.Settings.MinMatch
	for _, cc := range column[at:] {
		if pieceAt(cc) == nil {
			continue
		}
		for _, axis := range []Axis{AxisHorizontal, AxisVertical} {
			if runLength(cc, axis, pieceAt) >= minMatch {
				return true
			}
		}
	}
	return false
}

func runLength(seed *Cell, axis Axis, pieceAt func(*Cell) Piece) int {
	p := pieceAt(seed)
	if p == nil {
		return 0
	}
	same := func(c *Cell) bool {
		q := pieceAt(c)
		return q != nil && p.SameTypeAs(q)
	}
	prev, next := steps(axis)
	n := 1
	for c := prev(seed); c != nil && same(c); c = prev(c) {
		n++
	}
	for c := next(seed); c != nil && same(c); c = next(c) {
		n++
	}
	return n
}
