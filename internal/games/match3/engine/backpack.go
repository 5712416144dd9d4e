package engine

import "fmt"

// tripleSize is how many same-type items clear each other, both on fill
// and in the backpack.
const tripleSize = 3

// Backpack is a fixed row of slots. Items collected from a board land in
// the lowest free slot; any three of a kind vanish and the rest close up
// to the left in their original order.
type Backpack struct {
	slots []*Cell
	svc   *Services
}

// NewBackpack allocates Settings.BackpackCapacity empty slots.
func NewBackpack(svc *Services) *Backpack {
	n := svc.Settings.BackpackCapacity
	bp := &Backpack{
		slots: make([]*Cell, n),
		svc:   svc,
	}
	for i := range bp.slots {
		bp.slots[i] = &Cell{
			x:          i,
			pos:        Vec2{X: float64(i) - float64(n-1)*0.5},
			inBackpack: true,
		}
	}
	for i, s := range bp.slots {
		if i > 0 {
			s.left = bp.slots[i-1]
		}
		if i < n-1 {
			s.right = bp.slots[i+1]
		}
	}
	return bp
}

// Capacity returns the number of slots.
func (bp *Backpack) Capacity() int { return len(bp.slots) }

// Slots returns the slot cells in order. The slice must not be modified.
func (bp *Backpack) Slots() []*Cell { return bp.slots }

// Count returns the number of occupied slots.
func (bp *Backpack) Count() int {
	n := 0
	for _, s := range bp.slots {
		if s.item != nil {
			n++
		}
	}
	return n
}

// IsFull reports whether every slot is occupied.
func (bp *Backpack) IsFull() bool { return bp.Count() == len(bp.slots) }

// IsEmpty reports whether no slot is occupied.
func (bp *Backpack) IsEmpty() bool { return bp.Count() == 0 }

// ShouldAccept reports whether adding it is a good idea: there is room and
// the backpack is either empty or already holds its type.
func (bp *Backpack) ShouldAccept(it *Item) bool {
	if it == nil || bp.IsFull() {
		return false
	}
	return bp.IsEmpty() || len(bp.slotsMatching(it)) > 0
}

// AddItem moves it from its board cell into the lowest free slot, then
// clears triples and compacts. When the backpack is full nothing changes,
// BackpackFull is emitted and ErrFull returned.
func (bp *Backpack) AddItem(it *Item) error {
	if it == nil {
		return fmt.Errorf("%w: no item", ErrRejected)
	}
	if src := it.cell; src != nil && src.inBackpack {
		return fmt.Errorf("%w: item already in backpack", ErrRejected)
	}

	var slot *Cell
	for _, s := range bp.slots {
		if s.item == nil {
			slot = s
			break
		}
	}
	if slot == nil {
		bp.svc.Log.Debug("backpack full", "item", it.piece)
		bp.svc.emit(BackpackFull{Item: it})
		return ErrFull
	}

	if src := it.cell; src != nil {
		if _, err := src.board.Take(src); err != nil {
			return err
		}
	}
	slot.assign(it)
	bp.resolve()
	return nil
}

// Reset destroys every item in the backpack.
func (bp *Backpack) Reset() {
	for _, s := range bp.slots {
		if it := s.detach(); it != nil {
			it.destroy()
		}
	}
}

// Types returns the normal type in each slot; ok is false for empty slots
// and bonuses.
func (bp *Backpack) Types() []SlotType {
	out := make([]SlotType, len(bp.slots))
	for i, s := range bp.slots {
		if s.item != nil {
			out[i].Type, out[i].OK = s.item.NormalType()
		}
	}
	return out
}

// SlotType is the content of one slot as reported by Types.
type SlotType struct {
	Type NormalType
	OK   bool
}

func (bp *Backpack) slotsMatching(it *Item) []*Cell {
	var out []*Cell
	for _, s := range bp.slots {
		if s.item != nil && s.item.SameTypeAs(it) {
			out = append(out, s)
		}
	}
	return out
}

// resolve removes the first three items of every type that reached three,
// then left-compacts the survivors. It returns the number of triples.
func (bp *Backpack) resolve() int {
	var order []NormalType
	groups := make(map[NormalType][]int)
	for i, s := range bp.slots {
		if s.item == nil {
			continue
		}
		t, ok := s.item.NormalType()
		if !ok {
			continue
		}
		if _, seen := groups[t]; !seen {
			order = append(order, t)
		}
		groups[t] = append(groups[t], i)
	}

	cleared := 0
	for _, t := range order {
		idx := groups[t]
		if len(idx) < tripleSize {
			continue
		}
		idx = idx[:tripleSize]
		for _, i := range idx {
			it := bp.slots[i].detach()
			it.view.PlayScaleToZero()
			it.destroy()
		}
		bp.svc.emit(BackpackCleared{Type: t, Slots: idx})
		cleared++
	}
	if cleared > 0 {
		bp.compact()
	}
	return cleared
}

func (bp *Backpack) compact() {
	var kept []*Item
	for _, s := range bp.slots {
		if it := s.detach(); it != nil {
			kept = append(kept, it)
		}
	}
	for i, it := range kept {
		bp.slots[i].assign(it)
	}
}
