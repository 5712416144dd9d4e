package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stuff puts items straight into the slots, bypassing AddItem's
// resolution, so a given backpack state can be set up.
func stuff(t *testing.T, svc *Services, bp *Backpack, layout string) []*Item {
	t.Helper()
	src := boardFromRows(t, svc, layout)
	var items []*Item
	for i := 0; i < len(layout); i++ {
		it, err := src.Take(src.Cell(i, 0))
		require.NoError(t, err)
		bp.slots[i].assign(it)
		items = append(items, it)
	}
	return items
}

func slotString(bp *Backpack) string {
	out := make([]byte, 0, bp.Capacity())
	for _, s := range bp.Slots() {
		out = append(out, cellChar(s))
	}
	return string(out)
}

func TestBackpackResolveAAABB(t *testing.T) {
	svc := testServices(t)
	bp := NewBackpack(svc)
	items := stuff(t, svc, bp, "RRREE")
	events := &EventLog{}
	svc.Events = events

	assert.Equal(t, 1, bp.resolve())
	assert.Equal(t, "EE...", slotString(bp))
	assert.Same(t, items[3], bp.Slots()[0].Item())
	assert.Same(t, items[4], bp.Slots()[1].Item())
	for _, it := range items[:3] {
		assert.Nil(t, it.Cell(), "cleared items are destroyed")
	}

	require.Len(t, events.Events, 1)
	assert.Equal(t, BackpackCleared{Type: TypeRuby, Slots: []int{0, 1, 2}}, events.Events[0])
}

func TestBackpackResolveKeepsOrder(t *testing.T) {
	svc := testServices(t)
	bp := NewBackpack(svc)
	items := stuff(t, svc, bp, "ERTRR")

	assert.Equal(t, 1, bp.resolve())
	assert.Equal(t, "ET...", slotString(bp))
	assert.Same(t, items[0], bp.Slots()[0].Item())
	assert.Same(t, items[2], bp.Slots()[1].Item())
}

func TestBackpackResolveTwoGroups(t *testing.T) {
	svc := testServices(t, func(s *Settings) { s.BackpackCapacity = 6 })
	bp := NewBackpack(svc)
	stuff(t, svc, bp, "RERERE")

	assert.Equal(t, 2, bp.resolve())
	assert.True(t, bp.IsEmpty())
}

func TestBackpackResolveOnlyFirstThree(t *testing.T) {
	svc := testServices(t, func(s *Settings) { s.BackpackCapacity = 6 })
	bp := NewBackpack(svc)
	items := stuff(t, svc, bp, "RRERRT")

	assert.Equal(t, 1, bp.resolve())
	assert.Equal(t, "ERT...", slotString(bp))
	assert.Same(t, items[4], bp.Slots()[1].Item())
}

func TestBackpackAddItemMovesFromBoard(t *testing.T) {
	svc := testServices(t)
	events := &EventLog{}
	svc.Events = events
	b := boardFromRows(t, svc, "RE")
	bp := NewBackpack(svc)
	it := b.Cell(1, 0).Item()

	require.NoError(t, bp.AddItem(it))
	assert.True(t, b.Cell(1, 0).IsEmpty())
	assert.Same(t, bp.Slots()[0], it.Cell())
	assert.True(t, it.Cell().InBackpack())
	assert.Equal(t, 1, bp.Count())

	got := removals(events)
	require.Len(t, got, 1)
	assert.Equal(t, RemovedCollected, got[0].Reason)
	assert.Same(t, b.Cell(1, 0), got[0].Cell)

	err := bp.AddItem(it)
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, bp.AddItem(nil), ErrRejected)
}

func TestBackpackTripleOnInsert(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc, "RERTR")
	bp := NewBackpack(svc)

	for _, c := range b.Cells() {
		require.NoError(t, bp.AddItem(c.Item()))
		assert.LessOrEqual(t, bp.Count(), bp.Capacity())
	}
	assert.Equal(t, "ET...", slotString(bp))
	assert.True(t, b.IsEmpty())
}

func TestBackpackFullLeavesEverythingUnchanged(t *testing.T) {
	svc := testServices(t)
	events := &EventLog{}
	svc.Events = events
	b := boardFromRows(t, svc, "RRETTS")
	bp := NewBackpack(svc)
	for x := 0; x < 5; x++ {
		require.NoError(t, bp.AddItem(b.Cell(x, 0).Item()))
	}
	require.True(t, bp.IsFull())
	before := make([]*Item, 0, 5)
	for _, s := range bp.Slots() {
		before = append(before, s.Item())
	}
	events.Reset()

	last := b.Cell(5, 0).Item()
	err := bp.AddItem(last)
	assert.ErrorIs(t, err, ErrFull)

	assert.Same(t, b.Cell(5, 0), last.Cell(), "source cell keeps its item")
	for i, s := range bp.Slots() {
		assert.Same(t, before[i], s.Item())
	}
	require.Len(t, events.Events, 1)
	assert.Equal(t, BackpackFull{Item: last}, events.Events[0])
}

func TestBackpackShouldAccept(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc, "RRETTSR")
	bp := NewBackpack(svc)

	assert.True(t, bp.ShouldAccept(b.Cell(0, 0).Item()), "empty backpack accepts anything")
	assert.False(t, bp.ShouldAccept(nil))

	require.NoError(t, bp.AddItem(b.Cell(0, 0).Item()))
	assert.True(t, bp.ShouldAccept(b.Cell(1, 0).Item()))
	assert.False(t, bp.ShouldAccept(b.Cell(2, 0).Item()))

	for x := 1; x < 5; x++ {
		require.NoError(t, bp.AddItem(b.Cell(x, 0).Item()))
	}
	require.True(t, bp.IsFull())
	assert.False(t, bp.ShouldAccept(b.Cell(6, 0).Item()), "full backpack accepts nothing")
	assert.Equal(t, 5, bp.Count(), "query does not mutate")
}

func TestBackpackBonusNeverGroups(t *testing.T) {
	svc := testServices(t)
	bp := NewBackpack(svc)
	stuff(t, svc, bp, "hhh")

	assert.Zero(t, bp.resolve())
	assert.Equal(t, 3, bp.Count())
}

func TestBackpackReset(t *testing.T) {
	svc := testServices(t)
	bp := NewBackpack(svc)
	items := stuff(t, svc, bp, "RE")

	bp.Reset()
	assert.True(t, bp.IsEmpty())
	assert.Nil(t, items[0].Cell())
	types := bp.Types()
	require.Len(t, types, 5)
	assert.False(t, types[0].OK)
}

func TestBackpackSlotLinks(t *testing.T) {
	svc := testServices(t)
	bp := NewBackpack(svc)
	slots := bp.Slots()

	assert.Nil(t, slots[0].Left())
	assert.Same(t, slots[1], slots[0].Right())
	assert.True(t, slots[0].IsNeighbour(slots[1]))
	assert.False(t, slots[0].IsNeighbour(slots[2]))
	assert.Equal(t, Vec2{X: -2}, slots[0].Pos())
	assert.Equal(t, Vec2{X: 2}, slots[4].Pos())
}
