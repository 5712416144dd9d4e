package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRunRowOfThree(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc, "RRR")
	r := NewResolver(b)

	for _, seed := range b.Cells() {
		run := r.DetectRun(seed, AxisHorizontal)
		require.Len(t, run, 3)
		assert.Equal(t, []*Cell{b.Cell(0, 0), b.Cell(1, 0), b.Cell(2, 0)}, run)
	}

	h := r.DetectRun(b.Cell(1, 0), AxisHorizontal)
	v := r.DetectRun(b.Cell(1, 0), AxisVertical)
	assert.Len(t, v, 1)
	assert.Equal(t, DirectionHorizontal, r.ResolveDirection(h, v))

	assert.Equal(t, 3, r.Explode(h))
	for _, c := range b.Cells() {
		assert.True(t, c.IsEmpty())
	}
}

func TestDetectRunStopsAtOtherTypes(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"E",
		"R",
		"R",
		"T",
		"R",
	)
	r := NewResolver(b)

	run := r.DetectRun(b.Cell(0, 2), AxisVertical)
	assert.Equal(t, []*Cell{b.Cell(0, 2), b.Cell(0, 3)}, run)
	assert.Nil(t, r.DetectRun(nil, AxisVertical))

	empty := boardFromRows(t, svc, ".")
	assert.Nil(t, NewResolver(empty).DetectRun(empty.Cell(0, 0), AxisHorizontal))
}

func TestDetectRunIgnoresBonuses(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc, "hhh")
	r := NewResolver(b)
	assert.Len(t, r.DetectRun(b.Cell(1, 0), AxisHorizontal), 1)
	assert.Empty(t, r.FindMatches())
}

func TestResolveDirection(t *testing.T) {
	svc := testServices(t)
	r := NewResolver(boardFromRows(t, svc, "R"))
	run := func(n int) []*Cell { return make([]*Cell, n) }

	tests := []struct {
		name string
		h, v int
		want Direction
	}{
		{"none", 2, 2, DirectionNone},
		{"horizontal", 3, 1, DirectionHorizontal},
		{"vertical", 1, 4, DirectionVertical},
		{"both", 3, 3, DirectionAll},
		{"empty", 0, 0, DirectionNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.ResolveDirection(run(tc.h), run(tc.v)))
		})
	}
}

func TestFindMatchesCrossingIsAll(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"RET",
		"RTE",
		"RRR",
	)
	r := NewResolver(b)

	matches := r.FindMatches()
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, DirectionAll, m.Direction)
	assert.Same(t, b.Cell(0, 0), m.Seed)
	assert.Len(t, m.Cells, 5)
	assert.ElementsMatch(t, []*Cell{
		b.Cell(0, 0), b.Cell(1, 0), b.Cell(2, 0), b.Cell(0, 1), b.Cell(0, 2),
	}, m.Cells)
}

func TestFindMatchesSharedRowReportedOnce(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"RETR",
		"RRRR",
		"RSTR",
		"ESAS",
	)
	r := NewResolver(b)

	matches := r.FindMatches()
	require.Len(t, matches, 2)

	seen := make(map[*Cell]bool)
	for _, m := range matches {
		for _, c := range m.Cells {
			assert.False(t, seen[c], "cell %v reported twice", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, 8)

	all, rest := matches[0], matches[1]
	assert.Equal(t, DirectionAll, all.Direction)
	assert.Same(t, b.Cell(0, 2), all.Seed)
	assert.Len(t, all.Cells, 6)

	assert.Equal(t, DirectionVertical, rest.Direction)
	assert.ElementsMatch(t, []*Cell{b.Cell(3, 1), b.Cell(3, 3)}, rest.Cells)
	_, ok := r.ConvertToBonus(rest, nil)
	assert.False(t, ok, "leftover of a shared run earns no bonus")
}

func TestFindMatchesSeparateRuns(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"EEE",
		"RTS",
		"RRR",
	)
	matches := NewResolver(b).FindMatches()
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, DirectionHorizontal, m.Direction)
		assert.Len(t, m.Cells, 3)
	}
}

func TestConvertToBonus(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		trigger [2]int
		want    Piece
	}{
		{"three is not enough", []string{"RRRE"}, [2]int{1, 0}, nil},
		{"four in a row", []string{"RRRR"}, [2]int{2, 0}, Bonus{Kind: BonusHorizontal}},
		{"five in a row", []string{"RRRRR"}, [2]int{0, 0}, Bonus{Kind: BonusBomb}},
		{"four in a column", []string{"R", "R", "R", "R"}, [2]int{0, 1}, Bonus{Kind: BonusVertical}},
		{"crossing", []string{"R..", "R..", "RRR"}, [2]int{0, 0}, Bonus{Kind: BonusBomb}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := testServices(t)
			b := boardFromRows(t, svc, tc.rows...)
			r := NewResolver(b)
			matches := r.FindMatches()
			require.Len(t, matches, 1)

			trigger := b.Cell(tc.trigger[0], tc.trigger[1])
			got, ok := r.ConvertToBonus(matches[0], trigger)
			if tc.want == nil {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}
			require.True(t, ok)
			assert.Same(t, trigger, got)
			assert.Equal(t, tc.want, got.Item().Piece())
		})
	}
}

func TestConvertToBonusFallsBackToSeed(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc, "RRRRE")
	r := NewResolver(b)
	m, ok := r.FindMatch(b.Cell(2, 0))
	require.True(t, ok)

	got, ok := r.ConvertToBonus(m, b.Cell(4, 0))
	require.True(t, ok)
	assert.Same(t, b.Cell(2, 0), got)
}

func TestCheckBonusIfCompatible(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"SEA",
		"ThP",
		"RRR",
	)
	r := NewResolver(b)
	m, ok := r.FindMatch(b.Cell(0, 0))
	require.True(t, ok)

	got := r.CheckBonusIfCompatible(m.Cells)
	assert.ElementsMatch(t, []*Cell{
		b.Cell(0, 0), b.Cell(1, 0), b.Cell(2, 0),
		b.Cell(0, 1), b.Cell(1, 1), b.Cell(2, 1),
	}, got)

	// An excluded bonus stays put.
	got = r.CheckBonusIfCompatible(m.Cells, b.Cell(1, 1))
	assert.Len(t, got, 3)
}

func TestCheckBonusChains(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"SEvA",
		"ThPO",
		"RRRE",
	)
	r := NewResolver(b)
	m, ok := r.FindMatch(b.Cell(0, 0))
	require.True(t, ok)

	// The horizontal bonus clears row 1; the vertical bonus is not in it,
	// so nothing in column 2's top cell fires.
	got := r.CheckBonusIfCompatible(m.Cells)
	assert.Len(t, got, 7)
	assert.NotContains(t, got, b.Cell(2, 2))

	b2 := boardFromRows(t, svc,
		"SEAO",
		"ThvP",
		"RRRE",
	)
	r2 := NewResolver(b2)
	m2, ok := r2.FindMatch(b2.Cell(0, 0))
	require.True(t, ok)

	// The row bonus reaches the column bonus, which then clears column 2.
	got = r2.CheckBonusIfCompatible(m2.Cells)
	assert.Contains(t, got, b2.Cell(2, 2))
	assert.Contains(t, got, b2.Cell(3, 1))
	assert.NotContains(t, got, b2.Cell(3, 0))
}

func TestGravityKeepsOrder(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"R",
		".",
		"E",
		".",
		"T",
	)
	r := NewResolver(b)
	first := b.Cell(0, 4).Item()

	assert.Equal(t, 2, r.Gravity())
	assert.Equal(t, rows(".", ".", "R", "E", "T"), b.String())
	assert.Same(t, b.Cell(0, 2), first.Cell())
	assert.Zero(t, r.Gravity())
}

func TestGravitySkipsHoles(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		".",
		"R",
		".",
		".",
	)
	require.NoError(t, b.SetHole(0, 1))
	r := NewResolver(b)

	assert.Equal(t, 1, r.Gravity())
	assert.False(t, b.Cell(0, 0).IsEmpty())
	assert.True(t, b.Cell(0, 1).IsEmpty())
}

func TestRescanOnStableBoardDoesNothing(t *testing.T) {
	svc := testServices(t)
	events := &EventLog{}
	svc.Events = events
	b := boardFromRows(t, svc,
		"RET",
		"ETR",
		"TRE",
	)
	before := b.String()
	items := make([]*Item, 0, 9)
	for _, c := range b.Cells() {
		items = append(items, c.Item())
	}

	rep, err := NewResolver(b).Rescan()
	require.NoError(t, err)

	assert.Zero(t, rep.Passes)
	assert.Zero(t, rep.Exploded)
	assert.Equal(t, before, b.String())
	for i, c := range b.Cells() {
		assert.Same(t, items[i], c.Item())
	}
	require.Len(t, events.Events, 1)
	assert.Equal(t, PhaseCompleted{Board: "test", Phase: PhaseStable}, events.Events[0])
}

func TestResolveRunsToStable(t *testing.T) {
	svc := testServices(t, func(s *Settings) { s.ItemTypes = MaxItemTypes })
	events := &EventLog{}
	svc.Events = events
	b := boardFromRows(t, svc,
		"RET",
		"ETS",
		"RRR",
	)
	r := NewResolver(b)

	rep, err := r.Resolve(nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, rep.Passes, 1)
	assert.GreaterOrEqual(t, rep.Exploded, 3)
	assert.False(t, rep.Capped)
	assert.Empty(t, r.FindMatches())
	assert.Equal(t, 9, b.Count())
	assert.False(t, r.Busy())

	first, ok := events.Events[0].(MatchFound)
	require.True(t, ok, "first event is %T", events.Events[0])
	assert.Equal(t, DirectionHorizontal, first.Direction)

	var phases []Phase
	for _, e := range events.Events {
		if p, ok := e.(PhaseCompleted); ok && p.Pass == 1 {
			phases = append(phases, p.Phase)
		}
	}
	assert.Equal(t, []Phase{PhaseDetect, PhaseConvertBonus, PhaseExplode, PhaseGravity, PhaseRefill}, phases[:5])
}

func TestResolveCreatesBonusAtTrigger(t *testing.T) {
	svc := testServices(t, func(s *Settings) { s.ItemTypes = MaxItemTypes })
	b := boardFromRows(t, svc,
		"ETSA",
		"RRRR",
	)
	r := NewResolver(b)

	var converted Piece
	var survivors int
	svc.Events = SinkFunc(func(e Event) {
		p, ok := e.(PhaseCompleted)
		if !ok || p.Pass != 1 {
			return
		}
		switch p.Phase {
		case PhaseConvertBonus:
			converted = b.Cell(3, 0).Item().Piece()
		case PhaseExplode:
			survivors = b.Count()
		}
	})

	rep, err := r.Resolve(b.Cell(3, 0))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rep.Bonuses, 1)
	assert.Equal(t, Bonus{Kind: BonusHorizontal}, converted)
	// Row 1 plus the new bonus survive the first explosion.
	assert.Equal(t, 5, survivors)
}

func TestResolveRejectsReentry(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc, "RRR")
	r := NewResolver(b)

	var inner error
	svc.Events = SinkFunc(func(e Event) {
		if _, ok := e.(MatchFound); ok {
			_, inner = r.Resolve(nil)
		}
	})
	_, err := r.Resolve(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrBusy)
	assert.ErrorIs(t, inner, ErrRejected)
}

func TestResolveStopsAtPassLimit(t *testing.T) {
	svc := testServices(t, func(s *Settings) {
		s.ItemTypes = 1
		s.MaxCascadePasses = 2
	})
	b := boardFromRows(t, svc, "RRR")

	rep, err := NewResolver(b).Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Passes)
	assert.True(t, rep.Capped)
}

func TestPop(t *testing.T) {
	svc := testServices(t, func(s *Settings) { s.ItemTypes = MaxItemTypes })
	b := boardFromRows(t, svc,
		"ETS",
		"RSR",
	)
	r := NewResolver(b)

	_, err := r.Pop(nil)
	assert.ErrorIs(t, err, ErrRejected)

	rep, err := r.Pop(b.Cell(0, 1))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rep.Exploded, 1)
	assert.Equal(t, 6, b.Count())
	assert.Empty(t, r.FindMatches())
}

func TestPopBonusFiresEffect(t *testing.T) {
	svc := testServices(t, func(s *Settings) { s.ItemTypes = MaxItemTypes })
	b := boardFromRows(t, svc,
		"ETS",
		"RvO",
		"SAP",
	)
	rep, err := NewResolver(b).Pop(b.Cell(1, 1))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rep.Exploded, 3)
	assert.Equal(t, 9, b.Count())
}

func TestGetPotentialMatchesBackpack(t *testing.T) {
	svc := testServices(t)
	src := boardFromRows(t, svc, "EE")
	b := boardFromRows(t, svc, "RET")
	bp := NewBackpack(svc)
	require.NoError(t, bp.AddItem(src.Cell(0, 0).Item()))
	require.NoError(t, bp.AddItem(src.Cell(1, 0).Item()))

	got := NewResolver(b).GetPotentialMatches(bp)
	require.Len(t, got, 3)
	assert.Same(t, b.Cell(1, 0), got[0])
	assert.Same(t, bp.Slots()[0], got[1])
	assert.Same(t, bp.Slots()[1], got[2])
}

func TestGetPotentialMatchesCascade(t *testing.T) {
	svc := testServices(t)
	b := boardFromRows(t, svc,
		"ERT",
		"RSR",
	)
	got := NewResolver(b).GetPotentialMatches(nil)
	assert.Equal(t, []*Cell{b.Cell(1, 0)}, got)

	stable := boardFromRows(t, svc, "RET")
	assert.Nil(t, NewResolver(stable).GetPotentialMatches(nil))
}
