package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overlapBoards(t *testing.T, svc *Services, n int) (*Board, *Board) {
	t.Helper()
	upper, err := Setup(svc, "upper", LayerHighest, n, n)
	require.NoError(t, err)
	lower, err := Setup(svc, "lower", LayerLowest, n+1, n+1)
	require.NoError(t, err)
	return upper, lower
}

// assertCoverage checks every lower counter against the occupied upper
// cells that map to it, and the interactable rule against the counter.
func assertCoverage(t *testing.T, tr *OverlapTracker) {
	t.Helper()
	want := make(map[*Cell]int)
	for _, c := range tr.upper.Cells() {
		if c.IsEmpty() {
			continue
		}
		for _, l := range tr.Covers(c) {
			want[l]++
		}
	}
	for _, l := range tr.lower.Cells() {
		require.Equal(t, want[l], l.Overlap(), "lower %s counter", l)
		require.GreaterOrEqual(t, l.Overlap(), 0)
		if !l.IsHole() {
			require.Equal(t, l.Overlap() == 0, l.Interactable(), "lower %s interactable", l)
		}
	}
}

func TestOverlapSingleItemAtOrigin(t *testing.T) {
	svc := testServices(t)
	pres := &recordingPresenter{}
	svc.Presenter = pres
	upper, lower := overlapBoards(t, svc, 3)
	_, err := upper.Place(0, 0, Normal{Type: TypeRuby})
	require.NoError(t, err)

	tr, err := NewOverlapTracker(upper, lower)
	require.NoError(t, err)

	covered := []*Cell{lower.Cell(0, 0), lower.Cell(1, 0), lower.Cell(0, 1), lower.Cell(1, 1)}
	assert.ElementsMatch(t, covered, tr.Covers(upper.Cell(0, 0)))
	for _, l := range lower.Cells() {
		if contains(covered, l) {
			assert.Equal(t, 1, l.Overlap(), "lower %s", l)
			assert.False(t, l.Interactable())
		} else {
			assert.Zero(t, l.Overlap(), "lower %s", l)
			assert.True(t, l.Interactable())
		}
	}

	pres.dims = nil
	_, err = upper.Take(upper.Cell(0, 0))
	require.NoError(t, err)

	for _, l := range lower.Cells() {
		assert.Zero(t, l.Overlap(), "lower %s", l)
		assert.True(t, l.Interactable())
	}
	require.Len(t, pres.dims, 4, "exactly the four covered cells are undimmed")
	for _, d := range pres.dims {
		assert.False(t, d.dimmed)
		assert.Contains(t, covered, d.cell)
	}
}

func TestOverlapEveryUpperCellMapsFourLowerCells(t *testing.T) {
	svc := testServices(t)
	upper, lower := overlapBoards(t, svc, 6)
	tr, err := NewOverlapTracker(upper, lower)
	require.NoError(t, err)

	hits := make(map[*Cell]int)
	for _, c := range upper.Cells() {
		mapped := tr.Covers(c)
		require.Len(t, mapped, 4)
		seen := make(map[*Cell]bool)
		for _, l := range mapped {
			assert.False(t, seen[l], "duplicate lower cell for %s", c)
			seen[l] = true
			assert.Same(t, lower, l.Board())
			hits[l]++
		}
		assert.Equal(t, c.X(), mapped[0].X())
		assert.Equal(t, c.Y(), mapped[0].Y())
	}
	// Every lower cell is under at least one upper cell; corners under one.
	assert.Len(t, hits, 49)
	assert.Equal(t, 1, hits[lower.Cell(0, 0)])
	assert.Equal(t, 4, hits[lower.Cell(3, 3)])
}

func TestOverlapRejectsMismatchedBoards(t *testing.T) {
	svc := testServices(t)
	upper, err := Setup(svc, "upper", LayerHighest, 3, 3)
	require.NoError(t, err)
	lower, err := Setup(svc, "lower", LayerLowest, 3, 3)
	require.NoError(t, err)

	_, err = NewOverlapTracker(upper, lower)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverlapDoubleReleasePanics(t *testing.T) {
	svc := testServices(t)
	upper, lower := overlapBoards(t, svc, 3)
	_, err := upper.Place(1, 1, Normal{Type: TypeRuby})
	require.NoError(t, err)
	tr, err := NewOverlapTracker(upper, lower)
	require.NoError(t, err)

	_, err = upper.Take(upper.Cell(1, 1))
	require.NoError(t, err)
	assertCoverage(t, tr)

	requireInvariant(t, func() { tr.release(upper.Cell(1, 1)) })
	requireInvariant(t, func() { tr.release(upper.Cell(0, 0)) })
}

func TestOverlapCounterNeverNegative(t *testing.T) {
	svc := testServices(t)
	upper, lower := overlapBoards(t, svc, 3)
	_, err := upper.Place(0, 0, Normal{Type: TypeRuby})
	require.NoError(t, err)
	tr, err := NewOverlapTracker(upper, lower)
	require.NoError(t, err)

	lower.Cell(1, 1).overlap = 0
	requireInvariant(t, func() { tr.release(upper.Cell(0, 0)) })
}

func TestOverlapFollowsPlacementAndGravity(t *testing.T) {
	svc := testServices(t)
	upper, lower := overlapBoards(t, svc, 3)
	tr, err := NewOverlapTracker(upper, lower)
	require.NoError(t, err)
	assertCoverage(t, tr)

	_, err = upper.Place(2, 2, Normal{Type: TypeTopaz})
	require.NoError(t, err)
	assertCoverage(t, tr)
	assert.Equal(t, 1, lower.Cell(3, 3).Overlap())

	NewResolver(upper).Gravity()
	assert.True(t, upper.Cell(2, 2).IsEmpty())
	assert.False(t, upper.Cell(2, 0).IsEmpty())
	assertCoverage(t, tr)
	assert.Zero(t, lower.Cell(3, 3).Overlap())
	assert.True(t, lower.Cell(3, 3).Interactable())
}

func TestOverlapInitializeIsIdempotent(t *testing.T) {
	svc := testServices(t)
	upper, lower := overlapBoards(t, svc, 3)
	require.NoError(t, upper.FillWithRandomItems())
	tr, err := NewOverlapTracker(upper, lower)
	require.NoError(t, err)

	before := make([]int, 0, 16)
	for _, l := range lower.Cells() {
		before = append(before, l.Overlap())
	}
	tr.Initialize()
	for i, l := range lower.Cells() {
		assert.Equal(t, before[i], l.Overlap())
	}
	assertCoverage(t, tr)
}

func TestOverlapClearingUpperBoardUncoversEverything(t *testing.T) {
	svc := testServices(t)
	upper, lower := overlapBoards(t, svc, 3)
	require.NoError(t, upper.FillWithRandomItems())
	tr, err := NewOverlapTracker(upper, lower)
	require.NoError(t, err)

	for _, c := range upper.Cells() {
		_, err := upper.Take(c)
		require.NoError(t, err)
		assertCoverage(t, tr)
	}
	for _, l := range lower.Cells() {
		assert.True(t, l.Interactable())
	}
}

func contains(cells []*Cell, c *Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
