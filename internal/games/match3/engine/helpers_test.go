package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testServices(t *testing.T, tweaks ...func(*Settings)) *Services {
	t.Helper()
	s := DefaultSettings()
	for _, tw := range tweaks {
		tw(&s)
	}
	svc, err := NewServices(s, NewRand(42))
	require.NoError(t, err)
	return svc
}

func pieceFor(t *testing.T, ch byte) (Piece, bool) {
	t.Helper()
	switch ch {
	case '.':
		return nil, false
	case 'h':
		return Bonus{Kind: BonusHorizontal}, true
	case 'v':
		return Bonus{Kind: BonusVertical}, true
	case 'b':
		return Bonus{Kind: BonusBomb}, true
	}
	for _, nt := range AllTypes {
		if nt.Char() == ch {
			return Normal{Type: nt}, true
		}
	}
	t.Fatalf("unknown layout char %q", ch)
	return nil, false
}

// boardFromRows builds a board from rows given top row first.
func boardFromRows(t *testing.T, svc *Services, rows ...string) *Board {
	t.Helper()
	h, w := len(rows), len(rows[0])
	b, err := Setup(svc, "test", LayerHighest, w, h)
	require.NoError(t, err)
	for i, row := range rows {
		require.Len(t, row, w)
		y := h - 1 - i
		for x := 0; x < w; x++ {
			if p, ok := pieceFor(t, row[x]); ok {
				_, err := b.Place(x, y, p)
				require.NoError(t, err)
			}
		}
	}
	return b
}

func rows(r ...string) string {
	return strings.Join(r, "\n")
}

func requireInvariant(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected an invariant panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var inv *InvariantError
		require.True(t, errors.As(err, &inv), "panic %v is not an InvariantError", err)
	}()
	f()
}

type dimCall struct {
	cell   *Cell
	dimmed bool
}

type recordingPresenter struct {
	dims  []dimCall
	views int
}

func (p *recordingPresenter) NewItemView(*Item) ItemView {
	p.views++
	return nopView{}
}

func (p *recordingPresenter) SetCellDimmed(c *Cell, dimmed bool) {
	p.dims = append(p.dims, dimCall{cell: c, dimmed: dimmed})
}

func removals(log *EventLog) []ItemRemoved {
	var out []ItemRemoved
	for _, e := range log.Events {
		if r, ok := e.(ItemRemoved); ok {
			out = append(out, r)
		}
	}
	return out
}

func countTypes(b *Board) map[NormalType]int {
	counts := make(map[NormalType]int)
	for _, c := range b.Cells() {
		if c.Item() == nil {
			continue
		}
		if nt, ok := c.Item().NormalType(); ok {
			counts[nt]++
		}
	}
	return counts
}
