package match3

import (
	"strings"

	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// AutoplayMode selects the automatic player's strategy.
type AutoplayMode uint8

const (
	AutoplayOff  AutoplayMode = iota
	AutoplayWin               // prefer items the backpack can use
	AutoplayLose              // prefer items the backpack cannot use
)

func (m AutoplayMode) String() string {
	switch m {
	case AutoplayWin:
		return "win"
	case AutoplayLose:
		return "lose"
	default:
		return "off"
	}
}

// ParseAutoplayMode maps a flag value to a mode. Empty and "off" mean off.
func ParseAutoplayMode(s string) (AutoplayMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return AutoplayOff, true
	case "win":
		return AutoplayWin, true
	case "lose":
		return AutoplayLose, true
	default:
		return AutoplayOff, false
	}
}

// next cycles off -> win -> lose -> off.
func (m AutoplayMode) next() AutoplayMode {
	return (m + 1) % 3
}

// pickAutoplay chooses the cell the automatic player collects next, or nil
// when nothing is playable. WIN first takes a cell that completes a triple,
// then any item the backpack accepts. LOSE takes the first item the
// backpack does not want. Both fall back to the first playable cell.
func pickAutoplay(t *engine.Table, mode AutoplayMode) *engine.Cell {
	playable := t.Playable()
	if len(playable) == 0 {
		return nil
	}
	bp := t.Backpack()

	switch mode {
	case AutoplayWin:
		if hint := t.Hint(); len(hint) > 0 {
			return hint[0]
		}
		for _, c := range playable {
			if bp.ShouldAccept(c.Item()) {
				return c
			}
		}
	case AutoplayLose:
		for _, c := range playable {
			if bp.IsEmpty() || !bp.ShouldAccept(c.Item()) {
				return c
			}
		}
	}
	return playable[0]
}

// autoplayDelayTicks converts the configured delay to simulation ticks.
func autoplayDelayTicks(delayMS, tickRate int) int {
	if tickRate <= 0 {
		tickRate = 30
	}
	return max(delayMS*tickRate/1000, 1)
}
