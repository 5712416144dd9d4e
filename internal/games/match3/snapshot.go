package match3

import (
	"strings"

	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// StateType is the coarse phase of a round.
type StateType string

const (
	StatePlaying     StateType = "playing"
	StatePaused      StateType = "paused"
	StateWon         StateType = "won"
	StateLost        StateType = "lost"
	StateOver        StateType = "over"
	StatePausedSmall StateType = "paused_small_window"
)

// Snapshot captures the visible state of a round for determinism tests
// and replays. Boards are listed top row first.
type Snapshot struct {
	Tick      uint64
	Mode      string
	Seed      int64
	Score     int
	Remaining int
	Upper     []string
	Lower     []string
	Backpack  string
	Autoplay  string
	TimeLeft  int
	Moves     int
	State     StateType
}

// Snapshot returns the tile-collect round's state.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWon
	case g.gameOver:
		state = StateLost
	case g.paused:
		state = StatePaused
	}
	return Snapshot{
		Tick:      g.tick,
		Mode:      IDCollect,
		Seed:      g.runtime.Seed,
		Score:     g.score,
		Remaining: g.table.Remaining(),
		Upper:     boardRows(g.table.Upper()),
		Lower:     boardRows(g.table.Lower()),
		Backpack:  backpackString(g.table.Backpack()),
		Autoplay:  g.autoplay.String(),
		TimeLeft:  g.timeLeft,
		State:     state,
	}
}

// Snapshot returns the cascade round's state.
func (g *CascadeGame) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateOver
	case g.paused:
		state = StatePaused
	}
	auto := AutoplayOff
	if g.autoplay {
		auto = AutoplayWin
	}
	return Snapshot{
		Tick:      g.tick,
		Mode:      IDCascade,
		Seed:      g.runtime.Seed,
		Score:     g.score,
		Remaining: g.board.Count(),
		Upper:     boardRows(g.board),
		Autoplay:  auto.String(),
		Moves:     g.movesLeft,
		State:     state,
	}
}

func boardRows(b *engine.Board) []string {
	return strings.Split(b.String(), "\n")
}

// backpackString renders the slots left to right, '.' for empty.
func backpackString(bp *engine.Backpack) string {
	var sb strings.Builder
	for _, s := range bp.Slots() {
		it := s.Item()
		if it == nil {
			sb.WriteByte('.')
			continue
		}
		if t, ok := it.NormalType(); ok {
			sb.WriteByte(t.Char())
		} else {
			sb.WriteByte('*')
		}
	}
	return sb.String()
}
