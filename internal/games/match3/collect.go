package match3

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// Game is the tile-collect mode. The player moves items from a small upper
// board and the larger board beneath it into the backpack; three of a kind
// in the backpack vanish. Clearing both boards wins, overfilling the
// backpack or running out of time loses.
type Game struct {
	cfg        config.Match3Config
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig
	log        *log.Logger

	svc       *engine.Services
	table     *engine.Table
	presenter *termPresenter
	cursor    cursor

	tick      uint64
	score     int
	triples   int
	collected int
	timeLeft  int // ticks, only counted with the timer on

	hint      []*engine.Cell
	idleTicks int

	autoplay     AutoplayMode
	autoplayUsed AutoplayMode
	autoTicks    int

	status banner
	reason string // why the round ended

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver bool
	won      bool
	paused   bool
	tooSmall bool
}

// New creates a tile-collect game.
func New() *Game {
	return &Game{}
}

// ID returns the game identifier.
func (g *Game) ID() string { return IDCollect }

// Title returns the display name.
func (g *Game) Title() string { return "Tile Collect" }

// Description returns the menu blurb.
func (g *Game) Description() string {
	return "Collect tiles into the backpack; three of a kind vanish"
}

// Reset deals a new round.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	g.log = logger.With("game", IDCollect)
	g.cfg = loadConfig(g.log)
	g.presenter = newTermPresenter()

	table, err := g.deal(rc.Seed)
	if err != nil {
		g.log.Warn("invalid match3 tuning, using defaults", "err", err)
		g.cfg = config.DefaultMatch3Config()
		table, err = g.deal(rc.Seed)
	}
	if err != nil {
		panic(fmt.Sprintf("match3: default tuning rejected: %v", err))
	}
	g.table = table
	g.svc = table.Services()
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.presenter.clearEffects()
	g.cursor = newCursor(table.Upper(), table.Lower())

	g.tick = 0
	g.score = 0
	g.triples = 0
	g.collected = 0
	g.timeLeft = g.difficulty.TimeLimit(g.cfg.Timer.Seconds) * tickRate(rc)
	g.hint = nil
	g.idleTicks = 0
	g.autoplay = autoplayDefault
	g.autoplayUsed = autoplayDefault
	g.autoTicks = 0
	g.status = banner{}
	g.reason = ""

	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.gameOver = false
	g.won = false
	g.paused = false
	g.checkScreenSize()

	g.log.Debug("round dealt", "seed", rc.Seed, "items", table.Remaining())
}

func (g *Game) deal(seed int64) (*engine.Table, error) {
	svc, err := newServices(collectSettings(g.cfg), seed, g.log, g.presenter, engine.SinkFunc(g.onEvent))
	if err != nil {
		return nil, err
	}
	table, err := engine.NewTable(svc)
	if err != nil {
		return nil, err
	}
	if err := table.Deal(); err != nil {
		return nil, err
	}
	return table, nil
}

// onEvent keeps score from engine events.
func (g *Game) onEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.ItemRemoved:
		if e.Reason == engine.RemovedCollected {
			g.collected++
		}
	case engine.BackpackCleared:
		g.triples++
		g.score += pointsPerTriple
		if g.cfg.Timer.Enabled {
			bonus := g.difficulty.TripleBonus(g.cfg.Timer.TripleBonus, g.score, int(g.tick))
			g.timeLeft += bonus * tickRate(g.runtime)
		}
		g.status.show(fmt.Sprintf("Three %ss cleared!", e.Type))
	case engine.BackpackFull:
		g.lose("Backpack overflow")
	}
}

// Resize follows a terminal resize without restarting the round.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW, g.runtime.ScreenH = width, height
	g.screenW, g.screenH = width, height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	w, h := g.layoutSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.presenter.tick()
	g.status.tick()

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		// Restart is handled by the platform.
		return core.StepResult{State: g.State()}
	}

	if g.cfg.Timer.Enabled {
		g.timeLeft--
		if g.timeLeft <= 0 {
			g.timeLeft = 0
			g.lose("Time is up")
			return core.StepResult{State: g.State()}
		}
	}

	if in.Has(core.ActionAutoplay) {
		g.autoplay = g.autoplay.next()
		if g.autoplay != AutoplayOff {
			g.autoplayUsed = g.autoplay
		}
		g.autoTicks = 0
		g.status.show("Autoplay: " + g.autoplay.String())
	}

	if g.cursor.handle(in) {
		g.touch()
	}
	if in.Has(core.ActionHint) {
		g.showHint()
	}

	// Removal effects keep the table busy.
	if g.presenter.animating() {
		return core.StepResult{State: g.State()}
	}

	switch {
	case g.autoplay != AutoplayOff:
		g.autoTicks++
		if g.autoTicks >= autoplayDelayTicks(g.cfg.Autoplay.DelayMS, tickRate(g.runtime)) {
			g.autoTicks = 0
			if c := pickAutoplay(g.table, g.autoplay); c != nil {
				g.cursor.focus(c)
				g.collect(c)
			}
		}
	case in.Has(core.ActionConfirm):
		g.touch()
		g.collect(g.cursor.cell())
	default:
		g.idleTicks++
		idle := g.cfg.Hint.IdleSeconds * tickRate(g.runtime)
		if idle > 0 && g.idleTicks >= idle && g.hint == nil {
			g.showHint()
		}
	}

	return core.StepResult{State: g.State()}
}

// collect tries to move the item under c into the backpack.
func (g *Game) collect(c *engine.Cell) {
	err := g.table.Collect(c)
	switch {
	case err == nil:
		g.hint = nil
		if g.table.IsCleared() {
			g.win()
		}
	case errors.Is(err, engine.ErrFull):
		// BackpackFull already ended the round.
	case errors.Is(err, engine.ErrBusy):
	case errors.Is(err, engine.ErrRejected):
		g.status.show(rejectReason(c))
	default:
		g.log.Error("collect failed", "cell", c, "err", err)
	}
}

func rejectReason(c *engine.Cell) string {
	switch {
	case c == nil || c.IsHole() || c.IsEmpty():
		return "Nothing to take there"
	case !c.Interactable():
		return "Covered by the top board"
	default:
		return "Can't take that"
	}
}

// touch records player activity: the idle timer restarts and hints hide.
func (g *Game) touch() {
	g.idleTicks = 0
	g.hint = nil
}

// showHint highlights a cell that completes a triple. Without one it
// falls back to any item the backpack accepts.
func (g *Game) showHint() {
	g.idleTicks = 0
	if cells := g.table.Hint(); len(cells) > 0 {
		g.hint = cells
		return
	}
	bp := g.table.Backpack()
	for _, c := range g.table.Playable() {
		if bp.ShouldAccept(c.Item()) {
			g.hint = []*engine.Cell{c}
			return
		}
	}
	g.hint = nil
	g.status.show("No safe move")
}

func (g *Game) win() {
	g.gameOver = true
	g.won = true
	g.hint = nil
	g.reason = "Table cleared!"
	g.status.show(g.reason)
	g.log.Info("round won", "score", g.score, "ticks", g.tick)
}

func (g *Game) lose(reason string) {
	if g.gameOver {
		return
	}
	g.gameOver = true
	g.won = false
	g.hint = nil
	g.reason = reason
	g.status.show(reason)
	g.log.Info("round lost", "reason", reason, "score", g.score, "ticks", g.tick)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Won:      g.won,
		Paused:   g.paused || g.tooSmall,
		Busy:     g.presenter != nil && g.presenter.animating(),
	}
}

// RunInfo describes the round for the run history.
func (g *Game) RunInfo() core.RunInfo {
	return runInfo(g.gameOver, g.won, g.autoplayUsed, g.runtime.Seed, g.collected, g.tick)
}

// Table exposes the engine table, mainly for tests and tooling.
func (g *Game) Table() *engine.Table { return g.table }

func runInfo(over, won bool, auto AutoplayMode, seed int64, cleared int, ticks uint64) core.RunInfo {
	outcome := "quit"
	switch {
	case over && won:
		outcome = "won"
	case over:
		outcome = "lost"
	}
	ri := core.RunInfo{Outcome: outcome, Seed: seed, Cleared: cleared, Ticks: ticks}
	if auto != AutoplayOff {
		ri.Autoplay = auto.String()
	}
	return ri
}
