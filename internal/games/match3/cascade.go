package match3

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// CascadeGame is the pop mode: every move explodes one tile, the column
// above drops and refills, and any runs that form cascade for points.
// The round ends when the moves run out.
type CascadeGame struct {
	cfg     config.Match3Config
	runtime core.RuntimeConfig
	log     *log.Logger

	svc       *engine.Services
	board     *engine.Board
	resolver  *engine.Resolver
	presenter *termPresenter
	cursor    cursor

	tick      uint64
	score     int
	movesLeft int
	exploded  int
	scoring   bool // off while the opening board settles
	last      engine.Report

	hint      []*engine.Cell
	idleTicks int

	autoplay     bool
	autoplayUsed bool
	autoTicks    int

	status banner

	screenW int
	screenH int

	gameOver bool
	paused   bool
	tooSmall bool
}

// NewCascade creates a cascade-mode game.
func NewCascade() *CascadeGame {
	return &CascadeGame{}
}

// ID returns the game identifier.
func (g *CascadeGame) ID() string { return IDCascade }

// Title returns the display name.
func (g *CascadeGame) Title() string { return "Cascade" }

// Description returns the menu blurb.
func (g *CascadeGame) Description() string {
	return "Pop tiles and chain the falling matches"
}

// Reset fills a new board and lets it settle before play starts.
func (g *CascadeGame) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	g.log = logger.With("game", IDCascade)
	g.cfg = loadConfig(g.log)
	g.presenter = newTermPresenter()

	err := g.setup(rc.Seed)
	if err != nil {
		g.log.Warn("invalid cascade tuning, using defaults", "err", err)
		g.cfg = config.DefaultMatch3Config()
		err = g.setup(rc.Seed)
	}
	if err != nil {
		panic(fmt.Sprintf("match3: default cascade tuning rejected: %v", err))
	}
	g.presenter.clearEffects()
	g.cursor = newCursor(g.board)

	g.tick = 0
	g.score = 0
	g.exploded = 0
	g.scoring = true
	g.last = engine.Report{}
	g.movesLeft = g.cfg.Cascade.Moves
	g.hint = nil
	g.idleTicks = 0
	g.autoplay = autoplayDefault != AutoplayOff
	g.autoplayUsed = g.autoplay
	g.autoTicks = 0
	g.status = banner{}

	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.gameOver = false
	g.paused = false
	g.checkScreenSize()
}

func (g *CascadeGame) setup(seed int64) error {
	svc, err := newServices(cascadeSettings(g.cfg), seed, g.log, g.presenter, engine.SinkFunc(g.onEvent))
	if err != nil {
		return err
	}
	n := svc.Settings.BoardSize
	board, err := engine.Setup(svc, "cascade", engine.LayerHighest, n, n)
	if err != nil {
		return err
	}
	if err := board.FillWithRandomItems(); err != nil {
		return err
	}
	g.svc = svc
	g.board = board
	g.resolver = engine.NewResolver(board)

	g.scoring = false
	rep, err := g.resolver.Rescan()
	if err != nil {
		return err
	}
	g.log.Debug("opening board settled", "passes", rep.Passes, "exploded", rep.Exploded)
	return nil
}

func (g *CascadeGame) onEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.ItemRemoved:
		if g.scoring && e.Reason == engine.RemovedExploded {
			g.exploded++
			g.score++
		}
	case engine.MatchFound:
		if g.scoring && len(e.Cells) > g.svc.Settings.MinMatch {
			g.score += len(e.Cells) - g.svc.Settings.MinMatch
		}
	}
}

// Resize follows a terminal resize without restarting the round.
func (g *CascadeGame) Resize(width, height int) {
	g.runtime.ScreenW, g.runtime.ScreenH = width, height
	g.screenW, g.screenH = width, height
	g.checkScreenSize()
}

func (g *CascadeGame) checkScreenSize() {
	w, h := g.layoutSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Step advances the game by one tick.
func (g *CascadeGame) Step(in core.InputFrame) core.StepResult {
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
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionAutoplay) {
		g.autoplay = !g.autoplay
		g.autoplayUsed = g.autoplayUsed || g.autoplay
		g.autoTicks = 0
		g.status.show(fmt.Sprintf("Autoplay: %t", g.autoplay))
	}
	if g.cursor.handle(in) {
		g.idleTicks = 0
		g.hint = nil
	}
	if in.Has(core.ActionHint) {
		g.showHint()
	}

	if g.presenter.animating() {
		return core.StepResult{State: g.State()}
	}

	switch {
	case g.autoplay:
		g.autoTicks++
		if g.autoTicks >= autoplayDelayTicks(g.cfg.Autoplay.DelayMS, tickRate(g.runtime)) {
			g.autoTicks = 0
			if c := g.suggest(); c != nil {
				g.cursor.focus(c)
				g.pop(c)
			}
		}
	case in.Has(core.ActionConfirm):
		g.idleTicks = 0
		g.hint = nil
		g.pop(g.cursor.cell())
	default:
		g.idleTicks++
		idle := g.cfg.Hint.IdleSeconds * tickRate(g.runtime)
		if idle > 0 && g.idleTicks >= idle && g.hint == nil {
			g.showHint()
		}
	}

	return core.StepResult{State: g.State()}
}

// pop spends one move on c.
func (g *CascadeGame) pop(c *engine.Cell) {
	rep, err := g.resolver.Pop(c)
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrBusy):
		return
	case errors.Is(err, engine.ErrRejected):
		g.status.show("Nothing to pop there")
		return
	default:
		g.log.Error("pop failed", "cell", c, "err", err)
		return
	}

	g.last = rep
	g.hint = nil
	g.movesLeft--
	switch {
	case rep.Passes > 1:
		g.status.show(fmt.Sprintf("Cascade x%d!", rep.Passes))
	case rep.Bonuses > 0:
		g.status.show("Bonus tile!")
	}
	if g.movesLeft <= 0 {
		g.movesLeft = 0
		g.gameOver = true
		g.status.show("Out of moves")
		g.log.Info("round over", "score", g.score, "exploded", g.exploded)
	}
}

// suggest returns the cell a hint or the automatic player would pick.
func (g *CascadeGame) suggest() *engine.Cell {
	if cells := g.resolver.GetPotentialMatches(nil); len(cells) > 0 {
		return cells[0]
	}
	for _, c := range g.board.Cells() {
		if !c.IsEmpty() {
			return c
		}
	}
	return nil
}

func (g *CascadeGame) showHint() {
	g.idleTicks = 0
	if c := g.suggest(); c != nil {
		g.hint = []*engine.Cell{c}
	}
}

// State returns the current game state.
func (g *CascadeGame) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
		Busy:     g.presenter != nil && g.presenter.animating(),
	}
}

// RunInfo describes the round for the run history. A finished cascade
// round counts as won.
func (g *CascadeGame) RunInfo() core.RunInfo {
	auto := AutoplayOff
	if g.autoplayUsed {
		auto = AutoplayWin
	}
	return runInfo(g.gameOver, g.gameOver, auto, g.runtime.Seed, g.exploded, g.tick)
}

// Board exposes the engine board, mainly for tests and tooling.
func (g *CascadeGame) Board() *engine.Board { return g.board }
