package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// GameModel is the Bubble Tea model that drives one game: it maps keys to
// actions, steps the simulation on every tick and records the result.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	palette    *Palette
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	log        *log.Logger
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	started    time.Time
	quitting   bool
	backToMenu bool
	saved      bool // Whether the current round has been recorded
}

// GameOption customizes a GameModel.
type GameOption func(*GameModel)

// WithPlayer sets the name results are stored under.
func WithPlayer(name string) GameOption {
	return func(m *GameModel) { m.player = name }
}

// WithPalette renders with p instead of the default terminal palette.
func WithPalette(p *Palette) GameOption {
	return func(m *GameModel) { m.palette = p }
}

// WithLogger sets the logger used for persistence errors.
func WithLogger(l *log.Logger) GameOption {
	return func(m *GameModel) { m.log = l }
}

// NewGameModel creates a model for game. store may be nil.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...GameOption) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		palette:    defaultPalette,
		store:      store,
		config:     cfg,
		log:        log.Default(),
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.started = time.Now()
	return m
}

// Init starts the tick loop. The game is already reset by NewGameModel.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.record()
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only from a paused or finished round
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.record()
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleResize passes the new size to the game. Modes that cannot follow
// a resize are restarted unless the round is already over.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
		m.started = time.Now()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.started = time.Now()
		m.saved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		m.record()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// record stores the score and run of the current round once. A round left
// before it ends is stored as quit if it got anywhere.
func (m *GameModel) record() {
	if m.saved || m.store == nil {
		return
	}
	m.saved = true

	info := core.RunInfo{Outcome: string(storage.OutcomeQuit), Seed: m.config.Seed}
	if rr, ok := m.game.(core.RunReporter); ok {
		info = rr.RunInfo()
	} else if m.gameState.GameOver {
		info.Outcome = string(storage.OutcomeLost)
		if m.gameState.Won {
			info.Outcome = string(storage.OutcomeWon)
		}
	}
	if !m.gameState.GameOver && info.Cleared == 0 && m.gameState.Score == 0 {
		return
	}

	gameID := m.game.ID()
	if m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(gameID, m.player, m.gameState.Score); err != nil {
			m.log.Error("save score", "game", gameID, "err", err)
		}
	}

	run := storage.Run{
		GameID:   gameID,
		Player:   m.player,
		Outcome:  storage.Outcome(info.Outcome),
		Autoplay: info.Autoplay,
		Seed:     info.Seed,
		Score:    m.gameState.Score,
		Cleared:  info.Cleared,
		Duration: time.Since(m.started),
	}
	id, err := m.store.SaveRun(run)
	if err != nil {
		m.log.Error("save run", "game", gameID, "err", err)
		return
	}
	m.log.Info("run recorded", "game", gameID, "id", id, "outcome", run.Outcome, "score", run.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.log.Warn("screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".match3", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("screenshot", "err", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return m.palette.Render(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the local terminal until the player quits or goes back.
// It reports whether the player asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...GameOption) (backToMenu bool, err error) {
	model := NewGameModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		backQuitter{model},
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if bq, ok := final.(backQuitter); ok {
		return bq.BackToMenu(), nil
	}
	return false, nil
}

// backQuitter ends a standalone program when the game goes back to menu.
type backQuitter struct {
	GameModel
}

func (b backQuitter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := b.GameModel.Update(msg)
	if gm, ok := next.(GameModel); ok {
		b.GameModel = gm
	}
	if b.BackToMenu() {
		return b, tea.Quit
	}
	return b, cmd
}
