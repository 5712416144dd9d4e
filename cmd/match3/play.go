package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var flagAutoplay string

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode (default: match3).

Controls:
  Arrows/WASD  - Move cursor
  Tab          - Switch board
  Enter/Space  - Take (collect) or pop (cascade) the tile under the cursor
  H            - Hint
  X            - Cycle autoplay
  P            - Pause
  Esc/B        - Back (when paused or over)
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Autoplay:
  win   - the computer plays to clear the table
  lose  - the computer plays to overflow the backpack

Examples:
  match3 play
  match3 play match3_cascade
  match3 play --autoplay win --seed 42
  match3 play --difficulty hard
  match3 play --config ./my-match3.yaml`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"fullscreen": "true"},
	RunE:        runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagAutoplay, "autoplay", "", "Start with autoplay: win or lose")
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = app.settings.FPS
	cfg.Seed = flagSeed
	return cfg
}

// openStoreOrWarn opens the database, or logs why play continues without it.
func openStoreOrWarn() *storage.Store {
	store, err := openStore()
	if err != nil {
		app.log.Warn("could not open scores database, scores will not be saved", "err", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := match3.IDCollect
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'match3 list' to see available modes", gameID)
	}

	mode, ok := match3.ParseAutoplayMode(flagAutoplay)
	if !ok {
		return fmt.Errorf("unknown autoplay mode %q (want win or lose)", flagAutoplay)
	}
	match3.SetAutoplay(mode)

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	app.log.Info("starting", "mode", gameID, "seed", flagSeed, "autoplay", mode)
	_, err = tui.Run(game, store, terminalConfig(),
		tui.WithPlayer(app.settings.Player),
		tui.WithLogger(app.log),
	)
	return err
}
