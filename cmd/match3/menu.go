package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick modes from an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode and Tab for the
scoreboard. After a round, Esc returns to the menu.

Examples:
  match3 menu
  match3 menu --fps 60
  match3 menu --db ./scores.db`,
	Annotations: map[string]string{"fullscreen": "true"},
	RunE:        runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		switch {
		case menuResult.Quit:
			return nil

		case menuResult.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			app.log.Error("create mode", "mode", menuResult.GameID, "err", err)
			continue
		}

		backToMenu, err := tui.Run(game, store, cfg,
			tui.WithPlayer(app.settings.Player),
			tui.WithLogger(app.log),
		)
		if err != nil {
			return err
		}
		if !backToMenu {
			return nil
		}
		// A fixed --seed only applies to the first round.
		cfg.Seed = 0
	}
}
