// match3 plays match-3 puzzles in the terminal.
//
// Usage:
//
//	match3 list              - List available modes
//	match3 play [mode]       - Play a mode (default: match3)
//	match3 menu              - Pick modes interactively
//	match3 serve             - Start SSH server for remote play
//	match3 scores <mode>     - Show high scores and runs for a mode
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible deals
//	--db <path>          - Set database path (default: ~/.match3/scores.db)
//	--config <path>      - Game tuning YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	// Global flags
	flagHome       string
	flagSeed       int64
	flagConfig     string
	flagDifficulty string
)

// app is the state shared by every command after the root pre-run.
var app struct {
	viper    *viper.Viper
	settings config.AppSettings
	log      *log.Logger
	logFile  io.Closer
}

func main() {
	err := rootCmd.Execute()
	if app.logFile != nil {
		app.logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Match-3 puzzles in your terminal",
	Long: `match3 is a terminal match-3 game with two modes:

  match3          - Tile Collect: move tiles into a backpack, three of a
                    kind vanish, clear both boards to win
  match3_cascade  - Cascade: pop tiles and chain the falling matches

Settings are read from ~/.match3/config.yaml and MATCH3_* environment
variables; flags override both.

Examples:
  match3 play
  match3 play --autoplay win --seed 42
  match3 play match3_cascade --difficulty hard
  match3 menu
  match3 serve --ssh :2222
  match3 scores match3 --runs`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagHome, "home", config.DefaultDir(), "Directory holding config.yaml, logs and the database")
	flags.Int("fps", 30, "Tick rate (frames per second)")
	flags.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	flags.String("db", "", "Path to scores database (default <home>/scores.db)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("player", "", "Name scores are stored under (default $USER)")
	flags.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	flags.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// bindings maps persistent flags to app settings keys.
var bindings = map[string]string{
	"fps":       config.KeyFPS,
	"db":        config.KeyDBPath,
	"log-level": config.KeyLogLevel,
	"player":    config.KeyPlayer,
}

// setup loads settings, configures logging and hands the game tuning
// flags to the game package.
func setup(cmd *cobra.Command, _ []string) error {
	v, err := config.LoadApp(flagHome)
	if err != nil {
		return err
	}
	for flag, key := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	if err := bindCommandFlags(cmd, v); err != nil {
		return err
	}

	settings := config.AppSettingsFrom(v)
	if settings.DBPath == "" {
		settings.DBPath = filepath.Join(flagHome, "scores.db")
	}
	if settings.Player == "" {
		settings.Player = os.Getenv("USER")
	}
	if settings.FPS <= 0 {
		return fmt.Errorf("invalid --fps %d", settings.FPS)
	}
	if flagDifficulty != "" {
		if _, ok := config.ParseDifficultyPreset(flagDifficulty); !ok {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
	}

	logger, closer, err := newLogger(cmd, settings)
	if err != nil {
		return err
	}

	app.viper = v
	app.settings = settings
	app.log = logger
	app.logFile = closer
	log.SetDefault(logger)

	match3.SetLogger(logger)
	match3.SetConfigPath(flagConfig)
	match3.SetDifficultyPreset(flagDifficulty)
	return nil
}

// newLogger writes to stderr, except for full-screen commands whose
// output would corrupt the display; those log to <home>/match3.log.
func newLogger(cmd *cobra.Command, settings config.AppSettings) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer
	)
	if cmd.Annotations["fullscreen"] == "true" {
		f, err := os.OpenFile(filepath.Join(flagHome, "match3.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "match3",
	})
	return logger, closer, nil
}

// bindCommandFlags binds the flags of subcommands that have settings keys.
func bindCommandFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range map[string]string{
		"ssh":      config.KeySSHAddr,
		"host-key": config.KeySSHHostKey,
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	return nil
}

// openStore opens the scores database. Interactive commands keep running
// without it.
func openStore() (*storage.Store, error) {
	return storage.Open(app.settings.DBPath, storage.WithLogger(app.log))
}
