// Package match3 implements the match-3 game modes on top of the engine:
// "match3" collects tiles from two stacked boards into a backpack, and
// "match3_cascade" pops tiles on a single board and scores the cascades.
package match3

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

const (
	// IDCollect is the tile-collect mode.
	IDCollect = "match3"
	// IDCascade is the pop-and-cascade mode.
	IDCascade = "match3_cascade"

	pointsPerTriple = 3
	messageTicks    = 45
	defaultTickRate = 30
)

// Package-level settings applied on the next Reset.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	autoplayDefault  AutoplayMode
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names fall back
// to the config file's own values.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParseDifficultyPreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// SetAutoplay sets the autoplay mode new rounds start in.
func SetAutoplay(mode AutoplayMode) {
	autoplayDefault = mode
}

// SetLogger routes engine and game diagnostics to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func init() {
	registry.Register(IDCollect, func() registry.Game {
		return New()
	})
	registry.Register(IDCascade, func() registry.Game {
		return NewCascade()
	})
}

// loadConfig reads match3.yaml and applies the selected preset. Load
// errors fall back to the built-in defaults.
func loadConfig(l *log.Logger) config.Match3Config {
	cfg, err := config.LoadMatch3(configPath)
	if err != nil {
		l.Warn("cannot load match3 config, using defaults", "path", configPath, "err", err)
		cfg = config.DefaultMatch3Config()
	}
	if difficultyPreset != "" {
		config.ApplyMatch3Preset(&cfg, difficultyPreset)
	}
	return cfg
}

// collectSettings maps the tile-collect tuning onto engine settings.
func collectSettings(cfg config.Match3Config) engine.Settings {
	return engine.Settings{
		MinMatch:         cfg.Board.MinMatch,
		BoardSize:        cfg.Board.Size,
		BackpackCapacity: cfg.Backpack.Capacity,
		ItemTypes:        cfg.Board.ItemTypes,
		MaxCascadePasses: cfg.Cascade.MaxPasses,
	}
}

// cascadeSettings maps the cascade tuning onto engine settings.
func cascadeSettings(cfg config.Match3Config) engine.Settings {
	s := collectSettings(cfg)
	s.BoardSize = cfg.Cascade.Size
	return s
}

// newServices builds the engine collaborators for one round.
func newServices(settings engine.Settings, seed int64, l *log.Logger, p engine.Presenter, sink engine.EventSink) (*engine.Services, error) {
	svc, err := engine.NewServices(settings, engine.NewRand(seed))
	if err != nil {
		return nil, err
	}
	svc.Log = l
	svc.Presenter = p
	svc.Events = sink
	return svc, nil
}

func tickRate(rc core.RuntimeConfig) int {
	if rc.TickRate <= 0 {
		return defaultTickRate
	}
	return rc.TickRate
}

// banner is a transient status line.
type banner struct {
	text  string
	ticks int
}

func (b *banner) show(text string) {
	b.text = text
	b.ticks = messageTicks
}

func (b *banner) tick() {
	if b.ticks > 0 {
		b.ticks--
		if b.ticks == 0 {
			b.text = ""
		}
	}
}
