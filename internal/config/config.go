package config

// Match3Config holds all tuning for the match-3 games.
type Match3Config struct {
	Board      Match3Board      `yaml:"board"`
	Backpack   Match3Backpack   `yaml:"backpack"`
	Cascade    Match3Cascade    `yaml:"cascade"`
	Timer      Match3Timer      `yaml:"timer"`
	Autoplay   Match3Autoplay   `yaml:"autoplay"`
	Hint       Match3Hint       `yaml:"hint"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// Match3Board defines the tile-collect table.
type Match3Board struct {
	Size      int `yaml:"size"`       // Upper board edge, multiple of 3; lower is size+1
	MinMatch  int `yaml:"min_match"`  // Shortest run that counts as a match
	ItemTypes int `yaml:"item_types"` // Number of distinct item types (1-7)
}

// Match3Backpack defines the collector row.
type Match3Backpack struct {
	Capacity int `yaml:"capacity"`
}

// Match3Cascade defines the pop-and-cascade mode.
type Match3Cascade struct {
	Size      int `yaml:"size"`       // Board edge, multiple of 3
	Moves     int `yaml:"moves"`      // Pops per game
	MaxPasses int `yaml:"max_passes"` // Safety cap on cascade passes
}

// Match3Timer defines the optional time limit of the tile-collect mode.
type Match3Timer struct {
	Enabled     bool `yaml:"enabled"`
	Seconds     int  `yaml:"seconds"`      // Starting time
	TripleBonus int  `yaml:"triple_bonus"` // Seconds added per cleared triple
}

// Match3Autoplay defines the automatic player.
type Match3Autoplay struct {
	DelayMS int `yaml:"delay_ms"` // Pause between automatic picks
}

// Match3Hint defines when a hint shows up on its own.
type Match3Hint struct {
	IdleSeconds int `yaml:"idle_seconds"` // 0 disables automatic hints
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	TimeReduction  float64 `yaml:"time_reduction"`  // Fraction of the time limit removed at max difficulty
	BonusReduction float64 `yaml:"bonus_reduction"` // Fraction of the triple bonus removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficultyPreset maps a flag value to a preset.
func ParseDifficultyPreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
