package config

import "math"

// DifficultyManager derives time limits from score and elapsed ticks.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// TimeLimit returns the starting time in seconds for the initial level.
func (d *DifficultyManager) TimeLimit(baseSeconds int) int {
	cut := d.initialLevel * d.cfg.Scaling.TimeReduction
	return max(int(math.Round(float64(baseSeconds)*(1.0-cut))), 10)
}

// TripleBonus returns the seconds granted for a cleared triple at the
// current level. It shrinks as the game gets harder but never below one.
func (d *DifficultyManager) TripleBonus(baseSeconds, score, ticks int) int {
	if baseSeconds <= 0 {
		return 0
	}
	cut := d.Level(score, ticks) * d.cfg.Scaling.BonusReduction
	return max(int(math.Round(float64(baseSeconds)*(1.0-cut))), 1)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
