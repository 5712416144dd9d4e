package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the default match-3 configuration.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: Match3Board{
			Size:      6,
			MinMatch:  3,
			ItemTypes: 5,
		},
		Backpack: Match3Backpack{
			Capacity: 5,
		},
		Cascade: Match3Cascade{
			Size:      9,
			Moves:     30,
			MaxPasses: 64,
		},
		Timer: Match3Timer{
			Enabled:     false,
			Seconds:     180,
			TripleBonus: 5,
		},
		Autoplay: Match3Autoplay{
			DelayMS: 750,
		},
		Hint: Match3Hint{
			IdleSeconds: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 40,
			},
			Scaling: ScalingConfig{
				TimeReduction:  0.5,
				BonusReduction: 0.6,
			},
		},
	}
}
