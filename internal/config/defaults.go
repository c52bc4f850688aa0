package config

import (
	_ "embed"
)

//go:embed defaults/tilefall.yaml
var defaultTilefallYAML []byte

// DefaultTilefallConfig returns the default tilefall configuration.
// It mirrors the embedded defaults/tilefall.yaml.
func DefaultTilefallConfig() TilefallConfig {
	return TilefallConfig{
		Field: FieldConfig{
			Lanes:     4,
			Length:    100.0,
			BaseSpeed: 0.03,
		},
		Spawn: SpawnConfig{
			InitialIntervalMs: 1500,
			FloorMs:           800,
			StepMs:            20,
			ActiveProbability: 0.7,
		},
		Gameplay: GameplayConfig{
			Lives:       3,
			HitGraceMs:  250,
			OverDelayMs: 400,
		},
		Scoring: ScoringConfig{
			ActivePoints:      100,
			DecoyPoints:       50,
			ComboBonusEvery:   10,
			ComboBonusPoints:  25,
			SpeedComboDivisor: 50,
			MaxSpeedFactor:    3.0,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultTilefallYAML
}
