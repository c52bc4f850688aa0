// Package config provides YAML-based game configuration loading and
// difficulty presets for the tilefall platform.
package config

import "github.com/tuitiles/tilefall/internal/engine"

// TilefallConfig contains all tuning for the tilefall game.
type TilefallConfig struct {
	Field    FieldConfig    `yaml:"field"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Gameplay GameplayConfig `yaml:"gameplay"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

// FieldConfig defines the lane geometry and base tile motion.
type FieldConfig struct {
	Lanes     int     `yaml:"lanes"`
	Length    float64 `yaml:"length"`
	BaseSpeed float64 `yaml:"base_speed"` // field units per millisecond
}

// SpawnConfig defines the spawn scheduler's difficulty ramp.
type SpawnConfig struct {
	InitialIntervalMs float64 `yaml:"initial_interval_ms"`
	FloorMs           float64 `yaml:"floor_ms"`
	StepMs            float64 `yaml:"step_ms"`
	ActiveProbability float64 `yaml:"active_probability"`
}

// GameplayConfig defines the life pool and presentation timing.
type GameplayConfig struct {
	Lives       int     `yaml:"lives"`
	HitGraceMs  float64 `yaml:"hit_grace_ms"`
	OverDelayMs float64 `yaml:"over_delay_ms"`
}

// ScoringConfig defines the ledger arithmetic.
type ScoringConfig struct {
	ActivePoints      int     `yaml:"active_points"`
	DecoyPoints       int     `yaml:"decoy_points"`
	ComboBonusEvery   int     `yaml:"combo_bonus_every"`
	ComboBonusPoints  int     `yaml:"combo_bonus_points"`
	SpeedComboDivisor float64 `yaml:"speed_combo_divisor"`
	MaxSpeedFactor    float64 `yaml:"max_speed_factor"`
}

// EngineConfig converts the yaml-facing config into engine tuning.
// The seed is supplied by the caller; all runs share one best-score key.
func (c TilefallConfig) EngineConfig(seed int64) engine.Config {
	return engine.Config{
		Lanes:       c.Field.Lanes,
		FieldLength: c.Field.Length,
		BaseSpeed:   c.Field.BaseSpeed,

		SpawnInterval:     c.Spawn.InitialIntervalMs,
		SpawnFloor:        c.Spawn.FloorMs,
		SpawnStep:         c.Spawn.StepMs,
		ActiveProbability: c.Spawn.ActiveProbability,

		Lives:     c.Gameplay.Lives,
		HitGrace:  c.Gameplay.HitGraceMs,
		OverDelay: c.Gameplay.OverDelayMs,

		ActivePoints:      c.Scoring.ActivePoints,
		DecoyPoints:       c.Scoring.DecoyPoints,
		ComboBonusEvery:   c.Scoring.ComboBonusEvery,
		ComboBonusPoints:  c.Scoring.ComboBonusPoints,
		SpeedComboDivisor: c.Scoring.SpeedComboDivisor,
		MaxSpeedFactor:    c.Scoring.MaxSpeedFactor,

		BestKey: "tilefall",
		Seed:    seed,
	}
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset; unknown strings map to empty.
func ParsePreset(s string) DifficultyPreset {
	switch s {
	case "easy":
		return DifficultyEasy
	case "normal":
		return DifficultyNormal
	case "hard":
		return DifficultyHard
	case "fixed":
		return DifficultyFixed
	default:
		return ""
	}
}
