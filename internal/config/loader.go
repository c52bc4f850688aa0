package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTilefall loads the tilefall configuration.
// Search order: customPath -> ~/.tilefall/configs/tilefall.yaml ->
// ./configs/tilefall.yaml -> embedded default.
func LoadTilefall(customPath string) (TilefallConfig, error) {
	var cfg TilefallConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tilefall.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/tilefall.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTilefallYAML, &cfg); err != nil {
		return DefaultTilefallConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if the
// home directory is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilefall", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
// Easy gives a larger life pool and a lazier ramp, hard the opposite;
// fixed disables the ramp entirely by zeroing the interval step.
func ApplyPreset(cfg *TilefallConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.Lives = 5
		cfg.Spawn.InitialIntervalMs = 1800
		cfg.Spawn.FloorMs = 1000
		cfg.Spawn.ActiveProbability = 0.6
	case DifficultyNormal:
		// Defaults are the normal preset.
	case DifficultyHard:
		cfg.Gameplay.Lives = 2
		cfg.Spawn.InitialIntervalMs = 1200
		cfg.Spawn.FloorMs = 650
		cfg.Spawn.ActiveProbability = 0.8
	case DifficultyFixed:
		cfg.Spawn.StepMs = 0
	}
}
