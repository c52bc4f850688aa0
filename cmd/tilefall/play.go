package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tuitiles/tilefall/internal/config"
	"github.com/tuitiles/tilefall/internal/core"
	"github.com/tuitiles/tilefall/internal/engine"
	"github.com/tuitiles/tilefall/internal/platform/tui"
	"github.com/tuitiles/tilefall/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play tilefall",
	Long: `Start a tilefall session in the current terminal.

Controls:
  1-4 / asdf - Tap lanes
  Enter      - Start run
  P          - Pause / resume
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - More lives, lazier spawn ramp
  normal - Default tuning
  hard   - Fewer lives, faster ramp
  fixed  - Spawn interval never shrinks

Examples:
  tilefall play
  tilefall play --difficulty easy
  tilefall play --config ./my-tilefall.yaml
  tilefall play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

// loadEngineConfig resolves the YAML config and difficulty flags into the
// engine tuning. Shared by play and simulate.
func loadEngineConfig() (engine.Config, error) {
	cfg, err := config.LoadTilefall(flagConfig)
	if err != nil {
		return engine.Config{}, err
	}

	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return engine.Config{}, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}

	return cfg.EngineConfig(flagSeed), nil
}

func runPlay(cmd *cobra.Command, args []string) {
	ec, err := loadEngineConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(ec, store, rt)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
