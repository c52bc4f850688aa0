package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tuitiles/tilefall/internal/engine"
)

var (
	flagTicks   int
	flagDt      float64
	flagSkill   float64
	flagVerbose bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless scripted session",
	Long: `Run the simulation without a terminal UI, driven by a scripted player.

The bot taps the leading tile in a lane once it has crossed most of the
field, succeeding with --skill probability. Useful for tuning configs and
for reproducing runs: the same --seed always produces the same session.

Examples:
  tilefall simulate
  tilefall simulate --ticks 7200 --skill 0.95
  tilefall simulate --seed 42 --verbose`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Maximum number of simulation ticks")
	simulateCmd.Flags().Float64Var(&flagDt, "dt", 16.67, "Milliseconds of engine time per tick")
	simulateCmd.Flags().Float64Var(&flagSkill, "skill", 0.85, "Probability the bot resolves a reachable tile")
	simulateCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Log every engine event")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "simulate",
	})

	ec, err := loadEngineConfig()
	if err != nil {
		logger.Fatal("config", "error", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ec.Seed = seed

	sink := engine.SinkFunc(func(ev engine.Event) {
		switch ev := ev.(type) {
		case engine.ComboReachedEvent:
			logger.Info("combo milestone", "combo", ev.Combo)
		case engine.GameOverEvent:
			logger.Info("game over",
				"score", ev.Stats.FinalScore,
				"max_combo", ev.Stats.MaxCombo,
				"accuracy", fmt.Sprintf("%.1f%%", ev.Stats.Accuracy),
			)
		case engine.SpawnedEvent:
			if flagVerbose {
				logger.Debug("spawn", "id", ev.Tile.ID, "lane", ev.Tile.Lane, "kind", ev.Tile.Kind)
			}
		case engine.HitEvent:
			if flagVerbose {
				logger.Debug("hit", "id", ev.Tile.ID, "delta", ev.ScoreDelta)
			}
		case engine.MissedEvent:
			if flagVerbose {
				logger.Debug("miss", "id", ev.Tile.ID, "lane", ev.Tile.Lane)
			}
		}
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	eng := engine.New(ec, nil, sink)

	// The bot has its own RNG stream so its choices never perturb the
	// engine's spawn sequence.
	bot := rand.New(rand.NewSource(seed + 1))
	tapThreshold := ec.FieldLength * 0.75
	decided := make(map[string]bool) // one skill roll per tile, no retries

	logger.Info("starting run", "seed", seed, "ticks", flagTicks, "dt", flagDt, "skill", flagSkill)
	eng.Start()

	ticks := 0
	for ; ticks < flagTicks; ticks++ {
		snap := eng.Snapshot()
		if snap.Phase == engine.PhaseOver {
			break
		}

		for lane := 0; lane < ec.Lanes; lane++ {
			id, ok := snap.FrontPending(lane)
			if !ok {
				continue
			}
			tile, _ := snap.FindTile(id)
			if tile.Position < tapThreshold || decided[id] {
				continue
			}
			decided[id] = true
			if bot.Float64() < flagSkill {
				eng.Hit(id)
			}
		}

		eng.Advance(flagDt)
	}

	stats := eng.Stats()
	snap := eng.Snapshot()
	logger.Info("run finished",
		"phase", snap.Phase.String(),
		"ticks", ticks,
		"engine_ms", int(snap.Now),
	)

	fmt.Printf("Seed:       %d\n", seed)
	fmt.Printf("Score:      %d\n", stats.FinalScore)
	fmt.Printf("Max combo:  x%d\n", stats.MaxCombo)
	fmt.Printf("Spawned:    %d\n", stats.TotalSpawned)
	fmt.Printf("Hit:        %d\n", stats.TotalHit)
	fmt.Printf("Missed:     %d\n", stats.TotalMissed)
	fmt.Printf("Accuracy:   %.1f%%\n", stats.Accuracy)
}
