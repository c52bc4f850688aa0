// tilefall is a falling-tile rhythm game for the terminal.
//
// Usage:
//
//	tilefall play             - Play in the current terminal
//	tilefall scores           - Show best score and run history
//	tilefall serve            - Start SSH server for remote play
//	tilefall simulate         - Run a headless scripted session
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.tilefall/runs.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilefall",
	Short: "Tilefall - Tap falling tiles in your terminal",
	Long: `Tilefall is a terminal rhythm game. Tiles fall down four lanes and you
tap them before they slide off the bottom. Chains of hits build a combo that
boosts scoring and speeds everything up; dropping an active tile costs a life.

Available commands:
  play      - Play in the current terminal
  scores    - View best score and run history
  serve     - Start SSH server for remote play
  simulate  - Run a headless scripted session

Examples:
  tilefall play
  tilefall play --difficulty hard
  tilefall scores --interactive
  tilefall serve --ssh :2222
  tilefall simulate --ticks 3600 --skill 0.9`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tilefall/runs.db", "Path to runs database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}
