package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tuitiles/tilefall/internal/platform/tui"
	"github.com/tuitiles/tilefall/internal/storage"
)

var (
	flagScoresKey   string
	flagInteractive bool
	flagRecent      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best score and run history",
	Long: `Display the best score and the top 10 runs.

Examples:
  tilefall scores
  tilefall scores --recent
  tilefall scores --interactive`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresKey, "key", "tilefall", "Leaderboard key to display")
	scoresCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Browse runs in an interactive table")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show most recent runs instead of top scores")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunScoreboard(store, flagScoresKey, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var runs []storage.RunEntry
	if flagRecent {
		runs, err = store.RecentRuns(flagScoresKey, 10)
	} else {
		runs, err = store.TopRuns(flagScoresKey, 10)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	heading := "Top Runs"
	if flagRecent {
		heading = "Recent Runs"
	}
	fmt.Printf("Tilefall - %s\n\n", heading)

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tilefall play' to set the first record!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-7s  %-6s  %s\n", "Rank", "Score", "Combo", "Acc", "Date")
	fmt.Printf("  %-4s  %-10s  %-7s  %-6s  %s\n", "----", "-----", "-----", "---", "----")

	for i, entry := range runs {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  x%-6d  %5.1f%%  %s\n",
			i+1, entry.FinalScore, entry.MaxCombo, entry.Accuracy, dateStr)
	}

	fmt.Println()
	if best, err := store.LoadBest(flagScoresKey); err == nil && best > 0 {
		fmt.Printf("Best: %d\n", best)
	}
}
