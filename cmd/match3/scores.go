package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	flagRuns  bool
	flagClear bool
	flagLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for the specified mode, or its latest runs.

Examples:
  match3 scores match3
  match3 scores match3 --runs
  match3 scores match3_cascade --limit 20
  match3 scores match3 --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagRuns, "runs", false, "List recent runs instead of high scores")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and runs of the mode")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'match3 list' to see available modes", gameID)
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared scores and runs of %s.\n", game.Title())
		return nil
	}
	if flagRuns {
		return printRuns(out, store, gameID, game.Title())
	}
	return printScores(out, store, gameID, game.Title())
}

func printScores(out io.Writer, store *storage.Store, gameID, title string) error {
	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s\n\n", title)
	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'match3 play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %-12s  %s\n", "Rank", "Score", "Player", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %-12s  %s\n", "----", "-----", "------", "----")
	for i, entry := range scores {
		fmt.Fprintf(out, "  %-4d  %-10d  %-12s  %s\n", i+1, entry.Score, entry.Player, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d  Average: %.1f  Runs: %d (%d won, %d lost)\n",
			stats.HighScore, stats.AvgScore, stats.GamesCount, stats.Wins, stats.Losses)
	}
	return nil
}

func printRuns(out io.Writer, store *storage.Store, gameID, title string) error {
	runs, err := store.RecentRuns(gameID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Recent Runs - %s\n\n", title)
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-8s  %-6s  %-7s  %-5s  %-8s  %-20s  %s\n", "Result", "Score", "Cleared", "Auto", "Time", "Seed", "ID")
	for _, r := range runs {
		auto := r.Autoplay
		if auto == "" {
			auto = "-"
		}
		fmt.Fprintf(out, "  %-8s  %-6d  %-7d  %-5s  %-8s  %-20d  %s\n",
			r.Outcome, r.Score, r.Cleared, auto, r.Duration.Round(time.Second), r.Seed, r.ID)
	}
	return nil
}
