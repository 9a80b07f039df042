package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jywlabs/describer/internal/config"
	"github.com/jywlabs/describer/internal/history"
	"github.com/jywlabs/describer/internal/output"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `List the most recent describer runs, newest first.

Runs are recorded only when history is enabled in .describer/config.yaml:

  history:
    enabled: true
    path: .describer/history.db`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	return listHistory(cmd.Context(), cfg.History.Path, historyLimit, cmd.OutOrStdout())
}

func listHistory(ctx context.Context, path string, limit int, out io.Writer) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(out, "No history at %s\n", path)
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	output.New(out).Runs(runs)
	return nil
}
