package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jywlabs/describer/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Show the effective describer configuration.

Values come from the built-in defaults, .describer/config.yaml,
.env and DESCRIBER_* environment variables, in that order.
Command-line flags override them per run.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	return showConfig(".", cmd.OutOrStdout())
}

func showConfig(dir string, out io.Writer) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	if _, err := os.Stat(config.Path(dir)); os.IsNotExist(err) {
		fmt.Fprintln(out, "No .describer/config.yaml found (using defaults)")
		fmt.Fprintln(out, "Run 'describer init' to create one.")
	} else {
		fmt.Fprintln(out, "Current configuration (.describer/config.yaml):")
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	return nil
}
