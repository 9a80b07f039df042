package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "describer <directory> [system prompt...]",
	Short: "Describer - architectural overviews of codebases via files-to-prompt and llm",
	Long: `Describer generates an architectural overview of a codebase.

It flattens the directory with files-to-prompt, pipes the result into
llm with a system prompt, tidies the returned markdown and prints it
(or writes it to a file).

Words after the directory become the system prompt unless -s is given.

Examples:
  describer ./src                                  # Overview to stdout
  describer ./src -o ARCHITECTURE                  # Writes ARCHITECTURE.md
  describer ./src explain the request lifecycle    # Custom system prompt
  describer ./src -m gpt-4o --exclude '*.test.ts'  # Other model, skip tests

Commands:
  init        Create .describer/config.yaml
  config      Show the effective configuration
  history     List recorded runs
  version     Show version info`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runDescribe,
	SilenceErrors: true,
}

// exitError carries a nonzero pipeline exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and exits with the pipeline's status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
