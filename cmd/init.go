package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jywlabs/describer/internal/template"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .describer/ directory",
	Long: `Initialize the .describer/ directory in the current project.

Creates:
  .describer/
    config.yaml    # Model, system prompt, tool and history settings

Edit config.yaml to change the defaults used by 'describer <directory>'.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	return initConfigDir(".", cmd.OutOrStdout())
}

// initConfigDir writes the default files into dir/.describer.
func initConfigDir(dir string, out io.Writer) error {
	configDir := filepath.Join(dir, template.DescriberDir)

	// Check if already initialized
	if _, err := os.Stat(configDir); err == nil {
		return fmt.Errorf("%s/ already exists", template.DescriberDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	// Create default files from templates
	for filename, content := range template.DefaultFiles() {
		filePath := filepath.Join(configDir, filename)
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
	}

	fmt.Fprintln(out, "Initialized .describer/")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Created:")
	fmt.Fprintln(out, "  .describer/config.yaml   - Model, prompt and tool settings")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Review .describer/config.yaml")
	fmt.Fprintln(out, "  2. Run: describer .")

	return nil
}
