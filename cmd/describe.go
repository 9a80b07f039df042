package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/x/term"
	"github.com/jywlabs/describer/internal/changes"
	"github.com/jywlabs/describer/internal/config"
	"github.com/jywlabs/describer/internal/describe"
	"github.com/jywlabs/describer/internal/history"
	"github.com/jywlabs/describer/internal/output"
	"github.com/jywlabs/describer/internal/tokens"
	"github.com/spf13/cobra"
)

// Describe command flags
var (
	systemPromptFlag    string
	modelFlag           string
	outputFlag          string
	ignoreGitignoreFlag bool
	excludeFlag         string

	// Reporting
	quietFlag   bool
	verboseFlag bool
	tokensFlag  bool
	diffFlag    bool
)

func init() {
	rootCmd.Flags().StringVarP(&systemPromptFlag, "system-prompt", "s", "", "System prompt for the LLM (default from config)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "LLM model to use (default from config)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write output to this markdown file instead of stdout")
	rootCmd.Flags().BoolVar(&ignoreGitignoreFlag, "ignore-gitignore", false, "Ignore .gitignore rules when collecting files")
	rootCmd.Flags().StringVar(&excludeFlag, "exclude", "", "Exclude files matching this glob pattern (e.g. '*.test.ts')")

	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Don't display file count information")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log pipeline diagnostics to stderr")
	rootCmd.Flags().BoolVar(&tokensFlag, "tokens", false, "Estimate the prompt size in tokens")
	rootCmd.Flags().BoolVar(&diffFlag, "diff", false, "Summarize changes against an existing output file")
}

// describeOptions is the validated form of the root command's input.
type describeOptions struct {
	request   describe.Request
	absDir    string
	absOutput string
	quiet     bool
	tokens    bool
	diff      bool
	encoding  string
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	opts, err := buildOptions(cmd, args, cfg)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	var previous *string
	if opts.diff && opts.request.OutputFile != "" {
		previous, err = readPrevious(opts.request.OutputFile)
		if err != nil {
			return err
		}
	}

	pipeCfg := describe.Config{
		FlattenCommand: cfg.FlattenCommand,
		LLMCommand:     cfg.LLMCommand,
		Stderr:         cmd.ErrOrStderr(),
	}
	if verboseFlag {
		pipeCfg.Logger = cmd.ErrOrStderr()
	}
	if opts.tokens {
		pipeCfg.Tokens = tokens.NewCounter(cfg.TokenEncoding)
	}

	var spinner *output.Spinner
	if !opts.quiet && !verboseFlag && isTerminal(cmd.ErrOrStderr()) {
		spinner = output.NewSpinner(cmd.ErrOrStderr())
		spinner.Start(fmt.Sprintf("Describing %s with %s", opts.request.Directory, opts.request.Model))
	}

	startedAt := time.Now()
	result := describe.New(pipeCfg).Describe(cmd.Context(), opts.request)
	if spinner != nil {
		spinner.Stop()
	}

	if cfg.History.Enabled {
		if err := recordRun(cmd.Context(), cfg.History.Path, startedAt, opts, result); err != nil {
			output.New(cmd.ErrOrStderr()).Warning(err.Error())
		}
	}

	printResult(output.New(cmd.OutOrStdout()), opts, result, previous)

	if result.ExitCode != 0 {
		return &exitError{code: result.ExitCode}
	}
	return nil
}

// buildOptions applies flag > config precedence and validates the input.
func buildOptions(cmd *cobra.Command, args []string, cfg *config.Config) (describeOptions, error) {
	directory := args[0]

	absDir, err := filepath.Abs(directory)
	if err != nil {
		return describeOptions{}, fmt.Errorf("failed to resolve %s: %w", directory, err)
	}

	if excludeFlag != "" && !doublestar.ValidatePattern(excludeFlag) {
		return describeOptions{}, fmt.Errorf("invalid --exclude pattern %q", excludeFlag)
	}

	model := cfg.Model
	if modelFlag != "" {
		model = modelFlag
	}

	outputFile := ensureMarkdownExt(outputFlag)
	absOutput := ""
	if outputFile != "" {
		absOutput, err = filepath.Abs(outputFile)
		if err != nil {
			return describeOptions{}, fmt.Errorf("failed to resolve %s: %w", outputFile, err)
		}
	}

	return describeOptions{
		request: describe.Request{
			Directory:       directory,
			SystemPrompt:    resolveSystemPrompt(cmd.Flags().Changed("system-prompt"), systemPromptFlag, args[1:], cfg.SystemPrompt),
			Model:           model,
			OutputFile:      outputFile,
			IgnoreGitignore: ignoreGitignoreFlag,
			ExcludePattern:  excludeFlag,
		},
		absDir:    absDir,
		absOutput: absOutput,
		quiet:     quietFlag,
		tokens:    tokensFlag,
		diff:      diffFlag,
		encoding:  cfg.TokenEncoding,
	}, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// resolveSystemPrompt picks -s when given, else the words after the
// directory, else the configured prompt.
func resolveSystemPrompt(flagSet bool, flagValue string, extra []string, fallback string) string {
	if flagSet {
		return flagValue
	}
	if len(extra) > 0 {
		return strings.Join(extra, " ")
	}
	return fallback
}

// ensureMarkdownExt appends .md unless the path already ends in it.
func ensureMarkdownExt(path string) string {
	if path == "" || strings.HasSuffix(strings.ToLower(path), ".md") {
		return path
	}
	return path + ".md"
}

// readPrevious returns the current contents of path, or nil if it does not exist.
func readPrevious(path string) (*string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read existing output: %w", err)
	}
	s := string(data)
	return &s, nil
}

// printResult renders the pipeline result the way the CLI presents it:
// a summary block on success, then the text or the output location.
func printResult(p *output.Printer, opts describeOptions, result describe.Result, previous *string) {
	if !opts.quiet && result.FileCount > 0 && result.ExitCode == 0 {
		p.FileCount(result.FileCount, opts.absDir)
		if opts.request.IgnoreGitignore {
			p.GitignoreNote()
		}
		if opts.request.ExcludePattern != "" {
			p.ExcludeNote(opts.request.ExcludePattern)
		}
		if opts.tokens && result.Tokens > 0 {
			p.Tokens(result.Tokens, opts.encoding)
		}
		p.Blank()
	}

	if opts.request.OutputFile == "" || result.ExitCode != 0 {
		p.Text(result.Text)
		return
	}

	p.Written(opts.absOutput)
	if previous != nil {
		p.Changes(changes.Lines(*previous, result.Text))
	}
}

func recordRun(ctx context.Context, path string, startedAt time.Time, opts describeOptions, result describe.Result) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, history.Run{
		StartedAt:  startedAt,
		Directory:  opts.absDir,
		Model:      opts.request.Model,
		FileCount:  result.FileCount,
		ExitCode:   result.ExitCode,
		OutputFile: opts.absOutput,
		Tokens:     result.Tokens,
	})
	return err
}
