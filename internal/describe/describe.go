package describe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Defaults used when a Request or Config leaves a field empty.
const (
	DefaultSystemPrompt   = "architectural overview as markdown"
	DefaultModel          = "gemini-2.0-pro-exp-02-05"
	DefaultFlattenCommand = "files-to-prompt"
	DefaultLLMCommand     = "llm"
)

// errorPrefix is prepended to every failure folded into a Result.
const errorPrefix = "Error executing command: "

// Request describes one run of the pipeline.
type Request struct {
	Directory       string // Directory handed to the flattener
	SystemPrompt    string // System prompt passed to the model tool
	Model           string // Model identifier passed to the model tool
	OutputFile      string // Optional path the normalized text is written to
	IgnoreGitignore bool   // Ask the flattener to skip .gitignore rules
	ExcludePattern  string // Optional glob the flattener should ignore
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text      string // Normalized model output, or the error message
	ExitCode  int    // Model tool exit status, or 1 on failure
	FileCount int    // Files seen in the flattener output
	Tokens    int    // Token estimate of the flattened prompt (0 when not counted)
}

// TokenCounter estimates how many model tokens a prompt occupies.
type TokenCounter interface {
	Count(text string) (int, error)
}

// Config holds the process-level settings for a Pipeline.
type Config struct {
	FlattenCommand string       // Flattener executable (defaults to files-to-prompt)
	LLMCommand     string       // Model tool executable (defaults to llm)
	Stderr         io.Writer    // Receives both tools' stderr (nil discards it)
	Logger         io.Writer    // Where to write diagnostics (nil for no logging)
	Tokens         TokenCounter // Optional prompt token estimator
}

// Pipeline runs the flattener and the model tool as a connected pair.
type Pipeline struct {
	config  Config
	flatten Flattener
	llm     LLM
}

// New creates a Pipeline, filling unset commands with their defaults.
func New(cfg Config) *Pipeline {
	if cfg.FlattenCommand == "" {
		cfg.FlattenCommand = DefaultFlattenCommand
	}
	if cfg.LLMCommand == "" {
		cfg.LLMCommand = DefaultLLMCommand
	}
	return &Pipeline{
		config:  cfg,
		flatten: Flattener{Command: cfg.FlattenCommand},
		llm:     LLM{Command: cfg.LLMCommand},
	}
}

// Describe flattens req.Directory, pipes the prompt through the model tool
// and returns the normalized response. It never returns an error: failures
// are reported through Result.Text with ExitCode 1 and FileCount 0.
func (p *Pipeline) Describe(ctx context.Context, req Request) Result {
	if req.SystemPrompt == "" {
		req.SystemPrompt = DefaultSystemPrompt
	}
	if req.Model == "" {
		req.Model = DefaultModel
	}

	run, err := p.run(ctx, req)
	if err != nil {
		return errorResult(err)
	}

	result := Result{
		Text:      FormatMarkdown(run.output),
		ExitCode:  run.exitCode,
		FileCount: CountFiles(run.prompt),
	}

	if p.config.Tokens != nil {
		tokens, err := p.config.Tokens.Count(run.prompt)
		if err != nil {
			p.log("token count failed: %v\n", err)
		} else {
			result.Tokens = tokens
		}
	}

	if req.OutputFile != "" {
		if err := os.WriteFile(req.OutputFile, []byte(result.Text), 0644); err != nil {
			return errorResult(fmt.Errorf("failed to write %s: %w", req.OutputFile, err))
		}
	}

	return result
}

// stageOutput is what the two subprocesses produced.
type stageOutput struct {
	prompt   string // Everything the flattener wrote to stdout
	output   string // Everything the model tool wrote to stdout
	exitCode int    // Model tool exit status
}

// run starts both tools, connects them and reaps them in order.
func (p *Pipeline) run(ctx context.Context, req Request) (stageOutput, error) {
	flattenArgs := p.flatten.BuildArgs(req)
	flattenCmd := exec.CommandContext(ctx, p.flatten.Command, flattenArgs...)
	flattenCmd.Stderr = p.config.Stderr

	flattenOut, err := flattenCmd.StdoutPipe()
	if err != nil {
		return stageOutput{}, err
	}

	p.log("running %s %s\n", p.flatten.Command, strings.Join(flattenArgs, " "))
	if err := flattenCmd.Start(); err != nil {
		return stageOutput{}, err
	}

	// The model tool consumes the prompt as a stream while the tee keeps
	// a byte-identical copy for counting.
	var captured bytes.Buffer
	var stdout bytes.Buffer
	llmCmd := exec.CommandContext(ctx, p.llm.Command, p.llm.BuildArgs(req)...)
	llmCmd.Stdin = io.TeeReader(flattenOut, &captured)
	llmCmd.Stdout = &stdout
	llmCmd.Stderr = p.config.Stderr

	p.log("running %s -m %s -s <system prompt>\n", p.llm.Command, req.Model)
	if err := llmCmd.Start(); err != nil {
		abort(flattenCmd)
		return stageOutput{}, err
	}

	exitCode := 0
	if err := llmCmd.Wait(); err != nil {
		if ctx.Err() != nil {
			abort(flattenCmd)
			return stageOutput{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			abort(flattenCmd)
			return stageOutput{}, err
		}
		exitCode = exitErr.ExitCode()
		if exitCode < 0 {
			exitCode = 1
		}
	}

	// Whatever the model tool left unread still belongs to the prompt.
	if _, err := io.Copy(&captured, flattenOut); err != nil {
		abort(flattenCmd)
		return stageOutput{}, fmt.Errorf("failed to read flattener output: %w", err)
	}

	if err := flattenCmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return stageOutput{}, err
		}
		p.log("%s exited with status %d\n", p.flatten.Command, exitErr.ExitCode())
	}

	return stageOutput{
		prompt:   captured.String(),
		output:   stdout.String(),
		exitCode: exitCode,
	}, nil
}

// abort kills a started process and reaps it.
func abort(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = cmd.Wait()
}

func errorResult(err error) Result {
	return Result{
		Text:      errorPrefix + err.Error(),
		ExitCode:  1,
		FileCount: 0,
	}
}

// log writes a formatted message to the logger if configured.
func (p *Pipeline) log(format string, args ...interface{}) {
	if p.config.Logger != nil {
		fmt.Fprintf(p.config.Logger, format, args...)
	}
}
