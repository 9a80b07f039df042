package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jywlabs/describer/internal/history"
)

// Printer handles formatted output for the CLI.
type Printer struct {
	w     io.Writer
	style styles
	width int
}

// New creates a new Printer that writes to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{
		w:     w,
		style: newStyles(lipgloss.NewRenderer(w)),
		width: GetTerminalWidth(),
	}
}

// FileCount prints how many files were analyzed.
// Format: "Analyzed N files from <dir>"
func (p *Printer) FileCount(count int, dir string) {
	noun := "files"
	if count == 1 {
		noun = "file"
	}
	fmt.Fprintf(p.w, "%s %s from %s\n", p.style.bold.Render("Analyzed"), fmt.Sprintf("%d %s", count, noun), dir)
}

// GitignoreNote prints the notice shown when .gitignore was bypassed.
func (p *Printer) GitignoreNote() {
	fmt.Fprintln(p.w, p.style.muted.Render("Note: .gitignore rules were ignored"))
}

// ExcludeNote prints the active exclusion pattern.
// Format: "Excluded files matching: <pattern>"
func (p *Printer) ExcludeNote(pattern string) {
	fmt.Fprintln(p.w, p.style.muted.Render("Excluded files matching: "+pattern))
}

// Tokens prints the prompt size estimate.
// Format: "Prompt size: ~N tokens (encoding)"
func (p *Printer) Tokens(count int, encoding string) {
	fmt.Fprintln(p.w, p.style.info.Render(fmt.Sprintf("Prompt size: ~%d tokens (%s)", count, encoding)))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}

// Text prints the pipeline text as is, followed by a newline.
func (p *Printer) Text(text string) {
	fmt.Fprintln(p.w, text)
}

// Written prints where the output file was saved.
// Format: "Output written to: <path>"
func (p *Printer) Written(path string) {
	fmt.Fprintf(p.w, "%s %s\n", p.style.success.Render("Output written to:"), path)
}

// Changes prints a line-level change summary against the previous output.
// Format: "Changes: +A -R lines" or "Changes: none"
func (p *Printer) Changes(added, removed int) {
	if added == 0 && removed == 0 {
		fmt.Fprintln(p.w, p.style.muted.Render("Changes: none"))
		return
	}
	fmt.Fprintln(p.w, p.style.info.Render(fmt.Sprintf("Changes: +%d -%d lines", added, removed)))
}

// Warning prints a non-fatal problem.
// Format: "! <message>"
func (p *Printer) Warning(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.style.errorS.Render("!"), msg)
}

// Runs prints recorded runs as a table, newest first.
func (p *Printer) Runs(runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.w, p.style.muted.Render("No runs recorded"))
		return
	}

	header := fmt.Sprintf("%-20s  %-6s  %-5s  %-28s  %s", "WHEN", "FILES", "EXIT", "MODEL", "DIRECTORY")
	fmt.Fprintln(p.w, p.style.bold.Render(header))

	// Leave the fixed columns intact and clip the directory to the terminal.
	dirWidth := p.width - 68
	if dirWidth < 20 {
		dirWidth = 20
	}
	for _, run := range runs {
		exit := p.style.success.Render(fmt.Sprintf("%-5d", run.ExitCode))
		if run.ExitCode != 0 {
			exit = p.style.errorS.Render(fmt.Sprintf("%-5d", run.ExitCode))
		}
		fmt.Fprintf(p.w, "%-20s  %-6d  %s  %-28s  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.FileCount,
			exit,
			truncate(run.Model, 28),
			truncate(run.Directory, dirWidth),
		)
	}
}

// truncate shortens a string to the given length, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
