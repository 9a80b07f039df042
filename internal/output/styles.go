package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// Color palette
var (
	ColorSuccess = lipgloss.Color("#00D787") // Green
	ColorError   = lipgloss.Color("#FF5F87") // Pink
	ColorInfo    = lipgloss.Color("#5FAFFF") // Blue
	ColorMuted   = lipgloss.Color("#888888") // Mid gray (readable)
)

// styles are bound to the renderer of the writer they print to, so
// output to a file or pipe carries no escape codes.
type styles struct {
	success lipgloss.Style
	errorS  lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	bold    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		success: r.NewStyle().Foreground(ColorSuccess).Bold(true),
		errorS:  r.NewStyle().Foreground(ColorError).Bold(true),
		info:    r.NewStyle().Foreground(ColorInfo),
		muted:   r.NewStyle().Foreground(ColorMuted),
		bold:    r.NewStyle().Bold(true),
	}
}

// GetTerminalWidth returns the current terminal width, or a default fallback.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}
