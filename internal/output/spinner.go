package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Spinner frames using braille characters
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows a single-line progress indicator while the pipeline runs.
type Spinner struct {
	out      io.Writer
	style    styles
	interval time.Duration

	mu       sync.Mutex
	spinning bool
	stop     chan struct{}
	done     chan struct{}
}

// NewSpinner creates a spinner that draws on out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{
		out:      out,
		style:    newStyles(lipgloss.NewRenderer(out)),
		interval: 80 * time.Millisecond,
	}
}

// Start begins drawing msg with an elapsed-time counter.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	if s.spinning {
		s.mu.Unlock()
		return
	}
	s.spinning = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		start := time.Now()
		frame := 0
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				// Clear the line so later output starts clean
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				elapsed := time.Since(start).Truncate(time.Second)
				fmt.Fprintf(s.out, "\r\033[K%s %s %s",
					s.style.info.Render(spinnerFrames[frame]),
					msg,
					s.style.muted.Render("("+elapsed.String()+")"))
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// Stop halts the spinner and clears its line. It is safe to call when idle.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.spinning {
		s.mu.Unlock()
		return
	}
	s.spinning = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()
	<-done
}
