package present

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows indeterminate progress while tables load. A disabled
// spinner does nothing, for piped output and JSON mode.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string, enabled bool) *Spinner {
	if !enabled {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &Spinner{spinner: s}
}

// Start starts the animation.
func (s *Spinner) Start() {
	if s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// UpdateMessage replaces the text shown next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	if s.spinner != nil {
		s.spinner.Lock()
		s.spinner.Suffix = " " + message
		s.spinner.Unlock()
	}
}
