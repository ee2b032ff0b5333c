package progress

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// lineSpinner wraps a spinner that is created on first use and paused
// around every printed line
type lineSpinner struct {
	out     io.Writer
	spinner *spinner.Spinner
}

func newLineSpinner(out io.Writer) *lineSpinner {
	return &lineSpinner{out: out}
}

func (s *lineSpinner) start(message string) {
	if s.spinner == nil {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.spinner.Writer = s.out
		s.spinner.HideCursor = false
		_ = s.spinner.Color("cyan", "bold")
	}
	s.spinner.Suffix = " " + message
	if !s.spinner.Active() {
		s.spinner.Start()
	}
}

func (s *lineSpinner) stop() {
	if s.spinner != nil && s.spinner.Active() {
		s.spinner.Stop()
	}
}

func (s *lineSpinner) active() bool {
	return s.spinner != nil && s.spinner.Active()
}

// println prints a line without leaving spinner frames behind
func (s *lineSpinner) println(c *color.Color, message string) {
	wasActive := s.active()
	s.stop()

	c.Fprintln(s.out, message)

	if wasActive {
		s.spinner.Start()
	}
}
