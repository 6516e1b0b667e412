package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress on stderr while pwpm probes the system. It stays
// silent when stderr is not a terminal.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner labelled with message. It returns nil when
// stderr is not a terminal; a nil Spinner is safe to use.
func NewSpinner(message string) *Spinner {
	if !IsTerminal(os.Stderr) {
		return nil
	}

	charSet := spinner.CharSets[14] // braille dots
	if !UseUnicode {
		charSet = spinner.CharSets[9] // |/-\
	}

	s := spinner.New(charSet, 100*time.Millisecond,
		spinner.WithWriter(os.Stderr),
		spinner.WithHiddenCursor(true),
	)
	s.Suffix = " " + message
	if UseColors {
		_ = s.Color("cyan")
	}
	return &Spinner{s: s}
}

func (sp *Spinner) Start() {
	if sp != nil {
		sp.s.Start()
	}
}

func (sp *Spinner) Stop() {
	if sp != nil {
		sp.s.Stop()
	}
}

// WithSpinner runs fn behind a spinner. The spinner is cleared when fn
// returns and a failure is printed as an error message.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	err := fn()
	sp.Stop()

	if err != nil {
		ErrorMsg("%s %v", message, err)
	}
	return err
}
