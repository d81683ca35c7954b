package ui

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/dudu/glasscam/internal/app"
)

// Spinner is the terminal loading indicator
type Spinner struct {
	bar    *progressbar.ProgressBar
	active bool
}

// NewSpinner writes an indeterminate spinner to out
func NewSpinner(out io.Writer) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Spinner{bar: bar}
}

// Update spins while st is loading and stops once it is not
func (s *Spinner) Update(st app.State) {
	if st.Loading && st.Phase != app.PhaseError {
		if !s.active {
			s.bar.Reset()
			s.active = true
		}
		s.bar.Describe(st.Phase.String())
		_ = s.bar.Add(1)
		return
	}
	s.Stop()
}

// Stop clears the spinner if it is running
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	_ = s.bar.Finish()
	s.active = false
}

// Active reports whether the spinner is shown
func (s *Spinner) Active() bool {
	return s.active
}
