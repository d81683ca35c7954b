package ui

import (
	"fmt"

	"github.com/dudu/glasscam/internal/app"
	"github.com/dudu/glasscam/internal/pipeline"
)

const (
	loadingText = "Loading..."
	errorText   = "Something went wrong"
	switchHint  = "[s] switch camera"
	quitHint    = "[q] quit"
)

// StatusText is the banner shown over the preview, empty in steady state.
// Error details are logged, never shown.
func StatusText(st app.State) string {
	switch {
	case st.Phase == app.PhaseError:
		return errorText
	case st.Loading:
		return loadingText
	}
	return ""
}

// Hints lists the key bindings available in st
func Hints(st app.State) []string {
	if st.Phase == app.PhaseError {
		return []string{quitHint}
	}
	hints := make([]string, 0, 2)
	if st.ShowSwitchCamera && st.Phase == app.PhaseEstimating {
		hints = append(hints, switchHint)
	}
	return append(hints, quitHint)
}

// TimingText formats per-frame timing the way the console line shows it
func TimingText(t pipeline.Timing, fps float64) string {
	return fmt.Sprintf("E:%.0fms R:%.0fms T:%.0fms (%.1f FPS)",
		float64(t.Estimation.Milliseconds()),
		float64(t.Render.Milliseconds()),
		float64(t.Total.Milliseconds()),
		fps)
}
