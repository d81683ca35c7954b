package ui

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/dudu/glasscam/internal/app"
	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/pipeline"
)

func TestStatusText(t *testing.T) {
	st := app.Initial(camera.Size{Width: 640, Height: 480})
	assert.Equal(t, "Loading...", StatusText(st))

	st = app.Reduce(st, app.Failed{Err: errors.New("onnxruntime: library not found")})
	assert.Equal(t, "Something went wrong", StatusText(st), "error details stay out of the UI")

	steady := app.State{Phase: app.PhaseEstimating}
	assert.Empty(t, StatusText(steady))
}

func TestHints(t *testing.T) {
	st := app.State{Phase: app.PhaseEstimating, ShowSwitchCamera: true}
	assert.Equal(t, []string{"[s] switch camera", "[q] quit"}, Hints(st))

	st.ShowSwitchCamera = false
	assert.Equal(t, []string{"[q] quit"}, Hints(st))

	st = app.State{Phase: app.PhaseLoadingModel, ShowSwitchCamera: true}
	assert.NotContains(t, Hints(st), "[s] switch camera")
}

func TestTimingText(t *testing.T) {
	timing := pipeline.Timing{
		Estimation: 12 * time.Millisecond,
		Render:     3 * time.Millisecond,
		Total:      16 * time.Millisecond,
	}
	assert.Equal(t, "E:12ms R:3ms T:16ms (29.5 FPS)", TimingText(timing, 29.5))
}

func TestFPSMeter(t *testing.T) {
	start := time.Now()
	m := fpsMeter{since: start}

	for i := 1; i < 30; i++ {
		assert.Zero(t, m.tick(start.Add(time.Duration(i)*10*time.Millisecond)))
	}
	assert.InDelta(t, 30.0, m.tick(start.Add(time.Second)), 0.001)
}
