package app

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/dudu/glasscam/internal/camera"
)

var viewport = camera.Size{Width: 640, Height: 480}

func apply(s State, events ...Event) State {
	for _, e := range events {
		s = Reduce(s, e)
	}
	return s
}

// steady returns a state in the estimation loop with two cameras available
func steady() State {
	return apply(Initial(viewport),
		Mounted{},
		DevicesProbed{ShowSwitchCamera: true},
		ModelLoaded{},
		StreamAcquired{ID: "s1"},
		FrameProcessed{},
	)
}

func TestStartupSequence(t *testing.T) {
	s := Initial(viewport)
	assert.Equal(t, PhaseInitializing, s.Phase)
	assert.True(t, s.Loading)
	assert.Equal(t, camera.FacingUser, s.Facing)

	s = Reduce(s, Mounted{})
	assert.Equal(t, PhaseProbingDevices, s.Phase)

	s = Reduce(s, DevicesProbed{ShowSwitchCamera: false})
	assert.Equal(t, PhaseLoadingModel, s.Phase)
	assert.False(t, s.ShowSwitchCamera)
	assert.True(t, s.Loading)

	s = Reduce(s, ModelLoaded{})
	assert.Equal(t, PhaseCapturing, s.Phase)
	assert.Equal(t, 1, s.StreamGen)

	// no stream yet, so a frame cannot start the loop
	assert.Equal(t, PhaseCapturing, Reduce(s, FrameProcessed{}).Phase)

	s = Reduce(s, StreamAcquired{ID: "s1"})
	assert.Equal(t, "s1", s.StreamID)
	assert.True(t, s.Loading)

	s = Reduce(s, FrameProcessed{})
	assert.Equal(t, PhaseEstimating, s.Phase)
	assert.False(t, s.Loading)

	// ordinary frames do not touch loading
	assert.Equal(t, s, Reduce(s, FrameProcessed{}))
}

func TestSwitchEvenTimesRestoresFacing(t *testing.T) {
	s := steady()
	start := s.Facing

	for i := 1; i <= 6; i++ {
		s = apply(s, SwitchCamera{}, StreamAcquired{ID: "next"}, FrameProcessed{})
		if i%2 == 0 {
			assert.Equal(t, start, s.Facing, "after %d switches", i)
		} else {
			assert.NotEqual(t, start, s.Facing, "after %d switches", i)
		}
	}
	assert.Equal(t, 7, s.StreamGen)
}

func TestSwitchRequestsStream(t *testing.T) {
	s := Reduce(steady(), SwitchCamera{})
	assert.Equal(t, PhaseCapturing, s.Phase)
	assert.Equal(t, camera.FacingEnvironment, s.Facing)
	assert.True(t, s.Loading)
	assert.Empty(t, s.StreamID)
	assert.Equal(t, 2, s.StreamGen)
}

func TestSwitchIgnoredOutsideCapture(t *testing.T) {
	s := apply(Initial(viewport), Mounted{}, DevicesProbed{ShowSwitchCamera: true})
	assert.Equal(t, s, Reduce(s, SwitchCamera{}))
}

func TestSwitchIgnoredWithSingleCamera(t *testing.T) {
	s := apply(Initial(viewport), Mounted{}, DevicesProbed{}, ModelLoaded{}, StreamAcquired{ID: "s1"}, FrameProcessed{})
	assert.Equal(t, s, Reduce(s, SwitchCamera{}))
}

func TestResize(t *testing.T) {
	bigger := camera.Size{Width: 1024, Height: 768}

	early := apply(Initial(viewport), Mounted{}, Resized{Size: bigger})
	assert.Equal(t, bigger, early.Viewport)
	assert.Equal(t, PhaseProbingDevices, early.Phase)
	assert.Zero(t, early.StreamGen)

	s := Reduce(steady(), Resized{Size: bigger})
	assert.Equal(t, bigger, s.Viewport)
	assert.Equal(t, PhaseCapturing, s.Phase)
	assert.True(t, s.Loading)
	assert.Equal(t, 2, s.StreamGen)

	// same size or nonsense sizes change nothing
	assert.Equal(t, s, Reduce(s, Resized{Size: bigger}))
	assert.Equal(t, s, Reduce(s, Resized{Size: camera.Size{}}))
}

func TestFailureIsTerminal(t *testing.T) {
	cause := errors.New("model missing")
	s := apply(Initial(viewport), Mounted{}, DevicesProbed{}, Failed{Err: cause})

	assert.Equal(t, PhaseError, s.Phase)
	assert.False(t, s.Loading)
	assert.Equal(t, cause, s.Err)

	after := apply(s, ModelLoaded{}, StreamAcquired{ID: "x"}, FrameProcessed{}, SwitchCamera{},
		Resized{Size: camera.Size{Width: 1, Height: 1}})
	assert.Equal(t, s, after)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "probing-devices", PhaseProbingDevices.String())
	assert.Equal(t, "error", PhaseError.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
