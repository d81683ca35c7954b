// Package app sequences device probing, model loading, capture and the estimation loop.
package app

import (
	"github.com/dudu/glasscam/internal/camera"
)

// Phase is the lifecycle stage of the application
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseProbingDevices
	PhaseLoadingModel
	PhaseCapturing
	PhaseEstimating
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseProbingDevices:
		return "probing-devices"
	case PhaseLoadingModel:
		return "loading-model"
	case PhaseCapturing:
		return "capturing"
	case PhaseEstimating:
		return "estimating"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot; Reduce produces the next one
type State struct {
	Phase            Phase
	Facing           camera.FacingMode
	ShowSwitchCamera bool
	Loading          bool
	Err              error
	Viewport         camera.Size
	// StreamID identifies the held stream, empty while one is being acquired
	StreamID string
	// StreamGen counts stream requests; a change means the current stream must be replaced
	StreamGen int
}

// Initial returns the state at mount time
func Initial(viewport camera.Size) State {
	return State{
		Phase:    PhaseInitializing,
		Facing:   camera.FacingUser,
		Loading:  true,
		Viewport: viewport,
	}
}

// Event is an input to Reduce
type Event interface {
	event()
}

// FrameProcessed marks one completed loop iteration, whether or not a pose was found.
// Quit ends the session and does not change state.
type (
	Mounted        struct{}
	DevicesProbed  struct{ ShowSwitchCamera bool }
	ModelLoaded    struct{}
	StreamAcquired struct{ ID string }
	FrameProcessed struct{}
	SwitchCamera   struct{}
	Resized        struct{ Size camera.Size }
	Failed         struct{ Err error }
	Quit           struct{}
)

func (Mounted) event()        {}
func (DevicesProbed) event()  {}
func (ModelLoaded) event()    {}
func (StreamAcquired) event() {}
func (FrameProcessed) event() {}
func (SwitchCamera) event()   {}
func (Resized) event()        {}
func (Failed) event()         {}
func (Quit) event()           {}

// equal compares snapshots; Err only changes together with Phase
func (s State) equal(o State) bool {
	s.Err, o.Err = nil, nil
	return s == o
}

func (s State) streaming() bool {
	return s.Phase == PhaseCapturing || s.Phase == PhaseEstimating
}

// requestStream moves to Capturing and asks for a fresh stream
func (s State) requestStream() State {
	s.Phase = PhaseCapturing
	s.Loading = true
	s.StreamID = ""
	s.StreamGen++
	return s
}

// Reduce returns the state after applying e. Error is terminal.
func Reduce(s State, e Event) State {
	if s.Phase == PhaseError {
		return s
	}

	switch e := e.(type) {
	case Mounted:
		if s.Phase == PhaseInitializing {
			s.Phase = PhaseProbingDevices
			s.Loading = true
		}

	case DevicesProbed:
		s.ShowSwitchCamera = e.ShowSwitchCamera
		if s.Phase == PhaseProbingDevices {
			s.Phase = PhaseLoadingModel
		}

	case ModelLoaded:
		if s.Phase == PhaseLoadingModel {
			s = s.requestStream()
		}

	case StreamAcquired:
		if s.Phase == PhaseCapturing {
			s.StreamID = e.ID
		}

	case FrameProcessed:
		if s.Phase == PhaseCapturing && s.StreamID != "" {
			s.Phase = PhaseEstimating
			s.Loading = false
		}

	case SwitchCamera:
		if s.streaming() && s.ShowSwitchCamera {
			s.Facing = s.Facing.Toggle()
			s = s.requestStream()
		}

	case Resized:
		if e.Size.Width <= 0 || e.Size.Height <= 0 || e.Size == s.Viewport {
			break
		}
		s.Viewport = e.Size
		if s.streaming() {
			s = s.requestStream()
		}

	case Failed:
		s.Phase = PhaseError
		s.Loading = false
		s.Err = e.Err
	}

	return s
}
