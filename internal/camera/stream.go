// Package camera acquires and releases camera streams.
package camera

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"
)

// FacingMode selects the user-facing (selfie) or environment-facing (rear) camera
type FacingMode bool

const (
	FacingUser        FacingMode = true
	FacingEnvironment FacingMode = false
)

// Toggle returns the opposite facing mode
func (f FacingMode) Toggle() FacingMode {
	return !f
}

func (f FacingMode) String() string {
	if f == FacingUser {
		return "user"
	}
	return "environment"
}

// Mirrored reports whether frames from this camera are presented mirrored
func (f FacingMode) Mirrored() bool {
	return f == FacingUser
}

// Size is a width/height pair in pixels
type Size struct {
	Width  int
	Height int
}

// Constraints describes a stream request. Audio is never requested.
type Constraints struct {
	Audio  bool
	Facing FacingMode
	// Width and Height are zero when the device should pick its own resolution
	Width  int
	Height int
}

// ConstraintsFor builds the request for a facing mode and viewport.
// Mobile devices get no explicit resolution.
func ConstraintsFor(facing FacingMode, viewport Size, mobile bool) Constraints {
	c := Constraints{Audio: false, Facing: facing}
	if !mobile {
		c.Width = viewport.Width
		c.Height = viewport.Height
	}
	return c
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (c Constraints) String() string {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Sprintf("facing=%s size=auto", c.Facing)
	}
	return fmt.Sprintf("facing=%s size=%dx%d", c.Facing, c.Width, c.Height)
}

// Track is an individually stoppable media track
type Track interface {
	Kind() string
	Live() bool
	Stop() error
}

// Stream is a live camera stream
type Stream interface {
	ID() string
	Tracks() []Track
	Read(frame *gocv.Mat) bool
	Size() (int, int)
	Stop() error
}

// Opener acquires new streams
type Opener interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// StopTracks stops every track of s and returns the first error
func StopTracks(s Stream) error {
	var first error
	for _, t := range s.Tracks() {
		if err := t.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Live reports whether any track of s is still running
func Live(s Stream) bool {
	for _, t := range s.Tracks() {
		if t.Live() {
			return true
		}
	}
	return false
}
