// Package device discovers capture hardware and platform traits that shape capture settings.
package device

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/dudu/glasscam/internal/log"
)

// Kind classifies a media device
type Kind int

const (
	KindOther Kind = iota
	KindVideoInput
	KindAudioInput
)

func (k Kind) String() string {
	switch k {
	case KindVideoInput:
		return "videoinput"
	case KindAudioInput:
		return "audioinput"
	default:
		return "other"
	}
}

// Device describes one enumerated media device
type Device struct {
	ID    string
	Label string
	Kind  Kind
}

// Lister enumerates media devices
type Lister interface {
	List(ctx context.Context) ([]Device, error)
}

// ListerFunc adapts a function to Lister
type ListerFunc func(ctx context.Context) ([]Device, error)

func (f ListerFunc) List(ctx context.Context) ([]Device, error) {
	return f(ctx)
}

// DeviceEnumerationError reports a failed enumeration. It is never fatal.
type DeviceEnumerationError struct {
	Err error
}

func (e *DeviceEnumerationError) Error() string {
	return fmt.Sprintf("device enumeration failed: %v", e.Err)
}

func (e *DeviceEnumerationError) Unwrap() error {
	return e.Err
}

// Capabilities is the outcome of a probe
type Capabilities struct {
	VideoInputs      int
	ShowSwitchCamera bool
}

// CountVideoInputs returns how many devices are video inputs
func CountVideoInputs(devices []Device) int {
	n := 0
	for _, d := range devices {
		if d.Kind == KindVideoInput {
			n++
		}
	}
	return n
}

// Probe enumerates devices and decides whether a camera switch control makes sense.
// Enumeration failures degrade to ShowSwitchCamera=false; the error is returned for logging only.
func Probe(ctx context.Context, lister Lister) (Capabilities, error) {
	type result struct {
		devices []Device
		err     error
	}

	done := make(chan result, 1)
	go func() {
		devices, err := lister.List(ctx)
		done <- result{devices, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err != nil {
		err := &DeviceEnumerationError{Err: errors.WithStack(res.err)}
		log.Warn(log.Fields{"error": res.err}, "device probe failed, hiding camera switch")
		return Capabilities{}, err
	}

	count := CountVideoInputs(res.devices)
	log.Debug(log.Fields{"video_inputs": count, "devices": len(res.devices)}, "devices probed")

	return Capabilities{
		VideoInputs:      count,
		ShowSwitchCamera: count > 1,
	}, nil
}
