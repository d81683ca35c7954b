package camera

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Capture is a Stream backed by an OpenCV VideoCapture device
type Capture struct {
	id        string
	webcam    *gocv.VideoCapture
	deviceID  int
	targetFPS int
	width     int
	height    int
	track     *videoTrack
	mu        sync.Mutex
}

// DeviceOpener opens gocv capture devices, mapping facing modes to device indices
type DeviceOpener struct {
	UserDevice        int
	EnvironmentDevice int
	TargetFPS         int
}

// Open implements Opener
func (o DeviceOpener) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deviceID := o.UserDevice
	if c.Facing == FacingEnvironment {
		deviceID = o.EnvironmentDevice
	}
	return NewCapture(deviceID, o.TargetFPS, c.Width, c.Height)
}

// NewCapture opens a camera device. A zero width or height leaves the device default resolution.
func NewCapture(deviceID, targetFPS, width, height int) (*Capture, error) {
	webcam, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, errors.Wrapf(err, "open camera %d", deviceID)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, errors.Errorf("camera %d not available", deviceID)
	}

	if width > 0 && height > 0 {
		webcam.Set(gocv.VideoCaptureFrameWidth, float64(width))
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
	if targetFPS > 0 {
		webcam.Set(gocv.VideoCaptureFPS, float64(targetFPS))
	}

	// Get actual dimensions (camera may not support requested resolution)
	actualWidth := int(webcam.Get(gocv.VideoCaptureFrameWidth))
	actualHeight := int(webcam.Get(gocv.VideoCaptureFrameHeight))

	c := &Capture{
		id:        uuid.NewString(),
		webcam:    webcam,
		deviceID:  deviceID,
		targetFPS: targetFPS,
		width:     actualWidth,
		height:    actualHeight,
	}
	c.track = &videoTrack{stop: c.close}
	return c, nil
}

func (c *Capture) ID() string {
	return c.id
}

// Tracks returns the single video track of the device
func (c *Capture) Tracks() []Track {
	return []Track{c.track}
}

// Read captures a frame into the provided Mat
func (c *Capture) Read(frame *gocv.Mat) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam == nil {
		return false
	}

	return c.webcam.Read(frame)
}

// Size returns the negotiated frame size
func (c *Capture) Size() (int, int) {
	return c.width, c.height
}

// Stop stops every track, releasing the device
func (c *Capture) Stop() error {
	return StopTracks(c)
}

func (c *Capture) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam != nil {
		err := c.webcam.Close()
		c.webcam = nil
		return err
	}
	return nil
}

type videoTrack struct {
	mu      sync.Mutex
	stopped bool
	stop    func() error
}

func (t *videoTrack) Kind() string {
	return "video"
}

func (t *videoTrack) Live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

func (t *videoTrack) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return nil
	}
	t.stopped = true
	return t.stop()
}
