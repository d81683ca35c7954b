package camera

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FakeOpener hands out synthetic streams. It is used by tests and by --fake-camera runs.
type FakeOpener struct {
	mu       sync.Mutex
	Requests []Constraints
	Streams  []*FakeStream
	// Fail makes the next Open calls return this error
	Fail error
	// DefaultSize is used when a request leaves the resolution to the device
	DefaultSize Size
}

// Open implements Opener
func (o *FakeOpener) Open(ctx context.Context, c Constraints) (Stream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Requests = append(o.Requests, c)
	if o.Fail != nil {
		return nil, o.Fail
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := Size{Width: c.Width, Height: c.Height}
	if size.Width == 0 || size.Height == 0 {
		size = o.DefaultSize
	}
	if size.Width == 0 || size.Height == 0 {
		size = Size{Width: 640, Height: 480}
	}

	s := &FakeStream{
		id:     fmt.Sprintf("fake-%d", len(o.Streams)+1),
		facing: c.Facing,
		size:   size,
		tracks: []*FakeTrack{{kind: "video", live: true}},
	}
	o.Streams = append(o.Streams, s)
	return s, nil
}

// LiveStreams counts streams with at least one running track
func (o *FakeOpener) LiveStreams() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for _, s := range o.Streams {
		if Live(s) {
			n++
		}
	}
	return n
}

// Opened returns the number of successful opens
func (o *FakeOpener) Opened() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Streams)
}

// FakeStream produces blank frames of a fixed size
type FakeStream struct {
	id     string
	facing FacingMode
	size   Size
	tracks []*FakeTrack
	reads  int
	mu     sync.Mutex
}

func (s *FakeStream) ID() string { return s.id }

func (s *FakeStream) Facing() FacingMode { return s.facing }

func (s *FakeStream) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		out[i] = t
	}
	return out
}

func (s *FakeStream) Read(frame *gocv.Mat) bool {
	if !Live(s) {
		return false
	}
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()

	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), s.size.Height, s.size.Width, gocv.MatTypeCV8UC3)
	defer blank.Close()
	blank.CopyTo(frame)
	return true
}

// Reads returns how many frames were delivered
func (s *FakeStream) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *FakeStream) Size() (int, int) { return s.size.Width, s.size.Height }

func (s *FakeStream) Stop() error { return StopTracks(s) }

// FakeTrack records whether it was stopped
type FakeTrack struct {
	mu   sync.Mutex
	kind string
	live bool
}

func (t *FakeTrack) Kind() string { return t.kind }

func (t *FakeTrack) Live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

func (t *FakeTrack) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.live {
		return errors.New("track already stopped")
	}
	t.live = false
	return nil
}
