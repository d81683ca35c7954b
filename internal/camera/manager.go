package camera

import (
	"context"
	"fmt"
	"sync"

	"github.com/dudu/glasscam/internal/log"
)

// MediaAcquisitionError means no stream could be opened (permission denied, no matching device)
type MediaAcquisitionError struct {
	Constraints Constraints
	Err         error
}

func (e *MediaAcquisitionError) Error() string {
	return fmt.Sprintf("media acquisition failed (%s): %v", e.Constraints, e.Err)
}

func (e *MediaAcquisitionError) Unwrap() error {
	return e.Err
}

// Manager owns at most one live stream at a time
type Manager struct {
	opener  Opener
	current Stream
	mu      sync.Mutex
}

// NewManager creates a manager around an opener
func NewManager(opener Opener) *Manager {
	return &Manager{opener: opener}
}

// Acquire stops every track of the held stream, then opens a new one.
// On failure no stream is held.
func (m *Manager) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()

	stream, err := m.opener.Open(ctx, c)
	if err != nil {
		return nil, &MediaAcquisitionError{Constraints: c, Err: err}
	}

	m.current = stream
	w, h := stream.Size()
	log.Info(log.Fields{"stream": stream.ID(), "request": c.String(), "width": w, "height": h}, "stream acquired")
	return stream, nil
}

// Current returns the held stream or nil
func (m *Manager) Current() Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Release stops the held stream, if any
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
}

func (m *Manager) releaseLocked() {
	if m.current == nil {
		return
	}
	if err := StopTracks(m.current); err != nil {
		log.Warn(log.Fields{"stream": m.current.ID(), "error": err}, "failed to stop stream tracks")
	} else {
		log.Debug(log.Fields{"stream": m.current.ID()}, "stream released")
	}
	m.current = nil
}
