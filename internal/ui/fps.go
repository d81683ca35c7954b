package ui

import "time"

// fpsMeter recomputes frames per second once a second
type fpsMeter struct {
	since time.Time
	count int
	fps   float64
}

func newFPSMeter() fpsMeter {
	return fpsMeter{since: time.Now()}
}

func (m *fpsMeter) tick(now time.Time) float64 {
	m.count++
	if elapsed := now.Sub(m.since); elapsed >= time.Second {
		m.fps = float64(m.count) / elapsed.Seconds()
		m.count = 0
		m.since = now
	}
	return m.fps
}
