package ui

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/app"
	"github.com/dudu/glasscam/internal/log"
	"github.com/dudu/glasscam/internal/pipeline"
)

// Headless is the view used without a preview window. Frames are dropped
// and timing is logged once a second.
type Headless struct {
	spinner *Spinner
	meter   fpsMeter
	logged  time.Time
}

// NewHeadless creates a view without a window; spinner may be nil
func NewHeadless(spinner *Spinner) *Headless {
	return &Headless{spinner: spinner, meter: newFPSMeter()}
}

func (h *Headless) Update(st app.State) {
	if h.spinner != nil {
		h.spinner.Update(st)
	}
	if text := StatusText(st); text != "" && !st.Loading {
		log.Info(log.Fields{"phase": st.Phase.String()}, text)
	}
}

func (h *Headless) Present(_ *gocv.Mat, _ app.State, timing pipeline.Timing) {
	now := time.Now()
	fps := h.meter.tick(now)
	if now.Sub(h.logged) < time.Second {
		return
	}
	h.logged = now
	log.Debug(log.Fields{"timing": TimingText(timing, fps)}, "frame")
}

func (h *Headless) Poll() app.Event { return nil }
