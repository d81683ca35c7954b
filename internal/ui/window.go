package ui

import (
	"context"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/app"
	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/pipeline"
)

var (
	textColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	shadowColor = color.RGBA{A: 255}
	timingColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// Window manages the preview display
type Window struct {
	window     *gocv.Window
	name       string
	meter      fpsMeter
	viewport   camera.Size
	keys       keymap
	last       gocv.Mat
	spinner    *Spinner
	showTiming bool
}

// NewWindow creates a new preview window sized to the viewport
func NewWindow(name string, viewport camera.Size, spinner *Spinner, showTiming bool) *Window {
	window := gocv.NewWindow(name)
	// Force window to appear on macOS
	window.ResizeWindow(viewport.Width, viewport.Height)
	window.MoveWindow(100, 100)
	return &Window{
		window:     window,
		name:       name,
		meter:      newFPSMeter(),
		viewport:   viewport,
		keys:       keymap{requested: viewport},
		last:       gocv.NewMat(),
		spinner:    spinner,
		showTiming: showTiming,
	}
}

// Update redraws the status screen when the state calls for one
func (w *Window) Update(st app.State) {
	if st.Viewport != w.viewport {
		w.viewport = st.Viewport
		w.keys.sync(st.Viewport)
		w.window.ResizeWindow(st.Viewport.Width, st.Viewport.Height)
	}
	if w.spinner != nil {
		w.spinner.Update(st)
	}

	text := StatusText(st)
	if text == "" {
		return
	}

	var screen gocv.Mat
	if w.last.Empty() {
		screen = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), w.viewport.Height, w.viewport.Width, gocv.MatTypeCV8UC3)
	} else {
		screen = w.last.Clone()
	}
	defer screen.Close()

	drawCentered(&screen, text)
	drawHints(&screen, Hints(st))
	w.window.IMShow(screen)
	w.window.WaitKey(1)
}

// Present displays a frame and updates FPS counter
func (w *Window) Present(frame *gocv.Mat, st app.State, timing pipeline.Timing) {
	fps := w.meter.tick(time.Now())
	frame.CopyTo(&w.last)

	if w.showTiming {
		gocv.PutText(frame, TimingText(timing, fps), image.Pt(10, 30),
			gocv.FontHersheyPlain, 1.5, timingColor, 2)
	}
	if text := StatusText(st); text != "" {
		drawCentered(frame, text)
	}
	drawHints(frame, Hints(st))

	w.window.IMShow(*frame)
}

// Poll pumps window events and maps the pressed key, if any.
// WaitKey must be called to process window events on macOS.
func (w *Window) Poll() app.Event {
	return w.keys.event(w.window.WaitKey(1))
}

// WaitForKey blocks until a key is pressed or ctx is done
func (w *Window) WaitForKey(ctx context.Context) {
	for ctx.Err() == nil {
		if w.window.WaitKey(100) >= 0 {
			return
		}
	}
}

// Close closes the window
func (w *Window) Close() error {
	w.last.Close()
	if w.window != nil {
		return w.window.Close()
	}
	return nil
}

func drawText(img *gocv.Mat, text string, at image.Point, scale float64) {
	gocv.PutText(img, text, at, gocv.FontHersheySimplex, scale, shadowColor, 4)
	gocv.PutText(img, text, at, gocv.FontHersheySimplex, scale, textColor, 2)
}

func drawCentered(img *gocv.Mat, text string) {
	size := gocv.GetTextSize(text, gocv.FontHersheySimplex, 1.2, 2)
	at := image.Pt((img.Cols()-size.X)/2, (img.Rows()+size.Y)/2)
	drawText(img, text, at, 1.2)
}

func drawHints(img *gocv.Mat, hints []string) {
	y := img.Rows() - 12
	for i := len(hints) - 1; i >= 0; i-- {
		drawText(img, hints[i], image.Pt(10, y), 0.6)
		y -= 24
	}
}
