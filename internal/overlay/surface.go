// Package overlay draws the glasses overlay aligned to detected eyes.
package overlay

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Surface is a 2D drawing context with canvas semantics.
// Translate, Rotate and Scale compose onto the current transform; Save and Restore bracket them.
type Surface interface {
	Size() (int, int)
	Clear()
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(rad float64)
	Scale(sx, sy float64)
	DrawImage(img gocv.Mat, x, y, w, h float64)
	FillCircle(x, y, r float64, c color.RGBA)
}

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{A: 255}
)
