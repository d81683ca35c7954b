package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/geometry"
)

// MatSurface is a Surface drawing onto a transparent, premultiplied BGRA layer
type MatSurface struct {
	layer  gocv.Mat
	warped gocv.Mat
	m      Affine
	stack  []Affine
}

// NewMatSurface allocates a transparent layer of the given size
func NewMatSurface(width, height int) *MatSurface {
	layer := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC4)
	return &MatSurface{
		layer:  layer,
		warped: gocv.NewMat(),
		m:      Identity,
	}
}

// Layer exposes the BGRA layer for compositing
func (s *MatSurface) Layer() gocv.Mat {
	return s.layer
}

func (s *MatSurface) Size() (int, int) {
	return s.layer.Cols(), s.layer.Rows()
}

// Clear makes the whole layer transparent. The current transform is kept.
func (s *MatSurface) Clear() {
	s.layer.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

func (s *MatSurface) Save() {
	s.stack = append(s.stack, s.m)
}

func (s *MatSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.m = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *MatSurface) Translate(x, y float64) {
	s.m = s.m.Mul(Translation(x, y))
}

func (s *MatSurface) Rotate(rad float64) {
	s.m = s.m.Mul(Rotation(rad))
}

func (s *MatSurface) Scale(sx, sy float64) {
	s.m = s.m.Mul(Scaling(sx, sy))
}

// DrawImage draws a BGRA image into the rectangle (x, y, w, h) of the current user space
func (s *MatSurface) DrawImage(img gocv.Mat, x, y, w, h float64) {
	iw, ih := img.Cols(), img.Rows()
	if iw == 0 || ih == 0 || w == 0 || h == 0 {
		return
	}
	width, height := s.Size()

	total := s.m.Mul(Affine{A: w / float64(iw), D: h / float64(ih), E: x, F: y})
	rect := bounds(total, float64(iw), float64(ih), width, height)
	if rect.Empty() {
		return
	}

	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer m.Close()
	m.SetDoubleAt(0, 0, total.A)
	m.SetDoubleAt(0, 1, total.C)
	m.SetDoubleAt(0, 2, total.E)
	m.SetDoubleAt(1, 0, total.B)
	m.SetDoubleAt(1, 1, total.D)
	m.SetDoubleAt(1, 2, total.F)

	gocv.WarpAffineWithParams(img, &s.warped, m, image.Pt(width, height),
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})

	blendOver(&s.layer, s.warped, rect)
}

// FillCircle fills a circle whose center is mapped through the current transform.
// c is written as is, so it should be opaque or already premultiplied.
func (s *MatSurface) FillCircle(x, y, r float64, c color.RGBA) {
	center := s.m.Apply(geometry.Point{X: x, Y: y})
	radius := r * math.Sqrt(math.Abs(s.m.Det()))
	gocv.Circle(&s.layer,
		image.Pt(int(math.Round(center.X)), int(math.Round(center.Y))),
		max(1, int(math.Round(radius))), c, -1)
}

// Composite blends the layer onto a BGR frame of the same size
func (s *MatSurface) Composite(frame *gocv.Mat) error {
	return Composite(frame, s.layer)
}

// Close releases the layer
func (s *MatSurface) Close() error {
	s.warped.Close()
	return s.layer.Close()
}

// Composite alpha-blends a premultiplied BGRA layer onto a BGR frame
func Composite(frame *gocv.Mat, layer gocv.Mat) error {
	if frame.Cols() != layer.Cols() || frame.Rows() != layer.Rows() {
		return errors.Errorf("layer %dx%d does not match frame %dx%d",
			layer.Cols(), layer.Rows(), frame.Cols(), frame.Rows())
	}
	if frame.Channels() != 3 || layer.Channels() != 4 {
		return errors.Errorf("unsupported channels frame=%d layer=%d", frame.Channels(), layer.Channels())
	}

	compositeBGR(frame, layer, image.Rect(0, 0, frame.Cols(), frame.Rows()))
	return nil
}
