package overlay

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/detector"
	"github.com/dudu/glasscam/internal/geometry"
)

// Overlay proportions relative to the eye distance
const (
	widthRatio   = 2.4
	heightRatio  = 1.2
	offsetXRatio = -1.2
	offsetYDiv   = -1.8

	eyeRadiusDiv   = 5
	pupilRadiusDiv = 10
	pupilShift     = 5
)

// OverlayTransform is the per-frame placement derived from the eyes
type OverlayTransform struct {
	Origin   geometry.Point
	Angle    float64
	Distance float64
}

// Transform derives placement from the left and right eye positions
func Transform(left, right geometry.Point) OverlayTransform {
	return OverlayTransform{
		Origin:   geometry.Midpoint(left, right),
		Angle:    geometry.Angle(left, right),
		Distance: geometry.Distance(left, right),
	}
}

// Renderer draws the overlay image and debug eye markers
type Renderer struct {
	Image gocv.Mat
	// MirrorCompensation flips the image vertically for unmirrored (environment) cameras
	MirrorCompensation bool
	DebugMarkers       bool
}

// NewRenderer loads the overlay image from disk
func NewRenderer(imagePath string, mirrorCompensation, debugMarkers bool) (*Renderer, error) {
	img, err := LoadImage(imagePath)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		Image:              img,
		MirrorCompensation: mirrorCompensation,
		DebugMarkers:       debugMarkers,
	}, nil
}

// Render draws one frame. It returns false without touching the surface when either eye is missing.
func (r *Renderer) Render(s Surface, keypoints []detector.Keypoint, facing camera.FacingMode) bool {
	left, right, ok := detector.Eyes(keypoints)
	if !ok {
		return false
	}

	t := Transform(left.Position, right.Position)
	d := t.Distance

	s.Clear()
	s.Save()
	s.Translate(t.Origin.X, t.Origin.Y)
	s.Rotate(-t.Angle)
	if r.MirrorCompensation && !facing.Mirrored() {
		s.Scale(1, -1)
	}
	s.DrawImage(r.Image, d*offsetXRatio, d/offsetYDiv, d*widthRatio, d*heightRatio)
	s.Restore()

	if r.DebugMarkers {
		for _, eye := range []detector.Keypoint{left, right} {
			p := eye.Position
			s.FillCircle(p.X, p.Y, d/eyeRadiusDiv, White)

			px := p.X - pupilShift
			if eye.Part == detector.LeftEye {
				px = p.X + pupilShift
			}
			s.FillCircle(px, p.Y+pupilShift, d/pupilRadiusDiv, Black)
		}
	}
	return true
}

// Close releases the overlay image
func (r *Renderer) Close() error {
	return r.Image.Close()
}

// LoadImage reads an image keeping its alpha channel and returns it as BGRA
func LoadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadUnchanged)
	if img.Empty() {
		return img, errors.Errorf("failed to load overlay image: %s", path)
	}

	var code gocv.ColorConversionCode
	switch img.Channels() {
	case 4:
		return img, nil
	case 3:
		code = gocv.ColorBGRToBGRA
	case 1:
		code = gocv.ColorGrayToBGRA
	default:
		img.Close()
		return gocv.NewMat(), errors.Errorf("overlay image %s has %d channels", path, img.Channels())
	}

	bgra := gocv.NewMat()
	gocv.CvtColor(img, &bgra, code)
	img.Close()
	return bgra, nil
}
