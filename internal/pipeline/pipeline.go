package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/detector"
	"github.com/dudu/glasscam/internal/overlay"
)

// Timing holds performance timing information
type Timing struct {
	Estimation time.Duration
	Render     time.Duration
	Total      time.Duration
}

// Result describes one processed frame
type Result struct {
	Keypoints []detector.Keypoint
	// Drawn is false when the frame lacked usable eyes
	Drawn bool
}

// Pipeline runs estimate -> render -> composite for a frame
type Pipeline struct {
	estimator  PoseEstimator
	renderer   OverlayRenderer
	surface    *overlay.MatSurface
	lastTiming Timing
}

// New creates a pipeline. The estimator is owned by the pipeline; the renderer is not.
func New(estimator PoseEstimator, renderer OverlayRenderer) *Pipeline {
	return &Pipeline{
		estimator: estimator,
		renderer:  renderer,
	}
}

// Process estimates the pose in frame, redraws the overlay layer and composites it onto frame.
// The frame is mirrored in place afterwards when facing is user-facing.
func (p *Pipeline) Process(frame *gocv.Mat, facing camera.FacingMode) (Result, error) {
	totalStart := time.Now()
	var timing Timing
	var res Result

	defer func() {
		timing.Total = time.Since(totalStart)
		p.lastTiming = timing
	}()

	estimateStart := time.Now()
	poses, err := p.estimator.Estimate(*frame, detector.EstimateOptions{
		FlipHorizontal: facing.Mirrored(),
		Decoding:       detector.SinglePerson,
	})
	timing.Estimation = time.Since(estimateStart)

	// mirror the picture to match the keypoints, which are already in mirrored space
	if facing.Mirrored() {
		gocv.Flip(*frame, frame, 1)
	}

	surface := p.surfaceFor(frame.Cols(), frame.Rows())

	if err != nil {
		// keep the previous overlay so a dropped frame does not flicker
		if cerr := surface.Composite(frame); cerr != nil {
			return res, cerr
		}
		return res, err
	}
	if len(poses) > 0 {
		res.Keypoints = poses[0].Keypoints
	}

	renderStart := time.Now()
	res.Drawn = p.renderer.Render(surface, res.Keypoints, facing)
	if err := surface.Composite(frame); err != nil {
		return res, errors.Wrap(err, "composite overlay")
	}
	timing.Render = time.Since(renderStart)

	return res, nil
}

// surfaceFor returns a layer matching the frame size, replacing it after a resize
func (p *Pipeline) surfaceFor(width, height int) *overlay.MatSurface {
	if p.surface != nil {
		if w, h := p.surface.Size(); w == width && h == height {
			return p.surface
		}
		p.surface.Close()
	}
	p.surface = overlay.NewMatSurface(width, height)
	return p.surface
}

// LastTiming returns timing from last Process call
func (p *Pipeline) LastTiming() Timing {
	return p.lastTiming
}

// Close releases pipeline resources
func (p *Pipeline) Close() error {
	var errs []error

	if p.surface != nil {
		if err := p.surface.Close(); err != nil {
			errs = append(errs, err)
		}
		p.surface = nil
	}
	if p.estimator != nil {
		if err := p.estimator.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Errorf("cleanup errors: %v", errs)
	}
	return nil
}
