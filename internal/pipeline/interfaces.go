package pipeline

import (
	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/detector"
	"github.com/dudu/glasscam/internal/overlay"
)

// PoseEstimator interface for single-person pose estimation
type PoseEstimator interface {
	Estimate(frame gocv.Mat, opts detector.EstimateOptions) ([]detector.Pose, error)
	Close() error
}

// OverlayRenderer interface for drawing the overlay from keypoints
type OverlayRenderer interface {
	Render(s overlay.Surface, keypoints []detector.Keypoint, facing camera.FacingMode) bool
}
