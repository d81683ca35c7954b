package detector

import (
	"math"

	"github.com/pkg/errors"

	"github.com/dudu/glasscam/internal/geometry"
)

// Heatmaps holds PoseNet output in NHWC order with the batch dimension dropped.
// Offsets carries 2*NumParts channels: y offsets first, then x offsets.
type Heatmaps struct {
	Scores  []float32
	Offsets []float32
	Height  int
	Width   int
}

// DecodeSinglePose picks the strongest cell of every part heatmap and refines it with the offset vectors.
// Positions are in model input pixels.
func DecodeSinglePose(h Heatmaps, outputStride int) (Pose, error) {
	cells := h.Height * h.Width
	if cells == 0 {
		return Pose{}, errors.New("empty heatmap")
	}
	if len(h.Scores) != cells*int(NumParts) {
		return Pose{}, errors.Errorf("heatmap has %d values, want %d", len(h.Scores), cells*int(NumParts))
	}
	if len(h.Offsets) != cells*2*int(NumParts) {
		return Pose{}, errors.Errorf("offsets have %d values, want %d", len(h.Offsets), cells*2*int(NumParts))
	}

	parts := int(NumParts)
	pose := Pose{Keypoints: make([]Keypoint, 0, parts)}
	var total float64

	for k := 0; k < parts; k++ {
		best := 0
		bestScore := float32(math.Inf(-1))
		for cell := 0; cell < cells; cell++ {
			if s := h.Scores[cell*parts+k]; s > bestScore {
				bestScore = s
				best = cell
			}
		}

		y := best / h.Width
		x := best % h.Width
		offY := h.Offsets[best*2*parts+k]
		offX := h.Offsets[best*2*parts+parts+k]

		score := sigmoid(float64(bestScore))
		pose.Keypoints = append(pose.Keypoints, Keypoint{
			Part: Part(k),
			Position: geometry.Point{
				X: float64(x*outputStride) + float64(offX),
				Y: float64(y*outputStride) + float64(offY),
			},
			Score: score,
		})
		total += score
	}

	pose.Score = total / float64(parts)
	return pose, nil
}

// ScalePose maps positions from model input pixels to frame pixels, mirroring x when flip is set.
// Pixel centers are aligned the way a linear resize samples them, so the input grid 0..inputSize-1
// lands symmetrically inside 0..frameWidth-1.
func ScalePose(p Pose, inputSize, frameWidth, frameHeight int, flip bool) Pose {
	sx := float64(frameWidth) / float64(inputSize)
	sy := float64(frameHeight) / float64(inputSize)

	out := Pose{Score: p.Score, Keypoints: make([]Keypoint, len(p.Keypoints))}
	for i, kp := range p.Keypoints {
		x := (kp.Position.X+0.5)*sx - 0.5
		if flip {
			x = float64(frameWidth-1) - x
		}
		y := (kp.Position.Y+0.5)*sy - 0.5
		kp.Position = geometry.Point{X: x, Y: y}
		out.Keypoints[i] = kp
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
