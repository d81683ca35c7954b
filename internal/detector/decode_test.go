package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudu/glasscam/internal/geometry"
)

func blankHeatmaps(size int) Heatmaps {
	cells := size * size
	h := Heatmaps{
		Scores:  make([]float32, cells*int(NumParts)),
		Offsets: make([]float32, cells*2*int(NumParts)),
		Height:  size,
		Width:   size,
	}
	for i := range h.Scores {
		h.Scores[i] = -5
	}
	return h
}

func (h Heatmaps) set(part Part, x, y int, score, offX, offY float32) {
	parts := int(NumParts)
	cell := y*h.Width + x
	h.Scores[cell*parts+int(part)] = score
	h.Offsets[cell*2*parts+int(part)] = offY
	h.Offsets[cell*2*parts+parts+int(part)] = offX
}

func TestDecodeSinglePose(t *testing.T) {
	h := blankHeatmaps(17)
	h.set(LeftEye, 6, 8, 4, 3, -2)
	h.set(RightEye, 10, 8, 3, -1, 1.5)

	pose, err := DecodeSinglePose(h, 16)
	require.NoError(t, err)
	require.Len(t, pose.Keypoints, int(NumParts))

	left, right, ok := Eyes(pose.Keypoints)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 6*16 + 3, Y: 8*16 - 2}, left.Position)
	assert.Equal(t, geometry.Point{X: 10*16 - 1, Y: 8*16 + 1.5}, right.Position)
	assert.InDelta(t, sigmoid(4), left.Score, 1e-9)
	assert.Greater(t, left.Score, right.Score)

	for i, kp := range pose.Keypoints {
		assert.Equal(t, Part(i), kp.Part)
	}
}

func TestDecodeRejectsShapeMismatch(t *testing.T) {
	h := blankHeatmaps(9)
	h.Offsets = h.Offsets[:10]

	_, err := DecodeSinglePose(h, 16)
	assert.Error(t, err)

	_, err = DecodeSinglePose(Heatmaps{}, 16)
	assert.Error(t, err)
}

func TestScalePoseFlip(t *testing.T) {
	pose := Pose{Keypoints: []Keypoint{
		{Part: LeftEye, Position: geometry.Point{X: 0, Y: 128}},
		{Part: RightEye, Position: geometry.Point{X: 128, Y: 128}},
		{Part: Nose, Position: geometry.Point{X: 256, Y: 128}},
	}}

	plain := ScalePose(pose, 257, 514, 257, false)
	assertPoint(t, geometry.Point{X: 0.5, Y: 128}, plain.Keypoints[0].Position)
	assertPoint(t, geometry.Point{X: 256.5, Y: 128}, plain.Keypoints[1].Position, "input center maps to frame center")
	assertPoint(t, geometry.Point{X: 512.5, Y: 128}, plain.Keypoints[2].Position, "last grid cell is as far from the edge as the first")

	flipped := ScalePose(pose, 257, 514, 257, true)
	assertPoint(t, geometry.Point{X: 512.5, Y: 128}, flipped.Keypoints[0].Position)
	assertPoint(t, geometry.Point{X: 256.5, Y: 128}, flipped.Keypoints[1].Position)
	assertPoint(t, geometry.Point{X: 0.5, Y: 128}, flipped.Keypoints[2].Position)

	// input untouched
	assert.Equal(t, geometry.Point{X: 0, Y: 128}, pose.Keypoints[0].Position)
}

func assertPoint(t *testing.T, want, got geometry.Point, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
}

func TestEyesRequiresBoth(t *testing.T) {
	_, _, ok := Eyes([]Keypoint{{Part: LeftEye}, {Part: Nose}})
	assert.False(t, ok)

	_, _, ok = Eyes(nil)
	assert.False(t, ok)

	left, right, ok := Eyes([]Keypoint{{Part: RightEye, Score: 0.2}, {Part: LeftEye, Score: 0.9}})
	assert.True(t, ok)
	assert.Equal(t, 0.9, left.Score)
	assert.Equal(t, 0.2, right.Score)
}

func TestPartString(t *testing.T) {
	assert.Equal(t, "leftEye", LeftEye.String())
	assert.Equal(t, "rightAnkle", RightAnkle.String())
	assert.Equal(t, "part(99)", Part(99).String())
}

func TestModelPath(t *testing.T) {
	p, err := ModelPath("models", QualityFor(true))
	require.NoError(t, err)
	assert.Equal(t, "models/posenet_mobilenet_050.onnx", p)

	p, err = ModelPath("models", QualityFor(false))
	require.NoError(t, err)
	assert.Equal(t, "models/posenet_mobilenet_075.onnx", p)

	_, err = ModelPath("models", 0.3)
	assert.Error(t, err)

	assert.Equal(t, 17, OutputSize(257, 16))
}
