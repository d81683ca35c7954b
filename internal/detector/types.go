package detector

import (
	"fmt"

	"github.com/dudu/glasscam/internal/geometry"
)

// Part identifies a PoseNet body keypoint. Values match the model's channel order.
type Part int

const (
	Nose Part = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	NumParts
)

var partNames = [NumParts]string{
	"nose", "leftEye", "rightEye", "leftEar", "rightEar",
	"leftShoulder", "rightShoulder", "leftElbow", "rightElbow",
	"leftWrist", "rightWrist", "leftHip", "rightHip",
	"leftKnee", "rightKnee", "leftAnkle", "rightAnkle",
}

func (p Part) String() string {
	if p < 0 || p >= NumParts {
		return fmt.Sprintf("part(%d)", int(p))
	}
	return partNames[p]
}

// Keypoint is a located body part
type Keypoint struct {
	Part     Part
	Position geometry.Point
	Score    float64
}

// Pose is one person's keypoints
type Pose struct {
	Keypoints []Keypoint
	Score     float64
}

// Find returns the keypoint for a part
func Find(keypoints []Keypoint, part Part) (Keypoint, bool) {
	for _, kp := range keypoints {
		if kp.Part == part {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Eyes returns the left and right eye keypoints; ok is false unless both are present
func Eyes(keypoints []Keypoint) (left, right Keypoint, ok bool) {
	left, lok := Find(keypoints, LeftEye)
	right, rok := Find(keypoints, RightEye)
	return left, right, lok && rok
}

// Decoding selects how poses are extracted from model output
type Decoding string

const (
	SinglePerson Decoding = "single-person"
)

// EstimateOptions controls one estimate call
type EstimateOptions struct {
	// FlipHorizontal mirrors keypoint x coordinates to match a mirrored presentation
	FlipHorizontal bool
	Decoding       Decoding
}
