package detector

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/inference"
)

// Supported MobileNet width multipliers
const (
	MultiplierMobile  = 0.50
	MultiplierDesktop = 0.75
	MultiplierFull    = 1.00
)

// QualityFor returns the model multiplier for a device class.
// Mobile devices get the smaller network to bound latency.
func QualityFor(mobile bool) float64 {
	if mobile {
		return MultiplierMobile
	}
	return MultiplierDesktop
}

// ModelConfig describes a PoseNet MobileNet ONNX export
type ModelConfig struct {
	Dir          string
	Multiplier   float64
	ORTLibrary   string
	InputSize    int
	OutputStride int
	InputName    string
	HeatmapName  string
	OffsetsName  string
}

// DefaultModelConfig returns settings for the 257x257, stride 16 export
func DefaultModelConfig(dir string, multiplier float64) ModelConfig {
	return ModelConfig{
		Dir:          dir,
		Multiplier:   multiplier,
		InputSize:    257,
		OutputStride: 16,
		InputName:    "image",
		HeatmapName:  "heatmap",
		OffsetsName:  "offsets",
	}
}

// ModelPath returns the model file for a multiplier, e.g. posenet_mobilenet_075.onnx
func ModelPath(dir string, multiplier float64) (string, error) {
	switch multiplier {
	case MultiplierMobile, MultiplierDesktop, MultiplierFull:
	default:
		return "", errors.Errorf("unsupported multiplier %.2f", multiplier)
	}
	name := fmt.Sprintf("posenet_mobilenet_%03d.onnx", int(math.Round(multiplier*100)))
	return filepath.Join(dir, name), nil
}

// OutputSize returns the heatmap resolution for an input size and stride
func OutputSize(inputSize, outputStride int) int {
	return (inputSize-1)/outputStride + 1
}

// PoseNet runs PoseNet MobileNet through ONNX Runtime
type PoseNet struct {
	session      *inference.Session
	inputSize    int
	outputStride int
	outputSize   int
}

// LoadPoseNet loads the model once. Any failure is a ModelLoadError.
func LoadPoseNet(ctx context.Context, cfg ModelConfig) (*PoseNet, error) {
	path, err := ModelPath(cfg.Dir, cfg.Multiplier)
	if err != nil {
		return nil, &ModelLoadError{Path: cfg.Dir, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	if err := inference.Initialize(cfg.ORTLibrary); err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err == nil {
		err = cfg.CheckIO(inputs, outputs)
	}
	if err != nil {
		inference.Shutdown()
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	session, err := inference.NewSession(path,
		[]string{cfg.InputName},
		[]string{cfg.HeatmapName, cfg.OffsetsName},
	)
	if err != nil {
		inference.Shutdown()
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	return &PoseNet{
		session:      session,
		inputSize:    cfg.InputSize,
		outputStride: cfg.OutputStride,
		outputSize:   OutputSize(cfg.InputSize, cfg.OutputStride),
	}, nil
}

// Estimate returns the single most likely pose in frame
func (p *PoseNet) Estimate(frame gocv.Mat, opts EstimateOptions) ([]Pose, error) {
	if opts.Decoding != "" && opts.Decoding != SinglePerson {
		return nil, &EstimationError{Err: errors.Errorf("unsupported decoding %q", opts.Decoding)}
	}
	if frame.Empty() {
		return nil, &EstimationError{Err: errors.New("empty frame")}
	}

	input, err := p.preprocess(frame)
	if err != nil {
		return nil, &EstimationError{Err: err}
	}

	size := int64(p.inputSize)
	inputTensor, err := inference.CreateTensor([]int64{1, size, size, 3}, input)
	if err != nil {
		return nil, &EstimationError{Err: errors.Wrap(err, "create input tensor")}
	}
	defer inputTensor.Destroy()

	out := int64(p.outputSize)
	heatmap, err := inference.CreateEmptyTensor[float32]([]int64{1, out, out, int64(NumParts)})
	if err != nil {
		return nil, &EstimationError{Err: errors.Wrap(err, "create heatmap tensor")}
	}
	defer heatmap.Destroy()

	offsets, err := inference.CreateEmptyTensor[float32]([]int64{1, out, out, 2 * int64(NumParts)})
	if err != nil {
		return nil, &EstimationError{Err: errors.Wrap(err, "create offsets tensor")}
	}
	defer offsets.Destroy()

	if err := p.session.Run([]ort.Value{inputTensor}, []ort.Value{heatmap, offsets}); err != nil {
		return nil, &EstimationError{Err: errors.Wrap(err, "posenet inference")}
	}

	pose, err := DecodeSinglePose(Heatmaps{
		Scores:  heatmap.GetData(),
		Offsets: offsets.GetData(),
		Height:  p.outputSize,
		Width:   p.outputSize,
	}, p.outputStride)
	if err != nil {
		return nil, &EstimationError{Err: err}
	}

	pose = ScalePose(pose, p.inputSize, frame.Cols(), frame.Rows(), opts.FlipHorizontal)
	return []Pose{pose}, nil
}

// preprocess resizes to the model input and normalizes RGB to [-1, 1] in NHWC order
func (p *PoseNet) preprocess(frame gocv.Mat) ([]float32, error) {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(p.inputSize, p.inputSize), 0, 0, gocv.InterpolationLinear)

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(resized, &rgb, gocv.ColorBGRToRGB)

	floatMat := gocv.NewMat()
	defer floatMat.Close()
	rgb.ConvertToWithParams(&floatMat, gocv.MatTypeCV32FC3, 1.0/127.5, -1.0)

	data, err := floatMat.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "read preprocessed frame")
	}

	// copy out of Mat-owned memory before the Mat is closed
	input := make([]float32, len(data))
	copy(input, data)
	return input, nil
}

// Path returns the loaded model file
func (p *PoseNet) Path() string {
	return p.session.ModelPath()
}

// Close releases detector resources
func (p *PoseNet) Close() error {
	err := p.session.Destroy()
	if serr := inference.Shutdown(); err == nil {
		err = serr
	}
	return err
}
