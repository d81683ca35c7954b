package detector

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// CheckIO verifies that a model's declared inputs and outputs fit cfg.
// Dynamic dimensions (-1) are accepted.
func (cfg ModelConfig) CheckIO(inputs, outputs []ort.InputOutputInfo) error {
	out := int64(OutputSize(cfg.InputSize, cfg.OutputStride))
	size := int64(cfg.InputSize)

	if err := expectTensor(inputs, cfg.InputName, []int64{1, size, size, 3}); err != nil {
		return errors.WithMessage(err, "input")
	}
	if err := expectTensor(outputs, cfg.HeatmapName, []int64{1, out, out, int64(NumParts)}); err != nil {
		return errors.WithMessage(err, "heatmap output")
	}
	if err := expectTensor(outputs, cfg.OffsetsName, []int64{1, out, out, 2 * int64(NumParts)}); err != nil {
		return errors.WithMessage(err, "offsets output")
	}
	return nil
}

func expectTensor(infos []ort.InputOutputInfo, name string, want []int64) error {
	for _, info := range infos {
		if info.Name != name {
			continue
		}
		if info.DataType != ort.TensorElementDataTypeFloat {
			return errors.Errorf("%s: element type %v, want float32", name, info.DataType)
		}
		if len(info.Dimensions) != len(want) {
			return errors.Errorf("%s: shape %v, want rank %d", name, info.Dimensions, len(want))
		}
		for i, d := range info.Dimensions {
			if d != -1 && d != want[i] {
				return errors.Errorf("%s: shape %v, want %v", name, info.Dimensions, want)
			}
		}
		return nil
	}
	return errors.Errorf("no tensor named %q", name)
}
