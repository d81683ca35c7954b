package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	ort "github.com/yalue/onnxruntime_go"
)

func tensorInfo(name string, dims ...int64) ort.InputOutputInfo {
	return ort.InputOutputInfo{
		Name:         name,
		OrtValueType: ort.ONNXTypeTensor,
		Dimensions:   ort.NewShape(dims...),
		DataType:     ort.TensorElementDataTypeFloat,
	}
}

func TestCheckIO(t *testing.T) {
	cfg := DefaultModelConfig("models", MultiplierDesktop)
	inputs := []ort.InputOutputInfo{tensorInfo("image", -1, 257, 257, 3)}
	outputs := []ort.InputOutputInfo{
		tensorInfo("heatmap", 1, 17, 17, 17),
		tensorInfo("offsets", 1, 17, 17, 34),
	}
	assert.NoError(t, cfg.CheckIO(inputs, outputs))

	t.Run("missing output", func(t *testing.T) {
		err := cfg.CheckIO(inputs, outputs[:1])
		assert.ErrorContains(t, err, `no tensor named "offsets"`)
	})

	t.Run("wrong stride", func(t *testing.T) {
		bad := []ort.InputOutputInfo{
			tensorInfo("heatmap", 1, 33, 33, 17),
			tensorInfo("offsets", 1, 33, 33, 34),
		}
		assert.ErrorContains(t, cfg.CheckIO(inputs, bad), "heatmap output")
	})

	t.Run("nchw input", func(t *testing.T) {
		nchw := []ort.InputOutputInfo{tensorInfo("image", 1, 3, 257, 257)}
		assert.Error(t, cfg.CheckIO(nchw, outputs))
	})

	t.Run("integer input", func(t *testing.T) {
		in := tensorInfo("image", 1, 257, 257, 3)
		in.DataType = ort.TensorElementDataTypeUint8
		assert.ErrorContains(t, cfg.CheckIO([]ort.InputOutputInfo{in}, outputs), "element type")
	})
}
