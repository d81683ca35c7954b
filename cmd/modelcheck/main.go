package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tsawler/go-metal/checkpoints"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/dudu/glasscam/internal/detector"
	"github.com/dudu/glasscam/internal/inference"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		modelDir   string
		multiplier float64
		ortLib     string
		metal      bool
	)

	cmd := &cobra.Command{
		Use:   "modelcheck [model.onnx]",
		Short: "Checks that a PoseNet ONNX export loads and has the expected tensors",
		Example: "  modelcheck --model-dir models --multiplier 0.75\n" +
			"  modelcheck models/posenet_mobilenet_050.onnx --metal",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := detector.DefaultModelConfig(modelDir, multiplier)
			cfg.ORTLibrary = ortLib

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = detector.ModelPath(modelDir, multiplier); err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err != nil {
				return errors.Wrap(err, "model not found")
			}
			if err := checkRuntime(cfg, path); err != nil {
				return err
			}
			if metal {
				return checkMetal(path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&modelDir, "model-dir", "m", "models", "Directory holding posenet_mobilenet_*.onnx")
	f.Float64Var(&multiplier, "multiplier", detector.MultiplierDesktop, "MobileNet multiplier: 0.5, 0.75 or 1.0")
	f.StringVar(&ortLib, "ort-lib", "", "Path to the ONNX Runtime shared library")
	f.BoolVar(&metal, "metal", false, "Also try importing the graph with go-metal")
	return cmd
}

func checkRuntime(cfg detector.ModelConfig, path string) error {
	fmt.Printf("Testing ONNX model: %s\n", path)

	if err := inference.Initialize(cfg.ORTLibrary); err != nil {
		return err
	}
	defer inference.Shutdown()
	fmt.Println("✓ ONNX Runtime initialized")

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return errors.Wrap(err, "read model info")
	}

	fmt.Printf("\nInputs (%d):\n", len(inputs))
	for _, info := range inputs {
		fmt.Printf("  %s: shape=%v, type=%v\n", info.Name, info.Dimensions, info.DataType)
	}
	fmt.Printf("\nOutputs (%d):\n", len(outputs))
	for _, info := range outputs {
		fmt.Printf("  %s: shape=%v, type=%v\n", info.Name, info.Dimensions, info.DataType)
	}

	if metadata, err := ort.GetModelMetadata(path); err == nil {
		fmt.Println("\nMetadata:")
		if producer, err := metadata.GetProducerName(); err == nil {
			fmt.Printf("  Producer: %s\n", producer)
		}
		if version, err := metadata.GetVersion(); err == nil {
			fmt.Printf("  Version: %d\n", version)
		}
		metadata.Destroy()
	}

	if err := cfg.CheckIO(inputs, outputs); err != nil {
		return errors.WithMessage(err, "unexpected model layout")
	}
	fmt.Printf("\n✅ Model matches %dx%d input, stride %d\n", cfg.InputSize, cfg.InputSize, cfg.OutputStride)
	return nil
}

// checkMetal reports whether go-metal can import the graph; failure is informational
func checkMetal(path string) error {
	fmt.Println("\nAttempting to import with go-metal...")
	checkpoint, err := checkpoints.NewONNXImporter().ImportFromONNX(path)
	if err != nil {
		fmt.Printf("❌ go-metal could not import the model: %v\n", err)
		fmt.Println("PoseNet uses depthwise convolutions, which go-metal may not support.")
		return nil
	}

	fmt.Printf("  Layers: %d\n", len(checkpoint.ModelSpec.Layers))
	fmt.Printf("  Weights: %d tensors\n", len(checkpoint.Weights))
	for i, layer := range checkpoint.ModelSpec.Layers {
		fmt.Printf("  %d: %s (%s)\n", i+1, layer.Name, layer.Type)
	}
	return nil
}
