package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dudu/glasscam/internal/config"
)

// Version is the application version
const Version = "0.1.0"

func init() {
	// Lock the main goroutine to the main OS thread.
	// This is required on macOS for OpenCV's highgui (window creation).
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd binds flags on top of cfg, which already holds defaults, .env and GLASSCAM_* values
func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		noMarkers bool
		noMirror  bool
		noPreview bool
	)

	cmd := &cobra.Command{
		Use:           "glasscam",
		Short:         "Draws glasses over your eyes on a live camera feed",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noMarkers {
				cfg.DebugMarkers = false
			}
			if noMirror {
				cfg.MirrorCompensation = false
			}
			if noPreview {
				cfg.Preview = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), *cfg)
		},
	}
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	f := cmd.Flags()
	f.StringVarP(&cfg.OverlayImage, "overlay", "o", cfg.OverlayImage, "Glasses image (PNG with alpha)")
	f.StringVarP(&cfg.ModelDir, "model-dir", "m", cfg.ModelDir, "Directory holding posenet_mobilenet_*.onnx")
	f.StringVar(&cfg.ORTLibrary, "ort-lib", cfg.ORTLibrary, "Path to the ONNX Runtime shared library")
	f.IntVar(&cfg.UserCamera, "camera-user", cfg.UserCamera, "Device index of the user-facing camera")
	f.IntVar(&cfg.EnvironmentCamera, "camera-environment", cfg.EnvironmentCamera, "Device index of the environment-facing camera")
	f.IntVar(&cfg.Width, "width", cfg.Width, "Viewport width")
	f.IntVar(&cfg.Height, "height", cfg.Height, "Viewport height")
	f.IntVar(&cfg.TargetFPS, "fps", cfg.TargetFPS, "Target frames per second")
	f.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User agent used to classify the device as mobile (default: derived from the platform)")
	f.StringVar(&cfg.Probe, "probe", cfg.Probe, "Device enumeration backend: mediadevices or v4l2")
	f.DurationVar(&cfg.ProbeTimeout, "probe-timeout", cfg.ProbeTimeout, "Give up on device enumeration after this long")
	f.DurationVar(&cfg.StallTimeout, "stall-timeout", cfg.StallTimeout, "Fail when the camera delivers no frame for this long (0 waits forever)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write logs to this rotating file")
	f.BoolVar(&cfg.ShowTiming, "timing", cfg.ShowTiming, "Draw per-frame timing on the preview")
	f.BoolVar(&cfg.FakeCamera, "fake-camera", cfg.FakeCamera, "Use blank synthetic frames instead of real cameras")
	f.BoolVar(&noMarkers, "no-preview-markers", false, "Do not draw eye markers")
	f.BoolVar(&noMirror, "no-mirror-compensation", false, "Do not flip the overlay for the environment camera")
	f.BoolVar(&noPreview, "no-preview", false, "Run without a preview window")

	return cmd
}
