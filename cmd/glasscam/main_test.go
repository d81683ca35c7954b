package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/config"
	"github.com/dudu/glasscam/internal/device"
)

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cmd := newRootCmd(&cfg)

	require.NoError(t, cmd.ParseFlags([]string{
		"--overlay", "shades.png",
		"--width", "640",
		"--height", "480",
		"--probe", "v4l2",
		"--probe-timeout", "500ms",
		"--fake-camera",
	}))

	assert.Equal(t, "shades.png", cfg.OverlayImage)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, config.ProbeV4L2, cfg.Probe)
	assert.Equal(t, 500*time.Millisecond, cfg.ProbeTimeout)
	assert.True(t, cfg.FakeCamera)
	assert.Equal(t, "models", cfg.ModelDir, "unset flags keep loaded values")
}

func TestFakeSources(t *testing.T) {
	cfg := config.Default()
	cfg.FakeCamera = true
	viewport := camera.Size{Width: 320, Height: 240}

	lister, opener := sources(cfg, viewport)

	caps, err := device.Probe(context.Background(), lister)
	require.NoError(t, err)
	assert.True(t, caps.ShowSwitchCamera)

	stream, err := opener.Open(context.Background(), camera.Constraints{Facing: camera.FacingUser})
	require.NoError(t, err)
	defer stream.Stop()

	w, h := stream.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestRealSources(t *testing.T) {
	cfg := config.Default()
	cfg.UserCamera = 2
	cfg.EnvironmentCamera = 3

	lister, opener := sources(cfg, camera.Size{Width: 640, Height: 480})

	assert.IsType(t, device.MediaDevicesLister{}, lister)
	assert.Equal(t, camera.DeviceOpener{UserDevice: 2, EnvironmentDevice: 3, TargetFPS: 30}, opener)
}
