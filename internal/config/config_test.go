package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GLASSCAM_WIDTH", "640")
	t.Setenv("GLASSCAM_HEIGHT", "480")
	t.Setenv("GLASSCAM_PROBE", ProbeV4L2)
	t.Setenv("GLASSCAM_RESIZE_DEBOUNCE", "100ms")
	t.Setenv("GLASSCAM_DEBUG_MARKERS", "false")
	t.Setenv("GLASSCAM_STALL_TIMEOUT", "5s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, ProbeV4L2, cfg.Probe)
	assert.Equal(t, 100*time.Millisecond, cfg.ResizeDebounce)
	assert.False(t, cfg.DebugMarkers)
	assert.Equal(t, 5*time.Second, cfg.StallTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GLASSCAM_FPS=15\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GLASSCAM_FPS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.TargetFPS)
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("GLASSCAM_FPS", "fast")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownProbe(t *testing.T) {
	cfg := Default()
	cfg.Probe = "bluetooth"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Width = 0
	assert.Error(t, cfg.Validate())
}
