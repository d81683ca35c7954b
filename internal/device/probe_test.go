package device

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticLister(devices ...Device) Lister {
	return ListerFunc(func(context.Context) ([]Device, error) {
		return devices, nil
	})
}

func TestProbeSingleCamera(t *testing.T) {
	caps, err := Probe(context.Background(), staticLister(
		Device{ID: "cam0", Kind: KindVideoInput},
		Device{ID: "mic0", Kind: KindAudioInput},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, caps.VideoInputs)
	assert.False(t, caps.ShowSwitchCamera)
}

func TestProbeTwoCameras(t *testing.T) {
	caps, err := Probe(context.Background(), staticLister(
		Device{ID: "cam0", Kind: KindVideoInput},
		Device{ID: "cam1", Kind: KindVideoInput},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, caps.VideoInputs)
	assert.True(t, caps.ShowSwitchCamera)
}

func TestProbeFailureDegrades(t *testing.T) {
	denied := ListerFunc(func(context.Context) ([]Device, error) {
		return nil, errors.New("permission denied")
	})

	caps, err := Probe(context.Background(), denied)
	assert.False(t, caps.ShowSwitchCamera)

	var enumErr *DeviceEnumerationError
	require.True(t, errors.As(err, &enumErr))
	assert.Contains(t, enumErr.Error(), "permission denied")
}

func TestProbeTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	slow := ListerFunc(func(context.Context) ([]Device, error) {
		<-block
		return []Device{{Kind: KindVideoInput}, {Kind: KindVideoInput}}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	caps, err := Probe(ctx, slow)
	assert.False(t, caps.ShowSwitchCamera)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsMobile(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", true},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", true},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", true},
		{"mozilla/5.0 (linux; android 9)", true},
		{"Mozilla/5.0 (X11; Linux x86_64)", false},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsMobile(tt.ua), tt.ua)
	}
}

func TestDefaultUserAgentDesktop(t *testing.T) {
	// tests never run on android or ios
	assert.False(t, IsMobile(DefaultUserAgent()))
}
