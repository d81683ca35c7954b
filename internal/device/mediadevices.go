package device

import (
	"context"

	"github.com/pion/mediadevices"
	_ "github.com/pion/mediadevices/pkg/driver/camera" // registers camera adapters
)

// MediaDevicesLister enumerates devices through pion/mediadevices drivers
type MediaDevicesLister struct{}

func (MediaDevicesLister) List(ctx context.Context) ([]Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos := mediadevices.EnumerateDevices()
	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, Device{
			ID:    info.DeviceID,
			Label: info.Label,
			Kind:  kindOf(info.Kind),
		})
	}
	return devices, nil
}

func kindOf(t mediadevices.MediaDeviceType) Kind {
	switch t {
	case mediadevices.VideoInput:
		return KindVideoInput
	case mediadevices.AudioInput:
		return KindAudioInput
	default:
		return KindOther
	}
}
