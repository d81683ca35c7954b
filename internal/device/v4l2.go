//go:build linux

package device

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
)

// V4L2Lister enumerates /dev/video* nodes that can actually capture frames.
// Metadata nodes exposed by many UVC drivers report no formats and are skipped.
type V4L2Lister struct {
	Pattern string
}

func (l V4L2Lister) List(ctx context.Context) ([]Device, error) {
	pattern := l.Pattern
	if pattern == "" {
		pattern = "/dev/video*"
	}

	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "glob video nodes")
	}
	sort.Strings(paths)

	var devices []Device
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cam, err := webcam.Open(path)
		if err != nil {
			// busy or permission denied; not an enumeration failure
			continue
		}
		formats := cam.GetSupportedFormats()
		cam.Close()

		if len(formats) == 0 {
			continue
		}
		devices = append(devices, Device{
			ID:    path,
			Label: filepath.Base(path),
			Kind:  KindVideoInput,
		})
	}
	return devices, nil
}
