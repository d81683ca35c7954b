//go:build !linux

package device

import (
	"context"

	"github.com/pkg/errors"
)

// V4L2Lister is only available on linux
type V4L2Lister struct {
	Pattern string
}

func (V4L2Lister) List(context.Context) ([]Device, error) {
	return nil, errors.New("v4l2 enumeration requires linux")
}
