package ui

import (
	"github.com/dudu/glasscam/internal/app"
	"github.com/dudu/glasscam/internal/camera"
)

const (
	keyEscape = 27
	// smallest viewport a resize may request
	minWidth  = 160
	minHeight = 120
)

// EventForKey maps a highgui key code to an app event, or nil for unbound keys.
// Resizing scales the viewport by 5/4 up or 4/5 down.
func EventForKey(key int, viewport camera.Size) app.Event {
	if key < 0 {
		return nil
	}
	switch key & 0xff {
	case 's', 'S':
		return app.SwitchCamera{}
	case '+', '=':
		return app.Resized{Size: scale(viewport, 5, 4)}
	case '-', '_':
		return app.Resized{Size: scale(viewport, 4, 5)}
	case 'q', 'Q', keyEscape:
		return app.Quit{}
	}
	return nil
}

func scale(s camera.Size, num, den int) camera.Size {
	out := camera.Size{Width: s.Width * num / den, Height: s.Height * num / den}
	if out.Width < minWidth || out.Height < minHeight {
		return s
	}
	return out
}

// keymap steps resizes from the most recently requested size, so repeated
// presses inside the debounce window compound instead of repeating one step
type keymap struct {
	requested camera.Size
}

func (k *keymap) event(key int) app.Event {
	e := EventForKey(key, k.requested)
	if r, ok := e.(app.Resized); ok {
		k.requested = r.Size
	}
	return e
}

// sync adopts a viewport the app has applied
func (k *keymap) sync(viewport camera.Size) {
	k.requested = viewport
}
