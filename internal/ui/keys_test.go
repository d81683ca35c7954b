package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudu/glasscam/internal/app"
	"github.com/dudu/glasscam/internal/camera"
)

func TestEventForKey(t *testing.T) {
	vp := camera.Size{Width: 640, Height: 480}

	tests := []struct {
		name string
		key  int
		want app.Event
	}{
		{"no key", -1, nil},
		{"switch", 's', app.SwitchCamera{}},
		{"switch upper", 'S', app.SwitchCamera{}},
		{"grow", '+', app.Resized{Size: camera.Size{Width: 800, Height: 600}}},
		{"grow unshifted", '=', app.Resized{Size: camera.Size{Width: 800, Height: 600}}},
		{"shrink", '-', app.Resized{Size: camera.Size{Width: 512, Height: 384}}},
		{"quit", 'q', app.Quit{}},
		{"escape", 27, app.Quit{}},
		{"modifier bits ignored", 0x100000 | 'q', app.Quit{}},
		{"unbound", 'x', nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EventForKey(tt.key, vp))
		})
	}
}

func TestShrinkStopsAtMinimum(t *testing.T) {
	small := camera.Size{Width: 180, Height: 135}
	assert.Equal(t, app.Resized{Size: small}, EventForKey('-', small))
}

func TestKeymapCompoundsPendingResizes(t *testing.T) {
	k := keymap{requested: camera.Size{Width: 640, Height: 480}}

	assert.Equal(t, app.Resized{Size: camera.Size{Width: 800, Height: 600}}, k.event('+'))
	assert.Equal(t, app.Resized{Size: camera.Size{Width: 1000, Height: 750}}, k.event('+'),
		"second press steps from the pending size")
	assert.Equal(t, app.Resized{Size: camera.Size{Width: 800, Height: 600}}, k.event('-'))

	assert.Equal(t, app.SwitchCamera{}, k.event('s'))
	assert.Equal(t, camera.Size{Width: 800, Height: 600}, k.requested, "other keys keep the pending size")

	k.sync(camera.Size{Width: 320, Height: 240})
	assert.Equal(t, app.Resized{Size: camera.Size{Width: 400, Height: 300}}, k.event('+'))
}
