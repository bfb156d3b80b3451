package viewer

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Beygs/Waves/internal/engine/input"
	"github.com/Beygs/Waves/internal/engine/scene"
	"github.com/Beygs/Waves/pkg/ocean"
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionNextField
	ActionPrevField
	ActionIncrease
	ActionDecrease
	ActionTogglePause
	ActionResetClock
	ActionToggleOrbit
	ActionToggleShade
	ActionResetParams
	ActionScreenshot
	ActionCapture // Offscreen frame at the render resolution
	ActionSave
	ActionQuit
)

// coarseFactor multiplies the step when Shift is held.
const coarseFactor = 10

// ActionFor maps a key press to an action.
func ActionFor(key sdl.Scancode, mods input.Modifier) Action {
	shift := mods&input.ModShift != 0
	ctrl := mods&input.ModCtrl != 0

	switch key {
	case sdl.SCANCODE_ESCAPE:
		return ActionQuit
	case sdl.SCANCODE_TAB:
		if shift {
			return ActionPrevField
		}
		return ActionNextField
	case sdl.SCANCODE_UP:
		return ActionPrevField
	case sdl.SCANCODE_DOWN:
		return ActionNextField
	case sdl.SCANCODE_RIGHT, sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		return ActionIncrease
	case sdl.SCANCODE_LEFT, sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		return ActionDecrease
	case sdl.SCANCODE_P, sdl.SCANCODE_SPACE:
		return ActionTogglePause
	case sdl.SCANCODE_R:
		return ActionResetClock
	case sdl.SCANCODE_O:
		return ActionToggleOrbit
	case sdl.SCANCODE_L:
		return ActionToggleShade
	case sdl.SCANCODE_BACKSPACE:
		return ActionResetParams
	case sdl.SCANCODE_F12:
		if shift {
			return ActionCapture
		}
		return ActionScreenshot
	case sdl.SCANCODE_S:
		if ctrl {
			return ActionSave
		}
	}
	return ActionNone
}

// Controller is the keyboard control surface: one scalar parameter is
// selected at a time and stepped by its control's step.
type Controller struct {
	store    *scene.ParamStore
	controls []ocean.Control
	selected int
}

// NewController creates a controller editing store.
func NewController(store *scene.ParamStore) *Controller {
	return &Controller{store: store, controls: ocean.ScalarControls()}
}

// Selected returns the control currently being edited.
func (c *Controller) Selected() ocean.Control {
	return c.controls[c.selected]
}

// Select moves the selection by delta, wrapping around.
func (c *Controller) Select(delta int) {
	n := len(c.controls)
	c.selected = ((c.selected+delta)%n + n) % n
}

// Step nudges the selected parameter by dir steps, ten times as many when
// coarse is set.
func (c *Controller) Step(dir int, coarse bool) error {
	if coarse {
		dir *= coarseFactor
	}
	key := c.Selected().Key
	return c.store.Update(func(p *ocean.Params) error {
		return p.Nudge(key, dir)
	})
}

// Status describes the selected parameter and its value.
func (c *Controller) Status() string {
	ctl := c.Selected()
	v, _ := c.store.Snapshot().Scalar(ctl.Key)
	if ctl.Integer {
		return fmt.Sprintf("%s / %s = %d", ctl.Group, ctl.Label, int(v))
	}
	return fmt.Sprintf("%s / %s = %.3f", ctl.Group, ctl.Label, v)
}
