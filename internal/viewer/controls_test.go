package viewer

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Beygs/Waves/internal/engine/input"
	"github.com/Beygs/Waves/internal/engine/scene"
	"github.com/Beygs/Waves/pkg/ocean"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		name string
		key  sdl.Scancode
		mods input.Modifier
		want Action
	}{
		{"escape quits", sdl.SCANCODE_ESCAPE, 0, ActionQuit},
		{"tab next", sdl.SCANCODE_TAB, 0, ActionNextField},
		{"shift tab prev", sdl.SCANCODE_TAB, input.ModShift, ActionPrevField},
		{"right increases", sdl.SCANCODE_RIGHT, 0, ActionIncrease},
		{"shift right still increases", sdl.SCANCODE_RIGHT, input.ModShift, ActionIncrease},
		{"left decreases", sdl.SCANCODE_LEFT, 0, ActionDecrease},
		{"p pauses", sdl.SCANCODE_P, 0, ActionTogglePause},
		{"r resets clock", sdl.SCANCODE_R, 0, ActionResetClock},
		{"o toggles orbit", sdl.SCANCODE_O, 0, ActionToggleOrbit},
		{"f12 screenshot", sdl.SCANCODE_F12, 0, ActionScreenshot},
		{"shift f12 capture", sdl.SCANCODE_F12, input.ModShift, ActionCapture},
		{"ctrl s saves", sdl.SCANCODE_S, input.ModCtrl, ActionSave},
		{"plain s does nothing", sdl.SCANCODE_S, 0, ActionNone},
		{"unbound key", sdl.SCANCODE_Q, 0, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActionFor(tt.key, tt.mods); got != tt.want {
				t.Errorf("ActionFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestControllerSelectWraps(t *testing.T) {
	c := NewController(scene.NewParamStore(ocean.DefaultParams()))
	first := c.Selected().Key

	n := len(ocean.ScalarControls())
	c.Select(n)
	if c.Selected().Key != first {
		t.Errorf("after full cycle selected %s, want %s", c.Selected().Key, first)
	}

	c.Select(-1)
	if want := ocean.ScalarControls()[n-1].Key; c.Selected().Key != want {
		t.Errorf("Select(-1) = %s, want %s", c.Selected().Key, want)
	}
}

func TestControllerStep(t *testing.T) {
	store := scene.NewParamStore(ocean.DefaultParams())
	c := NewController(store)

	// Walk to big elevation.
	for c.Selected().Key != ocean.KeyBigElevation {
		c.Select(1)
	}

	if err := c.Step(1, false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := store.Snapshot().BigElevation; got < 0.2009 || got > 0.2011 {
		t.Errorf("big elevation = %g, want 0.201", got)
	}

	if err := c.Step(-1, true); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := store.Snapshot().BigElevation; got < 0.1909 || got > 0.1911 {
		t.Errorf("big elevation = %g, want 0.191", got)
	}

	// Clamped at the range bottom.
	for range 50 {
		c.Step(-1, true)
	}
	if got := store.Snapshot().BigElevation; got != 0 {
		t.Errorf("big elevation = %g, want 0", got)
	}
}

func TestControllerStatus(t *testing.T) {
	c := NewController(scene.NewParamStore(ocean.DefaultParams()))
	for c.Selected().Key != ocean.KeySmallIterations {
		c.Select(1)
	}
	if got, want := c.Status(), "Small Waves / Iterations = 4"; got != want {
		t.Errorf("Status = %q, want %q", got, want)
	}
}
