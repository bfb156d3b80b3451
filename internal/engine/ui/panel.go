package ui

import (
	"fmt"
	gomath "math"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Beygs/Waves/internal/engine/scene"
	"github.com/Beygs/Waves/pkg/ocean"
)

// Panel edits the live wave parameters, one collapsible section per
// control group.
type Panel struct {
	store  *scene.ParamStore
	groups []group
}

type group struct {
	name     string
	controls []ocean.Control
}

// NewPanel creates a panel editing store.
func NewPanel(store *scene.ParamStore) *Panel {
	return &Panel{store: store, groups: groupControls(ocean.Controls())}
}

// groupControls keeps the control table order, both across and within
// groups.
func groupControls(controls []ocean.Control) []group {
	var out []group
	index := map[string]int{}
	for _, c := range controls {
		i, ok := index[c.Group]
		if !ok {
			i = len(out)
			index[c.Group] = i
			out = append(out, group{name: c.Group})
		}
		out[i].controls = append(out[i].controls, c)
	}
	return out
}

// Draw emits the widgets into the current ImGui window. It reports whether
// any parameter changed.
func (p *Panel) Draw() bool {
	params := p.store.Snapshot()
	changed := false

	for _, g := range p.groups {
		if !imgui.TreeNodeExStrV(g.name, imgui.TreeNodeFlagsDefaultOpen) {
			continue
		}
		for _, c := range g.controls {
			label := c.Label + "##" + c.Key
			switch {
			case c.Color:
				col := colorOf(params, c.Key).Array()
				if imgui.ColorEdit3(label, &col) {
					changed = p.setColor(c.Key, ocean.RGBFromArray(col)) || changed
				}
			case c.Integer:
				cur, _ := params.Scalar(c.Key)
				v := int32(cur)
				if imgui.SliderIntV(label, &v, int32(c.Min), int32(c.Max), "%d", imgui.SliderFlagsNone) {
					changed = p.setScalar(c, float64(v)) || changed
				}
			default:
				cur, _ := params.Scalar(c.Key)
				v := float32(cur)
				if imgui.SliderFloatV(label, &v, float32(c.Min), float32(c.Max), SliderFormat(c.Step), imgui.SliderFlagsNone) {
					changed = p.setScalar(c, float64(v)) || changed
				}
			}
		}
		imgui.TreePop()
	}

	return changed
}

func (p *Panel) setScalar(c ocean.Control, v float64) bool {
	return ApplyScalar(p.store, c, v) == nil
}

func (p *Panel) setColor(key string, col ocean.RGB) bool {
	return ApplyColor(p.store, key, col) == nil
}

// ApplyScalar snaps v to the control's range and step and stores it.
func ApplyScalar(store *scene.ParamStore, c ocean.Control, v float64) error {
	return store.Update(func(params *ocean.Params) error {
		return params.SetScalar(c.Key, c.Snap(v))
	})
}

// ApplyColor stores a color picker value.
func ApplyColor(store *scene.ParamStore, key string, col ocean.RGB) error {
	return store.Update(func(params *ocean.Params) error {
		switch key {
		case ocean.KeyDepthColor:
			params.DepthColor = col
		case ocean.KeySurfaceColor:
			params.SurfaceColor = col
		default:
			return fmt.Errorf("unknown color parameter %q", key)
		}
		return nil
	})
}

func colorOf(p ocean.Params, key string) ocean.RGB {
	if key == ocean.KeySurfaceColor {
		return p.SurfaceColor
	}
	return p.DepthColor
}

// SliderFormat returns a printf format showing as many decimals as step
// resolves.
func SliderFormat(step float64) string {
	if !(step > 0) || step >= 1 {
		return "%.0f"
	}
	decimals := int(gomath.Ceil(-gomath.Log10(step) - 1e-9))
	return fmt.Sprintf("%%.%df", decimals)
}
