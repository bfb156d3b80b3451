// Package ui provides ImGui-based user interface components.
package ui

import (
	"fmt"
	"image"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Beygs/Waves/pkg/ocean"
)

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the ImGui window with bg as its clear color.
func NewBackend(title string, width, height int, bg ocean.RGB) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(float32(bg.R), float32(bg.G), float32(bg.B), 1.0))
	b.backend.CreateWindow(title, width, height)

	// Screenshots read the framebuffer through GL directly.
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	return b, nil
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// GetViewport returns the main viewport work area.
func GetViewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// IsChordPressed checks if Ctrl+key was pressed this frame.
func IsChordPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(key))
}

// Texture is a GPU copy of an RGBA image that can be refreshed in place.
type Texture struct {
	tex  *backend.Texture
	size image.Point
}

// Update replaces the texture contents with img.
func (t *Texture) Update(img *image.RGBA) {
	if t.tex != nil {
		t.tex.Release()
	}
	t.tex = backend.NewTextureFromRgba(img)
	t.size = img.Bounds().Size()
}

// Draw shows the texture scaled to fit within maxW x maxH, keeping its
// aspect ratio.
func (t *Texture) Draw(maxW, maxH float32) {
	if t.tex == nil {
		imgui.TextDisabled("No preview")
		return
	}
	w, h := FitSize(float32(t.size.X), float32(t.size.Y), maxW, maxH)
	imgui.ImageWithBgV(
		t.tex.ID,
		imgui.NewVec2(w, h),
		imgui.NewVec2(0, 0),
		imgui.NewVec2(1, 1),
		imgui.NewVec4(0, 0, 0, 0),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// Release frees the GPU texture.
func (t *Texture) Release() {
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// FitSize scales (w, h) to the largest size within (maxW, maxH) that keeps
// the aspect ratio.
func FitSize(w, h, maxW, maxH float32) (float32, float32) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := min(maxW/w, maxH/h)
	return w * scale, h * scale
}
