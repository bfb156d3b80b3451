package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// captureWindow saves the whole tuner window as a PNG.
func (app *App) captureWindow() {
	// DisplaySize is logical pixels; the framebuffer may be larger on HiDPI.
	io := imgui.CurrentIO()
	displaySize := io.DisplaySize()
	fbScale := io.DisplayFramebufferScale()
	width := int(displaySize.X * fbScale.X)
	height := int(displaySize.Y * fbScale.Y)

	if width <= 0 || height <= 0 {
		app.setStatus("Screenshot failed: invalid viewport")
		return
	}

	// Front buffer holds the frame currently displayed.
	gl.ReadBuffer(gl.FRONT)
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.ReadBuffer(gl.BACK)

	path, err := app.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		app.log.Error("screenshot failed", zap.Error(err))
		app.setStatus(fmt.Sprintf("Screenshot failed: %v", err))
		return
	}
	app.log.Info("screenshot saved", zap.String("path", path))
	app.setStatus("Screenshot saved: " + path)
}
