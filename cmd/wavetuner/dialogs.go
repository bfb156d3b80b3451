package main

import (
	"fmt"
	"path/filepath"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Beygs/Waves/internal/config"
	"github.com/Beygs/Waves/pkg/ocean"
)

type dialogOp int

const (
	opOpen dialogOp = iota
	opSaveAs
)

type dialogResult struct {
	op   dialogOp
	path string
}

// openPresetDialog shows a native file dialog. SDL window operations must
// stay on the main thread, so the result is queued and applied in render.
func (app *App) openPresetDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Wave Presets", "yaml", "yml").
			Filter("All Files", "*").
			Title("Open Wave Preset").
			Load()
		app.queueDialog(opOpen, filename, err)
	}()
}

func (app *App) savePresetDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Wave Presets", "yaml", "yml").
			Title("Save Wave Preset").
			Save()
		app.queueDialog(opSaveAs, filename, err)
	}()
}

func (app *App) queueDialog(op dialogOp, filename string, err error) {
	if err != nil {
		if err != dialog.ErrCancelled {
			app.log.Warn("file dialog error", zap.Error(err))
		}
		return
	}
	select {
	case app.dialogs <- dialogResult{op: op, path: filename}:
	default:
		app.log.Warn("dialog result dropped, previous one still pending")
	}
}

func (app *App) applyDialogResults() {
	select {
	case r := <-app.dialogs:
		switch r.op {
		case opOpen:
			app.openPreset(r.path)
		case opSaveAs:
			app.cfgPath = withPresetExt(r.path)
			app.save()
			app.updateTitle()
		}
	default:
	}
}

// openPreset replaces the live parameters and noise source with those of
// the preset file.
func (app *App) openPreset(path string) {
	loaded, err := config.LoadFile(path)
	if err != nil {
		app.log.Error("open preset failed", zap.Error(err))
		app.setStatus(fmt.Sprintf("Open failed: %v", err))
		return
	}
	src, err := loaded.NoiseSource()
	if err != nil {
		app.setStatus(fmt.Sprintf("Open failed: %v", err))
		return
	}
	for _, key := range loaded.Waves.OutOfRange() {
		app.log.Warn("wave parameter outside panel range", zap.String("param", key))
	}

	app.cfg.Waves = loaded.Waves
	app.cfg.Noise = loaded.Noise
	app.scene.Surface = ocean.NewSurface(src)
	app.scene.Params.Set(loaded.Waves)
	app.cfgPath = path
	app.updateTitle()

	app.log.Info("preset loaded", zap.String("path", path), zap.String("noise", loaded.Noise.Backend))
	app.setStatus("Opened " + path)
}

// withPresetExt appends .yaml when the dialog returned a bare name.
func withPresetExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".yaml"
	}
	return path
}
