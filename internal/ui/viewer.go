package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/gomap/internal/config"
	"github.com/philipparndt/gomap/internal/gesture"
	"github.com/philipparndt/gomap/internal/mapimage"
	"github.com/philipparndt/gomap/internal/measurement"
	"github.com/philipparndt/gomap/pkg/viewport"
	"github.com/philipparndt/gomap/pkg/watcher"
)

const reloadDebounce = 300 * time.Millisecond

// Viewer is the main window: the map view on the left, the panel on the right
type Viewer struct {
	window     fyne.Window
	cfg        *config.Config
	logger     *slog.Logger
	view       *MapView
	controller *gesture.Controller
	panel      *Panel
	watcher    *watcher.FileWatcher
	cancel     context.CancelFunc
	path       string
}

// ControllerOptions maps the viewer configuration onto controller options
func ControllerOptions(cfg *config.Config, logger *slog.Logger) gesture.Options {
	v := cfg.Viewer
	m := cfg.Measurement
	return gesture.Options{
		InitialScale:         v.InitialScale,
		Limits:               viewport.Limits{MinScale: v.MinScale, MaxScale: v.MaxScale},
		ZoomStep:             v.ZoomStep,
		DragSuppression:      v.DragSuppression,
		PointDragSuppression: v.PointDragSuppression,
		HandleRadius:         v.HandleRadius,
		Formatter:            measurement.NewFormatter(m.Locale, m.Unit, m.UnitsPerPixel),
		Logger:               logger,
	}
}

// NewViewer creates the main window of app
func NewViewer(app fyne.App, cfg *config.Config, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	v := &Viewer{
		window: app.NewWindow(cfg.Window.Title),
		cfg:    cfg,
		logger: logger,
		view:   NewMapView(),
	}
	v.controller = gesture.NewController(v.view, ControllerOptions(cfg, logger))
	v.view.SetController(v.controller)
	v.panel = NewPanel(v.controller.Do, v.showFileDialog)
	v.view.SetOnFrame(v.panel.Update)

	v.window.Canvas().SetOnTypedRune(v.typedRune)
	v.window.SetOnClosed(v.Close)
	v.window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	v.showWelcomeScreen()
	return v
}

// Window returns the fyne window
func (v *Viewer) Window() fyne.Window {
	return v.window
}

// Controller returns the gesture controller driving the map view
func (v *Viewer) Controller() *gesture.Controller {
	return v.controller
}

// Open loads a map file and, if enabled, watches it for changes
func (v *Viewer) Open(path string) error {
	m, err := mapimage.Load(path)
	if err != nil {
		return err
	}

	v.path = path
	v.setupMainUI()
	v.view.SetImage(m.Image, false)
	v.panel.SetMapInfo(fmt.Sprintf("%s\n%.0f × %.0f px (%s)", path, m.Size.Width, m.Size.Height, m.Format))
	v.window.SetTitle(fmt.Sprintf("%s - %s", v.cfg.Window.Title, path))
	v.logger.Info("map opened", "path", path, "format", m.Format, "width", m.Size.Width, "height", m.Size.Height)

	if v.cfg.Viewer.WatchFile {
		if err := v.watch(path); err != nil {
			v.logger.Warn("file watching disabled", "path", path, "error", err)
		}
	}
	return nil
}

// ShowAndRun shows the window and runs the application loop
func (v *Viewer) ShowAndRun() {
	v.window.ShowAndRun()
}

// Close stops file watching
func (v *Viewer) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.logger.Warn("failed to close watcher", "error", err)
		}
		v.watcher = nil
	}
}

func (v *Viewer) watch(path string) error {
	v.Close()

	fw, err := watcher.NewFileWatcher(reloadDebounce, v.logger)
	if err != nil {
		return err
	}
	if err := fw.Watch([]string{path}, func(string) {
		fyne.Do(func() { v.reload(path) })
	}); err != nil {
		fw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw.Start(ctx)
	v.watcher = fw
	v.cancel = cancel
	return nil
}

// reload re-reads the current map after it changed on disk. A file that
// cannot be decoded (for example while still being written) is skipped.
func (v *Viewer) reload(path string) {
	if path != v.path {
		return
	}
	m, err := mapimage.Load(path)
	if err != nil {
		v.logger.Warn("map reload failed", "path", path, "error", err)
		return
	}
	v.view.SetImage(m.Image, true)
	v.panel.SetMapInfo(fmt.Sprintf("%s\n%.0f × %.0f px (%s)", path, m.Size.Width, m.Size.Height, m.Format))
	v.logger.Info("map reloaded", "path", path, "width", m.Size.Width, "height", m.Size.Height)
}

func (v *Viewer) typedRune(r rune) {
	switch r {
	case '+', '=':
		v.controller.Do(gesture.ActionZoomIn)
	case '-':
		v.controller.Do(gesture.ActionZoomOut)
	case '0':
		v.controller.Do(gesture.ActionReset)
	case 'm', 'M':
		v.controller.Do(gesture.ActionToggleMode)
	case 'c', 'C':
		v.controller.Do(gesture.ActionClearPoints)
	}
}

func (v *Viewer) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to GoMap")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Click 'Open map' to load a map image")

	openButton := widget.NewButton("Open map", func() {
		v.showFileDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	v.window.SetContent(content)
}

func (v *Viewer) showFileDialog() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		if err := v.Open(reader.URI().Path()); err != nil {
			dialog.ShowError(err, v.window)
		}
	}, v.window)
	open.SetFilter(storage.NewExtensionFileFilter(mapimage.SupportedExtensions))
	open.Show()
}

func (v *Viewer) setupMainUI() {
	content := container.NewBorder(
		nil,               // top
		nil,               // bottom
		nil,               // left
		v.panel.Content(), // right
		v.view,            // center
	)
	v.window.SetContent(content)
}
