// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"alignment-editor/internal/app"
	"alignment-editor/internal/standards"
	"alignment-editor/internal/tracker"
	"alignment-editor/internal/version"
	"alignment-editor/ui/canvas"
	"alignment-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.AlignmentCanvas
	statusBar *widget.Label

	rotationItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Alignment Editor")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewAlignmentCanvas(tracker.NewDispatcher())
	mw.statusBar = widget.NewLabel("Ready")
	mw.canvas.OnStatus(func(msg string) {
		mw.statusBar.SetText(msg)
	})

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.canvas,                         // center
	)

	mw.SetContent(content)
	mw.Canvas().Focus(mw.canvas)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Alignment...", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSave),
		fyne.NewMenuItem("Save As...", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.rotationItem = fyne.NewMenuItem(rotationLabel(mw.state.TrackerOptions.RotationEnabled), mw.onToggleRotation)
	editMenu := fyne.NewMenu("Edit",
		mw.rotationItem,
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Fit Alignment", mw.onFit),
	)

	// One item per registered design standard
	var stdItems []*fyne.MenuItem
	for _, name := range standards.List() {
		n := name
		stdItems = append(stdItems, fyne.NewMenuItem(n, func() { mw.onSelectStandard(n) }))
	}
	standardsMenu := fyne.NewMenu("Standards", stdItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, standardsMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

func rotationLabel(enabled bool) string {
	if enabled {
		return "✓ Rotate with Ctrl-Drag"
	}
	return "  Rotate with Ctrl-Drag"
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventChainLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Alignment Editor - " + filepath.Base(path))
			mw.updateStatus("Alignment loaded: " + path)
		}
		mw.canvas.FitToChain(mw.state.Chain.PIPositions())
	})

	mw.state.On(app.EventChainSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Alignment Editor - " + filepath.Base(path))
			mw.updateStatus("Saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventDragCommitted, func(data interface{}) {
		mw.updateStatus("Edit committed")
	})

	mw.state.On(app.EventDragRolledBack, func(data interface{}) {
		mw.updateStatus("Edit rolled back: curve geometry infeasible")
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	if mw.prefs.LastDirectory == "" {
		return nil
	}
	uri := storage.NewFileURI(mw.prefs.LastDirectory)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// OpenChain loads an alignment file and rebuilds the canvas view.
func (mw *MainWindow) OpenChain(path string) {
	if err := mw.state.LoadChain(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.state.AttachView(mw.canvas, mw.canvas.Dispatcher())
	mw.prefs.SetLastChain(path)
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Could not save preferences: " + err.Error())
	}
}

// Menu action handlers

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenChain(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSave() {
	if mw.state.ProjectPath == "" {
		mw.onSaveAs()
		return
	}
	if err := mw.state.SaveChain(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		if err := mw.state.SaveChain(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetLastChain(path)
		mw.prefs.Save()
	}, mw.Window)
	fd.SetFileName("alignment.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onToggleRotation() {
	mw.state.TrackerOptions.RotationEnabled = !mw.state.TrackerOptions.RotationEnabled
	mw.rotationItem.Label = rotationLabel(mw.state.TrackerOptions.RotationEnabled)
	mw.prefs.RotationDrag = mw.state.TrackerOptions.RotationEnabled
	mw.prefs.Save()
	// Rebuild so active trackers pick up the new drag options
	if mw.state.Chain != nil {
		mw.state.AttachView(mw.canvas, mw.canvas.Dispatcher())
	}
}

func (mw *MainWindow) onFit() {
	if mw.state.Chain == nil {
		return
	}
	mw.canvas.FitToChain(mw.state.Chain.PIPositions())
}

func (mw *MainWindow) onSelectStandard(name string) {
	if err := mw.state.SetStandardByName(name); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.prefs.Standard = name
	mw.prefs.Save()
	mw.updateStatus("Design standard: " + name)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Alignment Editor",
		fmt.Sprintf("Alignment Editor v%s\n\n"+
			"An interactive horizontal alignment curve editor\n"+
			"for road and rail geometry.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
