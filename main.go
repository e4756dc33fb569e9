// Package main provides the entry point for the Alignment Editor.
package main

import (
	"flag"
	"log"

	"alignment-editor/internal/app"
	"alignment-editor/ui/mainwindow"
	"alignment-editor/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/npillmayer/schuko/tracing"
)

const appTitle = "Alignment Editor"

func main() {
	verbose := flag.Bool("v", false, "enable debug tracing")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	setTraceLevels(*verbose)

	fyneApp := fyneapp.NewWithID("io.alignment-editor")
	fyneApp.Settings().SetTheme(&app.AlignmentTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()
	appState.TrackerOptions.RotationEnabled = appPrefs.RotationDrag
	if appPrefs.Standard != "" {
		if err := appState.SetStandardByName(appPrefs.Standard); err != nil {
			log.Printf("Preferences: %v", err)
		}
	}

	win := mainwindow.New(fyneApp, appState, appPrefs)
	win.SetTitle(appTitle)
	win.Resize(fyne.NewSize(1100, 750))

	// An alignment file on the command line wins over the remembered one.
	path := flag.Arg(0)
	if path == "" {
		path = appPrefs.LastChain
	}
	if path != "" {
		win.OpenChain(path)
	}

	win.ShowAndRun()
}

func setTraceLevels(verbose bool) {
	level := tracing.LevelInfo
	if verbose {
		level = tracing.LevelDebug
	}
	for _, key := range []string{"kernel", "tracker"} {
		tracing.Select(key).SetTraceLevel(level)
	}
}
