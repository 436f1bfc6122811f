package windows

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"simcfg/logging"
	"simcfg/scenario"
	"simcfg/settings"
)

// Options configures a MainWindow.
type Options struct {
	Settings settings.Settings
	Log      logging.Logger
	// Now stamps snapshots. Nil means time.Now.
	Now func() time.Time
}

type MainWindow struct {
	a    fyne.App
	w    fyne.Window
	opts Options
	log  logging.Logger

	// doc is the configuration being edited. Widgets write straight into it.
	doc  *scenario.Document
	path string

	tabs      *container.AppTabs
	statusBar *widget.Label

	nodes     *nodesTab
	network   *networkTab
	comm      *commTab
	hydrology *hydrologyTab
}

// CreateMainWindow starts the desktop application and blocks until it exits.
func CreateMainWindow(opts Options) {
	a := app.NewWithID("simcfg")
	a.Settings().SetTheme(&scenarioTheme{})
	t := NewMainWindow(a, opts)
	t.AutoLoad()
	t.w.ShowAndRun()
}

// NewMainWindow builds the editor window on a without showing it.
func NewMainWindow(a fyne.App, opts Options) *MainWindow {
	if opts.Log == nil {
		opts.Log = logging.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	t := &MainWindow{
		a:    a,
		opts: opts,
		log:  opts.Log.With(logging.String("component", "ui")),
		doc:  scenario.NewDocument(),
	}

	t.w = a.NewWindow("Simulation Scenario Editor")
	t.w.Resize(fyne.NewSize(960, 680))

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}
	t.statusBar.Truncation = fyne.TextTruncateEllipsis

	t.nodes = newNodesTab(t)
	t.network = newNetworkTab(t)
	t.comm = newCommTab(t)
	t.hydrology = newHydrologyTab(t)

	t.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Nodes", theme.GridIcon(), t.nodes.content()),
		container.NewTabItemWithIcon("Network", theme.ComputerIcon(), t.network.content()),
		container.NewTabItemWithIcon("Communication", theme.MediaRecordIcon(), t.comm.content()),
		container.NewTabItemWithIcon("Hydrology", theme.StorageIcon(), t.hydrology.content()),
	)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.showSaveDialog),
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.showLoadDialog),
		widget.NewToolbarAction(theme.HistoryIcon(), t.showSnapshotDialog),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ConfirmIcon(), t.runCheck),
		widget.NewToolbarAction(theme.MediaPlayIcon(), t.runSimulation),
	)

	actions := container.NewHBox(
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), t.showSaveDialog),
		widget.NewButtonWithIcon("Load", theme.FolderOpenIcon(), t.showLoadDialog),
		widget.NewButtonWithIcon("Check", theme.ConfirmIcon(), t.runCheck),
		widget.NewButtonWithIcon("Start simulation", theme.MediaPlayIcon(), t.runSimulation),
	)
	bottom := container.NewBorder(nil, nil, nil, actions, t.statusBar)

	t.w.SetContent(container.NewBorder(toolbar, bottom, nil, nil, t.tabs))
	t.refresh()
	return t
}

// Document returns the configuration currently shown.
func (t *MainWindow) Document() *scenario.Document { return t.doc }

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

func (t *MainWindow) workDir() string {
	if t.opts.Settings.WorkDir == "" {
		return "."
	}
	return t.opts.Settings.WorkDir
}

// setDocument replaces the edited configuration and redraws every tab.
func (t *MainWindow) setDocument(doc *scenario.Document, path string) {
	t.doc = doc
	t.path = path
	t.refresh()
}

func (t *MainWindow) refresh() {
	t.nodes.refresh()
	t.network.refresh()
	t.comm.refresh()
	t.hydrology.refresh()
}

// AutoLoad opens the newest snapshot in the work directory. Any failure
// leaves the editor on an empty configuration.
func (t *MainWindow) AutoLoad() {
	ctx := context.Background()
	doc, path, warnings, err := scenario.AutoLoad(t.workDir())
	if err != nil {
		t.log.Debug(ctx, "auto-load skipped", logging.Err(err))
		t.SetStatus("Started with an empty configuration")
		return
	}
	if path == "" {
		t.SetStatus("No snapshot found, started with an empty configuration")
		return
	}
	t.setDocument(doc, path)
	t.log.Info(ctx, "auto-loaded snapshot", logging.String("path", path))
	t.SetStatus("Loaded " + filepath.Base(path) + warningSuffix(warnings))
}

// SaveTo writes the configuration to path.
func (t *MainWindow) SaveTo(path string) error {
	if err := scenario.Save(t.doc, path); err != nil {
		t.SetStatus("Save failed")
		return err
	}
	t.path = path
	t.log.Info(context.Background(), "saved workbook", logging.String("path", path))
	t.SetStatus("Saved " + filepath.Base(path))
	return nil
}

// LoadFrom replaces the configuration with the workbook at path. On error the
// current configuration is kept.
func (t *MainWindow) LoadFrom(path string) ([]error, error) {
	doc, warnings, err := scenario.Load(path)
	if err != nil {
		t.SetStatus("Load failed")
		return nil, err
	}
	t.setDocument(doc, path)
	for _, w := range warnings {
		t.log.Warn(context.Background(), "workbook loaded with warnings",
			logging.String("path", path), logging.Err(w))
	}
	t.SetStatus("Loaded " + filepath.Base(path) + warningSuffix(warnings))
	return warnings, nil
}

// sectionTabs maps a section to its tab index.
var sectionTabs = map[scenario.Section]int{
	scenario.SectionNode:      0,
	scenario.SectionNetwork:   1,
	scenario.SectionComm:      2,
	scenario.SectionHydrology: 3,
}

// Check validates the configuration and switches to the tab of the first
// missing field.
func (t *MainWindow) Check() error {
	if err := scenario.Validate(t.doc); err != nil {
		var verr *scenario.ValidationError
		if errors.As(err, &verr) {
			if i, ok := sectionTabs[verr.Section]; ok {
				t.tabs.SelectIndex(i)
			}
		}
		t.SetStatus("Check failed: " + err.Error())
		return err
	}
	t.SetStatus("Configuration is complete")
	return nil
}

// StartSimulation validates the configuration, writes a snapshot into the
// work directory and hands it to the simulator.
func (t *MainWindow) StartSimulation() (string, error) {
	sim := t.opts.Settings.Simulation
	ctx, cancel := sim.Context(context.Background())
	defer cancel()

	path, err := scenario.StartSimulation(ctx, t.doc, t.workDir(), t.opts.Now(),
		sim.Handoff(t.workDir(), t.opts.Log))
	if err != nil {
		t.log.Error(ctx, "simulation start failed", logging.Err(err))
		t.SetStatus("Simulation not started")
		return path, err
	}
	t.path = path
	t.log.Info(ctx, "simulation started", logging.String("snapshot", path),
		logging.Any("timeout", sim.Timeout))
	t.SetStatus("Snapshot " + filepath.Base(path) + " handed to the simulator")
	return path, nil
}

func warningSuffix(warnings []error) string {
	if len(warnings) == 0 {
		return ""
	}
	msgs := make([]string, len(warnings))
	for i, w := range warnings {
		msgs[i] = w.Error()
	}
	return " (" + strings.Join(msgs, "; ") + ")"
}

func (t *MainWindow) workbookFilter() storage.FileFilter {
	return storage.NewExtensionFileFilter([]string{scenario.WorkbookExt})
}

// startLocation points file dialogs at the directory of the last workbook, or
// the work directory.
func (t *MainWindow) startLocation() fyne.ListableURI {
	dir := t.workDir()
	if t.path != "" {
		dir = filepath.Dir(t.path)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(abs))
	if err != nil {
		return nil
	}
	return lister
}

func (t *MainWindow) showSaveDialog() {
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		// Save replaces the file itself.
		writer.Close()
		if err := t.SaveTo(path); err != nil {
			dialog.ShowError(err, t.w)
		}
	}, t.w)
	saveDialog.SetFilter(t.workbookFilter())
	if loc := t.startLocation(); loc != nil {
		saveDialog.SetLocation(loc)
	}
	name := "config" + scenario.WorkbookExt
	if t.path != "" {
		name = filepath.Base(t.path)
	}
	saveDialog.SetFileName(name)
	saveDialog.Show()
}

func (t *MainWindow) showLoadDialog() {
	openDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		t.loadAndReport(path)
	}, t.w)
	openDialog.SetFilter(t.workbookFilter())
	if loc := t.startLocation(); loc != nil {
		openDialog.SetLocation(loc)
	}
	openDialog.Show()
}

func (t *MainWindow) showSnapshotDialog() {
	NewSnapshotDialog(t.w, t.workDir(), t.loadAndReport).Show()
}

func (t *MainWindow) loadAndReport(path string) {
	warnings, err := t.LoadFrom(path)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load %s: %w", filepath.Base(path), err), t.w)
		return
	}
	if len(warnings) > 0 {
		dialog.ShowInformation("Loaded with warnings", errors.Join(warnings...).Error(), t.w)
	}
}

func (t *MainWindow) runCheck() {
	if err := t.Check(); err != nil {
		dialog.ShowError(err, t.w)
		return
	}
	dialog.ShowInformation("Check", "All required settings are filled in.", t.w)
}

func (t *MainWindow) runSimulation() {
	path, err := t.StartSimulation()
	if err != nil {
		dialog.ShowError(err, t.w)
		return
	}
	dialog.ShowInformation("Simulation",
		fmt.Sprintf("Snapshot written to:\n%s", path), t.w)
}
