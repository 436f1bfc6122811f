package windows

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"simcfg/scenario"
)

// SnapshotDialog lists the timestamped workbooks of the work directory,
// newest first, and opens the one the user picks.
type SnapshotDialog struct {
	dialog    dialog.Dialog
	window    fyne.Window
	dir       string
	onPick    func(path string)
	list      *widget.List
	snapshots []scenario.SnapshotFile
	pathLabel *widget.Label
	emptyInfo *widget.Label
}

func NewSnapshotDialog(w fyne.Window, dir string, onPick func(path string)) *SnapshotDialog {
	return &SnapshotDialog{window: w, dir: dir, onPick: onPick}
}

func (sd *SnapshotDialog) Show() {
	abs, err := filepath.Abs(sd.dir)
	if err != nil {
		abs = sd.dir
	}
	sd.pathLabel = widget.NewLabel(abs)
	sd.pathLabel.Truncation = fyne.TextTruncateEllipsis
	sd.pathLabel.TextStyle = fyne.TextStyle{Bold: true}

	sd.emptyInfo = widget.NewLabel("No snapshots in this directory")
	sd.emptyInfo.TextStyle = fyne.TextStyle{Italic: true}
	sd.emptyInfo.Hide()

	sd.list = widget.NewList(
		func() int {
			return len(sd.snapshots)
		},
		func() fyne.CanvasObject {
			icon := widget.NewIcon(theme.DocumentIcon())
			name := widget.NewLabel("template")
			created := widget.NewLabel("template")
			created.TextStyle = fyne.TextStyle{Italic: true}
			return container.NewBorder(nil, nil, container.NewHBox(icon, name), created)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			snap := sd.snapshots[id]
			cont := obj.(*fyne.Container)
			// Border places the center objects first, then left and right.
			left := cont.Objects[0].(*fyne.Container)
			left.Objects[1].(*widget.Label).SetText(snap.Name)
			cont.Objects[1].(*widget.Label).SetText(snap.Created.Format("2006-01-02 15:04:05"))
		},
	)

	sd.list.OnSelected = func(id widget.ListItemID) {
		path := sd.snapshots[id].Path
		sd.dialog.Hide()
		sd.onPick(path)
	}

	refreshButton := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		sd.loadSnapshots()
	})

	navToolbar := container.NewBorder(nil, nil, refreshButton, nil, sd.pathLabel)

	instructions := widget.NewRichTextFromMarkdown(
		"**Open a saved snapshot**\n\nSnapshots are named `YYYY_MM_DD_HH_MM_SS.xlsx`; the most recently created is listed first.")
	instructions.Wrapping = fyne.TextWrapWord

	content := container.NewBorder(
		container.NewVBox(
			instructions,
			widget.NewSeparator(),
			navToolbar,
			widget.NewSeparator(),
			sd.emptyInfo,
		),
		nil, nil, nil,
		sd.list,
	)

	sd.dialog = dialog.NewCustom("Snapshots", "Close", content, sd.window)
	sd.dialog.Resize(fyne.NewSize(640, 480))

	sd.loadSnapshots()
	sd.dialog.Show()
}

func (sd *SnapshotDialog) loadSnapshots() {
	snaps, err := scenario.ListSnapshots(sd.dir)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to list snapshots: %w", err), sd.window)
		return
	}
	sd.snapshots = snaps
	if len(snaps) == 0 {
		sd.emptyInfo.Show()
	} else {
		sd.emptyInfo.Hide()
	}
	sd.list.UnselectAll()
	sd.list.Refresh()
}
