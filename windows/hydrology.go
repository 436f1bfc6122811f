// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"simcfg/logging"
	"simcfg/scenario"
)

// hydrologyTab shows the imported hydrology table. Cells are not edited in
// place; the table is replaced by importing another file. The filter only
// narrows the view, the document always keeps every row.
type hydrologyTab struct {
	t *MainWindow

	table   *widget.Table
	info    *widget.Label
	filter  *widget.Entry
	visible []int

	exportBtn *widget.Button
	clearBtn  *widget.Button
}

func newHydrologyTab(t *MainWindow) *hydrologyTab {
	h := &hydrologyTab{t: t}

	h.table = widget.NewTable(
		func() (int, int) {
			return len(h.visible), len(h.t.doc.Hydrology.Columns)
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("template")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			rows := h.t.doc.Hydrology.Rows
			if id.Row >= len(h.visible) || h.visible[id.Row] >= len(rows) {
				o.(*widget.Label).SetText("")
				return
			}
			row := rows[h.visible[id.Row]]
			if id.Col >= len(row) {
				o.(*widget.Label).SetText("")
				return
			}
			o.(*widget.Label).SetText(row[id.Col])
		},
	)
	h.table.ShowHeaderRow = true
	h.table.CreateHeader = func() fyne.CanvasObject {
		l := widget.NewLabel("template")
		l.TextStyle = fyne.TextStyle{Bold: true}
		l.Truncation = fyne.TextTruncateEllipsis
		return l
	}
	h.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		cols := h.t.doc.Hydrology.Columns
		if id.Col >= 0 && id.Col < len(cols) {
			o.(*widget.Label).SetText(cols[id.Col])
		}
	}

	h.info = widget.NewLabel("")
	h.filter = widget.NewEntry()
	h.filter.SetPlaceHolder(`Filter, e.g. station = S1 or level >= 2,5`)
	h.filter.OnChanged = func(string) { h.applyFilter() }
	h.exportBtn = widget.NewButtonWithIcon("Export...", theme.DownloadIcon(), h.showExportMenu)
	h.clearBtn = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), h.confirmClear)
	return h
}

func (h *hydrologyTab) content() fyne.CanvasObject {
	importBtn := widget.NewButtonWithIcon("Import CSV...", theme.UploadIcon(), h.showImportDialog)
	actions := container.NewHBox(importBtn, h.exportBtn, h.clearBtn, h.info)
	return container.NewBorder(h.filter, actions, nil, nil, widget.NewCard("", "Hydrology data", h.table))
}

func (h *hydrologyTab) refresh() {
	data := h.t.doc.Hydrology
	for col := range data.Columns {
		h.table.SetColumnWidth(col, 120)
	}
	if data.Empty() {
		h.exportBtn.Disable()
		h.clearBtn.Disable()
	} else {
		h.exportBtn.Enable()
		h.clearBtn.Enable()
	}
	h.applyFilter()
}

func (h *hydrologyTab) applyFilter() {
	data := h.t.doc.Hydrology
	f, err := compileRowFilter(data.Columns, h.filter.Text)
	if err != nil {
		f = nil
	}
	h.visible = f.rows(data.Rows)
	h.table.Refresh()

	switch {
	case data.Empty():
		h.info.SetText("No hydrology data")
	case err != nil:
		h.info.SetText(err.Error())
	case f != nil:
		h.info.SetText(fmt.Sprintf("%d of %d rows, %d columns", len(h.visible), len(data.Rows), len(data.Columns)))
	default:
		h.info.SetText(fmt.Sprintf("%d rows, %d columns", len(data.Rows), len(data.Columns)))
	}
}

// ImportHydrology replaces the hydrology section with the delimited file at
// path. The section is left unchanged when the file cannot be read.
func (t *MainWindow) ImportHydrology(path string) error {
	opts, err := t.opts.Settings.Hydrology.ImportOptions()
	if err != nil {
		return err
	}
	data, err := scenario.ImportDelimited(path, opts)
	if err != nil {
		t.SetStatus("Import failed")
		return err
	}
	t.doc.Hydrology = data
	t.hydrology.refresh()
	t.log.Info(context.Background(), "imported hydrology data",
		logging.String("path", path),
		logging.Int("rows", len(data.Rows)),
		logging.Int("columns", len(data.Columns)))
	t.SetStatus(fmt.Sprintf("Imported %s (%d rows, %d columns)",
		filepath.Base(path), len(data.Rows), len(data.Columns)))
	return nil
}

// ExportHydrology writes the hydrology section to path in the given format.
func (t *MainWindow) ExportHydrology(path string, format scenario.ExportFormat) error {
	if err := scenario.ExportHydrology(t.doc.Hydrology, path, format); err != nil {
		return err
	}
	t.SetStatus(fmt.Sprintf("Exported hydrology data to %s", filepath.Base(path)))
	return nil
}

func (h *hydrologyTab) showImportDialog() {
	openDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, h.t.w)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		if err := h.t.ImportHydrology(path); err != nil {
			dialog.ShowError(fmt.Errorf("failed to import %s: %w", filepath.Base(path), err), h.t.w)
		}
	}, h.t.w)
	openDialog.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".txt", ".tsv"}))
	if loc := h.t.startLocation(); loc != nil {
		openDialog.SetLocation(loc)
	}
	openDialog.Show()
}

func (h *hydrologyTab) showExportMenu() {
	menu := fyne.NewMenu("",
		fyne.NewMenuItem("Parquet", func() { h.exportData(scenario.FormatParquet) }),
		fyne.NewMenuItem("CSV", func() { h.exportData(scenario.FormatCSV) }),
		fyne.NewMenuItem("JSON", func() { h.exportData(scenario.FormatJSON) }),
	)
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(h.exportBtn)
	widget.ShowPopUpMenuAtPosition(menu, h.t.w.Canvas(), pos.AddXY(0, h.exportBtn.Size().Height))
}

func (h *hydrologyTab) exportData(format scenario.ExportFormat) {
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, h.t.w)
			return
		}
		if writer == nil {
			return
		}
		filePath := writer.URI().Path()
		writer.Close()

		if err := h.t.ExportHydrology(filePath, exportFormatFor(filePath, format)); err != nil {
			dialog.ShowError(fmt.Errorf("export failed: %w", err), h.t.w)
			return
		}
		dialog.ShowInformation("Export Successful",
			fmt.Sprintf("Data exported successfully to:\n%s", filePath), h.t.w)
	}, h.t.w)

	saveDialog.SetFileName("hydrology." + format.String())
	if loc := h.t.startLocation(); loc != nil {
		saveDialog.SetLocation(loc)
	}
	saveDialog.Show()
}

// exportFormatFor lets an extension typed into the save dialog win over the
// format picked from the menu.
func exportFormatFor(path string, picked scenario.ExportFormat) scenario.ExportFormat {
	if typed, ok := scenario.FormatFromPath(path); ok {
		return typed
	}
	return picked
}

func (h *hydrologyTab) confirmClear() {
	dialog.ShowConfirm("Clear hydrology data", "Remove the imported hydrology table?", func(ok bool) {
		if !ok {
			return
		}
		h.t.doc.Hydrology = scenario.HydrologySection{}
		h.refresh()
		h.t.SetStatus("Hydrology data cleared")
	}, h.t.w)
}
