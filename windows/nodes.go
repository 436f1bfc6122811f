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
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"simcfg/scenario"
)

var nodeColumnTitles = [scenario.NodeFieldCount]string{
	scenario.NodeFieldID: "ID",
	scenario.NodeFieldX:  "X",
	scenario.NodeFieldY:  "Y",
	scenario.NodeFieldZ:  "Z",
	scenario.NodeFieldVX: "VX",
	scenario.NodeFieldVY: "VY",
	scenario.NodeFieldVZ: "VZ",
}

// nodesTab edits the observation point and the node list. The table is read
// only; the selected node is edited through the entries below it.
type nodesTab struct {
	t *MainWindow

	lon, lat *widget.Entry
	table    *widget.Table
	selected int

	fields    [scenario.NodeFieldCount]*widget.Entry
	addBtn    *widget.Button
	deleteBtn *widget.Button
	countInfo *widget.Label
}

func newNodesTab(t *MainWindow) *nodesTab {
	n := &nodesTab{t: t, selected: -1}

	n.lon = widget.NewEntry()
	n.lon.SetPlaceHolder("e.g. 116.397")
	n.lon.OnChanged = func(s string) { n.t.doc.Nodes.CenterLongitude = s }
	n.lat = widget.NewEntry()
	n.lat.SetPlaceHolder("e.g. 39.916")
	n.lat.OnChanged = func(s string) { n.t.doc.Nodes.CenterLatitude = s }

	n.table = widget.NewTable(
		func() (int, int) { return len(n.t.doc.Nodes.Nodes), scenario.NodeFieldCount },
		func() fyne.CanvasObject { return widget.NewLabel("template") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			nodes := n.t.doc.Nodes.Nodes
			if id.Row >= len(nodes) {
				return
			}
			o.(*widget.Label).SetText(nodes[id.Row].Field(scenario.NodeField(id.Col)))
		},
	)
	n.table.ShowHeaderRow = true
	n.table.CreateHeader = func() fyne.CanvasObject {
		l := widget.NewLabel("template")
		l.TextStyle = fyne.TextStyle{Bold: true}
		return l
	}
	n.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		if id.Col >= 0 && id.Col < scenario.NodeFieldCount {
			o.(*widget.Label).SetText(nodeColumnTitles[id.Col])
		}
	}
	for col := 0; col < scenario.NodeFieldCount; col++ {
		n.table.SetColumnWidth(col, 110)
	}
	n.table.OnSelected = func(id widget.TableCellID) { n.selectNode(id.Row) }

	for f := scenario.NodeFieldID; f < scenario.NodeFieldCount; f++ {
		e := widget.NewEntry()
		field := f
		e.OnChanged = func(s string) {
			if n.selected < 0 || field == scenario.NodeFieldID {
				return
			}
			if err := n.t.doc.Nodes.SetNodeField(n.selected, field, s); err != nil {
				return
			}
			n.table.Refresh()
		}
		n.fields[f] = e
	}
	n.fields[scenario.NodeFieldID].Disable()

	n.addBtn = widget.NewButtonWithIcon("Add node", theme.ContentAddIcon(), n.addNode)
	n.deleteBtn = widget.NewButtonWithIcon("Delete node", theme.DeleteIcon(), n.confirmDelete)
	n.countInfo = widget.NewLabel("")
	return n
}

func (n *nodesTab) content() fyne.CanvasObject {
	center := widget.NewForm(
		widget.NewFormItem("Center longitude", n.lon),
		widget.NewFormItem("Center latitude", n.lat),
	)

	editor := container.NewGridWithColumns(scenario.NodeFieldCount)
	for f := scenario.NodeFieldID; f < scenario.NodeFieldCount; f++ {
		editor.Add(container.NewBorder(widget.NewLabel(nodeColumnTitles[f]), nil, nil, nil, n.fields[f]))
	}

	bottom := container.NewVBox(
		widget.NewCard("", "Selected node", editor),
		container.NewHBox(n.addBtn, n.deleteBtn, n.countInfo),
	)
	return container.NewBorder(
		widget.NewCard("", "Observation point", center),
		bottom, nil, nil,
		widget.NewCard("", "Nodes", n.table),
	)
}

func (n *nodesTab) refresh() {
	n.lon.SetText(n.t.doc.Nodes.CenterLongitude)
	n.lat.SetText(n.t.doc.Nodes.CenterLatitude)
	n.table.UnselectAll()
	n.selectNode(-1)
}

func (n *nodesTab) selectNode(row int) {
	if row >= len(n.t.doc.Nodes.Nodes) {
		row = -1
	}
	n.selected = -1
	for f, e := range n.fields {
		text := ""
		if row >= 0 {
			text = n.t.doc.Nodes.Nodes[row].Field(scenario.NodeField(f))
		}
		e.SetText(text)
		if f != int(scenario.NodeFieldID) {
			if row < 0 {
				e.Disable()
			} else {
				e.Enable()
			}
		}
	}
	// Set after the entries so filling them does not write back.
	n.selected = row
	if row < 0 {
		n.deleteBtn.Disable()
	} else {
		n.deleteBtn.Enable()
	}
	n.countInfo.SetText(fmt.Sprintf("%d nodes", len(n.t.doc.Nodes.Nodes)))
	n.table.Refresh()
}

func (n *nodesTab) addNode() {
	rec := n.t.doc.Nodes.AddNode()
	n.table.Refresh()
	n.table.Select(widget.TableCellID{Row: rec.ID, Col: int(scenario.NodeFieldX)})
	n.selectNode(rec.ID)
	n.t.SetStatus(fmt.Sprintf("Added node %d", rec.ID))
}

func (n *nodesTab) confirmDelete() {
	if n.selected < 0 {
		return
	}
	idx := n.selected
	dialog.ShowConfirm("Delete node",
		fmt.Sprintf("Delete node %d? Later nodes are renumbered.", idx),
		func(ok bool) {
			if ok {
				n.deleteNode(idx)
			}
		}, n.t.w)
}

func (n *nodesTab) deleteNode(idx int) {
	if err := n.t.doc.Nodes.DeleteNode(idx); err != nil {
		dialog.ShowError(err, n.t.w)
		return
	}
	n.table.UnselectAll()
	n.selectNode(-1)
	n.t.SetStatus(fmt.Sprintf("Deleted node %d", idx))
}
