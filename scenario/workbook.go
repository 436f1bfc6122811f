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

package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook format. One workbook holds one configuration.
const (
	SheetNodeSettings    = "NodeSettings"
	SheetNodeTable       = "NodeTable"
	SheetNetworkSettings = "NetworkSettings"
	SheetCommSettings    = "CommSettings"
	SheetHydrologyData   = "HydrologyData"
)

// column is one header cell. The name is what gets written; aliases are also
// accepted when reading.
type column struct {
	name    string
	aliases []string
}

// Header names follow the workbooks already in circulation, which the
// simulator reads by name.
var (
	colCenterLon = column{name: "center_lon"}
	colCenterLat = column{name: "center_lat"}

	nodeTableColumns = [NodeFieldCount]column{
		NodeFieldID: {name: "节点编号", aliases: []string{"id"}},
		NodeFieldX:  {name: "x坐标", aliases: []string{"x"}},
		NodeFieldY:  {name: "y坐标", aliases: []string{"y"}},
		NodeFieldZ:  {name: "z坐标", aliases: []string{"z"}},
		NodeFieldVX: {name: "x轴速度", aliases: []string{"vx"}},
		NodeFieldVY: {name: "y轴速度", aliases: []string{"vy"}},
		NodeFieldVZ: {name: "z轴速度", aliases: []string{"vz"}},
	}

	colTotalTime         = column{name: "仿真总时间", aliases: []string{"total_time"}}
	colIterationInterval = column{name: "迭代间隔", aliases: []string{"iteration_interval"}}
	colDataRate          = column{name: "数据速率", aliases: []string{"data_rate"}}
	colPacketSize        = column{name: "包大小", aliases: []string{"packet_size"}}
	colMACProtocol       = column{name: "mac_protocol"}
	colRoutingProtocol   = column{name: "routing_protocol"}

	colBWIndex        = column{name: "BWIndex"}
	colModOrder       = column{name: "modOrder"}
	colCodeRateIndex  = column{name: "codeRateIndex"}
	colNumSymPerFrame = column{name: "numSymPerFrame"}
	colNumFrames      = column{name: "numFrames"}
	colFc             = column{name: "fc"}
	colEnableFading   = column{name: "enableFading"}
	colChanVisual     = column{name: "chanVisual"}
	colEnableCFO      = column{name: "enableCFO"}
	colEnableCPE      = column{name: "enableCPE"}
)

func headerRow(cols ...column) []any {
	row := make([]any, len(cols))
	for i, c := range cols {
		row[i] = c.name
	}
	return row
}

func flagCell(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Save writes doc to a workbook at path. The workbook is written to a
// temporary file next to path and renamed into place, so path either keeps
// its old content or receives the complete new workbook.
func Save(doc *Document, path string) error {
	if err := doc.Hydrology.Validate(); err != nil {
		return fmt.Errorf("failed to save hydrology data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeWorkbook(f, doc); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".simcfg-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create workbook file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := f.Write(tmp); err != nil {
		cleanup()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to flush workbook: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to set workbook permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func writeWorkbook(f *excelize.File, doc *Document) error {
	// A new workbook starts with one default sheet; reuse it for the first section.
	if err := f.SetSheetName(f.GetSheetName(0), SheetNodeSettings); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetNodeSettings, err)
	}
	for _, name := range []string{SheetNodeTable, SheetNetworkSettings, SheetCommSettings} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetNodeSettings, [][]any{
		headerRow(colCenterLon, colCenterLat),
		{doc.Nodes.CenterLongitude, doc.Nodes.CenterLatitude},
	}); err != nil {
		return err
	}

	nodeRows := make([][]any, 0, len(doc.Nodes.Nodes)+1)
	nodeRows = append(nodeRows, headerRow(nodeTableColumns[:]...))
	for _, n := range doc.Nodes.Nodes {
		nodeRows = append(nodeRows, []any{n.ID, n.X, n.Y, n.Z, n.VX, n.VY, n.VZ})
	}
	if err := writeRows(f, SheetNodeTable, nodeRows); err != nil {
		return err
	}

	net := doc.Network
	if err := writeRows(f, SheetNetworkSettings, [][]any{
		headerRow(colTotalTime, colIterationInterval, colDataRate, colPacketSize, colMACProtocol, colRoutingProtocol),
		{net.TotalTime, net.IterationInterval, net.DataRate, net.PacketSize, net.MAC.String(), net.Routing.String()},
	}); err != nil {
		return err
	}

	comm := doc.Comm
	if err := writeRows(f, SheetCommSettings, [][]any{
		headerRow(colBWIndex, colModOrder, colCodeRateIndex, colNumSymPerFrame, colNumFrames, colFc,
			colEnableFading, colChanVisual, colEnableCFO, colEnableCPE),
		{int(comm.BandwidthIndex), comm.ModOrder, comm.CodeRate.String(), comm.NumSymPerFrame, comm.NumFrames,
			comm.CarrierFrequency, flagCell(comm.EnableFading), flagCell(comm.ChannelVisualization),
			flagCell(comm.EnableCFO), flagCell(comm.EnableCPE)},
	}); err != nil {
		return err
	}

	if doc.Hydrology.Empty() {
		return nil
	}
	if _, err := f.NewSheet(SheetHydrologyData); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetHydrologyData, err)
	}
	hydroRows := make([][]any, 0, len(doc.Hydrology.Rows)+1)
	hydroRows = append(hydroRows, toRow(doc.Hydrology.Columns))
	for _, r := range doc.Hydrology.Rows {
		hydroRows = append(hydroRows, toRow(r))
	}
	if err := writeRows(f, SheetHydrologyData, hydroRows); err != nil {
		return err
	}
	// Readers drop trailing blank cells and rows; the dimension records the
	// full extent so Load can restore them.
	last, err := excelize.CoordinatesToCellName(len(doc.Hydrology.Columns), len(hydroRows))
	if err != nil {
		return fmt.Errorf("failed to address %s: %w", SheetHydrologyData, err)
	}
	if err := f.SetSheetDimension(SheetHydrologyData, "A1:"+last); err != nil {
		return fmt.Errorf("failed to set extent of %s: %w", SheetHydrologyData, err)
	}
	return nil
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d of %s: %w", i+1, sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
