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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheetTable is a sheet read as a header row plus data rows.
type sheetTable struct {
	sheet  string
	header map[string]int
	rows   [][]string
}

func newSheetTable(sheet string, rows [][]string) *sheetTable {
	t := &sheetTable{sheet: sheet, header: make(map[string]int)}
	if len(rows) == 0 {
		return t
	}
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if _, dup := t.header[name]; !dup {
			t.header[name] = i
		}
	}
	t.rows = rows[1:]
	return t
}

func (t *sheetTable) index(c column) (int, error) {
	if i, ok := t.header[c.name]; ok {
		return i, nil
	}
	for _, alias := range c.aliases {
		if i, ok := t.header[alias]; ok {
			return i, nil
		}
	}
	return 0, &LoadError{Sheet: t.sheet, Column: c.name, Err: ErrColumnMissing}
}

// cell returns the text at data row r. Trailing blank cells and blank rows
// are not stored by the spreadsheet, so anything past the end reads as "".
func (t *sheetTable) cell(r int, c column) (string, error) {
	i, err := t.index(c)
	if err != nil {
		return "", err
	}
	if r >= len(t.rows) || i >= len(t.rows[r]) {
		return "", nil
	}
	return t.rows[r][i], nil
}

// values reads several columns of data row r.
func (t *sheetTable) values(r int, cols ...column) ([]string, error) {
	out := make([]string, len(cols))
	for i, c := range cols {
		v, err := t.cell(r, c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *sheetTable) invalid(c column, err error) error {
	return &LoadError{Sheet: t.sheet, Column: c.name, Err: err}
}

func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, &LoadError{Sheet: sheet, Err: ErrSheetMissing}
	}
	// Raw values keep numbers exactly as stored instead of as displayed.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Sheet: sheet, Err: err}
	}
	return rows, nil
}

func readTable(f *excelize.File, sheet string) (*sheetTable, error) {
	rows, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	return newSheetTable(sheet, rows), nil
}

// Load reads a workbook written by Save. The node, network and comm sheets are
// required and any problem with them fails the whole load. The hydrology sheet
// is optional: when it is missing or unusable the section is left empty and
// the problem is returned in warnings.
func Load(path string) (*Document, []error, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	doc := NewDocument()
	if err := loadNodeSettings(f, &doc.Nodes); err != nil {
		return nil, nil, err
	}
	if err := loadNodeTable(f, &doc.Nodes); err != nil {
		return nil, nil, err
	}
	if err := loadNetwork(f, &doc.Network); err != nil {
		return nil, nil, err
	}
	if err := loadComm(f, &doc.Comm); err != nil {
		return nil, nil, err
	}

	var warnings []error
	hydro, err := loadHydrology(f)
	if err != nil {
		warnings = append(warnings, err)
	}
	doc.Hydrology = hydro
	return doc, warnings, nil
}

func loadNodeSettings(f *excelize.File, s *NodeSection) error {
	t, err := readTable(f, SheetNodeSettings)
	if err != nil {
		return err
	}
	vals, err := t.values(0, colCenterLon, colCenterLat)
	if err != nil {
		return err
	}
	s.CenterLongitude, s.CenterLatitude = vals[0], vals[1]
	return nil
}

func loadNodeTable(f *excelize.File, s *NodeSection) error {
	t, err := readTable(f, SheetNodeTable)
	if err != nil {
		return err
	}
	for _, c := range nodeTableColumns {
		if _, err := t.index(c); err != nil {
			return err
		}
	}

	var nodes []NodeRecord
	for r := range t.rows {
		vals, err := t.values(r, nodeTableColumns[:]...)
		if err != nil {
			return err
		}
		if isBlank(vals) {
			continue
		}
		id, err := parseInt(vals[NodeFieldID])
		if err != nil {
			return t.invalid(nodeTableColumns[NodeFieldID], err)
		}
		nodes = append(nodes, NodeRecord{
			ID: id,
			X:  vals[NodeFieldX], Y: vals[NodeFieldY], Z: vals[NodeFieldZ],
			VX: vals[NodeFieldVX], VY: vals[NodeFieldVY], VZ: vals[NodeFieldVZ],
		})
	}
	s.Nodes = nodes
	s.Renumber()
	return nil
}

func loadNetwork(f *excelize.File, s *NetworkSection) error {
	t, err := readTable(f, SheetNetworkSettings)
	if err != nil {
		return err
	}
	vals, err := t.values(0, colTotalTime, colIterationInterval, colDataRate, colPacketSize,
		colMACProtocol, colRoutingProtocol)
	if err != nil {
		return err
	}
	s.TotalTime, s.IterationInterval, s.DataRate, s.PacketSize = vals[0], vals[1], vals[2], vals[3]

	if s.MAC, err = ParseMACProtocol(vals[4]); err != nil {
		return t.invalid(colMACProtocol, err)
	}
	if s.Routing, err = ParseRoutingProtocol(vals[5]); err != nil {
		return t.invalid(colRoutingProtocol, err)
	}
	return nil
}

func loadComm(f *excelize.File, s *CommSection) error {
	t, err := readTable(f, SheetCommSettings)
	if err != nil {
		return err
	}
	vals, err := t.values(0, colBWIndex, colModOrder, colCodeRateIndex, colNumSymPerFrame,
		colNumFrames, colFc, colEnableFading, colChanVisual, colEnableCFO, colEnableCPE)
	if err != nil {
		return err
	}

	if s.BandwidthIndex, err = ParseBandwidthIndex(vals[0]); err != nil {
		return t.invalid(colBWIndex, err)
	}
	s.ModOrder = vals[1]
	if s.CodeRate, err = ParseCodeRate(vals[2]); err != nil {
		return t.invalid(colCodeRateIndex, err)
	}
	s.NumSymPerFrame, s.NumFrames, s.CarrierFrequency = vals[3], vals[4], vals[5]

	flags := []struct {
		col column
		dst *bool
	}{
		{colEnableFading, &s.EnableFading},
		{colChanVisual, &s.ChannelVisualization},
		{colEnableCFO, &s.EnableCFO},
		{colEnableCPE, &s.EnableCPE},
	}
	for i, fl := range flags {
		b, err := parseFlag(vals[6+i])
		if err != nil {
			return t.invalid(fl.col, err)
		}
		*fl.dst = b
	}
	return nil
}

// loadHydrology never fails the load. The returned error is a warning and the
// section is empty whenever it is non-nil.
func loadHydrology(f *excelize.File) (HydrologySection, error) {
	rows, err := readSheet(f, SheetHydrologyData)
	if err != nil {
		if errors.Is(err, ErrSheetMissing) {
			return HydrologySection{}, ErrHydrologyMissing
		}
		return HydrologySection{}, fmt.Errorf("%w: %v", ErrHydrologyMalformed, err)
	}
	cols, height := sheetExtent(f, SheetHydrologyData)
	for len(rows) < height {
		rows = append(rows, nil)
	}
	if len(rows) == 0 {
		return HydrologySection{}, fmt.Errorf("%w: no header row", ErrHydrologyMalformed)
	}
	width := max(len(rows[0]), cols)
	if width == 0 {
		return HydrologySection{}, fmt.Errorf("%w: no header row", ErrHydrologyMalformed)
	}

	section := HydrologySection{Columns: make([]string, width)}
	copy(section.Columns, rows[0])
	for i, row := range rows[1:] {
		if len(row) > width {
			return HydrologySection{}, fmt.Errorf("%w: %v", ErrHydrologyMalformed,
				&RowWidthError{Row: i, Got: len(row), Want: width})
		}
		cells := make([]string, width)
		copy(cells, row)
		section.Rows = append(section.Rows, cells)
	}
	return section, nil
}

// sheetExtent returns the column and row count recorded in the sheet
// dimension. A single-cell dimension is what new sheets start with and says
// nothing about the content, so it reads as zeros like a missing one.
func sheetExtent(f *excelize.File, sheet string) (cols, rows int) {
	ref, err := f.GetSheetDimension(sheet)
	if err != nil {
		return 0, 0
	}
	_, end, ok := strings.Cut(ref, ":")
	if !ok {
		return 0, 0
	}
	cols, rows, err = excelize.CellNameToCoordinates(end)
	if err != nil {
		return 0, 0
	}
	return cols, rows
}

func isBlank(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseInt accepts integral numbers, including the "3.0" form some writers produce.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not an integer: %w", s, ErrInvalidValue)
	}
	return int(f), nil
}

// parseFlag reads a stored boolean. Empty cells are false.
func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0, nil
	}
	return false, fmt.Errorf("%q is not a boolean: %w", s, ErrInvalidValue)
}
