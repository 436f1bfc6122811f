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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ExportFormat represents the supported hydrology export formats
type ExportFormat int

const (
	FormatParquet ExportFormat = iota
	FormatCSV
	FormatJSON
)

func (f ExportFormat) String() string {
	switch f {
	case FormatParquet:
		return "parquet"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// FormatFromPath picks an export format from a file extension.
func FormatFromPath(path string) (ExportFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, true
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	}
	return 0, false
}

// ExportHydrology writes the hydrology table to path in the given format.
func ExportHydrology(h HydrologySection, path string, format ExportFormat) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("failed to export hydrology data: %w", err)
	}
	if len(h.Columns) == 0 {
		return fmt.Errorf("failed to export hydrology data: no columns")
	}

	switch format {
	case FormatParquet:
		table := hydrologyTable(h)
		defer table.Release()
		return exportToParquet(table, path)
	case FormatCSV:
		return exportToCSV(h, path)
	case FormatJSON:
		return exportToJSON(h, path)
	default:
		return fmt.Errorf("unsupported export format %v", format)
	}
}

// hydrologyTable builds an all-string Arrow table with one field per column.
// The header is only known at import time, so cells keep their text form.
func hydrologyTable(h HydrologySection) arrow.Table {
	fields := make([]arrow.Field, len(h.Columns))
	for i, name := range h.Columns {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	for _, row := range h.Rows {
		for i, cell := range row {
			b.Field(i).(*array.StringBuilder).Append(cell)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	return array.NewTableFromRecords(schema, []arrow.Record{rec})
}

func exportToParquet(table arrow.Table, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), file, props, arrowProps)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	// Closing the writer also closes the file.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

func exportToCSV(h HydrologySection, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(h.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(h.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return file.Close()
}

// exportToJSON writes an array of objects keyed by column name. Duplicate
// column names keep the last cell.
func exportToJSON(h HydrologySection, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	records := make([]map[string]string, 0, len(h.Rows))
	for _, row := range h.Rows {
		record := make(map[string]string, len(h.Columns))
		for i, name := range h.Columns {
			record[name] = row[i]
		}
		records = append(records, record)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return file.Close()
}
