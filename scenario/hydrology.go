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
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultHydrologyEncoding is the code page hydrology exports are produced in.
// The gauging-station software writes the Windows "ANSI" code page rather than
// UTF-8, so files must be decoded explicitly. On Chinese-locale machines that
// code page is cp936; set hydrology.encoding to "gbk" for files from there.
const DefaultHydrologyEncoding = "windows-1252"

// ImportOptions controls how a delimited hydrology file is read.
type ImportOptions struct {
	// Encoding is a WHATWG encoding label such as "windows-1252" or "gbk".
	// Empty means DefaultHydrologyEncoding.
	Encoding string
	// Delimiter is the field separator. Zero means detect it from the header line.
	Delimiter rune
}

// ResolveEncoding looks up a text encoding by label.
func ResolveEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultHydrologyEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// ImportDelimited reads a delimited text file into a new hydrology section.
// The first row names the columns. Empty lines are skipped; a line of bare
// delimiters is kept as a row of empty cells. Short rows are padded. The caller decides whether to replace the
// open document's section; nothing is merged.
func ImportDelimited(path string, opts ImportOptions) (HydrologySection, error) {
	enc, err := ResolveEncoding(opts.Encoding)
	if err != nil {
		return HydrologySection{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return HydrologySection{}, fmt.Errorf("failed to read hydrology file: %w", err)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return HydrologySection{}, fmt.Errorf("failed to decode hydrology file: %w", err)
	}
	decoded = bytes.TrimPrefix(decoded, []byte("\xef\xbb\xbf"))

	sep := opts.Delimiter
	if sep == 0 {
		sep = detectSeparator(firstLine(decoded))
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return HydrologySection{}, fmt.Errorf("%w: no header row", ErrImportMalformed)
	}
	if err != nil {
		return HydrologySection{}, fmt.Errorf("%w: %v", ErrImportMalformed, err)
	}

	section := HydrologySection{Columns: nameColumns(header)}
	width := len(section.Columns)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return HydrologySection{}, fmt.Errorf("%w: %v", ErrImportMalformed, err)
		}
		if len(rec) > width {
			line, _ := r.FieldPos(0)
			return HydrologySection{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrImportMalformed, line, len(rec), width)
		}
		cells := make([]string, width)
		copy(cells, rec)
		section.Rows = append(section.Rows, cells)
	}
	return section, nil
}

// nameColumns gives blank header cells a positional name so the header
// survives being written to a spreadsheet, which drops trailing blank cells.
func nameColumns(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		cols[i] = h
	}
	return cols
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), "\r")
}

// candidate separators in tie-break order
var separators = []rune{',', ';', '\t', '|'}

// detectSeparator picks the most frequent candidate on the header line,
// defaulting to comma.
func detectSeparator(line string) rune {
	best, bestCount := ',', 0
	for _, sep := range separators {
		if n := strings.Count(line, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}
