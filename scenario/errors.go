package scenario

import (
	"errors"
	"fmt"
)

// Common errors returned by the scenario package.
var (
	// ErrNodeIndex is returned when a node index is out of range.
	ErrNodeIndex = errors.New("node index out of range")

	// ErrNodeIDReadOnly is returned when an edit targets the node id column.
	ErrNodeIDReadOnly = errors.New("node id is assigned automatically")

	// ErrSheetMissing is returned when a required sheet is absent from a workbook.
	ErrSheetMissing = errors.New("sheet not found")

	// ErrColumnMissing is returned when a required column is absent from a sheet.
	ErrColumnMissing = errors.New("column not found")

	// ErrInvalidValue is returned when a cell cannot be read as the expected type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrHydrologyMissing is reported as a warning when a workbook has no hydrology sheet.
	ErrHydrologyMissing = errors.New("hydrology sheet not found")

	// ErrHydrologyMalformed is reported as a warning when the hydrology sheet cannot be used.
	ErrHydrologyMalformed = errors.New("hydrology sheet malformed")

	// ErrImportMalformed is returned when a delimited file cannot be imported.
	ErrImportMalformed = errors.New("delimited file malformed")

	// ErrUnknownEncoding is returned when a text encoding name cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown text encoding")
)

// ValidationError names the first section and field missing a required value.
type ValidationError struct {
	Section Section
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s settings: %s", e.Section, e.Message)
}

// LoadError describes a failure to read a required part of a workbook.
type LoadError struct {
	Sheet  string
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("sheet %q column %q: %v", e.Sheet, e.Column, e.Err)
	}
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RowWidthError reports a hydrology row whose width differs from the header.
type RowWidthError struct {
	Row  int
	Got  int
	Want int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("row %d has %d cells, header has %d", e.Row, e.Got, e.Want)
}
