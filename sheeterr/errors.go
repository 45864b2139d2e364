// Package sheeterr declares the sentinel errors shared by the formula,
// workbook, and persistence layers so callers can match failures with
// errors.Is regardless of which layer produced them.
package sheeterr

import "errors"

var (
	// ErrInvalidName is returned when a cell name fails the name policy.
	ErrInvalidName = errors.New("invalid cell name")

	// ErrFormulaFormat is returned when formula text is syntactically
	// malformed or references a variable the name policy rejects.
	ErrFormulaFormat = errors.New("malformed formula")

	// ErrCircularReference is returned when a write would introduce a
	// cycle into the dependency graph. The write is rolled back before
	// this error reaches the caller.
	ErrCircularReference = errors.New("circular reference")

	// ErrSpreadsheetReadWrite is returned for any I/O failure, parse
	// failure, or version mismatch encountered while saving or loading
	// a workbook.
	ErrSpreadsheetReadWrite = errors.New("spreadsheet read/write error")
)
