// Package parsererror defines the typed errors surfaced by statement
// parsing and extraction.
package parsererror

import "fmt"

// ParseError represents a failure while parsing a specific field.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnrecognizedFormatError indicates that no supported bank signature was
// found in a document's text. Callers decide whether this is fatal; the
// assembler treats it as best-effort and emits a record with null meta.
type UnrecognizedFormatError struct {
	Source string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("no supported bank signature found in '%s'", e.Source)
}

// DataExtractionError indicates a required value could not be extracted
// from a recognized document.
type DataExtractionError struct {
	Source    string
	FieldName string
	Reason    string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in '%s' for field '%s': %s",
		e.Source, e.FieldName, e.Reason)
}
