package codec

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat   = errors.New("unknown format")
	ErrEmptyImport     = errors.New("import contains no transactions")
	ErrNothingToExport = errors.New("there are no transactions to export")
)

// DecodeError reports input that could not be parsed at all.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not parse %s input: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ShapeValidationError reports input that parsed but lacks the expected
// structure. Index is the offending transaction, or -1 for the document
// as a whole.
type ShapeValidationError struct {
	Index  int
	Reason string
}

func (e *ShapeValidationError) Error() string {
	if e.Index < 0 {
		return "invalid format: " + e.Reason
	}
	return fmt.Sprintf("invalid format: transaction %d: %s", e.Index, e.Reason)
}

// RowParseError reports a delimited row that could not be rebuilt. Line is
// 1-based and counts the header.
type RowParseError struct {
	Line int
	Err  error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }
