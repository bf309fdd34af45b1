// Package codec encodes the ledger to its two interchange formats and
// decodes imported files back into typed values.
//
// The structured document is the JSON backup/restore form of the whole
// ledger. The delimited form is a comma-separated table of transactions
// used for bulk data entry. Decoders validate at the boundary: callers only
// ever see fully typed values or one of the errors in errors.go.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"ledgerly/internal/core"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromFilename infers the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, name)
	}
	return ParseFormat(ext)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Filename is the default download name for an export.
func (f Format) Filename() string {
	if f == FormatCSV {
		return "transactions.csv"
	}
	return "ledgerly_backup.json"
}

// Encode serializes the ledger in format f. An empty transaction list is
// rejected with ErrNothingToExport for both formats.
func Encode(f Format, txs []core.Transaction, cats []core.Category) ([]byte, error) {
	if len(txs) == 0 {
		return nil, ErrNothingToExport
	}
	switch f {
	case FormatJSON:
		return EncodeDocument(txs, cats)
	case FormatCSV:
		return EncodeDelimited(txs)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
