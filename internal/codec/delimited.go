package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ledgerly/internal/core"
)

// Columns is the delimited header, in Transaction field order.
var Columns = []string{"id", "date", "description", "amount", "type", "category", "currency"}

// PlaceholderDescription replaces an empty description on import.
const PlaceholderDescription = "No Description"

// Rows returns the header followed by one record per transaction.
func Rows(txs []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, append([]string(nil), Columns...))
	for _, t := range txs {
		rows = append(rows, []string{
			t.ID,
			t.Date.String(),
			t.Description,
			t.Amount.String(),
			t.Type.String(),
			t.Category,
			t.Currency,
		})
	}
	return rows
}

// EncodeDelimited joins each row with commas and rows with newlines.
// Values are not quoted: a value containing a comma or newline will not
// survive a round trip through DecodeDelimited.
func EncodeDelimited(txs []core.Transaction) ([]byte, error) {
	if len(txs) == 0 {
		return nil, ErrNothingToExport
	}
	rows := Rows(txs)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, ",")
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// Defaults supplies the values used for missing or unparseable cells.
type Defaults struct {
	Currency string
	Now      time.Time
	NewID    func() string
}

// DecodeDelimited rebuilds transactions from a table with a header row.
// Missing or invalid cells fall back to defaults; a structurally broken row
// aborts the whole decode.
func DecodeDelimited(data []byte, d Defaults) ([]core.Transaction, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyImport
	}
	if err != nil {
		return nil, &DecodeError{Format: FormatCSV, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	if _, ok := index["description"]; !ok {
		return nil, &ShapeValidationError{Index: -1, Reason: "header has no 'description' column"}
	}

	var out []core.Transaction
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &RowParseError{Line: line, Err: err}
		}
		line, _ := r.FieldPos(0)
		if len(record) > len(header) {
			return nil, &RowParseError{
				Line: line,
				Err:  fmt.Errorf("%d fields, header has %d", len(record), len(header)),
			}
		}
		out = append(out, buildRow(record, index, d))
	}

	if len(out) == 0 {
		return nil, ErrEmptyImport
	}
	return out, nil
}

func buildRow(record []string, index map[string]int, d Defaults) core.Transaction {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	t := core.Transaction{
		ID:          strings.TrimSpace(cell("id")),
		Description: cell("description"),
		Type:        core.TransactionType(strings.TrimSpace(cell("type"))),
		Category:    strings.TrimSpace(cell("category")),
		Currency:    strings.TrimSpace(cell("currency")),
	}

	if t.ID == "" && d.NewID != nil {
		t.ID = d.NewID()
	}
	if date, err := core.ParseDate(cell("date")); err == nil {
		t.Date = date
	} else {
		t.Date = core.DateOf(d.Now.UTC())
	}
	if strings.TrimSpace(t.Description) == "" {
		t.Description = PlaceholderDescription
	}
	if amount, err := core.ParseMoney(cell("amount")); err == nil {
		t.Amount = amount
	} else {
		t.Amount = core.MoneyFromInt(0)
	}
	if !t.Type.Valid() {
		t.Type = core.Expense
	}
	if t.Category == "" {
		t.Category = core.OtherCategory
	}
	if t.Currency == "" {
		t.Currency = d.Currency
	}
	if t.Currency == "" {
		t.Currency = core.DefaultCurrency
	}
	return t
}
