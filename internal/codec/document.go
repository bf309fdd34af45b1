package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"ledgerly/internal/core"

	"github.com/PaesslerAG/jsonpath"
)

// sampleSize is how many leading transactions are shape-checked.
const sampleSize = 5

var requiredFields = []string{"id", "date", "description", "amount", "type"}

// Document is the structured backup form.
//
// Categories is nil when a decoded document carried no categories array,
// and non-nil (possibly empty) when it did.
type Document struct {
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
}

// EncodeDocument pretty-prints {transactions, categories}. Characters
// such as & and < are written as-is so category names stay readable.
func EncodeDocument(txs []core.Transaction, cats []core.Category) ([]byte, error) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	if cats == nil {
		cats = []core.Category{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Transactions: txs, Categories: cats}); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeDocument validates and decodes a structured document.
func DecodeDocument(data []byte) (Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, &DecodeError{Format: FormatJSON, Err: err}
	}
	if _, ok := raw.(map[string]any); !ok {
		return Document{}, &ShapeValidationError{Index: -1, Reason: "document must be an object"}
	}

	v, err := jsonpath.Get("$.transactions", raw)
	if err != nil {
		return Document{}, &ShapeValidationError{Index: -1, Reason: "the file must contain a 'transactions' array"}
	}
	entries, ok := v.([]any)
	if !ok {
		return Document{}, &ShapeValidationError{Index: -1, Reason: "the file must contain a 'transactions' array"}
	}
	for i, entry := range entries {
		if i == sampleSize {
			break
		}
		obj, ok := entry.(map[string]any)
		if !ok {
			return Document{}, &ShapeValidationError{Index: i, Reason: "not an object"}
		}
		for _, field := range requiredFields {
			if _, ok := obj[field]; !ok {
				return Document{}, &ShapeValidationError{Index: i, Reason: fmt.Sprintf("missing field %q", field)}
			}
		}
	}

	var wire struct {
		Transactions []core.Transaction `json:"transactions"`
		Categories   json.RawMessage    `json:"categories"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Document{}, &ShapeValidationError{Index: -1, Reason: err.Error()}
	}
	doc := Document{Transactions: wire.Transactions}
	if doc.Transactions == nil {
		doc.Transactions = []core.Transaction{}
	}

	// Only an array replaces categories; anything else counts as absent.
	if c, err := jsonpath.Get("$.categories", raw); err == nil {
		if _, isArray := c.([]any); isArray {
			doc.Categories = []core.Category{}
			if err := json.Unmarshal(wire.Categories, &doc.Categories); err != nil {
				return Document{}, &ShapeValidationError{Index: -1, Reason: "categories: " + err.Error()}
			}
		}
	}
	return doc, nil
}
