package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ledgerly/internal/codec"
	"ledgerly/internal/core"
)

// ImportMode selects whether an import replaces or extends the ledger.
type ImportMode string

const (
	ModeReplace ImportMode = "replace"
	ModeAppend  ImportMode = "append"
)

var ErrUnknownImportMode = errors.New("unknown import mode")

// ParseImportMode accepts "replace", "append" or "" (meaning default).
func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeReplace, ModeAppend, "":
		return m, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownImportMode, s)
	}
}

// DefaultImportMode keeps the historical behavior: a structured document is
// a full restore, a delimited file is incremental data entry.
func DefaultImportMode(f codec.Format) ImportMode {
	if f == codec.FormatJSON {
		return ModeReplace
	}
	return ModeAppend
}

// ImportResult summarizes a successful import.
type ImportResult struct {
	Format             codec.Format `json:"format"`
	Mode               ImportMode   `json:"mode"`
	Imported           int          `json:"imported"`
	Total              int          `json:"total"`
	CategoriesReplaced bool         `json:"categories_replaced"`
}

// Import decodes data in format f and applies it. An empty mode uses
// DefaultImportMode. On any error the ledger is left untouched.
func (r *Repository) Import(ctx context.Context, f codec.Format, data []byte, mode ImportMode) (ImportResult, error) {
	switch f {
	case codec.FormatJSON:
		return r.ImportDocument(ctx, data, mode)
	case codec.FormatCSV:
		return r.ImportDelimited(ctx, data, mode)
	default:
		return ImportResult{}, fmt.Errorf("%w: %q", codec.ErrUnknownFormat, f)
	}
}

// ImportDocument applies a structured backup. In replace mode categories
// are replaced when the document carries a categories array; in append mode
// they are merged by id.
func (r *Repository) ImportDocument(ctx context.Context, data []byte, mode ImportMode) (ImportResult, error) {
	if mode == "" {
		mode = DefaultImportMode(codec.FormatJSON)
	}
	doc, err := codec.DecodeDocument(data)
	if err != nil {
		r.logger.WarnContext(ctx, "Document import rejected", "error", err)
		return ImportResult{}, err
	}
	return r.apply(ctx, codec.FormatJSON, mode, doc.Transactions, doc.Categories), nil
}

// ImportDelimited applies a delimited table. Rows are rebuilt with defaults
// for missing cells; one broken row rejects the whole file.
func (r *Repository) ImportDelimited(ctx context.Context, data []byte, mode ImportMode) (ImportResult, error) {
	if mode == "" {
		mode = DefaultImportMode(codec.FormatCSV)
	}
	txs, err := codec.DecodeDelimited(data, codec.Defaults{
		Currency: r.currency,
		Now:      r.now(),
		NewID:    r.newID,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "Delimited import rejected", "error", err)
		return ImportResult{}, err
	}
	return r.apply(ctx, codec.FormatCSV, mode, txs, nil), nil
}

func (r *Repository) apply(ctx context.Context, f codec.Format, mode ImportMode, incoming []core.Transaction, cats []core.Category) ImportResult {
	r.mu.Lock()

	var next []core.Transaction
	seen := make(map[string]bool, len(incoming))
	if mode == ModeAppend {
		current := r.transactions.Get()
		next = make([]core.Transaction, 0, len(current)+len(incoming))
		next = append(next, current...)
		for _, t := range current {
			seen[t.ID] = true
		}
	} else {
		next = make([]core.Transaction, 0, len(incoming))
	}
	for _, t := range incoming {
		if t.ID == "" || seen[t.ID] {
			t.ID = r.newID()
		}
		if t.Currency == "" {
			t.Currency = r.currency
		}
		seen[t.ID] = true
		next = append(next, t)
	}
	r.transactions.Set(ctx, next)

	replaced := false
	if cats != nil {
		if mode == ModeAppend {
			cats = mergeCategories(r.categories.Get(), cats)
		}
		r.categories.Set(ctx, cats)
		replaced = true
	}
	ev := r.bumpLocked(core.OpImported, "", len(incoming))
	r.mu.Unlock()

	res := ImportResult{
		Format:             f,
		Mode:               mode,
		Imported:           len(incoming),
		Total:              len(next),
		CategoriesReplaced: replaced,
	}
	r.logger.InfoContext(ctx, "Import applied",
		"format", f, "mode", mode, "imported", res.Imported, "total", res.Total)
	r.notify(ctx, ev)
	return res
}

// mergeCategories keeps existing entries, overwriting by id, and appends
// categories it has not seen.
func mergeCategories(existing, incoming []core.Category) []core.Category {
	out := make([]core.Category, 0, len(existing)+len(incoming))
	out = append(out, existing...)
	pos := make(map[string]int, len(out))
	for i, c := range out {
		pos[c.ID] = i
	}
	for _, c := range incoming {
		if i, ok := pos[c.ID]; ok {
			out[i] = c
			continue
		}
		pos[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}
