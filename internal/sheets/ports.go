// Package sheets defines the outbound ports for mirroring the ledger into
// a spreadsheet. Adapters live in the google and memory subpackages.
package sheets

import (
	"context"

	"ledgerly/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionMirror overwrites the mirrored table with txs, header
	// first, in list order.
	TransactionMirror interface {
		ReplaceTransactions(ctx context.Context, txs []core.Transaction) error
	}

	// CategoryMirror overwrites the mirrored category table.
	CategoryMirror interface {
		ReplaceCategories(ctx context.Context, cats []core.Category) error
	}
)

// CategoryColumns is the header row of the mirrored category table.
var CategoryColumns = []string{"id", "name", "icon", "color"}

// CategoryRows returns the header plus one row per category.
func CategoryRows(cats []core.Category) [][]string {
	rows := make([][]string, 0, len(cats)+1)
	rows = append(rows, append([]string(nil), CategoryColumns...))
	for _, c := range cats {
		rows = append(rows, []string{c.ID, c.Name, c.Icon, c.Color})
	}
	return rows
}
