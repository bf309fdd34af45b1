package metrics

import (
	"slices"

	"ledgerly/internal/core"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one slice of the spending chart.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// BalancePoint is the running balance right after one transaction.
type BalancePoint struct {
	Date    core.Date
	Balance decimal.Decimal
}

// SpendingByCategory sums spent amounts per category in first-seen order.
func (p Policy) SpendingByCategory(txs []core.Transaction) []CategoryTotal {
	var out []CategoryTotal
	pos := make(map[string]int)
	for _, t := range txs {
		if !p.IsSpent(t.Type) {
			continue
		}
		i, ok := pos[t.Category]
		if !ok {
			i = len(out)
			pos[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount.Decimal)
	}
	return out
}

// BalanceOverTime orders txs by date (ties keep list order) and tracks
// the running balance: income adds, spent types subtract.
func (p Policy) BalanceOverTime(txs []core.Transaction) []BalancePoint {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b core.Transaction) int {
		return a.Date.Compare(b.Date.Time)
	})

	out := make([]BalancePoint, 0, len(sorted))
	running := decimal.Zero
	for _, t := range sorted {
		switch {
		case t.Type == core.Income:
			running = running.Add(t.Amount.Decimal)
		case p.IsSpent(t.Type):
			running = running.Sub(t.Amount.Decimal)
		default:
			continue
		}
		out = append(out, BalancePoint{Date: t.Date, Balance: running})
	}
	return out
}

func SpendingByCategory(txs []core.Transaction) []CategoryTotal {
	return DefaultPolicy.SpendingByCategory(txs)
}

func BalanceOverTime(txs []core.Transaction) []BalancePoint {
	return DefaultPolicy.BalanceOverTime(txs)
}
