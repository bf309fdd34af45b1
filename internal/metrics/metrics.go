// Package metrics derives the dashboard figures from a transaction list.
//
// Every function is pure: callers supply the transactions, the windows and
// the spending policy, and nothing here reads the clock.
package metrics

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"ledgerly/internal/core"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Window selects transactions with Start <= date < End. A zero bound is
// unbounded on that side.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

// TrailingWindows returns the window covering the last period (open ended,
// so entries dated after now still count) and the period before it.
func TrailingWindows(now time.Time, period time.Duration) (current, previous Window) {
	start := now.Add(-period)
	return Window{Start: start}, Window{Start: start.Add(-period), End: start}
}

// Policy decides which transaction types count as money spent.
type Policy struct {
	SpentTypes []core.TransactionType
}

// DefaultPolicy treats saving and investment as spent alongside expenses.
var DefaultPolicy = Policy{SpentTypes: []core.TransactionType{core.Expense, core.Saving, core.Investment}}

// ParsePolicy reads a comma separated list of spent types.
func ParsePolicy(s string) (Policy, error) {
	var p Policy
	for _, part := range strings.Split(s, ",") {
		t := core.TransactionType(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if !t.Valid() || t == core.Income {
			return Policy{}, fmt.Errorf("invalid spent type %q", t)
		}
		if !slices.Contains(p.SpentTypes, t) {
			p.SpentTypes = append(p.SpentTypes, t)
		}
	}
	if len(p.SpentTypes) == 0 {
		return Policy{}, fmt.Errorf("no spent types in %q", s)
	}
	return p, nil
}

func (p Policy) IsSpent(t core.TransactionType) bool {
	return slices.Contains(p.SpentTypes, t)
}

func (p Policy) String() string {
	parts := make([]string, len(p.SpentTypes))
	for i, t := range p.SpentTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Snapshot holds the aggregates for one window.
type Snapshot struct {
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Balance     decimal.Decimal
	SavingsRate decimal.Decimal
}

// Compute aggregates txs inside w.
func (p Policy) Compute(txs []core.Transaction, w Window) Snapshot {
	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if !w.Contains(t.Date.Time) {
			continue
		}
		switch {
		case t.Type == core.Income:
			income = income.Add(t.Amount.Decimal)
		case p.IsSpent(t.Type):
			expenses = expenses.Add(t.Amount.Decimal)
		}
	}
	s := Snapshot{Income: income, Expenses: expenses, Balance: income.Sub(expenses), SavingsRate: decimal.Zero}
	if income.IsPositive() {
		s.SavingsRate = s.Balance.Div(income).Mul(hundred)
	}
	return s
}

// Compute aggregates with DefaultPolicy.
func Compute(txs []core.Transaction, w Window) Snapshot {
	return DefaultPolicy.Compute(txs, w)
}

// Delta is the percentage change from previous to current. A zero previous
// yields 100 when current is positive, else 0.
func Delta(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Comparison is the current-vs-previous view behind the KPI cards.
type Comparison struct {
	Current  Snapshot
	Previous Snapshot

	IncomeChange   decimal.Decimal
	ExpensesChange decimal.Decimal
	BalanceChange  decimal.Decimal
	// SavingsRateChange is a difference in percentage points, not a ratio.
	SavingsRateChange decimal.Decimal
}

func (p Policy) Compare(txs []core.Transaction, current, previous Window) Comparison {
	cur := p.Compute(txs, current)
	prev := p.Compute(txs, previous)
	return Comparison{
		Current:           cur,
		Previous:          prev,
		IncomeChange:      Delta(cur.Income, prev.Income),
		ExpensesChange:    Delta(cur.Expenses, prev.Expenses),
		BalanceChange:     Delta(cur.Balance, prev.Balance),
		SavingsRateChange: cur.SavingsRate.Sub(prev.SavingsRate),
	}
}

func Compare(txs []core.Transaction, current, previous Window) Comparison {
	return DefaultPolicy.Compare(txs, current, previous)
}
