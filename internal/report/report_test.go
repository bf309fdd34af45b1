package report

import (
	"strings"
	"testing"
	"time"

	"ledgerly/internal/core"
	"ledgerly/internal/metrics"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var generated = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func sample() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Date: core.NewDate(2025, 6, 3), Description: "Paycheck", Amount: core.MustMoney("2500"), Type: core.Income, Category: "Salary", Currency: "USD"},
		{ID: "2", Date: core.NewDate(2025, 6, 4), Description: "Rent | June", Amount: core.MustMoney("1200.5"), Type: core.Expense, Category: "Housing", Currency: "USD"},
		{ID: "3", Date: core.NewDate(2025, 6, 5), Description: "Index fund", Amount: core.MustMoney("300"), Type: core.Investment, Category: "Investments", Currency: "EUR"},
	}
}

func TestBuildTotals(t *testing.T) {
	tests := []struct {
		name     string
		policy   metrics.Policy
		expenses string
		net      string
	}{
		{"expense only", ExpensePolicy, "1200.5", "1299.5"},
		{"default policy", metrics.DefaultPolicy, "1500.5", "999.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Build(sample(), tt.policy, "USD", generated)
			if !r.Income.Equal(decimal.RequireFromString("2500")) {
				t.Errorf("income = %s", r.Income)
			}
			if !r.Expenses.Equal(decimal.RequireFromString(tt.expenses)) {
				t.Errorf("expenses = %s, want %s", r.Expenses, tt.expenses)
			}
			if !r.NetBalance.Equal(decimal.RequireFromString(tt.net)) {
				t.Errorf("net = %s, want %s", r.NetBalance, tt.net)
			}
		})
	}
}

func TestBuildRows(t *testing.T) {
	r := Build(sample(), ExpensePolicy, "USD", generated)
	want := []Row{
		{Date: "2025 06 03", Description: "Paycheck", Category: "Salary", Type: "income", Amount: "$2,500.00"},
		{Date: "2025 06 04", Description: "Rent | June", Category: "Housing", Type: "expense", Amount: "$1,200.50"},
		{Date: "2025 06 05", Description: "Index fund", Category: "Investments", Type: "investment", Amount: "€300.00"},
	}
	if diff := cmp.Diff(want, r.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"12.5", "USD", "$12.50"},
		{"-40", "USD", "-$40.00"},
		{"1000", "JPY", "¥1,000"},
		{"7.25", "", "$7.25"},
		{"3.1", "XYZ", "3.10 XYZ"},
	}
	for _, tt := range tests {
		if got := FormatAmount(decimal.RequireFromString(tt.amount), tt.code); got != tt.want {
			t.Errorf("FormatAmount(%s, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestMarkdown(t *testing.T) {
	md := Build(sample(), ExpensePolicy, "USD", generated).Markdown()
	for _, want := range []string{
		"# Financial Report",
		"Report Generated: 2025-06-15",
		"- Total Income: $2,500.00",
		"- Total Expenses: $1,200.50",
		"- Net Balance: $1,299.50",
		"| Date | Description | Category | Type | Amount |",
		`| 2025 06 04 | Rent \| June | Housing | expense | $1,200.50 |`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}

	empty := Build(nil, ExpensePolicy, "USD", generated).Markdown()
	if !strings.Contains(empty, "No transactions recorded.") || strings.Contains(empty, "| Date |") {
		t.Errorf("unexpected empty report:\n%s", empty)
	}
}

func TestHTML(t *testing.T) {
	out, err := Build(sample(), ExpensePolicy, "USD", generated).HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	html := string(out)
	for _, want := range []string{"<h1>Financial Report</h1>", "<table>", "<th>Description</th>", "<td>Paycheck</td>"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestPage(t *testing.T) {
	out, err := Build(sample(), ExpensePolicy, "USD", generated).Page()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "<!DOCTYPE html>") || !strings.Contains(string(out), "<title>Financial Report</title>") {
		t.Errorf("unexpected page:\n%s", out)
	}
}

func TestTerminal(t *testing.T) {
	out, err := Build(sample(), ExpensePolicy, "USD", generated).Terminal(100, "notty")
	if err != nil {
		t.Fatalf("Terminal() error = %v", err)
	}
	for _, want := range []string{"Financial Report", "Paycheck", "Net Balance"} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
}
