// Package report renders the printable financial report: a summary of
// totals followed by a table of every transaction.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"ledgerly/internal/core"
	"ledgerly/internal/metrics"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ExpensePolicy counts only expense entries against income, which is how
// the printed report has always summarised the ledger.
var ExpensePolicy = metrics.Policy{SpentTypes: []core.TransactionType{core.Expense}}

const (
	Title          = "Financial Report"
	DefaultName    = "financial_report"
	rowDateLayout  = "2006 01 02"
	headDateLayout = "2006-01-02"
)

type Row struct {
	Date        string
	Description string
	Category    string
	Type        string
	Amount      string
}

// Report is a rendered-ready view of a ledger.
type Report struct {
	GeneratedAt time.Time
	Currency    string
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	NetBalance  decimal.Decimal
	Rows        []Row
}

// Build totals txs under policy and formats one row per transaction in
// list order. Totals are shown in currency.
func Build(txs []core.Transaction, policy metrics.Policy, currency string, now time.Time) Report {
	snap := policy.Compute(txs, metrics.Window{})
	r := Report{
		GeneratedAt: now,
		Currency:    currency,
		Income:      snap.Income,
		Expenses:    snap.Expenses,
		NetBalance:  snap.Balance,
		Rows:        make([]Row, 0, len(txs)),
	}
	for _, t := range txs {
		r.Rows = append(r.Rows, Row{
			Date:        t.Date.UTC().Format(rowDateLayout),
			Description: t.Description,
			Category:    t.Category,
			Type:        t.Type.String(),
			Amount:      FormatAmount(t.Amount.Decimal, t.Currency),
		})
	}
	return r
}

// FormatAmount renders amount with the symbol and minor units of the
// currency code. Unknown codes fall back to the plain number and the code.
func FormatAmount(amount decimal.Decimal, code string) string {
	if code == "" {
		code = core.DefaultCurrency
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}

// Markdown is the canonical rendering; HTML and Terminal derive from it.
func (r Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "Report Generated: %s\n\n", r.GeneratedAt.Format(headDateLayout))
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total Income: %s\n", FormatAmount(r.Income, r.Currency))
	fmt.Fprintf(&b, "- Total Expenses: %s\n", FormatAmount(r.Expenses, r.Currency))
	fmt.Fprintf(&b, "- Net Balance: %s\n\n", FormatAmount(r.NetBalance, r.Currency))
	b.WriteString("## Transactions\n\n")
	if len(r.Rows) == 0 {
		b.WriteString("No transactions recorded.\n")
		return b.String()
	}
	b.WriteString("| Date | Description | Category | Type | Amount |\n")
	b.WriteString("| --- | --- | --- | --- | ---: |\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			cell(row.Date), cell(row.Description), cell(row.Category), cell(row.Type), cell(row.Amount))
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the report as an HTML fragment.
func (r Report) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(r.Markdown()), &buf); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}
	return buf.Bytes(), nil
}

// Page wraps HTML in a minimal standalone document.
func (r Report) Page() ([]byte, error) {
	body, err := r.HTML()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	buf.WriteString(Title)
	buf.WriteString("</title></head><body>\n")
	buf.Write(body)
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}

// Terminal renders the report for a terminal of the given width. Style is
// a glamour standard style name such as "dark", "light" or "notty".
func (r Report) Terminal(width int, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := tr.Render(r.Markdown())
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
