package command

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"ledgerly/internal/core"
	"ledgerly/internal/services"
)

type listCmd struct {
	app      *App
	typ      string
	category string
	limit    int
	asJSON   bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions, newest first" }
func (*listCmd) Usage() string {
	return `ledgerctl list [-type <type>] [-category <name>] [-n <count>] [-json]

  Prints the stored transactions in ledger order.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Only show this transaction type (income, expense, saving, investment).")
	f.StringVar(&c.category, "category", "", "Only show this category.")
	f.IntVar(&c.limit, "n", 0, "Show at most n transactions. 0 shows all.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *listCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.typ != "" && !core.TransactionType(c.typ).Valid() {
		return c.app.fail("unknown type %q", c.typ)
	}

	var txs []core.Transaction
	for _, t := range c.app.Repo.Transactions() {
		if c.typ != "" && string(t.Type) != c.typ {
			continue
		}
		if c.category != "" && !strings.EqualFold(t.Category, c.category) {
			continue
		}
		txs = append(txs, t)
		if c.limit > 0 && len(txs) == c.limit {
			break
		}
	}

	if c.asJSON {
		if txs == nil {
			txs = []core.Transaction{}
		}
		enc := json.NewEncoder(c.app.out())
		enc.SetIndent("", "  ")
		if err := enc.Encode(txs); err != nil {
			return c.app.fail("%v", err)
		}
		return subcommands.ExitSuccess
	}

	tw := tabwriter.NewWriter(c.app.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%s\n",
			t.ID, t.Date.Format("2006-01-02"), t.Type, t.Category, t.Amount, t.Currency, t.Description)
	}
	if err := tw.Flush(); err != nil {
		return c.app.fail("%v", err)
	}
	return subcommands.ExitSuccess
}

type addCmd struct {
	app         *App
	date        string
	description string
	amount      string
	typ         string
	category    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a transaction" }
func (*addCmd) Usage() string {
	return `ledgerctl add -desc <text> -amount <n> [-type <type>] [-category <name>] [-date <YYYY-MM-DD>]

  Validates and records a transaction, printing its id.

Usage Examples:
$ ledgerctl add -desc "Monthly rent" -amount 1200 -type expense -category Housing
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Transaction date. Defaults to today.")
	f.StringVar(&c.description, "desc", "", "Description, 2 to 200 characters.")
	f.StringVar(&c.amount, "amount", "", "Positive amount.")
	f.StringVar(&c.typ, "type", string(core.Expense), "income, expense, saving or investment.")
	f.StringVar(&c.category, "category", core.OtherCategory, "Category name.")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date := core.DateOf(c.app.now().UTC())
	if c.date != "" {
		d, err := core.ParseDate(c.date)
		if err != nil {
			return c.app.fail("invalid date %q", c.date)
		}
		date = d
	}
	amount, err := core.ParseMoney(c.amount)
	if err != nil {
		return c.app.fail("invalid amount %q", c.amount)
	}

	svc := services.NewTransactionService(c.app.Repo, c.app.logger())
	tx, err := svc.Create(ctx, core.NewTransaction{
		Date:        date,
		Description: c.description,
		Amount:      amount,
		Type:        core.TransactionType(c.typ),
		Category:    c.category,
	})
	if err != nil {
		return c.app.fail("%v", err)
	}
	fmt.Fprintln(c.app.out(), tx.ID)
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	app *App
}

func (*deleteCmd) Name() string           { return "delete" }
func (*deleteCmd) Synopsis() string       { return "delete transactions by id" }
func (*deleteCmd) Usage() string          { return "ledgerctl delete <id>...\n" }
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(c.app.err(), c.Usage())
		return subcommands.ExitUsageError
	}
	svc := services.NewTransactionService(c.app.Repo, c.app.logger())
	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		if err := svc.Remove(ctx, id); err != nil {
			status = c.app.fail("%v", err)
			continue
		}
		fmt.Fprintf(c.app.out(), "deleted %s\n", id)
	}
	return status
}
