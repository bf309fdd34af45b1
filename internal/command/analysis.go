package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"ledgerly/internal/insight"
	"ledgerly/internal/metrics"
	"ledgerly/internal/report"
)

type metricsCmd struct {
	app    *App
	period time.Duration
	spent  string
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "show income, expenses, balance and savings rate" }
func (*metricsCmd) Usage() string {
	return `ledgerctl metrics [-period <duration>] [-spent <types>]

  Compares the trailing period with the one before it, the way the
  dashboard cards do.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.period, "period", 0, "Window length. Defaults to METRICS_PERIOD.")
	f.StringVar(&c.spent, "spent", "", "Comma separated types counted as spent. Defaults to METRICS_SPENT_TYPES.")
}

func (c *metricsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	policy := c.app.Policy
	if c.spent != "" {
		p, err := metrics.ParsePolicy(c.spent)
		if err != nil {
			return c.app.fail("%v", err)
		}
		policy = p
	}
	if len(policy.SpentTypes) == 0 {
		policy = metrics.DefaultPolicy
	}
	period := c.period
	if period <= 0 {
		period = c.app.Period
	}
	if period <= 0 {
		period = 30 * 24 * time.Hour
	}

	current, previous := metrics.TrailingWindows(c.app.now(), period)
	cmp := policy.Compare(c.app.Repo.Transactions(), current, previous)
	currency := c.app.Repo.Currency()

	tw := tabwriter.NewWriter(c.app.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCURRENT\tPREVIOUS\tCHANGE")
	row := func(name string, cur, prev, change decimal.Decimal, unit string) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%s\n", name,
			report.FormatAmount(cur, currency), report.FormatAmount(prev, currency),
			signed(change), unit)
	}
	row("Income", cmp.Current.Income, cmp.Previous.Income, cmp.IncomeChange, "%")
	row("Expenses", cmp.Current.Expenses, cmp.Previous.Expenses, cmp.ExpensesChange, "%")
	row("Balance", cmp.Current.Balance, cmp.Previous.Balance, cmp.BalanceChange, "%")
	fmt.Fprintf(tw, "Savings rate\t%s%%\t%s%%\t%s pts\n",
		cmp.Current.SavingsRate.StringFixed(1), cmp.Previous.SavingsRate.StringFixed(1),
		signed(cmp.SavingsRateChange))
	if err := tw.Flush(); err != nil {
		return c.app.fail("%v", err)
	}
	fmt.Fprintf(c.app.out(), "\nperiod %s, spent types: %s\n", period, policy)
	return subcommands.ExitSuccess
}

func signed(d decimal.Decimal) string {
	s := d.StringFixed(1)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

type reportCmd struct {
	app      *App
	width    int
	style    string
	markdown bool
	html     bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the financial report" }
func (*reportCmd) Usage() string {
	return `ledgerctl report [-markdown | -html] [-width <n>] [-style <name>]

  Renders the financial report for the terminal, or as raw Markdown or HTML.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.width, "width", 100, "Word wrap width for terminal output.")
	f.StringVar(&c.style, "style", "dark", "Terminal style: dark, light, notty, ascii.")
	f.BoolVar(&c.markdown, "markdown", false, "Print Markdown.")
	f.BoolVar(&c.html, "html", false, "Print a standalone HTML page.")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rep := report.Build(c.app.Repo.Transactions(), report.ExpensePolicy, c.app.Repo.Currency(), c.app.now())

	var (
		out string
		err error
	)
	switch {
	case c.markdown:
		out = rep.Markdown()
	case c.html:
		var page []byte
		page, err = rep.Page()
		out = string(page)
	default:
		out, err = rep.Terminal(c.width, c.style)
	}
	if err != nil {
		return c.app.fail("%v", err)
	}
	fmt.Fprint(c.app.out(), out)
	return subcommands.ExitSuccess
}

type insightsCmd struct {
	app *App
}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "ask the configured model for spending insights" }
func (*insightsCmd) Usage() string {
	return `ledgerctl insights

  Sends every transaction to the provider named by INSIGHT_PROVIDER and
  prints a summary, observations and suggestions.
`
}

func (*insightsCmd) SetFlags(*flag.FlagSet) {}

func (c *insightsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, err := c.app.Insights.Request(ctx, c.app.Repo.Transactions())
	switch {
	case errors.Is(err, insight.ErrEmptyInput):
		return c.app.fail("add some transactions first")
	case errors.Is(err, insight.ErrNotConfigured):
		return c.app.fail("set INSIGHT_PROVIDER to gemini or openai")
	case err != nil:
		return c.app.fail("%v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nObservations:\n", res.Summary)
	for _, o := range res.Observations {
		fmt.Fprintf(&b, "  - %s\n", o)
	}
	b.WriteString("\nSuggestions:\n")
	for _, s := range res.Suggestions {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	fmt.Fprint(c.app.out(), b.String())
	return subcommands.ExitSuccess
}
