// Package command implements the ledgerctl subcommands.
package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/subcommands"

	"ledgerly/internal/insight"
	"ledgerly/internal/ledger"
	"ledgerly/internal/metrics"
)

// App is the state shared by every subcommand.
type App struct {
	Repo     *ledger.Repository
	Insights *insight.Service
	Policy   metrics.Policy
	Period   time.Duration
	Logger   *slog.Logger

	Out io.Writer
	Err io.Writer
	Now func() time.Time
}

func (a *App) out() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

func (a *App) err() io.Writer {
	if a.Err == nil {
		return os.Stderr
	}
	return a.Err
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// fail prints err and returns the failure status.
func (a *App) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.err(), "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// Register adds every subcommand to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&listCmd{app: app}, "transactions")
	c.Register(&addCmd{app: app}, "transactions")
	c.Register(&deleteCmd{app: app}, "transactions")

	c.Register(&importCmd{app: app}, "data")
	c.Register(&exportCmd{app: app}, "data")

	c.Register(&metricsCmd{app: app}, "analysis")
	c.Register(&reportCmd{app: app}, "analysis")
	c.Register(&insightsCmd{app: app}, "analysis")
}
