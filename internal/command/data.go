package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"ledgerly/internal/codec"
	"ledgerly/internal/ledger"
)

type importCmd struct {
	app    *App
	format string
	mode   string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a JSON backup or CSV file" }
func (*importCmd) Usage() string {
	return `ledgerctl import [-format json|csv] [-mode replace|append] <file>

  Reads a file and applies it to the ledger. The format defaults to the file
  extension. A JSON backup replaces the ledger and a CSV file is appended,
  unless -mode says otherwise. Use "-" to read standard input (requires -format).
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Input format: json or csv. Defaults to the file extension.")
	f.StringVar(&c.mode, "mode", "", "replace or append. Defaults by format.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(c.app.err(), c.Usage())
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	var (
		format codec.Format
		err    error
	)
	switch {
	case c.format != "":
		format, err = codec.ParseFormat(c.format)
	case path == "-":
		err = fmt.Errorf("-format is required when reading standard input")
	default:
		format, err = codec.FormatFromFilename(path)
	}
	if err != nil {
		return c.app.fail("%v", err)
	}
	mode, err := ledger.ParseImportMode(c.mode)
	if err != nil {
		return c.app.fail("%v", err)
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return c.app.fail("could not read %s: %v", path, err)
	}

	res, err := c.app.Repo.Import(ctx, format, data, mode)
	if err != nil {
		return c.app.fail("import failed: %v", err)
	}
	fmt.Fprintf(c.app.out(), "imported %d transactions from %s (%s), ledger now holds %d\n",
		res.Imported, format, res.Mode, res.Total)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	app    *App
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger as JSON or CSV" }
func (*exportCmd) Usage() string {
	return `ledgerctl export [-format json|csv] [-o <file>]

  Writes the ledger to standard output or to a file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(codec.FormatJSON), "Output format: json or csv.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to standard output.")
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := codec.ParseFormat(c.format)
	if err != nil {
		return c.app.fail("%v", err)
	}
	snap := c.app.Repo.Snapshot()
	data, err := codec.Encode(format, snap.Transactions, snap.Categories)
	if err != nil {
		return c.app.fail("%v", err)
	}

	if c.output == "" {
		if _, err := c.app.out().Write(data); err != nil {
			return c.app.fail("%v", err)
		}
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return c.app.fail("could not write %s: %v", c.output, err)
	}
	fmt.Fprintf(c.app.err(), "exported %d transactions to %s\n", len(snap.Transactions), c.output)
	return subcommands.ExitSuccess
}
