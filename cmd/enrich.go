package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	optimizer "github.com/MattiasMilger/AI-Portfolio-Optimizer"
	"github.com/MattiasMilger/AI-Portfolio-Optimizer/renderer"
	"github.com/MattiasMilger/AI-Portfolio-Optimizer/yahoo"
	"github.com/google/subcommands"
)

// enrichCmd holds the flags for the 'enrich' subcommand.
type enrichCmd struct {
	positions    positionsFlag
	baseCurrency string
}

func (*enrichCmd) Name() string     { return "enrich" }
func (*enrichCmd) Synopsis() string { return "enrich positions with live prices and FX rates" }
func (*enrichCmd) Usage() string {
	return `apo enrich -base <currency> -p TICKER:QTY:COST[:CUR] [-p ...]

  Fetch current prices and FX rates for the given positions and print the
  portfolio normalized to the base currency. Positions whose ticker cannot
  be resolved are listed with their error, the rest are enriched anyway.

Usage Examples:
$ apo enrich -base SEK -p ERIC-B.ST:20:90 -p AAPL:10:150
`
}

func (c *enrichCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.positions, "p", "position as TICKER:QUANTITY:AVG_COST[:CURRENCY], repeatable")
	f.StringVar(&c.baseCurrency, "base", "USD", "base currency for all values")
}

func (c *enrichCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.positions) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no positions given, use -p")
		return subcommands.ExitUsageError
	}

	fetcher := optimizer.NewFetcher(yahoo.New(), yahoo.New())
	enricher := optimizer.NewEnricher(fetcher)

	enrichment, err := enricher.Enrich(ctx, c.positions, c.baseCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report := optimizer.NewSituationReport(enrichment, optimizer.Preferences{})
	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}
