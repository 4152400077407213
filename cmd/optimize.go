package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	optimizer "github.com/MattiasMilger/AI-Portfolio-Optimizer"
	"github.com/MattiasMilger/AI-Portfolio-Optimizer/renderer"
	"github.com/google/subcommands"
)

// optimizeCmd holds the flags for the 'optimize' subcommand.
type optimizeCmd struct {
	positions    positionsFlag
	baseCurrency string
	budget       string
	risk         string
	industries   string
	countries    string
	assetTypes   string
	suggestNew   bool
	models       modelFlags
}

func (*optimizeCmd) Name() string { return "optimize" }
func (*optimizeCmd) Synopsis() string {
	return "enrich the portfolio and ask Gemini for a buy/sell/hold recommendation"
}
func (*optimizeCmd) Usage() string {
	return `apo optimize -base <currency> -p TICKER:QTY:COST[:CUR] [-p ...] [options]

  Enrich the given positions, assemble a situation report with your budget
  and preferences, and submit it to Gemini under a strict SELL/BUY/HOLD
  output contract. When the preferred model is rate-limited or unavailable,
  the next model of the fallback list is tried.

Usage Examples:
$ apo optimize -base SEK -p ERIC-B.ST:20:90 -budget 5000 -risk moderate -new
`
}

func (c *optimizeCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.positions, "p", "position as TICKER:QUANTITY:AVG_COST[:CURRENCY], repeatable")
	f.StringVar(&c.baseCurrency, "base", "USD", "base currency for all values")
	f.StringVar(&c.budget, "budget", "0", "additional cash budget, in the base currency")
	f.StringVar(&c.risk, "risk", string(optimizer.Moderate), "risk profile (conservative, moderate, aggressive)")
	f.StringVar(&c.industries, "industries", "", "comma-separated target industries")
	f.StringVar(&c.countries, "countries", "", "comma-separated target countries")
	f.StringVar(&c.assetTypes, "asset-types", "", "comma-separated asset type preferences")
	f.BoolVar(&c.suggestNew, "new", false, "also suggest new assets not currently held")
	c.models.SetFlags(f)
}

func (c *optimizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	prefs, err := c.preferences()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	session, err := newSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	// the pipeline runs in the background; this surface just waits on it
	outcome := <-session.Optimize(ctx, c.positions, c.baseCurrency, prefs, c.models.model, c.models.priority())
	if outcome.Report != nil {
		printMarkdown(renderer.ReportMarkdown(outcome.Report))
	}
	if outcome.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", outcome.Err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RecommendationMarkdown(outcome.Result, c.models.model))
	return subcommands.ExitSuccess
}

func (c *optimizeCmd) preferences() (optimizer.Preferences, error) {
	risk, err := optimizer.ParseRiskProfile(c.risk)
	if err != nil {
		return optimizer.Preferences{}, err
	}
	budget, err := parseDecimal(c.budget)
	if err != nil {
		return optimizer.Preferences{}, fmt.Errorf("budget: %w", err)
	}
	return optimizer.Preferences{
		CashBudget:       optimizer.M(budget, strings.ToUpper(c.baseCurrency)),
		RiskProfile:      risk,
		TargetIndustries: splitSet(c.industries),
		TargetCountries:  splitSet(c.countries),
		AssetTypes:       splitSet(c.assetTypes),
		SuggestNewAssets: c.suggestNew,
	}, nil
}

func splitSet(s string) []string {
	var set []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			set = append(set, item)
		}
	}
	return set
}
