// Package cmd implements the CLI application to optimize a portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	optimizer "github.com/MattiasMilger/AI-Portfolio-Optimizer"
	"github.com/MattiasMilger/AI-Portfolio-Optimizer/gemini"
	"github.com/MattiasMilger/AI-Portfolio-Optimizer/yahoo"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&enrichCmd{}, "portfolio")
	c.Register(&optimizeCmd{}, "portfolio")
	c.Register(&scanCmd{}, "portfolio")
	c.Register(&modelsCmd{}, "ai")
	c.Register(&topicCmd{}, "documentation")
}

// Names returns the registered subcommand names, for shell completion.
func Names() []string {
	return []string{"enrich", "optimize", "scan", "models", "topic"}
}

const envAPIKey = "GEMINI_API_KEY"

func apiKey() string { return os.Getenv(envAPIKey) }

// newGemini creates the Gemini client, with a usable message when no key is
// configured.
func newGemini(ctx context.Context) (*gemini.Client, error) {
	if apiKey() == "" {
		return nil, fmt.Errorf("%s not found: create a .env file with %s=your_key_here, or export it (get a free key at https://aistudio.google.com/app/apikey)", envAPIKey, envAPIKey)
	}
	return gemini.NewClient(ctx, apiKey())
}

// newSession wires the full pipeline: Yahoo market data behind the enricher,
// Gemini behind the recommendation engine and the vision extractor.
func newSession(ctx context.Context) (*optimizer.Session, error) {
	client, err := newGemini(ctx)
	if err != nil {
		return nil, err
	}
	fetcher := optimizer.NewFetcher(yahoo.New(), yahoo.New())
	return optimizer.NewSession(
		optimizer.NewEnricher(fetcher),
		optimizer.NewEngine(client),
		optimizer.NewExtractor(client),
	), nil
}

// positionsFlag collects repeated -p TICKER:QTY:COST[:CURRENCY] values.
type positionsFlag []optimizer.Position

func (p *positionsFlag) String() string { return fmt.Sprintf("%d position(s)", len(*p)) }

func (p *positionsFlag) Set(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return fmt.Errorf("want TICKER:QUANTITY:AVG_COST[:CURRENCY], got %q", value)
	}
	qty, err := parseDecimal(parts[1])
	if err != nil {
		return fmt.Errorf("quantity in %q: %w", value, err)
	}
	cost, err := parseDecimal(parts[2])
	if err != nil {
		return fmt.Errorf("avg cost in %q: %w", value, err)
	}
	currency := ""
	if len(parts) == 4 {
		currency = strings.ToUpper(parts[3])
	}
	*p = append(*p, optimizer.Position{
		Ticker:   strings.ToUpper(parts[0]),
		Quantity: optimizer.Q(qty),
		AvgCost:  optimizer.M(cost, currency),
	})
	return nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s is negative", d)
	}
	return d, nil
}

// modelFlags are shared by every command that talks to Gemini.
type modelFlags struct {
	model    string
	fallback string
}

func (m *modelFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&m.model, "model", optimizer.DefaultModel, "preferred Gemini model")
	f.StringVar(&m.fallback, "fallback", strings.Join(optimizer.DefaultModels, ","), "comma-separated model fallback list")
}

func (m *modelFlags) priority() []string {
	var models []string
	for _, name := range strings.Split(m.fallback, ",") {
		if name = strings.TrimSpace(name); name != "" {
			models = append(models, name)
		}
	}
	return models
}
