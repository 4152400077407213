package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MattiasMilger/AI-Portfolio-Optimizer/renderer"
	"github.com/google/subcommands"
)

// scanCmd holds the flags for the 'scan' subcommand.
type scanCmd struct {
	image  string
	models modelFlags
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "extract positions from a portfolio screenshot" }
func (*scanCmd) Usage() string {
	return `apo scan -i <image> [options]

  Send a broker screenshot to Gemini and extract the visible positions as
  validated, exchange-suffixed entries. Entries that fail validation are
  listed with their reason; they are never silently dropped. On a malformed
  response the scan fails as a whole and you can fall back to manual entry
  with 'apo enrich -p'.

Usage Examples:
$ apo scan -i portfolio.png
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.image, "i", "", "path to the portfolio screenshot (png or jpeg)")
	c.models.SetFlags(f)
}

func (c *scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.image == "" {
		fmt.Fprintln(os.Stderr, "Error: no image given, use -i")
		return subcommands.ExitUsageError
	}
	image, err := os.ReadFile(c.image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open image: %v\n", err)
		return subcommands.ExitFailure
	}

	session, err := newSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := session.Extractor.Scan(ctx, image, mimeType(c.image), c.models.model, c.models.priority())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ScanMarkdown(result))

	// echo the positions in -p form so they can be pasted into
	// 'apo enrich' or 'apo optimize'
	if len(result.Positions) > 0 {
		var b strings.Builder
		for _, p := range result.Positions {
			fmt.Fprintf(&b, " -p %s:%s:%s:%s", p.Ticker, p.Quantity, p.AvgCost.Value(), p.Currency())
		}
		fmt.Printf("Re-run with:%s\n", b.String())
	}
	return subcommands.ExitSuccess
}

func mimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
