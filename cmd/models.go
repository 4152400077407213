package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// modelsCmd lists the Gemini models available on the configured API key.
type modelsCmd struct{}

func (*modelsCmd) Name() string     { return "models" }
func (*modelsCmd) Synopsis() string { return "list the Gemini models available for your API key" }
func (*modelsCmd) Usage() string {
	return `apo models

  List the models supporting content generation on your API key. Any of
  them can be used with -model or -fallback.
`
}

func (*modelsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *modelsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := newGemini(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	names, err := client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not list models: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(names) == 0 {
		fmt.Println("No models supporting content generation found for this API key.")
		return subcommands.ExitSuccess
	}

	fmt.Println("Models available on your API key:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return subcommands.ExitSuccess
}
