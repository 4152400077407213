package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path"

	"github.com/MattiasMilger/AI-Portfolio-Optimizer/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
)

func main() {
	// a .env keeps the API key out of the shell history; missing file is fine
	_ = godotenv.Load()

	// shell completion of subcommand names; a no-op outside completion mode
	sub := make(map[string]*complete.Command)
	for _, name := range cmd.Names() {
		sub[name] = &complete.Command{}
	}
	(&complete.Command{Sub: sub}).Complete("apo")

	verbose := flag.Bool("v", false, "log provider and fallback activity")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	os.Exit(int(commander.Execute(context.Background())))
}
