// Command fia is a personal financial advisor over the Fi MCP development backend.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/cmd"
	"github.com/etnz/fiadvisor/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	// answers the shell when invoked for completion (COMP_LINE is set).
	completion().Complete("fia")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	var personas predict.Set
	for _, p := range fiadvisor.Personas() {
		personas = append(personas, p.Phone)
	}
	topics, _ := docs.GetAllTopics()

	byPersona := &complete.Command{Args: personas}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"v":   predict.Nothing,
			"env": predict.Files("*.env"),
		},
		Sub: map[string]*complete.Command{
			"personas": {Flags: map[string]complete.Predictor{"json": predict.Nothing}},
			"fetch":    {Flags: map[string]complete.Predictor{"json": predict.Nothing}, Args: personas},
			"ask":      byPersona,
			"assist":   byPersona,
			"serve":    {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"topic":    {Flags: map[string]complete.Predictor{"list": predict.Nothing}, Args: predict.Set(topics)},
		},
	}
}
