package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/etnz/fiadvisor/renderer"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	json bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch a persona's financial profile" }
func (*fetchCmd) Usage() string {
	return `fetch [-json] <persona|phone>

Open a session on the Fi MCP backend, fetch every record type and print the
financial snapshot, or the whole profile with -json. Records that could not be
fetched are reported, they do not fail the command.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the profile as JSON")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	persona, ok := personaArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		return fatal("Error loading configuration", err)
	}
	defer a.close()

	profile, err := a.client.FetchProfile(ctx, persona.Phone)
	if err != nil {
		return fatal(fmt.Sprintf("Could not load financial data for %s", persona), err)
	}

	if c.json {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fatal("Error encoding profile", err)
		}
		fmt.Println(string(data))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.Snapshot(persona, profile))
	return subcommands.ExitSuccess
}
