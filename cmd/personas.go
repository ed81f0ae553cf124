package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/etnz/fiadvisor"
	"github.com/google/subcommands"
)

type personasCmd struct {
	json bool
}

func (*personasCmd) Name() string     { return "personas" }
func (*personasCmd) Synopsis() string { return "list the personas of the development backend" }
func (*personasCmd) Usage() string {
	return `personas [-json]

List the synthetic personas, by name and phone number.
`
}

func (c *personasCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the list as JSON")
}

func (c *personasCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	list := fiadvisor.Personas()
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fatal("Error encoding personas", err)
		}
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PHONE\tNAME")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\n", p.Phone, p.Name)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
