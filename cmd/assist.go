package cmd

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/agent"
	"github.com/etnz/fiadvisor/fimcp"
	"github.com/etnz/fiadvisor/renderer"
	"github.com/google/subcommands"
)

// assistCmd is the subcommand for the interactive advisor.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session about a persona" }
func (*assistCmd) Usage() string {
	return `assist <persona|phone> [question]

Show the persona's financial snapshot, then answer questions until 'bye'.
The profile is fetched once and refreshed when it gets older than FIA_CACHE_TTL.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	persona, ok := personaArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	var prompts []string
	if f.NArg() > 1 {
		prompts = append(prompts, strings.Join(f.Args()[1:], " "))
	}

	a, err := newApp()
	if err != nil {
		return fatal("Error loading configuration", err)
	}
	defer a.close()
	advisor, err := a.advisor(ctx)
	if err != nil {
		return fatal("Error initializing Gemini's client", err)
	}

	cache := fimcp.NewCache(a.client, a.cfg.CacheTTL)
	profile := func(ctx context.Context) (*fiadvisor.Profile, error) {
		return cache.FetchProfile(ctx, persona.Phone)
	}
	p, err := profile(ctx)
	if err != nil {
		return fatal("Could not load financial data. Please ensure the Fi MCP server is running and accessible", err)
	}
	printMarkdown(renderer.Snapshot(persona, p))

	ag := agent.New(os.Stdout, os.Stdin, advisor, persona.Name, profile)
	ag.Render = func(question string, r agent.Result) string {
		return renderMarkdown(renderer.Answer(persona.Name, question, r))
	}
	if err := ag.Run(ctx, prompts...); err != nil {
		return fatal("Agent failed", err)
	}
	return subcommands.ExitSuccess
}
