package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fiadvisor/agent"
	"github.com/etnz/fiadvisor/renderer"
	"github.com/google/subcommands"
)

type askCmd struct{}

func (*askCmd) Name() string     { return "ask" }
func (*askCmd) Synopsis() string { return "ask a question about a persona's finances" }
func (*askCmd) Usage() string {
	return `ask <persona|phone> <question>

Fetch the persona's profile and answer the question with Gemini. For instance:

  fia ask 7777777777 "Can I afford a ₹50L home loan?"
`
}

func (*askCmd) SetFlags(_ *flag.FlagSet) {}

func (c *askCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	persona, ok := personaArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	question := strings.TrimSpace(strings.Join(f.Args()[1:], " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Error: missing question")
		return subcommands.ExitUsageError
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

	profile, err := a.client.FetchProfile(ctx, persona.Phone)
	if err != nil {
		// the answer explains that data is missing.
		fmt.Fprintf(os.Stderr, "Could not load financial data for %s: %v\n", persona, err)
	}

	result := advisor.Answer(ctx, agent.Query{Persona: persona.Name, Question: question, Profile: profile})
	printMarkdown(renderer.Answer(persona.Name, question, result))
	if result.Err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
