package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fiadvisor"
)

// Agent is an interactive session about one persona's profile.
type Agent struct {
	w       io.Writer
	r       *bufio.Reader
	advisor *Advisor
	persona string
	profile func(ctx context.Context) (*fiadvisor.Profile, error)

	// Render formats an answer for w, Result.Display is used when nil.
	Render func(question string, r Result) string
}

// New creates an Agent reading questions from r and writing answers to w.
// profile is called before every question, so that a cache can serve it.
func New(w io.Writer, r io.Reader, advisor *Advisor, persona string, profile func(ctx context.Context) (*fiadvisor.Profile, error)) *Agent {
	return &Agent{
		w:       w,
		r:       bufio.NewReader(r),
		advisor: advisor,
		persona: persona,
		profile: profile,
	}
}

const prompt = "assist> "

// Run starts the REPL. It returns on "bye", at the end of input, or when ctx is done.
// prompts are asked first, as if typed by the user.
func (a *Agent) Run(ctx context.Context, prompts ...string) error {
	fmt.Fprintf(a.w, "Hello! I've loaded the financial snapshot for the %s. Type 'bye' to exit.\n", a.persona)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil && (err != io.EOF || strings.TrimSpace(input) == "") {
				if err == io.EOF {
					fmt.Fprintln(a.w)
					return nil // Ctrl+D
				}
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "bye" {
			return nil
		}

		fmt.Fprintln(a.w, a.render(input, a.ask(ctx, input)))
	}
}

func (a *Agent) ask(ctx context.Context, question string) Result {
	// a failed fetch still lets the advisor explain that data is missing.
	profile, _ := a.profile(ctx)
	return a.advisor.Answer(ctx, Query{Persona: a.persona, Question: question, Profile: profile})
}

func (a *Agent) render(question string, r Result) string {
	if a.Render != nil {
		return a.Render(question, r)
	}
	return r.Display()
}
