// Package cmd implements the fia command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/agent"
	"github.com/etnz/fiadvisor/fimcp"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands are the fia subcommands, a main package registers them.
var Commands = []subcommands.Command{
	&personasCmd{},
	&fetchCmd{},
	&askCmd{},
	&assistCmd{},
	&serveCmd{},
	&topicCmd{},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var verbose = flag.Bool("v", false, "log every network step")
var envFile = flag.String("env", "", "path to a .env file, defaults to ./.env when present")

// app holds what a command needs, built from the configuration.
type app struct {
	cfg    *Config
	logger *zap.Logger
	client *fimcp.Client
}

// newApp loads the configuration and builds the Fi MCP client.
func newApp() (*app, error) {
	cfg, err := LoadConfig(*envFile)
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(*verbose)
	if err != nil {
		return nil, err
	}
	client := fimcp.NewClient(cfg.FiURL, fimcp.WithTimeout(cfg.Timeout), fimcp.WithLogger(logger))
	return &app{cfg: cfg, logger: logger, client: client}, nil
}

// advisor returns the Gemini backed advisor, it requires an api key.
func (a *app) advisor(ctx context.Context) (*agent.Advisor, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("no Gemini API key, set %s or %s", envAPIKey, envGoogleAPIKey)
	}
	n, err := agent.NewGeminiNarrator(ctx, a.cfg.APIKey, a.cfg.Model, a.logger)
	if err != nil {
		return nil, err
	}
	return agent.NewAdvisor(n, a.logger), nil
}

// close flushes the logger.
func (a *app) close() { _ = a.logger.Sync() }

// personaArg resolves the persona given as first argument.
func personaArg(f *flag.FlagSet) (fiadvisor.Persona, bool) {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing persona name or phone number")
		return fiadvisor.Persona{}, false
	}
	return fiadvisor.ResolvePersona(f.Arg(0)), true
}

// fatal prints err and returns the failure status.
func fatal(format string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+": %v\n", err)
	return subcommands.ExitFailure
}
