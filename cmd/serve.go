package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/fiadvisor/api"
	"github.com/etnz/fiadvisor/fimcp"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the advisor over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-addr host:port]

Serve GET /personas, GET /profiles/{persona}, GET /profiles/{persona}/snapshot
and POST /ask. /ask is only served when a Gemini API key is configured.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, defaults to FIA_ADDR")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fatal("Error loading configuration", err)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	advisor, err := a.advisor(ctx)
	if err != nil {
		a.logger.Warn("ask endpoint disabled", zap.Error(err))
	}
	h := api.NewHandler(fimcp.NewCache(a.client, a.cfg.CacheTTL), advisor, a.logger)

	addr := c.addr
	if addr == "" {
		addr = a.cfg.Addr
	}
	srv := &http.Server{Addr: addr, Handler: h.Router(), ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	a.logger.Info("serving", zap.String("addr", addr), zap.String("fi_mcp_url", a.cfg.FiURL))

	select {
	case err := <-errc:
		return fatal("Server failed", err)
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fatal("Server shutdown failed", err)
	}
	return subcommands.ExitSuccess
}
