package system

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/orowoletimothy/vane/internal/api"
	"github.com/orowoletimothy/vane/internal/cli"
)

type ServeCmd struct {
	Addr string `help:"Listen address; overrides [server] addr in the settings file."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	cfg := ctx.Config.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	sigCtx, stop := signal.NotifyContext(ctx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving vane API on %s (Ctrl+C to stop)\n", cfg.Addr)
	return api.Serve(sigCtx, ctx.Tracker, cfg)
}
