package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/nvr-ai/go-edgecam/images"
	edgelog "github.com/nvr-ai/go-edgecam/internal/log"
	"github.com/nvr-ai/go-edgecam/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "accept frames over HTTP and websockets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Usage: "listen address (overrides config)"},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	proc, err := cfg.Processor()
	if err != nil {
		return err
	}

	srv := server.New(proc, server.Config{
		Addr:      cfg.Server.Addr,
		BodyLimit: cfg.Server.BodyLimit,
		Preview:   images.Size{Width: cfg.Preview.MaxWidth, Height: cfg.Preview.MaxHeight},
		Logger:    edgelog.L(),
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		edgelog.Info("shutting down")
		return srv.Shutdown()
	}
}
