// Command ssrkit serves the server-rendered page, the public directory and
// the live reload endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/ssrkit/app/site"
	"github.com/dmitrymomot/ssrkit/core/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := site.LoadConfig()
	if err != nil {
		return err
	}

	log, err := site.NewLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	app, err := site.NewApp(cfg, site.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Error("server stopped", logger.Error(err))
		return err
	}
	return nil
}
