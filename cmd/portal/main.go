package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smcd-ma/portal/app/portal"
	"github.com/smcd-ma/portal/core/config"
	"github.com/smcd-ma/portal/core/logger"
)

func main() {
	var cfg portal.Config
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log, cfg.AppName, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := portal.New(ctx, cfg, portal.WithLogger(log))
	if err != nil {
		log.Error("portal init failed", logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("portal stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
