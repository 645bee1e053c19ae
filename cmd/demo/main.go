package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpetrovs/userstore/internal/demo"
	"github.com/dpetrovs/userstore/internal/demo/config"
	"github.com/dpetrovs/userstore/internal/logging"
	"github.com/dpetrovs/userstore/internal/randx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	app, err := demo.NewApp(ctx, cfg, logger, randx.New(cfg.Seed))
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "demo run failed", "error", err)
		os.Exit(1)
	}
}
