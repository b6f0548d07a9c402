// Command receiptbook serves the receipt bookkeeping API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/receiptbook/app/receiptbook"
	"github.com/dmitrymomot/receiptbook/core/config"
	"github.com/dmitrymomot/receiptbook/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("receiptbook stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg receiptbook.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	app, err := receiptbook.New(ctx, cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
