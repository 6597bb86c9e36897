package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nbrb-rates/internal/app"
	"nbrb-rates/internal/cli"
	"nbrb-rates/internal/usecase"
	"nbrb-rates/pkg/config"
	"nbrb-rates/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(&cli.Config{
		Ctx: ctx,
		Open: func(ctx context.Context) (usecase.RateUsecase, func(), error) {
			cfg, err := config.LoadConfig()
			if err != nil {
				return nil, nil, fmt.Errorf("load config: %w", err)
			}
			log := logger.Init(cfg.Log.Level, cfg.Log.Format)
			// stdout carries command output
			log.SetOutput(os.Stderr)

			application, err := app.New(ctx, cfg, log)
			if err != nil {
				return nil, nil, err
			}
			return application.Usecase, application.Close, nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
