package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/locvowork/trial_report/internal/bootstrap"
	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load environment configuration
	env, err := config.LoadEnvConfig()
	if err != nil {
		panic(err)
	}

	app := bootstrap.NewApp(env)
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize app", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.InfoLog(ctx, "Starting server on port %s", env.APP_PORT)
	if err := app.Run(ctx); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
		os.Exit(1)
	}
}
