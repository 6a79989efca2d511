package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/loadboard/internal/cli"
	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Settings: defaults, then LOADBOARD_CONFIG, then LOADBOARD_* overrides
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Open database
	database, dialect, err := db.Open(ctx, cfg.DBDriver, cfg.DBTarget())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire observers
	metrics := service.NewMetricsObserver()
	observers := []service.UseCaseObserver{metrics}
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	app := &cli.App{
		Services:      service.New(database, dialect, cfg, observers...),
		Config:        cfg,
		Logger:        logger,
		IsInteractive: cli.StdinIsTerminal,
		Confirm:       cli.HuhConfirm,
		EditRole:      cli.HuhEditRole,
		EditTask:      cli.HuhEditTask,
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	runErr := rootCmd.ExecuteContext(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("metrics not written", "error", err)
		}
	}
	return runErr
}
