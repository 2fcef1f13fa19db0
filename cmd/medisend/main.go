package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/turfaa/halodoc-medisend-api/internal/app"
	"github.com/turfaa/halodoc-medisend-api/internal/config"
	"github.com/turfaa/halodoc-medisend-api/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		fmt.Fprint(os.Stderr, app.Usage)
		return 2
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return 1
	}

	// Initialize structured logger. Logs go to stderr, results to stdout.
	log := logger.New("medisend-cli", cfg.LogLevel)

	application, err := app.NewApp(cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer func() { _ = application.Shutdown() }()

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, app.ErrUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s", err, app.Usage)
			return 2
		}
		log.Error("command failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
