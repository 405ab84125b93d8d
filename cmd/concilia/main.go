package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/concilia/internal/application/reconcile"
	"github.com/eshaffer321/concilia/internal/cli"
	"github.com/eshaffer321/concilia/internal/infrastructure/config"
	"github.com/eshaffer321/concilia/internal/infrastructure/logging"
	"github.com/eshaffer321/concilia/internal/infrastructure/storage"
)

func main() {
	flags, err := cli.ParseReconcileFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	// Load configuration, flags take precedence
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Input.BankStatement == "" || cfg.Input.TrackerDir == "" {
		fmt.Fprintln(os.Stderr, "both -bank and -tracker-dir are required")
		os.Exit(2)
	}

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "concilia")

	password := cli.ResolvePassword(flags.Password, cfg, cli.TerminalPrompter(os.Stdin, os.Stderr), logger)

	// Run history is optional; reconciliation works without it
	var repo storage.Repository
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Warn("Run history disabled", "database", cfg.Storage.DatabasePath, "error", err)
	} else {
		defer store.Close()
		repo = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.PrintHeader(os.Stdout, cfg.Input.BankStatement, cfg.Input.TrackerDir)

	service := reconcile.NewService(cfg, repo, logger)
	summary, err := service.Run(ctx, cli.ToRequest(cfg, password))
	if err != nil {
		logger.Error("Reconciliation failed", "error", err)
		os.Exit(1)
	}

	cli.PrintSummary(os.Stdout, summary)
}
