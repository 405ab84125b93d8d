package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/eshaffer321/concilia/internal/adapters/document"
	"github.com/eshaffer321/concilia/internal/adapters/statements"
	"github.com/eshaffer321/concilia/internal/application/reconcile"
	"github.com/eshaffer321/concilia/internal/cli"
	"github.com/eshaffer321/concilia/internal/domain/transaction"
	"github.com/eshaffer321/concilia/internal/infrastructure/config"
	"github.com/eshaffer321/concilia/internal/infrastructure/logging"
)

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		bankFile   = flag.String("bank", "", "Bank statement")
		trackerDir = flag.String("tracker-dir", "", "Directory holding tracker statements")
		account    = flag.String("account", "", "Four digit card account to dump")
		password   = flag.String("password", "", "Password for encrypted statements")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	if *bankFile != "" {
		cfg.Input.BankStatement = *bankFile
	}
	if *trackerDir != "" {
		cfg.Input.TrackerDir = *trackerDir
	}
	if *verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	if *account == "" || cfg.Input.BankStatement == "" || cfg.Input.TrackerDir == "" {
		fmt.Fprintln(os.Stderr, "-account, -bank and -tracker-dir are required")
		os.Exit(2)
	}

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "dump")

	pw := cli.ResolvePassword(*password, cfg, cli.TerminalPrompter(os.Stdin, os.Stderr), logger)

	opts := statements.Options{
		Tolerance:   cfg.Parsing.LineTolerance,
		Lookahead:   cfg.Parsing.LookaheadLines,
		Year:        cfg.Parsing.Year,
		Diagnostics: logger,
	}

	bankDoc, err := document.Open(cfg.Input.BankStatement, document.OpenOptions{Password: pw, Logger: logger})
	if err != nil {
		logger.Error("Failed to open bank statement", "error", err)
		os.Exit(1)
	}
	var bank []transaction.Transaction
	for tx := range statements.ParseBankStatement(bankDoc, opts) {
		if tx.AccountID == *account {
			bank = append(bank, tx)
		}
	}

	var tracker []transaction.Transaction
	path, err := reconcile.FindTrackerFile(cfg.Input.TrackerDir, *account)
	if err != nil {
		logger.Warn("No tracker statement", "account", *account, "error", err)
	} else {
		trackerDoc, err := document.Open(path, document.OpenOptions{Password: pw, Logger: logger})
		if err != nil {
			logger.Error("Failed to open tracker statement", "error", err)
			os.Exit(1)
		}
		seq, err := statements.ParseTrackerStatement(trackerDoc, filepath.Base(path), opts)
		if err != nil {
			logger.Error("Failed to parse tracker statement", "error", err)
			os.Exit(1)
		}
		tracker = slices.Collect(seq)
	}

	cli.PrintAccountDump(os.Stdout, *account, bank, tracker)
}
