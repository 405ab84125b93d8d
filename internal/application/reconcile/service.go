// Package reconcile runs a full reconciliation: it loads the bank
// statement, locates and parses one tracker statement per card account,
// matches each account and writes the difference reports.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/eshaffer321/concilia/internal/adapters/document"
	"github.com/eshaffer321/concilia/internal/adapters/report"
	"github.com/eshaffer321/concilia/internal/adapters/statements"
	"github.com/eshaffer321/concilia/internal/domain/matcher"
	"github.com/eshaffer321/concilia/internal/domain/transaction"
	"github.com/eshaffer321/concilia/internal/infrastructure/config"
	"github.com/eshaffer321/concilia/internal/infrastructure/storage"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoBankStatement is returned when a request names no bank statement.
	ErrNoBankStatement = errors.New("no bank statement given")
	// ErrTrackerDirNotFound is returned when the tracker directory is missing.
	ErrTrackerDirNotFound = errors.New("tracker directory not found")
)

// Opener loads a document from disk
type Opener func(path string, opts document.OpenOptions) (*document.Document, error)

// Service runs reconciliations
type Service struct {
	cfg     *config.Config
	repo    storage.Repository // may be nil
	matcher *matcher.Matcher
	open    Opener
	logger  *slog.Logger
}

// NewService creates a reconciliation service. repo may be nil, in which
// case runs are not recorded.
func NewService(cfg *config.Config, repo storage.Repository, logger *slog.Logger) *Service {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:     cfg,
		repo:    repo,
		matcher: matcher.NewMatcher(matcher.DefaultConfig()),
		open:    document.Open,
		logger:  logger,
	}
}

// WithOpener replaces the document loader
func (s *Service) WithOpener(open Opener) *Service {
	s.open = open
	return s
}

// trackerSource is a parsed tracker statement for one account
type trackerSource struct {
	name string
	txs  []transaction.Transaction
}

type accountJob struct {
	accountID string
	bank      []transaction.Transaction
	tracker   func() (trackerSource, error)
}

// Run reconciles the bank statement at req.BankFile against the tracker
// files found in req.TrackerDir. A bank statement that cannot be read
// fails the run; a missing or unreadable tracker file only skips its account.
func (s *Service) Run(ctx context.Context, req Request) (*Summary, error) {
	if req.BankFile == "" {
		return nil, ErrNoBankStatement
	}
	if info, err := os.Stat(req.TrackerDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTrackerDirNotFound, req.TrackerDir)
	}

	run := s.startRun(filepath.Base(req.BankFile), req.TrackerDir)

	bankDoc, err := s.open(req.BankFile, document.OpenOptions{Password: req.Password, Logger: s.logger})
	if err != nil {
		s.failRun(run, err)
		return nil, fmt.Errorf("failed to open bank statement: %w", err)
	}

	bankBy := s.parseBank(bankDoc)
	accounts := sortedKeys(bankBy)

	jobs := make([]accountJob, len(accounts))
	for i, acct := range accounts {
		jobs[i] = accountJob{
			accountID: acct,
			bank:      bankBy[acct],
			tracker: func() (trackerSource, error) {
				return s.loadTrackerFile(req.TrackerDir, acct, req.Password)
			},
		}
	}

	return s.execute(ctx, run, jobs, req.OutputDir, req.Workers)
}

// ReconcileDocuments reconciles already loaded documents. Tracker accounts
// are resolved from each document's name, then its text.
func (s *Service) ReconcileDocuments(ctx context.Context, req DocumentsRequest) (*Summary, error) {
	if req.Bank == nil {
		return nil, ErrNoBankStatement
	}

	trackers := make(map[string]trackerSource)
	for _, doc := range req.Trackers {
		acct, txs, err := s.parseTracker(doc, doc.Name)
		if err != nil {
			return nil, err
		}
		src := trackers[acct]
		if src.name != "" {
			src.name += ", "
		}
		src.name += doc.Name
		src.txs = append(src.txs, txs...)
		trackers[acct] = src
	}

	names := make([]string, 0, len(req.Trackers))
	for _, doc := range req.Trackers {
		names = append(names, doc.Name)
	}
	run := s.startRun(req.Bank.Name, strings.Join(names, ","))

	bankBy := s.parseBank(req.Bank)
	for acct := range trackers {
		if _, ok := bankBy[acct]; !ok {
			s.logger.Warn("tracker statement has no matching bank section", "account", acct)
		}
	}

	accounts := sortedKeys(bankBy)
	jobs := make([]accountJob, len(accounts))
	for i, acct := range accounts {
		jobs[i] = accountJob{
			accountID: acct,
			bank:      bankBy[acct],
			tracker: func() (trackerSource, error) {
				src, ok := trackers[acct]
				if !ok {
					return trackerSource{}, ErrTrackerNotFound
				}
				return src, nil
			},
		}
	}

	return s.execute(ctx, run, jobs, req.OutputDir, req.Workers)
}

func (s *Service) execute(ctx context.Context, run *storage.Run, jobs []accountJob, outputDir string, workers int) (*Summary, error) {
	if outputDir == "" {
		outputDir = s.cfg.Output.Dir
	}
	if workers <= 0 {
		workers = s.cfg.Matching.Workers
	}
	if workers <= 0 {
		workers = config.DefaultWorkers
	}

	writer := report.NewWriter(outputDir, s.logger.With("system", "report"))
	results := make([]AccountSummary, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.reconcileAccount(job, writer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.failRun(run, err)
		return nil, err
	}

	summary := &Summary{RunID: run.ID, BankFile: run.BankFile, Accounts: results}
	for i := range results {
		summary.AddCount += results[i].AddCount
		summary.RemoveCount += results[i].RemoveCount
		s.recordAccount(run, results[i])
	}
	s.completeRun(run, summary)

	s.logger.Info("reconciliation complete",
		"run_id", run.ID,
		"accounts", len(results),
		"skipped", len(summary.Skipped()),
		"add", summary.AddCount,
		"remove", summary.RemoveCount)
	return summary, nil
}

func (s *Service) reconcileAccount(job accountJob, writer *report.Writer) AccountSummary {
	out := AccountSummary{AccountID: job.accountID, BankCount: len(job.bank)}

	src, err := job.tracker()
	out.TrackerFile = src.name
	if err != nil {
		out.Status = storage.AccountStatusSkipped
		out.Reason = err.Error()
		s.logger.Warn("account skipped", "account", job.accountID, "reason", out.Reason)
		return out
	}

	result := s.matcher.Reconcile(job.accountID, job.bank, src.txs)
	out.Result = &result
	out.TrackerCount = len(src.txs)
	out.MatchedCount = len(result.Matches)
	out.AddCount = len(result.MissingInTracker)
	out.RemoveCount = len(result.ExtraInTracker)

	path, err := writer.Write(result)
	if err != nil {
		out.Status = storage.AccountStatusFailed
		out.Reason = err.Error()
		s.logger.Error("failed to write report", "account", job.accountID, "error", err)
		return out
	}
	out.ReportPath = path
	out.Status = storage.AccountStatusReconciled

	s.logger.Info("account reconciled",
		"account", job.accountID,
		"bank", out.BankCount,
		"tracker", out.TrackerCount,
		"matched", out.MatchedCount,
		"add", out.AddCount,
		"remove", out.RemoveCount)
	return out
}

func (s *Service) loadTrackerFile(dir, accountID, password string) (trackerSource, error) {
	path, err := FindTrackerFile(dir, accountID)
	if err != nil {
		return trackerSource{}, err
	}

	name := filepath.Base(path)
	doc, err := s.open(path, document.OpenOptions{Password: password, Logger: s.logger})
	if err != nil {
		return trackerSource{name: name}, err
	}

	acct, txs, err := s.parseTracker(doc, name)
	if err != nil {
		return trackerSource{name: name}, err
	}
	if acct != accountID {
		s.logger.Warn("tracker statement names a different account",
			"file", name,
			"expected", accountID,
			"resolved", acct)
	}
	return trackerSource{name: name, txs: txs}, nil
}

func (s *Service) parseBank(doc *document.Document) map[string][]transaction.Transaction {
	txs := slices.Collect(statements.ParseBankStatement(doc, s.parseOptions("bank")))
	return transaction.GroupByAccount(txs)
}

func (s *Service) parseTracker(doc *document.Document, hint string) (string, []transaction.Transaction, error) {
	if hint == "" {
		hint = doc.Name
	}
	acct, _ := statements.ResolveTrackerAccount(hint, doc.Text(s.tolerance()))

	seq, err := statements.ParseTrackerStatement(doc, hint, s.parseOptions("tracker"))
	if err != nil {
		return "", nil, err
	}
	return acct, slices.Collect(seq), nil
}

func (s *Service) parseOptions(system string) statements.Options {
	return statements.Options{
		Tolerance:   s.tolerance(),
		Lookahead:   s.cfg.Parsing.LookaheadLines,
		Year:        s.cfg.Parsing.Year,
		Diagnostics: s.logger.With("system", system),
	}
}

func (s *Service) tolerance() float64 {
	if s.cfg.Parsing.LineTolerance > 0 {
		return s.cfg.Parsing.LineTolerance
	}
	return config.DefaultLineTolerance
}

func sortedKeys(m map[string][]transaction.Transaction) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
