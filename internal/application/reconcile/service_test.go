package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/eshaffer321/concilia/internal/adapters/document"
	"github.com/eshaffer321/concilia/internal/adapters/report"
	"github.com/eshaffer321/concilia/internal/adapters/statements"
	"github.com/eshaffer321/concilia/internal/infrastructure/config"
	"github.com/eshaffer321/concilia/internal/infrastructure/logging"
	"github.com/eshaffer321/concilia/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankCSV = `Fatura de Março de 2024;
Lançamentos do cartão Final 1748;
10 Jan;Padaria Central;R$ 1.234,56
15 Jan;Uber Trip;R$ 30,00
Lançamentos do cartão Final 9999;
20 Mar;Netflix;R$ 39,90
`

const tracker1748CSV = `Data;Descrição;Valor
10/01/2024;Padaria Central;-1.234,56
16/01/2024;Uber trip;-30,00
05/01/2024;Assinatura extra;-9,90
`

const tracker9999CSV = `Data;Descrição;Valor
20/03/2024;Netflix.com;-39,90
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestService(repo storage.Repository) *Service {
	cfg := &config.Config{}
	cfg.Matching.Workers = 2
	return NewService(cfg, repo, logging.Discard())
}

func TestService_Run(t *testing.T) {
	// Arrange
	inputs := t.TempDir()
	out := t.TempDir()
	bank := writeFile(t, inputs, "btg.csv", bankCSV)
	trackerDir := filepath.Join(inputs, "organize")
	require.NoError(t, os.Mkdir(trackerDir, 0o755))
	writeFile(t, trackerDir, "1748.csv", tracker1748CSV)
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	// Act
	summary, err := svc.Run(context.Background(), Request{BankFile: bank, TrackerDir: trackerDir, OutputDir: out})

	// Assert
	require.NoError(t, err)
	require.Len(t, summary.Accounts, 2)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "btg.csv", summary.BankFile)

	acct := summary.Accounts[0]
	assert.Equal(t, "1748", acct.AccountID)
	assert.Equal(t, storage.AccountStatusReconciled, acct.Status)
	assert.Equal(t, "1748.csv", acct.TrackerFile)
	assert.Equal(t, 2, acct.BankCount)
	assert.Equal(t, 3, acct.TrackerCount)
	assert.Equal(t, 2, acct.MatchedCount)
	assert.Equal(t, 0, acct.AddCount)
	assert.Equal(t, 1, acct.RemoveCount)
	assert.Equal(t, filepath.Join(out, report.FileName("1748")), acct.ReportPath)
	assert.FileExists(t, acct.ReportPath)
	require.NotNil(t, acct.Result)
	assert.Equal(t, "Assinatura extra", acct.Result.ExtraInTracker[0].DescriptionRaw)

	skipped := summary.Accounts[1]
	assert.Equal(t, "9999", skipped.AccountID)
	assert.Equal(t, storage.AccountStatusSkipped, skipped.Status)
	assert.Equal(t, ErrTrackerNotFound.Error(), skipped.Reason)
	assert.Nil(t, skipped.Result)
	assert.Equal(t, []AccountSummary{skipped}, summary.Skipped())

	assert.Equal(t, 0, summary.AddCount)
	assert.Equal(t, 1, summary.RemoveCount)

	run, err := repo.GetRun(summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, storage.RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.Accounts)
	assert.Equal(t, 1, run.RemoveCount)

	results, err := repo.ListAccountResults(summary.RunID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, storage.AccountStatusSkipped, results[1].Status)
}

func TestService_Run_FinalPrefixAndNoDifferences(t *testing.T) {
	inputs := t.TempDir()
	out := t.TempDir()
	bank := writeFile(t, inputs, "btg.csv", bankCSV)
	writeFile(t, inputs, "1748.csv", tracker1748CSV)
	writeFile(t, inputs, "final_9999.csv", tracker9999CSV)
	svc := newTestService(nil)

	summary, err := svc.Run(context.Background(), Request{BankFile: bank, TrackerDir: inputs, OutputDir: out})

	require.NoError(t, err)
	require.Len(t, summary.Accounts, 2)
	acct := summary.Accounts[1]
	assert.Equal(t, "9999", acct.AccountID)
	assert.Equal(t, "final_9999.csv", acct.TrackerFile)
	assert.Equal(t, storage.AccountStatusReconciled, acct.Status)
	assert.Equal(t, 1, acct.MatchedCount)
	assert.Empty(t, acct.ReportPath)
	assert.NoFileExists(t, filepath.Join(out, report.FileName("9999")))
	assert.Empty(t, summary.Skipped())
}

func TestService_Run_UnreadableBankFailsRun(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	summary, err := svc.Run(context.Background(), Request{
		BankFile:   filepath.Join(t.TempDir(), "missing.csv"),
		TrackerDir: t.TempDir(),
	})

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, document.ErrUnreadable)
	assert.True(t, repo.CompleteRunCalled)
	assert.Equal(t, storage.RunStatusFailed, repo.LastOutcome.Status)
}

func TestService_Run_NoBankStatement(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Run(context.Background(), Request{})

	assert.ErrorIs(t, err, ErrNoBankStatement)
}

func TestService_Run_MissingTrackerDirFailsFast(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "organize.csv")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o600))

	for _, trackerDir := range []string{filepath.Join(dir, "missing"), notADir, ""} {
		t.Run(filepath.Base(trackerDir), func(t *testing.T) {
			repo := storage.NewMockRepository()
			opened := false
			svc := newTestService(repo).WithOpener(func(string, document.OpenOptions) (*document.Document, error) {
				opened = true
				return nil, errors.New("should not open")
			})

			summary, err := svc.Run(context.Background(), Request{BankFile: "btg.pdf", TrackerDir: trackerDir})

			assert.Nil(t, summary)
			assert.ErrorIs(t, err, ErrTrackerDirNotFound)
			assert.False(t, opened)
			assert.False(t, repo.StartRunCalled)
		})
	}
}

func TestService_Run_UnreadableTrackerSkipsAccount(t *testing.T) {
	inputs := t.TempDir()
	bank := writeFile(t, inputs, "btg.csv", bankCSV)
	writeFile(t, inputs, "1748.pdf", "not really a pdf")
	svc := newTestService(nil)

	summary, err := svc.Run(context.Background(), Request{BankFile: bank, TrackerDir: inputs, OutputDir: t.TempDir()})

	require.NoError(t, err)
	require.Len(t, summary.Accounts, 2)
	assert.Equal(t, storage.AccountStatusSkipped, summary.Accounts[0].Status)
	assert.Equal(t, "1748.pdf", summary.Accounts[0].TrackerFile)
	assert.Contains(t, summary.Accounts[0].Reason, document.ErrUnreadable.Error())
}

func TestService_Run_CancelledContext(t *testing.T) {
	inputs := t.TempDir()
	bank := writeFile(t, inputs, "btg.csv", bankCSV)
	repo := storage.NewMockRepository()
	svc := newTestService(repo)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.Run(ctx, Request{BankFile: bank, TrackerDir: inputs, OutputDir: t.TempDir()})

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, storage.RunStatusFailed, repo.LastOutcome.Status)
}

func TestService_Run_StorageFailureDoesNotFailRun(t *testing.T) {
	inputs := t.TempDir()
	bank := writeFile(t, inputs, "btg.csv", bankCSV)
	repo := storage.NewMockRepository()
	repo.StartRunErr = errors.New("disk full")
	svc := newTestService(repo)

	summary, err := svc.Run(context.Background(), Request{BankFile: bank, TrackerDir: inputs, OutputDir: t.TempDir()})

	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
}

func TestService_Run_UsesOpener(t *testing.T) {
	var opened []string
	svc := newTestService(nil).WithOpener(func(path string, opts document.OpenOptions) (*document.Document, error) {
		opened = append(opened, filepath.Base(path))
		assert.Equal(t, "s3cret", opts.Password)
		return document.FromLines(filepath.Base(path), []string{
			"Lançamentos do cartão Final 1748",
			"10 Jan Padaria R$ 10,00",
		}), nil
	})

	summary, err := svc.Run(context.Background(), Request{BankFile: "btg.pdf", TrackerDir: t.TempDir(), Password: "s3cret"})

	require.NoError(t, err)
	assert.Equal(t, []string{"btg.pdf"}, opened)
	require.Len(t, summary.Accounts, 1)
	assert.Equal(t, storage.AccountStatusSkipped, summary.Accounts[0].Status)
}

func TestService_ReconcileDocuments(t *testing.T) {
	bank := document.FromLines("btg.pdf", []string{
		"Fatura de Março de 2024",
		"Lançamentos do cartão Final 1748",
		"10 Jan Padaria Central R$ 1.234,56",
		"12 Jan Farmacia R$ 45,00",
		"Lançamentos do cartão Final 9999",
		"20 Mar Netflix R$ 39,90",
	})
	tracker := document.FromLines("1748.pdf", []string{
		"10/01/2024 Padaria Central R$ -1.234,56",
	})
	other := document.FromLines("export.pdf", []string{
		"Cartão Final 5555",
		"10/01/2024 Cinema R$ -20,00",
	})
	repo := storage.NewMockRepository()
	svc := newTestService(repo)
	out := t.TempDir()

	summary, err := svc.ReconcileDocuments(context.Background(), DocumentsRequest{
		Bank:      bank,
		Trackers:  []*document.Document{tracker, other},
		OutputDir: out,
	})

	require.NoError(t, err)
	require.Len(t, summary.Accounts, 2)
	acct := summary.Accounts[0]
	assert.Equal(t, "1748", acct.AccountID)
	assert.Equal(t, "1748.pdf", acct.TrackerFile)
	assert.Equal(t, 1, acct.AddCount)
	assert.Equal(t, 0, acct.RemoveCount)
	require.NotNil(t, acct.Result)
	assert.Equal(t, "Farmacia", acct.Result.MissingInTracker[0].DescriptionRaw)
	assert.FileExists(t, acct.ReportPath)
	assert.Equal(t, storage.AccountStatusSkipped, summary.Accounts[1].Status)

	run, err := repo.GetRun(summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, "btg.pdf", run.BankFile)
	assert.Equal(t, "1748.pdf,export.pdf", run.TrackerDir)
}

func TestService_ReconcileDocuments_UnresolvedTracker(t *testing.T) {
	bank := document.FromLines("btg.pdf", []string{"Lançamentos do cartão Final 1748"})
	tracker := document.FromLines("export.pdf", []string{"10/01/2024 Cinema R$ -20,00"})
	svc := newTestService(nil)

	_, err := svc.ReconcileDocuments(context.Background(), DocumentsRequest{
		Bank:     bank,
		Trackers: []*document.Document{tracker},
	})

	assert.ErrorIs(t, err, statements.ErrAccountUnresolved)
}

func TestService_ReconcileDocuments_NoBank(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.ReconcileDocuments(context.Background(), DocumentsRequest{})

	assert.ErrorIs(t, err, ErrNoBankStatement)
}
