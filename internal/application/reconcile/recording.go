package reconcile

import (
	"github.com/eshaffer321/concilia/internal/infrastructure/storage"
	"github.com/google/uuid"
)

// Recording functions persist the run audit trail. Storage failures are
// logged and never fail a reconciliation.

func (s *Service) startRun(bankFile, trackerDir string) *storage.Run {
	run := &storage.Run{
		ID:         uuid.NewString(),
		BankFile:   bankFile,
		TrackerDir: trackerDir,
	}
	if s.repo != nil {
		if err := s.repo.StartRun(run); err != nil {
			s.logger.Error("Failed to record run start", "run_id", run.ID, "error", err)
		}
	}
	return run
}

func (s *Service) failRun(run *storage.Run, cause error) {
	if s.repo == nil {
		return
	}
	outcome := storage.RunOutcome{Status: storage.RunStatusFailed, ErrorMessage: cause.Error()}
	if err := s.repo.CompleteRun(run.ID, outcome); err != nil {
		s.logger.Error("Failed to record run failure", "run_id", run.ID, "error", err)
	}
}

func (s *Service) completeRun(run *storage.Run, summary *Summary) {
	if s.repo == nil {
		return
	}
	outcome := storage.RunOutcome{
		Status:      storage.RunStatusCompleted,
		Accounts:    len(summary.Accounts),
		AddCount:    summary.AddCount,
		RemoveCount: summary.RemoveCount,
	}
	if err := s.repo.CompleteRun(run.ID, outcome); err != nil {
		s.logger.Error("Failed to record run completion", "run_id", run.ID, "error", err)
	}
}

func (s *Service) recordAccount(run *storage.Run, a AccountSummary) {
	if s.repo == nil {
		return
	}
	record := &storage.AccountResult{
		RunID:        run.ID,
		AccountID:    a.AccountID,
		Status:       a.Status,
		TrackerFile:  a.TrackerFile,
		BankCount:    a.BankCount,
		TrackerCount: a.TrackerCount,
		MatchedCount: a.MatchedCount,
		AddCount:     a.AddCount,
		RemoveCount:  a.RemoveCount,
		ReportPath:   a.ReportPath,
		ErrorMessage: a.Reason,
	}
	if err := s.repo.SaveAccountResult(record); err != nil {
		s.logger.Error("Failed to save account result", "run_id", run.ID, "account", a.AccountID, "error", err)
	}
}
