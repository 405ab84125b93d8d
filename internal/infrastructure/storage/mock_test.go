package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockRepository_Lifecycle(t *testing.T) {
	repo := NewMockRepository()
	run := &Run{BankFile: "btg.pdf"}

	require.NoError(t, repo.StartRun(run))
	require.NoError(t, repo.SaveAccountResult(&AccountResult{RunID: run.ID, AccountID: "2", Status: AccountStatusReconciled}))
	require.NoError(t, repo.SaveAccountResult(&AccountResult{RunID: run.ID, AccountID: "1", Status: AccountStatusSkipped}))
	require.NoError(t, repo.CompleteRun(run.ID, RunOutcome{Accounts: 2}))

	got, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.True(t, repo.StartRunCalled)
	assert.True(t, repo.CompleteRunCalled)

	results, err := repo.ListAccountResults(run.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].AccountID)
}

func TestMockRepository_ErrorInjection(t *testing.T) {
	repo := NewMockRepository()
	boom := errors.New("boom")
	repo.StartRunErr = boom

	assert.ErrorIs(t, repo.StartRun(&Run{}), boom)

	repo.Reset()
	assert.NoError(t, repo.StartRun(&Run{}))
}

func TestMockRepository_ListRunsOrder(t *testing.T) {
	repo := NewMockRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.AddRun(Run{ID: "a", StartedAt: base})
	repo.AddRun(Run{ID: "b", StartedAt: base.Add(time.Hour)})

	runs, err := repo.ListRuns(0)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
}

func TestMockRepository_NotFound(t *testing.T) {
	repo := NewMockRepository()

	_, err := repo.GetRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SaveAccountResult(&AccountResult{RunID: "missing"}), ErrNotFound)
}
