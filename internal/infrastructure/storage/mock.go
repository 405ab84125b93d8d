package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu           sync.Mutex
	runs         map[string]*Run
	results      map[string][]AccountResult // Keyed by run_id
	nextResultID int64

	// Hooks for test assertions
	StartRunCalled    bool
	CompleteRunCalled bool
	LastOutcome       RunOutcome

	// Error injection for testing error paths
	StartRunErr          error
	CompleteRunErr       error
	SaveAccountResultErr error
	ListRunsErr          error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:         make(map[string]*Run),
		results:      make(map[string][]AccountResult),
		nextResultID: 1,
	}
}

// Close is a no-op
func (m *MockRepository) Close() error {
	return nil
}

// StartRun stores a new run
func (m *MockRepository) StartRun(run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartRunCalled = true
	if m.StartRunErr != nil {
		return m.StartRunErr
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}

	stored := *run
	m.runs[run.ID] = &stored
	return nil
}

// CompleteRun marks a run as finished
func (m *MockRepository) CompleteRun(runID string, outcome RunOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteRunCalled = true
	m.LastOutcome = outcome
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}

	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}

	if outcome.Status == "" {
		outcome.Status = RunStatusCompleted
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = outcome.Status
	run.Accounts = outcome.Accounts
	run.AddCount = outcome.AddCount
	run.RemoveCount = outcome.RemoveCount
	run.ErrorMessage = outcome.ErrorMessage
	return nil
}

// GetRun retrieves a run by ID
func (m *MockRepository) GetRun(runID string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	out := *run
	return &out, nil
}

// ListRuns returns recent runs, newest first
func (m *MockRepository) ListRuns(limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListRunsErr != nil {
		return nil, m.ListRunsErr
	}
	if limit <= 0 {
		limit = 20
	}

	runs := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// SaveAccountResult stores an account outcome
func (m *MockRepository) SaveAccountResult(result *AccountResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveAccountResultErr != nil {
		return m.SaveAccountResultErr
	}
	if _, ok := m.runs[result.RunID]; !ok {
		return fmt.Errorf("run %s: %w", result.RunID, ErrNotFound)
	}

	result.ID = m.nextResultID
	m.nextResultID++
	m.results[result.RunID] = append(m.results[result.RunID], *result)
	return nil
}

// ListAccountResults returns the outcomes of a run ordered by account
func (m *MockRepository) ListAccountResults(runID string) ([]AccountResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]AccountResult(nil), m.results[runID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

// Helper methods for test setup

// AddRun adds a run directly (for test setup)
func (m *MockRepository) AddRun(run Run) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = &run
}

// Reset clears all stored data and injected errors
func (m *MockRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs = make(map[string]*Run)
	m.results = make(map[string][]AccountResult)
	m.nextResultID = 1
	m.StartRunCalled = false
	m.CompleteRunCalled = false
	m.LastOutcome = RunOutcome{}
	m.StartRunErr = nil
	m.CompleteRunErr = nil
	m.SaveAccountResultErr = nil
	m.ListRunsErr = nil
}
