package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/concilia/internal/api/dto"
	"github.com/eshaffer321/concilia/internal/infrastructure/storage"
)

// RunsHandler handles reconciliation run HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns recent runs, newest first.
func (h *RunsHandler) List(c *gin.Context) {
	limit := ParseIntParam(c, "limit", 20)

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}

	h.WriteJSON(c, http.StatusOK, response)
}

// Get handles GET /api/runs/:id - returns a run with its account results.
func (h *RunsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	run, err := h.repo.GetRun(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(c, http.StatusNotFound, dto.NotFoundError("run"))
		return
	}
	if err != nil {
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	results, err := h.repo.ListAccountResults(id)
	if err != nil {
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := toRunResponse(*run)
	for _, r := range results {
		response.Results = append(response.Results, toAccountResultResponse(r))
	}
	h.WriteJSON(c, http.StatusOK, response)
}

// toRunResponse converts a storage Run to an API response.
func toRunResponse(run storage.Run) dto.RunResponse {
	resp := dto.RunResponse{
		ID:           run.ID,
		StartedAt:    run.StartedAt.Format(time.RFC3339),
		BankFile:     run.BankFile,
		TrackerDir:   run.TrackerDir,
		Status:       run.Status,
		Accounts:     run.Accounts,
		AddCount:     run.AddCount,
		RemoveCount:  run.RemoveCount,
		ErrorMessage: run.ErrorMessage,
	}
	if run.CompletedAt != nil {
		resp.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

func toAccountResultResponse(r storage.AccountResult) dto.AccountResultResponse {
	return dto.AccountResultResponse{
		AccountID:    r.AccountID,
		Status:       r.Status,
		TrackerFile:  r.TrackerFile,
		BankCount:    r.BankCount,
		TrackerCount: r.TrackerCount,
		MatchedCount: r.MatchedCount,
		AddCount:     r.AddCount,
		RemoveCount:  r.RemoveCount,
		ReportPath:   r.ReportPath,
		ErrorMessage: r.ErrorMessage,
	}
}
