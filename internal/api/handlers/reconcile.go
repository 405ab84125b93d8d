package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/concilia/internal/adapters/document"
	"github.com/eshaffer321/concilia/internal/adapters/report"
	"github.com/eshaffer321/concilia/internal/adapters/statements"
	"github.com/eshaffer321/concilia/internal/api/dto"
	"github.com/eshaffer321/concilia/internal/application/reconcile"
)

// Reconciler runs a reconciliation over loaded documents.
type Reconciler interface {
	ReconcileDocuments(ctx context.Context, req reconcile.DocumentsRequest) (*reconcile.Summary, error)
}

// ReconcileHandler handles statement uploads.
type ReconcileHandler struct {
	service Reconciler
	logger  *slog.Logger
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(service Reconciler, logger *slog.Logger) *ReconcileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileHandler{service: service, logger: logger}
}

// Reconcile handles POST /api/reconcile.
// Multipart form: "bank" (one file), "tracker" (one or more files), "password" (optional).
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	bankFile, err := c.FormFile("bank")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ValidationError("bank statement file is required"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["tracker"]) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ValidationError("at least one tracker file is required"))
		return
	}
	password := c.PostForm("password")

	dir, err := os.MkdirTemp("", "concilia-upload-*")
	if err != nil {
		h.logger.Error("failed to create upload dir", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	defer os.RemoveAll(dir)

	bank, err := h.load(c, dir, "bank", bankFile, password)
	if err != nil {
		h.writeLoadError(c, err)
		return
	}

	var trackers []*document.Document
	for i, fh := range form.File["tracker"] {
		doc, err := h.load(c, dir, fmt.Sprintf("tracker-%d", i), fh, password)
		if err != nil {
			h.writeLoadError(c, err)
			return
		}
		trackers = append(trackers, doc)
	}

	summary, err := h.service.ReconcileDocuments(c.Request.Context(), reconcile.DocumentsRequest{
		Bank:     bank,
		Trackers: trackers,
	})
	if errors.Is(err, statements.ErrAccountUnresolved) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.UnresolvedAccountError(err))
		return
	}
	if err != nil {
		h.logger.Error("reconciliation failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, toReconcileResponse(summary))
}

// load stores an upload under its own subdirectory so that the original
// file name, which carries the tracker account, is preserved.
func (h *ReconcileHandler) load(c *gin.Context, dir, slot string, fh *multipart.FileHeader, password string) (*document.Document, error) {
	sub := filepath.Join(dir, slot)
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(sub, filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return nil, err
	}
	return document.Open(path, document.OpenOptions{Password: password, Logger: h.logger})
}

func (h *ReconcileHandler) writeLoadError(c *gin.Context, err error) {
	if errors.Is(err, document.ErrUnreadable) || errors.Is(err, document.ErrUnsupportedFormat) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.UnreadableDocumentError(err))
		return
	}
	h.logger.Error("failed to store upload", "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalError())
}

func toReconcileResponse(s *reconcile.Summary) dto.ReconcileResponse {
	resp := dto.ReconcileResponse{
		RunID:       s.RunID,
		AddCount:    s.AddCount,
		RemoveCount: s.RemoveCount,
		Accounts:    make([]dto.AccountDifferences, 0, len(s.Accounts)),
	}
	for _, a := range s.Accounts {
		acct := dto.AccountDifferences{
			AccountResultResponse: dto.AccountResultResponse{
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
			},
			Differences: []report.Row{},
		}
		if a.Result != nil {
			acct.Differences = report.Rows(*a.Result)
		}
		resp.Accounts = append(resp.Accounts, acct)
	}
	return resp
}
