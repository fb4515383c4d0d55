package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentlift/agentlift/internal/domain"
	"github.com/agentlift/agentlift/internal/services/delta"
	"github.com/agentlift/agentlift/internal/storage"
	"github.com/agentlift/agentlift/pkg/httputil"
)

// maxUploadBytes caps the size of an uploaded bot export.
const maxUploadBytes = 10 << 20 // 10 MiB

// AnalysisHandler handles analysis run requests
type AnalysisHandler struct {
	service *delta.Service
	store   *storage.ExportStore
	logger  *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *delta.Service, store *storage.ExportStore, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		store:   store,
		logger:  logger,
	}
}

// AnalysisRunResponse is the API representation of an analysis run
type AnalysisRunResponse struct {
	ID          string                      `json:"id"`
	Name        string                      `json:"name"`
	BotName     string                      `json:"bot_name,omitempty"`
	Platform    string                      `json:"platform,omitempty"`
	Domain      string                      `json:"domain,omitempty"`
	Status      string                      `json:"status"`
	SourceFile  string                      `json:"source_file,omitempty"`
	ArchiveURI  string                      `json:"archive_uri,omitempty"`
	Result      *domain.DeltaAnalysisResult `json:"result,omitempty"`
	Warnings    []string                    `json:"warnings,omitempty"`
	FailReason  string                      `json:"fail_reason,omitempty"`
	CompletedAt *string                     `json:"completed_at,omitempty"`
	CreatedAt   string                      `json:"created_at"`
	UpdatedAt   string                      `json:"updated_at"`
}

func toAnalysisRunResponse(run *domain.AnalysisRun) AnalysisRunResponse {
	resp := AnalysisRunResponse{
		ID:         run.ID.String(),
		Name:       run.Name,
		BotName:    run.BotName,
		Platform:   string(run.Platform),
		Domain:     string(run.Domain),
		Status:     string(run.Status),
		SourceFile: run.SourceFile,
		ArchiveURI: run.ArchiveURI,
		Result:     run.Result,
		Warnings:   run.Warnings,
		FailReason: run.FailReason,
		CreatedAt:  run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  run.UpdatedAt.Format(time.RFC3339),
	}

	if run.CompletedAt != nil {
		s := run.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}

	return resp
}

// Create handles POST /api/v1/analyses. The bot export arrives either as a
// multipart upload ("file" part, optional "name" field) or as the raw
// request body with the filename in the X-Source-Filename header.
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, filename, raw, err := h.readUpload(r)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if len(raw) == 0 {
		httputil.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Empty upload", nil)
		return
	}

	run, err := h.service.AnalyzeUpload(r.Context(), name, filename, raw)
	if err != nil {
		// A run record exists even when the analysis failed; surface the
		// run alongside the error code so clients can inspect it.
		if run != nil {
			h.logger.Warn("analysis failed",
				zap.String("run_id", run.ID.String()),
				zap.Error(err),
			)
			httputil.JSONError(w, http.StatusUnprocessableEntity,
				domain.GetErrorCode(err), err.Error(), map[string]any{
					"run_id": run.ID.String(),
				})
			return
		}
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, toAnalysisRunResponse(run))
}

// readUpload extracts the export bytes plus display name and filename
func (h *AnalysisHandler) readUpload(r *http.Request) (name, filename string, raw []byte, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", "", nil, domain.ValidationError("file", "invalid multipart form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", nil, domain.ValidationError("file", "missing file part")
		}
		defer file.Close()

		raw, err = io.ReadAll(file)
		if err != nil {
			return "", "", nil, domain.ValidationError("file", "unreadable file part")
		}

		filename = header.Filename
		name = r.FormValue("name")
		if name == "" {
			name = filename
		}
		return name, filename, raw, nil
	}

	raw, err = io.ReadAll(r.Body)
	if err != nil {
		return "", "", nil, domain.ValidationError("body", "unreadable request body")
	}

	filename = r.Header.Get("X-Source-Filename")
	if filename == "" {
		filename = "upload.json"
	}
	name = r.URL.Query().Get("name")
	if name == "" {
		name = filename
	}
	return name, filename, raw, nil
}

// Get handles GET /api/v1/analyses/{id}
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid analysis run ID format", nil)
		return
	}

	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toAnalysisRunResponse(run))
}

// Status handles GET /api/v1/analyses/{id}/status
func (h *AnalysisHandler) Status(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid analysis run ID format", nil)
		return
	}

	status, err := h.service.GetRunStatus(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"id":     id.String(),
		"status": string(status),
	})
}

// List handles GET /api/v1/analyses
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := httputil.GetPagination(r, 20, 100)

	var (
		runs  []*domain.AnalysisRun
		total int
		err   error
	)

	if d := r.URL.Query().Get("domain"); d != "" {
		botDomain := domain.BotDomain(d)
		if !botDomain.IsValid() {
			httputil.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown business domain", map[string]any{
				"domain": d,
			})
			return
		}
		runs, total, err = h.service.ListRunsByDomain(r.Context(), botDomain, pagination.PerPage, pagination.Offset)
	} else {
		runs, total, err = h.service.ListRuns(r.Context(), pagination.PerPage, pagination.Offset)
	}
	if err != nil {
		h.logger.Error("Failed to list analysis runs", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	response := make([]AnalysisRunResponse, len(runs))
	for i, run := range runs {
		response[i] = toAnalysisRunResponse(run)
	}

	httputil.JSONWithMeta(w, http.StatusOK, response, &httputil.Meta{
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      total,
		TotalPages: httputil.CalculateTotalPages(total, pagination.PerPage),
	})
}

// Delete handles DELETE /api/v1/analyses/{id}
func (h *AnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid analysis run ID format", nil)
		return
	}

	if err := h.service.DeleteRun(r.Context(), id); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	h.logger.Info("Analysis run deleted", zap.String("run_id", id.String()))

	httputil.JSON(w, http.StatusOK, map[string]string{
		"message": "Analysis run deleted",
	})
}

// Export handles GET /api/v1/analyses/{id}/export and returns a presigned
// download link for the archived source export.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid analysis run ID format", nil)
		return
	}

	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if run.ArchiveURI == "" || h.store == nil {
		httputil.JSONError(w, http.StatusNotFound, "NOT_FOUND", "No archived export for this run", nil)
		return
	}

	key, ok := storage.ObjectKey(run.ArchiveURI)
	if !ok {
		httputil.JSONError(w, http.StatusNotFound, "NOT_FOUND", "No archived export for this run", nil)
		return
	}

	url, err := h.store.GetPresignedURL(r.Context(), key, 15*time.Minute)
	if err != nil {
		h.logger.Error("Failed to presign export URL", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"url":        url,
		"expires_in": "900s",
	})
}
