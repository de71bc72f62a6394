package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/delivery/http/request"
	"github.com/varon-ai/sitecrawler/internal/delivery/http/response"
	"github.com/varon-ai/sitecrawler/internal/repository"
	"github.com/varon-ai/sitecrawler/internal/usecase"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	extractor usecase.ExtractionService
	jobs      usecase.JobManager
	checks    map[string]HealthCheck
	logger    *zap.Logger
}

func NewHandler(extractor usecase.ExtractionService, jobs usecase.JobManager, checks map[string]HealthCheck, logger *zap.Logger) *Handler {
	return &Handler{
		extractor: extractor,
		jobs:      jobs,
		checks:    checks,
		logger:    logger,
	}
}

func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	var req request.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	extraction, err := h.extractor.Extract(r.Context(), req.URL, req.PageBudget, req.Force)
	switch {
	case usecase.IsInvalidRequest(err):
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, repository.ErrBrowserLaunch):
		h.logger.Error("Browser unavailable for extraction", zap.String("url", req.URL), zap.Error(err))
		h.writeJSONError(w, "Headless browser could not be started", http.StatusBadGateway)
		return
	case err != nil:
		h.logger.Error("Extraction failed", zap.String("url", req.URL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.FromExtraction(extraction))
}

func (h *Handler) HandleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	jobID, err := h.jobs.Submit(r.Context(), req.URL, req.PageBudget)
	if err != nil {
		if usecase.IsInvalidRequest(err) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to submit extraction job", zap.String("url", req.URL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.SubmitJobResponse{
		Status:  "success",
		Message: "URL submitted for extraction",
		JobID:   jobID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeJSONError(w, "Job id is required", http.StatusBadRequest)
		return
	}

	extraction, err := h.jobs.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Job not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get job status", zap.String("job_id", id), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.FromExtraction(extraction))
}

func (h *Handler) HandleListFailedPages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	pages, err := h.extractor.RecentFailures(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list failed pages", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromFailedPages(pages))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := map[string]string{"status": "ok"}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp[name] = "unhealthy"
			resp["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp[name] = "healthy"
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
