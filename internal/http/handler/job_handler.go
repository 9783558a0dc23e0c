package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// JobHandler handles jobs and their lifecycle transitions
type JobHandler struct {
	jobService *service.JobService
	logger     *zap.Logger
}

func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// List godoc
// @Summary List jobs
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param technicianId query string false "Filter by assigned technician"
// @Param salespersonId query string false "Filter by salesperson"
// @Param serviceType query string false "Filter by service type"
// @Param search query string false "Search customer name, phone or address"
// @Success 200 {object} domain.ListResponse[domain.JobResponse]
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	filters := &repository.JobFilters{}

	if v := r.URL.Query().Get("status"); v != "" {
		sv := domain.JobStatus(v)
		if !sv.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filters.Status = &sv
	}
	if v := r.URL.Query().Get("priority"); v != "" {
		pv := domain.JobPriority(v)
		filters.Priority = &pv
	}
	if v := r.URL.Query().Get("technicianId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.TechnicianID = &id
		}
	}
	if v := r.URL.Query().Get("salespersonId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filters.SalespersonID = &id
		}
	}
	if v := r.URL.Query().Get("serviceType"); v != "" {
		filters.ServiceType = &v
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filters.SearchQuery = &v
	}
	if v := r.URL.Query().Get("scheduledAfter"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.ScheduledAfter = &t
		}
	}
	if v := r.URL.Query().Get("scheduledBefore"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.ScheduledBefore = &t
		}
	}

	result, err := h.jobService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list jobs", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListPool godoc
// @Summary List pool jobs
// @Description Returns unassigned pending jobs available for technicians to
// @Description claim, highest priority first
// @Tags Jobs
// @Produce json
// @Success 200 {array} domain.JobResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/pool [get]
func (h *JobHandler) ListPool(w http.ResponseWriter, r *http.Request) {
	result, err := h.jobService.ListPool(r.Context())
	if err != nil {
		h.logger.Error("failed to list pool jobs", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body domain.CreateJobRequest true "Job data"
// @Success 201 {object} domain.JobResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create job", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/jobs/"+job.ID.String())
	respondJSON(w, http.StatusCreated, job)
}

// GetByID godoc
// @Summary Get job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	job, err := h.jobService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Update godoc
// @Summary Update job
// @Description Edits job details. Status changes go through the dedicated
// @Description lifecycle endpoints, terminal jobs cannot be edited.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.UpdateJobRequest true "Fields to update"
// @Success 200 {object} domain.JobResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Job is completed or cancelled"
// @Security BearerAuth
// @Router /jobs/{id} [patch]
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	var req domain.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update job", zap.Error(err), zap.String("job_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Assign godoc
// @Summary Assign job to technician
// @Description Dispatcher assignment. Fails when the technician is at their
// @Description daily job cap for the scheduled day.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.AssignJobRequest true "Technician"
// @Success 200 {object} domain.JobResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Invalid transition or cap reached"
// @Security BearerAuth
// @Router /jobs/{id}/assign [post]
func (h *JobHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	var req domain.AssignJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Assign(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to assign job", zap.Error(err), zap.String("job_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Claim godoc
// @Summary Claim pool job
// @Description Technician self-assignment from the pool. First claim wins,
// @Description concurrent claims get a conflict.
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Job already claimed"
// @Security BearerAuth
// @Router /jobs/{id}/claim [post]
func (h *JobHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	job, err := h.jobService.Claim(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to claim job", zap.Error(err), zap.String("job_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Confirm godoc
// @Summary Confirm job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobResponse
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/confirm [post]
func (h *JobHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.jobService.Confirm)
}

// EnRoute godoc
// @Summary Mark technician en route
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobResponse
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/en-route [post]
func (h *JobHandler) EnRoute(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.jobService.EnRoute)
}

// Arrive godoc
// @Summary Mark technician on site
// @Description Records the reported coordinates and verifies them against
// @Description the job location. Being outside the radius is flagged but
// @Description never blocks the transition.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.ArriveRequest false "Reported coordinates, omitted when no GPS fix is available"
// @Success 200 {object} domain.JobResponse
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/arrive [post]
func (h *JobHandler) Arrive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	// An empty body is a valid no-GPS arrival report
	var req domain.ArriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Arrive(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to mark arrival", zap.Error(err), zap.String("job_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Start godoc
// @Summary Start work
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobResponse
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/start [post]
func (h *JobHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.jobService.Start)
}

// Complete godoc
// @Summary Complete job
// @Description Records final costs and revenue, frees the technician and
// @Description calculates the sales commission when a salesperson is linked
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.CompleteJobRequest true "Costs and revenue"
// @Success 200 {object} domain.JobResponse
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/complete [post]
func (h *JobHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	var req domain.CompleteJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() != "EOF" {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Complete(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to complete job", zap.Error(err), zap.String("job_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Cancel godoc
// @Summary Cancel job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.CancelJobRequest true "Cancellation reason"
// @Success 200 {object} domain.JobResponse
// @Failure 409 {object} domain.APIError "Job already terminal"
// @Security BearerAuth
// @Router /jobs/{id}/cancel [post]
func (h *JobHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	var req domain.CancelJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Cancel(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to cancel job", zap.Error(err), zap.String("job_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// lifecycle handles the body-less transition endpoints
func (h *JobHandler) lifecycle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*domain.JobResponse, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	job, err := fn(r.Context(), id)
	if err != nil {
		h.logger.Warn("job transition failed", zap.Error(err), zap.String("job_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}
