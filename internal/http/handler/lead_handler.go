package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// LeadHandler handles lead intake and qualification
type LeadHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

func NewLeadHandler(leadService *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// List godoc
// @Summary List leads
// @Tags Leads
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status"
// @Param source query string false "Filter by source"
// @Param slaBreached query bool false "Only SLA-breached leads"
// @Param search query string false "Search name, phone or email"
// @Success 200 {object} domain.ListResponse[domain.LeadResponse]
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	filters := &repository.LeadFilters{}

	if v := r.URL.Query().Get("status"); v != "" {
		sv := domain.LeadStatus(v)
		filters.Status = &sv
	}
	if v := r.URL.Query().Get("source"); v != "" {
		sv := domain.LeadSource(v)
		filters.Source = &sv
	}
	if v := r.URL.Query().Get("slaBreached"); v == "true" {
		breached := true
		filters.SLABreached = &breached
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filters.SearchQuery = &v
	}
	if v := r.URL.Query().Get("createdAfter"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.CreatedAfter = &t
		}
	}
	if v := r.URL.Query().Get("createdBefore"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.CreatedBefore = &t
		}
	}

	result, err := h.leadService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create lead
// @Description Manually registers a lead. Webhook sources have their own
// @Description ingestion endpoints.
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body domain.CreateLeadRequest true "Lead data"
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create lead", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/leads/"+lead.ID.String())
	respondJSON(w, http.StatusCreated, lead)
}

// GetByID godoc
// @Summary Get lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} domain.LeadResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// Update godoc
// @Summary Update lead
// @Description Moving a lead to converted is not allowed here, use the
// @Description convert endpoint so a job is created alongside
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [patch]
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	var req domain.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update lead", zap.Error(err), zap.String("lead_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// Convert godoc
// @Summary Convert lead to job
// @Description Creates a pending job from the lead and marks the lead
// @Description converted. Converting twice returns a conflict.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.ConvertLeadRequest true "Job details"
// @Success 201 {object} domain.JobResponse
// @Failure 400 {object} domain.APIError "Lead is spam or a duplicate"
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Lead already converted"
// @Security BearerAuth
// @Router /leads/{id}/convert [post]
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	var req domain.ConvertLeadRequest
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

	job, err := h.leadService.Convert(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to convert lead", zap.Error(err), zap.String("lead_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/jobs/"+job.ID.String())
	respondJSON(w, http.StatusCreated, job)
}
