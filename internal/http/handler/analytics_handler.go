package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// AnalyticsHandler handles revenue reconciliation, marketing ROI and the
// dashboard overview
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// periodFromQuery reads from/to, defaulting to the last 30 days
func periodFromQuery(r *http.Request) (time.Time, time.Time) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	return from, to
}

// Revenue godoc
// @Summary Revenue summary
// @Description Reconciles recorded revenue events against job completion
// @Description revenue. Each completed job is counted exactly once, through
// @Description its events when it has any, otherwise through its own total.
// @Tags Analytics
// @Produce json
// @Param from query string false "RFC3339 period start, default 30 days ago"
// @Param to query string false "RFC3339 period end, default now"
// @Success 200 {object} domain.RevenueSummaryResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /analytics/revenue [get]
func (h *AnalyticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	from, to := periodFromQuery(r)

	result, err := h.analyticsService.RevenueSummary(r.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to compute revenue summary", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Marketing godoc
// @Summary Marketing ROI
// @Description Per-campaign spend, lead volume, conversions and attributed
// @Description revenue
// @Tags Analytics
// @Produce json
// @Param from query string false "RFC3339 period start, default 30 days ago"
// @Param to query string false "RFC3339 period end, default now"
// @Success 200 {array} domain.MarketingROIEntry
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /analytics/marketing [get]
func (h *AnalyticsHandler) Marketing(w http.ResponseWriter, r *http.Request) {
	from, to := periodFromQuery(r)

	result, err := h.analyticsService.MarketingROI(r.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to compute marketing roi", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Dashboard godoc
// @Summary Dashboard metrics
// @Tags Analytics
// @Produce json
// @Success 200 {object} domain.DashboardResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /dashboard/metrics [get]
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dashboard metrics", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CreateRevenueEvent godoc
// @Summary Record revenue event
// @Description Records a payment against a job. Events accumulate and take
// @Description precedence over the job's completion revenue in analytics.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body domain.CreateRevenueEventRequest true "Event data"
// @Success 201 {object} domain.RevenueEventResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Job not found"
// @Security BearerAuth
// @Router /revenue-events [post]
func (h *AnalyticsHandler) CreateRevenueEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRevenueEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	event, err := h.analyticsService.CreateRevenueEvent(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to record revenue event", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// ListRevenueEvents godoc
// @Summary List revenue events for a job
// @Tags Analytics
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {array} domain.RevenueEventResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/revenue-events [get]
func (h *AnalyticsHandler) ListRevenueEvents(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	events, err := h.analyticsService.ListRevenueEvents(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list revenue events", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, events)
}
