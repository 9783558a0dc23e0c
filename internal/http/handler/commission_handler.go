package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// CommissionHandler handles sales commission review and payment tracking
type CommissionHandler struct {
	commissionService *service.CommissionService
	logger            *zap.Logger
}

func NewCommissionHandler(commissionService *service.CommissionService, logger *zap.Logger) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
		logger:            logger,
	}
}

func commissionStatusFilter(r *http.Request) *domain.CommissionStatus {
	if v := r.URL.Query().Get("status"); v != "" {
		sv := domain.CommissionStatus(v)
		return &sv
	}
	return nil
}

// List godoc
// @Summary List commissions
// @Tags Commissions
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.CommissionResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /commissions [get]
func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.commissionService.List(r.Context(), commissionStatusFilter(r))
	if err != nil {
		h.logger.Error("failed to list commissions", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get commission
// @Tags Commissions
// @Produce json
// @Param id path string true "Commission ID"
// @Success 200 {object} domain.CommissionResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /commissions/{id} [get]
func (h *CommissionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commission ID: must be a valid UUID")
		return
	}

	result, err := h.commissionService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Approve godoc
// @Summary Approve commission
// @Description Moves a pending commission to approved. The amount was
// @Description locked when the job completed.
// @Tags Commissions
// @Produce json
// @Param id path string true "Commission ID"
// @Success 200 {object} domain.CommissionResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Not pending"
// @Security BearerAuth
// @Router /commissions/{id}/approve [post]
func (h *CommissionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.CommissionStatusApproved)
}

// Pay godoc
// @Summary Mark commission paid
// @Tags Commissions
// @Produce json
// @Param id path string true "Commission ID"
// @Success 200 {object} domain.CommissionResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Not approved"
// @Security BearerAuth
// @Router /commissions/{id}/pay [post]
func (h *CommissionHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.CommissionStatusPaid)
}

func (h *CommissionHandler) setStatus(w http.ResponseWriter, r *http.Request, status domain.CommissionStatus) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commission ID: must be a valid UUID")
		return
	}

	result, err := h.commissionService.SetStatus(r.Context(), id, status)
	if err != nil {
		h.logger.Warn("commission status change failed",
			zap.Error(err), zap.String("commission_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListBySalesperson godoc
// @Summary List commissions for a salesperson
// @Tags Commissions
// @Produce json
// @Param id path string true "Salesperson ID"
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.CommissionResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /salespersons/{id}/commissions [get]
func (h *CommissionHandler) ListBySalesperson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid salesperson ID: must be a valid UUID")
		return
	}

	result, err := h.commissionService.ListBySalesperson(r.Context(), id, commissionStatusFilter(r))
	if err != nil {
		h.logger.Error("failed to list salesperson commissions", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Earnings godoc
// @Summary Salesperson earnings summary
// @Description Sums commission amounts over the period, defaulting to the
// @Description current month
// @Tags Commissions
// @Produce json
// @Param id path string true "Salesperson ID"
// @Param from query string false "RFC3339 period start"
// @Param to query string false "RFC3339 period end"
// @Success 200 {object} domain.CommissionEarningsResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /salespersons/{id}/earnings [get]
func (h *CommissionHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid salesperson ID: must be a valid UUID")
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
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

	result, err := h.commissionService.EarningsSummary(r.Context(), id, from, to)
	if err != nil {
		h.logger.Error("failed to summarize earnings", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
