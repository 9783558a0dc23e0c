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

// PayrollHandler handles payroll previews, runs and statements
type PayrollHandler struct {
	payrollService *service.PayrollService
	logger         *zap.Logger
}

func NewPayrollHandler(payrollService *service.PayrollService, logger *zap.Logger) *PayrollHandler {
	return &PayrollHandler{
		payrollService: payrollService,
		logger:         logger,
	}
}

// Preview godoc
// @Summary Preview payroll
// @Description Computes a statement for one technician without persisting
// @Description anything
// @Tags Payroll
// @Produce json
// @Param technicianId query string true "Technician ID"
// @Param periodStart query string true "RFC3339 period start"
// @Param periodEnd query string true "RFC3339 period end"
// @Success 200 {object} domain.PayrollStatementResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /payroll/preview [get]
func (h *PayrollHandler) Preview(w http.ResponseWriter, r *http.Request) {
	technicianID, err := uuid.Parse(r.URL.Query().Get("technicianId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "technicianId must be a valid UUID")
		return
	}
	periodStart, err := time.Parse(time.RFC3339, r.URL.Query().Get("periodStart"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "periodStart must be an RFC3339 timestamp")
		return
	}
	periodEnd, err := time.Parse(time.RFC3339, r.URL.Query().Get("periodEnd"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "periodEnd must be an RFC3339 timestamp")
		return
	}

	statement, err := h.payrollService.Preview(r.Context(), technicianID, periodStart, periodEnd)
	if err != nil {
		h.logger.Error("failed to preview payroll", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statement)
}

// Run godoc
// @Summary Run payroll
// @Description Computes and persists statements for the period, for one
// @Description technician or all of them. Re-running a period for a
// @Description technician that already has a statement is a conflict.
// @Tags Payroll
// @Accept json
// @Produce json
// @Param request body domain.PayrollRunRequest true "Run parameters"
// @Success 201 {array} domain.PayrollStatementResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Statement already exists"
// @Security BearerAuth
// @Router /payroll/run [post]
func (h *PayrollHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req domain.PayrollRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	statements, err := h.payrollService.Run(r.Context(), &req)
	if err != nil {
		h.logger.Error("payroll run failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, statements)
}

// ListStatements godoc
// @Summary List payroll statements
// @Tags Payroll
// @Produce json
// @Param from query string false "RFC3339 lower bound on period start"
// @Param to query string false "RFC3339 upper bound on period end"
// @Success 200 {array} domain.PayrollStatementResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /payroll/statements [get]
func (h *PayrollHandler) ListStatements(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = &t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = &t
		}
	}

	statements, err := h.payrollService.List(r.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to list payroll statements", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statements)
}

// GetStatement godoc
// @Summary Get payroll statement
// @Tags Payroll
// @Produce json
// @Param id path string true "Statement ID"
// @Success 200 {object} domain.PayrollStatementResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /payroll/statements/{id} [get]
func (h *PayrollHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid statement ID: must be a valid UUID")
		return
	}

	statement, err := h.payrollService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statement)
}

// ListByTechnician godoc
// @Summary List statements for a technician
// @Tags Payroll
// @Produce json
// @Param id path string true "Technician ID"
// @Success 200 {array} domain.PayrollStatementResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /payroll/technicians/{id}/statements [get]
func (h *PayrollHandler) ListByTechnician(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid technician ID: must be a valid UUID")
		return
	}

	statements, err := h.payrollService.ListByTechnician(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list technician statements", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statements)
}
