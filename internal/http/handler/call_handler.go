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

// CallHandler handles inbound call records
type CallHandler struct {
	callService *service.CallService
	logger      *zap.Logger
}

func NewCallHandler(callService *service.CallService, logger *zap.Logger) *CallHandler {
	return &CallHandler{
		callService: callService,
		logger:      logger,
	}
}

// List godoc
// @Summary List calls
// @Tags Calls
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param outcome query string false "Filter by outcome"
// @Param from query string false "RFC3339 lower bound on occurredAt"
// @Param to query string false "RFC3339 upper bound on occurredAt"
// @Success 200 {object} domain.ListResponse[domain.CallResponse]
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /calls [get]
func (h *CallHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var outcome *domain.CallOutcome
	if v := r.URL.Query().Get("outcome"); v != "" {
		ov := domain.CallOutcome(v)
		outcome = &ov
	}
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

	result, err := h.callService.List(r.Context(), page, pageSize, outcome, from, to)
	if err != nil {
		h.logger.Error("failed to list calls", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Record call
// @Tags Calls
// @Accept json
// @Produce json
// @Param request body domain.CreateCallRequest true "Call data"
// @Success 201 {object} domain.CallResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /calls [post]
func (h *CallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	call, err := h.callService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to record call", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/calls/"+call.ID.String())
	respondJSON(w, http.StatusCreated, call)
}

// LinkLead godoc
// @Summary Link call to lead
// @Tags Calls
// @Accept json
// @Produce json
// @Param id path string true "Call ID"
// @Param leadId path string true "Lead ID"
// @Success 200 {object} domain.CallResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /calls/{id}/lead/{leadId} [put]
func (h *CallHandler) LinkLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid call ID: must be a valid UUID")
		return
	}
	leadID, err := uuid.Parse(chi.URLParam(r, "leadId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	call, err := h.callService.LinkLead(r.Context(), id, leadID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, call)
}

// ConvertToQuote godoc
// @Summary Convert call to quote
// @Description Creates a draft quote prefilled from the caller details.
// @Description An empty body uses the call record as-is.
// @Tags Calls
// @Accept json
// @Produce json
// @Param id path string true "Call ID"
// @Param request body domain.CreateQuoteRequest false "Quote overrides"
// @Success 201 {object} domain.QuoteResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Call already converted"
// @Security BearerAuth
// @Router /calls/{id}/convert-to-quote [post]
func (h *CallHandler) ConvertToQuote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid call ID: must be a valid UUID")
		return
	}

	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() != "EOF" {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
	}

	quote, err := h.callService.ConvertToQuote(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to convert call", zap.Error(err), zap.String("call_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotes/"+quote.ID.String())
	respondJSON(w, http.StatusCreated, quote)
}
