package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// SalespersonHandler handles salesperson profile administration
type SalespersonHandler struct {
	spService *service.SalespersonService
	logger    *zap.Logger
}

func NewSalespersonHandler(spService *service.SalespersonService, logger *zap.Logger) *SalespersonHandler {
	return &SalespersonHandler{
		spService: spService,
		logger:    logger,
	}
}

// List godoc
// @Summary List salespersons
// @Tags Salespersons
// @Produce json
// @Param activeOnly query bool false "Only active salespersons"
// @Success 200 {array} domain.SalespersonResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /salespersons [get]
func (h *SalespersonHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	result, err := h.spService.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list salespersons", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create salesperson profile
// @Tags Salespersons
// @Accept json
// @Produce json
// @Param request body domain.CreateSalespersonRequest true "Salesperson data"
// @Success 201 {object} domain.SalespersonResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "User already has a profile"
// @Security BearerAuth
// @Router /salespersons [post]
func (h *SalespersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSalespersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	sp, err := h.spService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create salesperson", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/salespersons/"+sp.ID.String())
	respondJSON(w, http.StatusCreated, sp)
}

// GetByID godoc
// @Summary Get salesperson
// @Tags Salespersons
// @Produce json
// @Param id path string true "Salesperson ID"
// @Success 200 {object} domain.SalespersonResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /salespersons/{id} [get]
func (h *SalespersonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid salesperson ID: must be a valid UUID")
		return
	}

	sp, err := h.spService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sp)
}

// Update godoc
// @Summary Update salesperson
// @Description Commission rate changes apply to future calculations only,
// @Description recorded commissions keep their snapshot rate
// @Tags Salespersons
// @Accept json
// @Produce json
// @Param id path string true "Salesperson ID"
// @Param request body domain.UpdateSalespersonRequest true "Fields to update"
// @Success 200 {object} domain.SalespersonResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /salespersons/{id} [patch]
func (h *SalespersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid salesperson ID: must be a valid UUID")
		return
	}

	var req domain.UpdateSalespersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	sp, err := h.spService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update salesperson", zap.Error(err), zap.String("salesperson_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sp)
}
