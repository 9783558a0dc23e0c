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

// TechnicianHandler handles technician profile administration
type TechnicianHandler struct {
	techService *service.TechnicianService
	logger      *zap.Logger
}

func NewTechnicianHandler(techService *service.TechnicianService, logger *zap.Logger) *TechnicianHandler {
	return &TechnicianHandler{
		techService: techService,
		logger:      logger,
	}
}

// List godoc
// @Summary List technicians
// @Tags Technicians
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.TechnicianResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /technicians [get]
func (h *TechnicianHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.TechnicianStatus
	if v := r.URL.Query().Get("status"); v != "" {
		sv := domain.TechnicianStatus(v)
		status = &sv
	}

	result, err := h.techService.List(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list technicians", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create technician profile
// @Description Attaches a technician profile (rates, classification, service
// @Description types) to an existing user account
// @Tags Technicians
// @Accept json
// @Produce json
// @Param request body domain.CreateTechnicianRequest true "Technician data"
// @Success 201 {object} domain.TechnicianResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "User already has a profile"
// @Security BearerAuth
// @Router /technicians [post]
func (h *TechnicianHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tech, err := h.techService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create technician", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/technicians/"+tech.ID.String())
	respondJSON(w, http.StatusCreated, tech)
}

// GetByID godoc
// @Summary Get technician
// @Tags Technicians
// @Produce json
// @Param id path string true "Technician ID"
// @Success 200 {object} domain.TechnicianResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /technicians/{id} [get]
func (h *TechnicianHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid technician ID: must be a valid UUID")
		return
	}

	tech, err := h.techService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tech)
}

// SetStatus godoc
// @Summary Set technician availability status
// @Description Technicians may set their own status, dispatch staff may set
// @Description anyone's
// @Tags Technicians
// @Accept json
// @Produce json
// @Param id path string true "Technician ID"
// @Param request body domain.TechnicianStatusRequest true "New status"
// @Success 200 {object} domain.TechnicianResponse
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /technicians/{id}/status [patch]
func (h *TechnicianHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid technician ID: must be a valid UUID")
		return
	}

	var req domain.TechnicianStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tech, err := h.techService.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tech)
}

// Update godoc
// @Summary Update technician
// @Tags Technicians
// @Accept json
// @Produce json
// @Param id path string true "Technician ID"
// @Param request body domain.UpdateTechnicianRequest true "Fields to update"
// @Success 200 {object} domain.TechnicianResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /technicians/{id} [patch]
func (h *TechnicianHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid technician ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tech, err := h.techService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update technician", zap.Error(err), zap.String("technician_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tech)
}
