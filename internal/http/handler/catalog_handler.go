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

// CatalogHandler handles the pricebook, campaigns and the business intake
// record
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// --- Pricebook ---

// ListPricebook godoc
// @Summary List pricebook items
// @Tags Catalog
// @Produce json
// @Param category query string false "Filter by category"
// @Param activeOnly query bool false "Only active items"
// @Success 200 {array} domain.PricebookItem
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /pricebook [get]
func (h *CatalogHandler) ListPricebook(w http.ResponseWriter, r *http.Request) {
	var category *string
	if v := r.URL.Query().Get("category"); v != "" {
		category = &v
	}
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	items, err := h.catalogService.ListPricebookItems(r.Context(), category, activeOnly)
	if err != nil {
		h.logger.Error("failed to list pricebook", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// CreatePricebookItem godoc
// @Summary Create pricebook item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.PricebookItemRequest true "Item data"
// @Success 201 {object} domain.PricebookItem
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Code already exists"
// @Security BearerAuth
// @Router /pricebook [post]
func (h *CatalogHandler) CreatePricebookItem(w http.ResponseWriter, r *http.Request) {
	var req domain.PricebookItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.catalogService.CreatePricebookItem(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create pricebook item", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// GetPricebookItem godoc
// @Summary Get pricebook item
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} domain.PricebookItem
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /pricebook/{id} [get]
func (h *CatalogHandler) GetPricebookItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	item, err := h.catalogService.GetPricebookItem(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// UpdatePricebookItem godoc
// @Summary Update pricebook item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body domain.PricebookItemRequest true "Item data"
// @Success 200 {object} domain.PricebookItem
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /pricebook/{id} [put]
func (h *CatalogHandler) UpdatePricebookItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	var req domain.PricebookItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.catalogService.UpdatePricebookItem(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update pricebook item", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// DeletePricebookItem godoc
// @Summary Delete pricebook item
// @Tags Catalog
// @Param id path string true "Item ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /pricebook/{id} [delete]
func (h *CatalogHandler) DeletePricebookItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	if err := h.catalogService.DeletePricebookItem(r.Context(), id); err != nil {
		h.logger.Error("failed to delete pricebook item", zap.Error(err), zap.String("item_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Campaigns ---

// ListCampaigns godoc
// @Summary List campaigns
// @Tags Catalog
// @Produce json
// @Param activeOnly query bool false "Only active campaigns"
// @Success 200 {array} domain.Campaign
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /campaigns [get]
func (h *CatalogHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	campaigns, err := h.catalogService.ListCampaigns(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list campaigns", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, campaigns)
}

// CreateCampaign godoc
// @Summary Create campaign
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.CampaignRequest true "Campaign data"
// @Success 201 {object} domain.Campaign
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /campaigns [post]
func (h *CatalogHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req domain.CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	campaign, err := h.catalogService.CreateCampaign(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create campaign", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, campaign)
}

// GetCampaign godoc
// @Summary Get campaign
// @Tags Catalog
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} domain.Campaign
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /campaigns/{id} [get]
func (h *CatalogHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID: must be a valid UUID")
		return
	}

	campaign, err := h.catalogService.GetCampaign(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, campaign)
}

// UpdateCampaign godoc
// @Summary Update campaign
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param request body domain.CampaignRequest true "Campaign data"
// @Success 200 {object} domain.Campaign
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /campaigns/{id} [put]
func (h *CatalogHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID: must be a valid UUID")
		return
	}

	var req domain.CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	campaign, err := h.catalogService.UpdateCampaign(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update campaign", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, campaign)
}

// DeleteCampaign godoc
// @Summary Delete campaign
// @Description Removes the campaign and its spend history
// @Tags Catalog
// @Param id path string true "Campaign ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /campaigns/{id} [delete]
func (h *CatalogHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID: must be a valid UUID")
		return
	}

	if err := h.catalogService.DeleteCampaign(r.Context(), id); err != nil {
		h.logger.Error("failed to delete campaign", zap.Error(err), zap.String("campaign_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordSpend godoc
// @Summary Record campaign spend
// @Description Upserts the spend for a campaign month. Re-posting a month
// @Description replaces the previous amount.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param request body domain.MarketingSpendRequest true "Month and amount"
// @Success 200 {object} domain.Campaign
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /campaigns/{id}/spend [put]
func (h *CatalogHandler) RecordSpend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID: must be a valid UUID")
		return
	}

	var req domain.MarketingSpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	campaign, err := h.catalogService.RecordSpend(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to record spend", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, campaign)
}

// --- Business intake ---

// GetIntake godoc
// @Summary Get business intake
// @Tags Catalog
// @Produce json
// @Success 200 {object} domain.BusinessIntake
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /intake [get]
func (h *CatalogHandler) GetIntake(w http.ResponseWriter, r *http.Request) {
	intake, err := h.catalogService.GetIntake(r.Context())
	if err != nil {
		h.logger.Error("failed to get intake", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, intake)
}

// SaveIntake godoc
// @Summary Save business intake
// @Description Creates or replaces the single business profile record that
// @Description feeds payroll and quote defaults
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.BusinessIntakeRequest true "Business profile"
// @Success 200 {object} domain.BusinessIntake
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /intake [put]
func (h *CatalogHandler) SaveIntake(w http.ResponseWriter, r *http.Request) {
	var req domain.BusinessIntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	intake, err := h.catalogService.SaveIntake(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to save intake", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, intake)
}
