package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// PublicQuoteHandler serves the unauthenticated customer-facing quote
// endpoints. The access token in the URL is the only credential.
type PublicQuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewPublicQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *PublicQuoteHandler {
	return &PublicQuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// GetByToken godoc
// @Summary View quote
// @Description Customer view of a sent quote. The first view marks the
// @Description quote as viewed.
// @Tags Public
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} domain.PublicQuoteResponse
// @Failure 404 {object} domain.APIError
// @Failure 410 {object} domain.APIError "Quote expired"
// @Router /public/quote/{token} [get]
func (h *PublicQuoteHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		respondWithError(w, http.StatusNotFound, "Quote not found")
		return
	}

	quote, err := h.quoteService.GetByToken(r.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Accept godoc
// @Summary Accept quote
// @Description Customer acceptance with contact consent. Opting in to SMS
// @Description or email without confirming ownership of the number or
// @Description address is rejected.
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Param request body domain.AcceptQuoteRequest true "Consent choices"
// @Success 200 {object} domain.PublicQuoteResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Quote already resolved"
// @Failure 410 {object} domain.APIError "Quote expired"
// @Failure 422 {object} domain.APIError "Opt-in without ownership confirmation"
// @Router /public/quote/{token}/accept [post]
func (h *PublicQuoteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req domain.AcceptQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() != "EOF" {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
	}

	quote, err := h.quoteService.Accept(r.Context(), token, &req)
	if err != nil {
		h.logger.Warn("quote acceptance failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Decline godoc
// @Summary Decline quote
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Param request body domain.DeclineQuoteRequest true "Optional reason"
// @Success 200 {object} domain.PublicQuoteResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Quote already resolved"
// @Failure 410 {object} domain.APIError "Quote expired"
// @Router /public/quote/{token}/decline [post]
func (h *PublicQuoteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req domain.DeclineQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() != "EOF" {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
	}

	quote, err := h.quoteService.Decline(r.Context(), token, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}
