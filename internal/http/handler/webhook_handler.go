package handler

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler ingests leads from external aggregators. Each source has
// its own payload shape and authentication scheme, everything is normalized
// before it reaches the lead service.
type WebhookHandler struct {
	leadService *service.LeadService
	cfg         *config.WebhookConfig
	logger      *zap.Logger
}

func NewWebhookHandler(leadService *service.LeadService, cfg *config.WebhookConfig, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		leadService: leadService,
		cfg:         cfg,
		logger:      logger,
	}
}

// checkAPIKey enforces the X-API-Key header when a key is configured.
// Sources onboarded without credentials pass through.
func (h *WebhookHandler) checkAPIKey(w http.ResponseWriter, r *http.Request, configured string) bool {
	if configured == "" {
		return true
	}
	if subtle.ConstantTimeCompare([]byte(r.Header.Get("X-API-Key")), []byte(configured)) != 1 {
		respondWithError(w, http.StatusUnauthorized, "Invalid API key")
		return false
	}
	return true
}

func (h *WebhookHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil || len(body) == 0 {
		respondWithError(w, http.StatusBadRequest, "Empty or unreadable request body")
		return nil, false
	}
	return body, true
}

func (h *WebhookHandler) ingest(w http.ResponseWriter, r *http.Request, source domain.LeadSource, payload *service.WebhookLead) {
	lead, err := h.leadService.Ingest(r.Context(), source, payload)
	if err != nil {
		h.logger.Error("webhook ingestion failed",
			zap.String("source", string(source)), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	h.logger.Info("webhook lead ingested",
		zap.String("source", string(source)),
		zap.String("lead_id", lead.ID.String()),
		zap.String("status", string(lead.Status)))

	respondJSON(w, http.StatusCreated, lead)
}

// ELocal godoc
// @Summary eLocal lead webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /webhooks/elocal [post]
func (h *WebhookHandler) ELocal(w http.ResponseWriter, r *http.Request) {
	if !h.checkAPIKey(w, r, h.cfg.ELocalAPIKey) {
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var p struct {
		LeadID      string `json:"lead_id"`
		Name        string `json:"name"`
		Phone       string `json:"phone_number"`
		Email       string `json:"email"`
		Address     string `json:"address"`
		City        string `json:"city"`
		ZipCode     string `json:"zip_code"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	h.ingest(w, r, domain.LeadSourceELocal, &service.WebhookLead{
		Name:        p.Name,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
		City:        p.City,
		PostalCode:  p.ZipCode,
		ServiceType: p.Category,
		Description: p.Description,
		RawPayload:  string(body),
	})
}

// Networx godoc
// @Summary Networx lead webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /webhooks/networx [post]
func (h *WebhookHandler) Networx(w http.ResponseWriter, r *http.Request) {
	if !h.checkAPIKey(w, r, h.cfg.NetworxAPIKey) {
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var p struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
		Street    string `json:"street"`
		City      string `json:"city"`
		Zip       string `json:"zip"`
		TaskName  string `json:"task_name"`
		Comments  string `json:"comments"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	h.ingest(w, r, domain.LeadSourceNetworx, &service.WebhookLead{
		Name:        strings.TrimSpace(p.FirstName + " " + p.LastName),
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Street,
		City:        p.City,
		PostalCode:  p.Zip,
		ServiceType: p.TaskName,
		Description: p.Comments,
		RawPayload:  string(body),
	})
}

// Angi godoc
// @Summary Angi lead webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /webhooks/angi [post]
func (h *WebhookHandler) Angi(w http.ResponseWriter, r *http.Request) {
	if !h.checkAPIKey(w, r, h.cfg.AngiAPIKey) {
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var p struct {
		Name         string `json:"name"`
		PrimaryPhone string `json:"primaryPhone"`
		Email        string `json:"email"`
		Address      struct {
			Line1      string `json:"addressLine1"`
			City       string `json:"city"`
			PostalCode string `json:"postalCode"`
		} `json:"address"`
		TaskName string `json:"taskName"`
		Comments string `json:"comments"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	h.ingest(w, r, domain.LeadSourceAngi, &service.WebhookLead{
		Name:        p.Name,
		Phone:       p.PrimaryPhone,
		Email:       p.Email,
		Address:     p.Address.Line1,
		City:        p.Address.City,
		PostalCode:  p.Address.PostalCode,
		ServiceType: p.TaskName,
		Description: p.Comments,
		RawPayload:  string(body),
	})
}

// Thumbtack godoc
// @Summary Thumbtack lead webhook
// @Description Thumbtack authenticates with HTTP basic auth rather than an
// @Description API key header
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /webhooks/thumbtack [post]
func (h *WebhookHandler) Thumbtack(w http.ResponseWriter, r *http.Request) {
	if h.cfg.ThumbtackUser != "" {
		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(h.cfg.ThumbtackUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(h.cfg.ThumbtackPassword)) == 1
		if !ok || !userOK || !passOK {
			w.Header().Set("WWW-Authenticate", `Basic realm="webhooks"`)
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var p struct {
		Customer struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
			Email string `json:"email"`
		} `json:"customer"`
		Request struct {
			Category    string `json:"category"`
			Description string `json:"description"`
			Location    struct {
				City    string `json:"city"`
				ZipCode string `json:"zipCode"`
			} `json:"location"`
		} `json:"request"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	h.ingest(w, r, domain.LeadSourceThumbtack, &service.WebhookLead{
		Name:        p.Customer.Name,
		Phone:       p.Customer.Phone,
		Email:       p.Customer.Email,
		City:        p.Request.Location.City,
		PostalCode:  p.Request.Location.ZipCode,
		ServiceType: p.Request.Category,
		Description: p.Request.Description,
		RawPayload:  string(body),
	})
}

// Inquirly godoc
// @Summary Inquirly lead webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /webhooks/inquirly [post]
func (h *WebhookHandler) Inquirly(w http.ResponseWriter, r *http.Request) {
	if !h.checkAPIKey(w, r, h.cfg.InquirlyAPIKey) {
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var p struct {
		ContactName string `json:"contact_name"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Address     string `json:"address"`
		City        string `json:"city"`
		Zip         string `json:"zip"`
		Service     string `json:"service"`
		Message     string `json:"message"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	h.ingest(w, r, domain.LeadSourceInquirly, &service.WebhookLead{
		Name:        p.ContactName,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
		City:        p.City,
		PostalCode:  p.Zip,
		ServiceType: p.Service,
		Description: p.Message,
		RawPayload:  string(body),
	})
}

// ZapierLead godoc
// @Summary Zapier lead webhook
// @Description Catch-all used by Zapier integrations, fields follow our own
// @Description camelCase naming
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /webhooks/zapier/lead [post]
func (h *WebhookHandler) ZapierLead(w http.ResponseWriter, r *http.Request) {
	if !h.checkAPIKey(w, r, h.cfg.ZapierAPIKey) {
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var p struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Address     string `json:"address"`
		City        string `json:"city"`
		PostalCode  string `json:"postalCode"`
		ServiceType string `json:"serviceType"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	h.ingest(w, r, domain.LeadSourceZapier, &service.WebhookLead{
		Name:        p.Name,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
		City:        p.City,
		PostalCode:  p.PostalCode,
		ServiceType: p.ServiceType,
		Description: p.Description,
		RawPayload:  string(body),
	})
}
