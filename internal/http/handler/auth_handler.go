package handler

import (
	"encoding/json"
	"net/http"

	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler handles login and the current-user endpoint
type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Me godoc
// @Summary Current user
// @Description Returns the profile of the authenticated user, including the
// @Description effective role when acting as another role
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	user, err := h.userService.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to get current user", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	user.EffectiveRole = userCtx.EffectiveRole

	respondJSON(w, http.StatusOK, user)
}
