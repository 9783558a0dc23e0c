package auth

import (
	"net/http"
	"strings"

	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"go.uber.org/zap"
)

// ActAsHeader lets admins exercise another role's view of the API.
// The header is ignored for everyone else.
const ActAsHeader = "X-Act-As-Role"

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens       *TokenManager
	actAsEnabled bool
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, cfg *config.AuthConfig, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens:       tokens,
		actAsEnabled: cfg.ActAsEnabled,
		logger:       logger,
	}
}

// Authenticate validates the Bearer token and stores the user context.
// When the act-as header is present and the caller is an admin, the
// effective role is overridden while the real role stays admin.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		userCtx, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		if actAs := r.Header.Get(ActAsHeader); actAs != "" && m.actAsEnabled {
			role := domain.UserRole(actAs)
			if userCtx.Role == domain.RoleAdmin && role.IsValid() {
				userCtx.EffectiveRole = role
				m.logger.Info("admin acting as role",
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("acting_role", string(role)),
					zap.String("path", r.URL.Path),
				)
			}
			// Non-admins keep their own role; the header is not an error.
		}

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole ensures the effective role is one of the given roles
func (m *Middleware) RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no user context", http.StatusForbidden)
				return
			}

			if !userCtx.HasAnyRole(roles...) {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin ensures the real role is admin. Act-as never grants this.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no user context", http.StatusForbidden)
			return
		}

		if !userCtx.IsAdmin() {
			http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
