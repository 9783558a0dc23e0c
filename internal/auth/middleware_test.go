package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"go.uber.org/zap"
)

func newTestMiddleware(t *testing.T, actAs bool) (*auth.Middleware, *auth.TokenManager) {
	t.Helper()

	cfg := &config.AuthConfig{
		JWTSecret:    "test-signing-secret",
		Issuer:       "fieldserve-test",
		TokenTTL:     60,
		ActAsEnabled: actAs,
	}
	tokens, err := auth.NewTokenManager(cfg)
	require.NoError(t, err)
	return auth.NewMiddleware(tokens, cfg, zap.NewNop()), tokens
}

func issueFor(t *testing.T, tokens *auth.TokenManager, role domain.UserRole) string {
	t.Helper()

	user := &domain.User{
		Email:       "someone@fieldserve.dev",
		DisplayName: "Some One",
		Role:        role,
	}
	user.ID = uuid.New()
	token, _, err := tokens.IssueToken(user)
	require.NoError(t, err)
	return token
}

// capture runs the middleware chain and records the user context it produced
func capture(mw *auth.Middleware, req *http.Request) (*auth.UserContext, *httptest.ResponseRecorder) {
	var got *auth.UserContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return got, rec
}

func TestAuthenticate(t *testing.T) {
	mw, tokens := newTestMiddleware(t, false)

	t.Run("valid bearer token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, domain.RoleTechnician))

		got, rec := capture(mw, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, domain.RoleTechnician, got.Role)
		assert.Equal(t, domain.RoleTechnician, got.EffectiveRole)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		_, rec := capture(mw, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Token abc123")
		_, rec := capture(mw, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		_, rec := capture(mw, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestActAs(t *testing.T) {
	t.Run("admin can act as another role", func(t *testing.T) {
		mw, tokens := newTestMiddleware(t, true)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, domain.RoleAdmin))
		req.Header.Set(auth.ActAsHeader, string(domain.RoleTechnician))

		got, rec := capture(mw, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, domain.RoleAdmin, got.Role)
		assert.Equal(t, domain.RoleTechnician, got.EffectiveRole)
	})

	t.Run("non-admins keep their own role", func(t *testing.T) {
		mw, tokens := newTestMiddleware(t, true)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, domain.RoleDispatcher))
		req.Header.Set(auth.ActAsHeader, string(domain.RoleAdmin))

		got, rec := capture(mw, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, domain.RoleDispatcher, got.EffectiveRole)
	})

	t.Run("header is inert when the feature is off", func(t *testing.T) {
		mw, tokens := newTestMiddleware(t, false)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, domain.RoleAdmin))
		req.Header.Set(auth.ActAsHeader, string(domain.RoleTechnician))

		got, _ := capture(mw, req)
		require.NotNil(t, got)
		assert.Equal(t, domain.RoleAdmin, got.EffectiveRole)
	})
}

func TestRequireRole(t *testing.T) {
	mw, tokens := newTestMiddleware(t, true)

	run := func(t *testing.T, role domain.UserRole, actAs string, guard func(http.Handler) http.Handler) int {
		t.Helper()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/run", nil)
		req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, role))
		if actAs != "" {
			req.Header.Set(auth.ActAsHeader, actAs)
		}

		handler := mw.Authenticate(guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("matching effective role passes", func(t *testing.T) {
		code := run(t, domain.RoleDispatcher, "", mw.RequireRole(domain.RoleAdmin, domain.RoleDispatcher))
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("other roles are forbidden", func(t *testing.T) {
		code := run(t, domain.RoleSalesperson, "", mw.RequireRole(domain.RoleAdmin, domain.RoleDispatcher))
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("admin acting as technician loses dispatcher routes", func(t *testing.T) {
		code := run(t, domain.RoleAdmin, string(domain.RoleTechnician), mw.RequireRole(domain.RoleAdmin, domain.RoleDispatcher))
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("admin gate checks the real role, act-as never grants it", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, run(t, domain.RoleAdmin, string(domain.RoleTechnician), mw.RequireAdmin))
		assert.Equal(t, http.StatusForbidden, run(t, domain.RoleDispatcher, string(domain.RoleAdmin), mw.RequireAdmin))
	})
}
