package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
)

// UserContext holds the authenticated identity for a request. Role is the
// role stored on the user record; EffectiveRole is what authorization checks
// run against and differs only when an admin acts as another role.
type UserContext struct {
	UserID        uuid.UUID
	DisplayName   string
	Email         string
	Role          domain.UserRole
	EffectiveRole domain.UserRole
	TechnicianID  *uuid.UUID
	SalespersonID *uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks the effective role against a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.EffectiveRole == role
}

// HasAnyRole checks the effective role against any of the given roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.EffectiveRole == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the real (not acted-as) role is admin. Acting as
// another role never grants admin, and an admin acting as technician keeps
// the right to stop doing so.
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// CanDispatch reports whether the user can assign and schedule jobs
func (u *UserContext) CanDispatch() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleDispatcher)
}
