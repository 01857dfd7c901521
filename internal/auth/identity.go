package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/entities"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBearer  AuthType = "bearer"
)

// Identity is the resolved caller of a request. The zero value is anonymous.
type Identity struct {
	UserID   uint
	Username string
	Role     entities.UserRole
	AuthType AuthType
}

// Anonymous is the identity of a request without valid credentials.
var Anonymous = Identity{AuthType: AuthTypeNone}

func IdentityFromUser(user *entities.User, authType AuthType) Identity {
	return Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		AuthType: authType,
	}
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == 0
}

// HasRole reports whether the identity holds any of roles.
func (i Identity) HasRole(roles ...entities.UserRole) bool {
	if i.IsAnonymous() {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

func (i Identity) IsAdmin() bool {
	return i.HasRole(entities.UserRoleAdmin)
}

type identityContextKey struct{}

// ContextKeyIdentity is the gin context key holding the Identity.
const ContextKeyIdentity = "auth_identity"

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns Anonymous when nothing was attached.
func IdentityFromContext(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityContextKey{}).(Identity); ok {
		return identity
	}
	return Anonymous
}

// GetIdentity retrieves the identity set by the middleware.
func GetIdentity(c *gin.Context) Identity {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(Identity); ok {
			return identity
		}
	}
	return Anonymous
}

func setIdentity(c *gin.Context, identity Identity) {
	c.Set(ContextKeyIdentity, identity)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
}
