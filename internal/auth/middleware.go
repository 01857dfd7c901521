package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/logger"
)

// Middleware resolves the caller identity and enforces the Policy before
// any handler runs.
type Middleware struct {
	service        *Service
	tokens         *TokenIssuer
	sessionManager *SessionManager
	policy         *Policy
}

// NewMiddleware creates a new authentication middleware. sessionManager may
// be nil, in which case only bearer tokens are accepted.
func NewMiddleware(service *Service, tokens *TokenIssuer, sessionManager *SessionManager, policy *Policy) *Middleware {
	return &Middleware{
		service:        service,
		tokens:         tokens,
		sessionManager: sessionManager,
		policy:         policy,
	}
}

func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := m.resolve(c)
		setIdentity(c, identity)

		access := m.policy.Lookup(c.Request.Method, c.FullPath(), c.Request.URL.Path)
		switch access.Level {
		case AccessAuthenticated:
			if identity.IsAnonymous() {
				abortUnauthorized(c)
				return
			}
		case AccessRoles:
			if identity.IsAnonymous() {
				abortUnauthorized(c)
				return
			}
			if !identity.HasRole(access.Roles...) {
				logger.FromContext(c.Request.Context()).Info().
					Str("username", identity.Username).
					Str("role", string(identity.Role)).
					Str("route", c.FullPath()).
					Msg("access denied")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
				return
			}
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not logged in"})
}

// resolve tries the Bearer token first (API clients), then the session
// cookie (browsers). Invalid credentials resolve to Anonymous.
func (m *Middleware) resolve(c *gin.Context) Identity {
	if user := m.tryBearerAuth(c); user != nil {
		return IdentityFromUser(user, AuthTypeBearer)
	}
	if user := m.trySessionAuth(c); user != nil {
		return IdentityFromUser(user, AuthTypeSession)
	}
	return Anonymous
}

func (m *Middleware) tryBearerAuth(c *gin.Context) *entities.User {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok || m.tokens == nil {
		return nil
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil
	}

	// Role comes from the row, so demotions apply to outstanding tokens
	user, err := m.service.GetUserByID(userID)
	if err != nil {
		return nil
	}
	return user
}

func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}

	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		return nil
	}
	return user
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
