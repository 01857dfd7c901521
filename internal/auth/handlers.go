package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/logger"
)

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	service        *Service
	tokens         *TokenIssuer
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	csrfEnabled    bool
}

// NewAuthController creates a new authentication controller. sessionManager
// may be nil for token-only deployments.
func NewAuthController(service *Service, tokens *TokenIssuer, sessionManager *SessionManager, cfg config.Auth) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:        service,
		tokens:         tokens,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		csrfEnabled:    cfg.CSRFEnabled,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/auth")
	group.POST("/signup", ac.Signup)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/me", ac.Me)
	if ac.csrfEnabled {
		group.GET("/csrf", ac.CSRFToken)
	}
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	Token     string            `json:"token"`
	Role      entities.UserRole `json:"role"`
	Username  string            `json:"username"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Signup registers an AUTHOR or USER account and signs it in.
func (ac *AuthController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	role := entities.UserRoleUser
	if req.Role != "" {
		parsed, err := entities.ParseUserRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be AUTHOR or USER"})
			return
		}
		role = parsed
	}
	if role == entities.UserRoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ADMIN accounts cannot be created through signup"})
		return
	}

	user, err := ac.service.CreateUser(req.Username, req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.FromContext(c.Request.Context()).Error().Err(err).Msg("signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}

	logger.FromContext(c.Request.Context()).Info().
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("user signed up")

	ac.respondWithToken(c, http.StatusCreated, user)
}

// Login verifies credentials and returns a bearer token. A session cookie
// is started as well for browser clients.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	clientIP := c.ClientIP()

	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Username); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidPassword) {
			logger.FromContext(c.Request.Context()).Error().Err(err).Msg("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		ac.rateLimiter.RecordFailure(clientIP, req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, req.Username)
	ac.respondWithToken(c, http.StatusOK, user)
}

func (ac *AuthController) respondWithToken(c *gin.Context, status int, user *entities.User) {
	token, expiresAt, err := ac.tokens.Issue(user)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			logger.FromContext(c.Request.Context()).Error().Err(err).Msg("session create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}

	c.JSON(status, tokenResponse{
		Token:     token,
		Role:      user.Role,
		Username:  user.Username,
		ExpiresAt: expiresAt,
	})
}

// Logout destroys the session. Bearer tokens stay valid until they expire.
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the caller's identity.
func (ac *AuthController) Me(c *gin.Context) {
	identity := GetIdentity(c)
	if identity.IsAnonymous() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not logged in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       identity.UserID,
		"username": identity.Username,
		"role":     identity.Role,
	})
}

// CSRFToken hands the token to SPA clients, which echo it in X-CSRF-Token.
func (ac *AuthController) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrfToken": GetCSRFToken(c)})
}

func isValidationError(err error) bool {
	for _, target := range []error{
		ErrUsernameRequired, ErrUsernameInvalid, ErrPasswordRequired,
		ErrPasswordTooShort, ErrPasswordTooLong, ErrEmailInvalid, ErrInvalidRole,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
