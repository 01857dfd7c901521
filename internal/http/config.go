package http

import (
	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/database"
	"github.com/mrlokans/online-library/internal/logger"
)

const ServiceName = "online-library"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Books    BookWorkflow
	Authors  AuthorCatalog
	Subjects SubjectCatalog
	Database *database.Database
	Logger   *logger.Logger

	// Authentication. AuthController is mounted under /auth when set.
	AuthMiddleware *auth.Middleware
	AuthController *auth.AuthController
	SessionManager *auth.SessionManager
	Tokens         *auth.TokenIssuer

	// CSRF protection is enabled when CSRFSecret is set
	CSRFSecret    []byte
	SecureCookies bool

	AllowedOrigin  string
	MaxUploadBytes int64

	// Application info
	Version string
}
